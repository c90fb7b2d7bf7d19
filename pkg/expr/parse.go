package expr

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseText parses the text form of an expression, for example
//
//	bridge == "Wormhole" and chains_involved == 2
//	not (chain in ["ethereum", "base"]) or `metadata.risk-score` >= 0.8
//
// Precedence from loosest to tightest: or, and, not, comparison.
// Field paths are dotted identifiers, or any text between backticks.
func ParseText(text string) (Node, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &textParser{toks: toks}
	root, err := p.parseOr(1)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, &SyntaxError{Pos: t.pos, Reason: fmt.Sprintf("unexpected %s", t.describe())}
	}
	if err := Check(root); err != nil {
		return nil, err
	}
	return root, nil
}

// maxParseDepth bounds parser recursion; each nesting level of the text costs a few frames.
// Check enforces MaxDepth on the resulting tree.
const maxParseDepth = 4 * MaxDepth

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokOp
	tokAnd
	tokOr
	tokNot
	tokTrue
	tokFalse
	tokNull
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of expression"
	case tokString:
		return fmt.Sprintf("string %q", t.text)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

var keywords = map[string]tokenKind{
	"and":   tokAnd,
	"or":    tokOr,
	"not":   tokNot,
	"in":    tokOp,
	"true":  tokTrue,
	"false": tokFalse,
	"null":  tokNull,
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == '[':
			toks = append(toks, token{kind: tokLBracket, text: "[", pos: i})
			i++
		case c == ']':
			toks = append(toks, token{kind: tokRBracket, text: "]", pos: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		case c == '"':
			s, n, err := lexString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokString, text: s, pos: i})
			i += n
		case c == '`':
			end := strings.IndexByte(src[i+1:], '`')
			if end < 0 {
				return nil, &SyntaxError{Pos: i, Reason: "unterminated field path"}
			}
			toks = append(toks, token{kind: tokIdent, text: src[i+1 : i+1+end], pos: i})
			i += end + 2
		case c == '&' || c == '|':
			if i+1 < len(src) && src[i+1] == c {
				kind := tokAnd
				if c == '|' {
					kind = tokOr
				}
				toks = append(toks, token{kind: kind, text: src[i : i+2], pos: i})
				i += 2
				continue
			}
			return nil, &SyntaxError{Pos: i, Reason: fmt.Sprintf("unknown operator %q", string(c))}
		case strings.ContainsRune("=!<>", rune(c)):
			op, n := lexOperator(src[i:])
			if op == "!" {
				toks = append(toks, token{kind: tokNot, text: op, pos: i})
			} else if !Operator(op).valid() {
				return nil, &SyntaxError{Pos: i, Reason: fmt.Sprintf("unknown operator %q", op)}
			} else {
				toks = append(toks, token{kind: tokOp, text: op, pos: i})
			}
			i += n
		case c == '-' || (c >= '0' && c <= '9'):
			n := lexNumber(src[i:])
			if n == 0 {
				return nil, &SyntaxError{Pos: i, Reason: "malformed number"}
			}
			toks = append(toks, token{kind: tokNumber, text: src[i : i+n], pos: i})
			i += n
		case isIdentStart(rune(c)):
			n := lexIdent(src[i:])
			word := src[i : i+n]
			if strings.HasSuffix(word, ".") || strings.Contains(word, "..") {
				return nil, &SyntaxError{Pos: i, Reason: fmt.Sprintf("unterminated field path %q", word)}
			}
			kind, ok := keywords[word]
			if !ok {
				kind = tokIdent
			}
			toks = append(toks, token{kind: kind, text: word, pos: i})
			i += n
		default:
			return nil, &SyntaxError{Pos: i, Reason: fmt.Sprintf("unexpected character %q", string(c))}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

func lexString(src string, start int) (string, int, error) {
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '"':
			s, err := strconv.Unquote(src[start : i+1])
			if err != nil {
				return "", 0, &SyntaxError{Pos: start, Reason: "invalid escape in string"}
			}
			return s, i + 1 - start, nil
		}
	}
	return "", 0, &SyntaxError{Pos: start, Reason: "unterminated string"}
}

// lexOperator consumes the longest run of operator characters.
func lexOperator(src string) (string, int) {
	n := 0
	for n < len(src) && n < 2 && strings.IndexByte("=!<>", src[n]) >= 0 {
		n++
	}
	op := src[:n]
	if n == 2 && !Operator(op).valid() && Operator(op[:1]).valid() {
		// "<!" and similar: only the first character is an operator
		return op[:1], 1
	}
	return op, n
}

func lexNumber(src string) int {
	n := 0
	if n < len(src) && src[n] == '-' {
		n++
	}
	digits := 0
	for n < len(src) && (src[n] >= '0' && src[n] <= '9' || src[n] == '.') {
		n++
		digits++
	}
	if digits == 0 {
		return 0
	}
	if _, err := strconv.ParseFloat(src[:n], 64); err != nil {
		return 0
	}
	return n
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func lexIdent(src string) int {
	n := 0
	for n < len(src) {
		r := rune(src[n])
		if r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
			continue
		}
		break
	}
	return n
}

type textParser struct {
	toks []token
	pos  int
}

func (p *textParser) peek() token { return p.toks[p.pos] }

func (p *textParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *textParser) depth(d, pos int) error {
	if d > maxParseDepth {
		return &SyntaxError{Pos: pos, Reason: fmt.Sprintf("expression nested deeper than %d", MaxDepth)}
	}
	return nil
}

func (p *textParser) parseOr(d int) (Node, error) {
	return p.parseChain(d, tokOr, p.parseAnd, func(args []Node) Node { return Or{Args: args} })
}

func (p *textParser) parseAnd(d int) (Node, error) {
	return p.parseChain(d, tokAnd, p.parseUnary, func(args []Node) Node { return And{Args: args} })
}

// parseChain parses operand (sep operand)* and flattens the result into one n-ary node.
func (p *textParser) parseChain(d int, sep tokenKind, operand func(int) (Node, error), build func([]Node) Node) (Node, error) {
	if err := p.depth(d, p.peek().pos); err != nil {
		return nil, err
	}
	first, err := operand(d + 1)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != sep {
		return first, nil
	}
	args := []Node{first}
	for p.peek().kind == sep {
		p.next()
		n, err := operand(d + 1)
		if err != nil {
			return nil, err
		}
		args = append(args, n)
	}
	return build(args), nil
}

func (p *textParser) parseUnary(d int) (Node, error) {
	if err := p.depth(d, p.peek().pos); err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind == tokNot {
		p.next()
		arg, err := p.parseUnary(d + 1)
		if err != nil {
			return nil, err
		}
		return Not{Arg: arg}, nil
	}
	return p.parsePrimary(d + 1)
}

func (p *textParser) parsePrimary(d int) (Node, error) {
	t := p.peek()
	if t.kind == tokLParen {
		p.next()
		n, err := p.parseOr(d + 1)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &SyntaxError{Pos: closing.pos, Reason: fmt.Sprintf("expected ) but found %s", closing.describe())}
		}
		return n, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	opTok := p.next()
	if opTok.kind != tokOp {
		if opTok.kind == tokIdent {
			return nil, &SyntaxError{Pos: opTok.pos, Reason: fmt.Sprintf("unknown operator %q", opTok.text)}
		}
		return nil, &SyntaxError{Pos: opTok.pos, Reason: fmt.Sprintf("expected comparison operator but found %s", opTok.describe())}
	}
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return Comparison{Op: Operator(opTok.text), Left: left, Right: right}, nil
}

func (p *textParser) parseOperand() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokIdent:
		if t.text == "" {
			return nil, &SyntaxError{Pos: t.pos, Reason: "empty field path"}
		}
		return Field(t.text), nil
	case tokLBracket:
		return p.parseList(t.pos)
	}
	v, ok := scalar(t)
	if !ok {
		return nil, &SyntaxError{Pos: t.pos, Reason: fmt.Sprintf("expected field or value but found %s", t.describe())}
	}
	return Literal{Value: v}, nil
}

func (p *textParser) parseList(start int) (Node, error) {
	values := []any{}
	if p.peek().kind == tokRBracket {
		p.next()
		return Literal{Value: values}, nil
	}
	for {
		t := p.next()
		v, ok := scalar(t)
		if !ok {
			if t.kind == tokEOF {
				return nil, &SyntaxError{Pos: start, Reason: "unterminated list"}
			}
			return nil, &SyntaxError{Pos: t.pos, Reason: fmt.Sprintf("lists may only hold values, found %s", t.describe())}
		}
		values = append(values, v)

		switch sep := p.next(); sep.kind {
		case tokComma:
		case tokRBracket:
			return Literal{Value: values}, nil
		case tokEOF:
			return nil, &SyntaxError{Pos: start, Reason: "unterminated list"}
		default:
			return nil, &SyntaxError{Pos: sep.pos, Reason: fmt.Sprintf("expected , or ] but found %s", sep.describe())}
		}
	}
}

func scalar(t token) (any, bool) {
	switch t.kind {
	case tokString:
		return t.text, true
	case tokNumber:
		return json.Number(t.text), true
	case tokTrue:
		return true, true
	case tokFalse:
		return false, true
	case tokNull:
		return nil, true
	}
	return nil, false
}

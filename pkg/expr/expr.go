// Package expr implements the restricted boolean rule language used by monitor rules.
//
// An expression is a tree of Comparison, And, Or, Not, FieldRef and Literal nodes.
// It has no loops, calls or assignments, and its size is bounded by MaxDepth and
// MaxNodes, so evaluation always terminates.
//
// Equality between two strings is exact. A string is read as a decimal only when the
// other operand is a number, or when ordering with <, >, <= or >=.
package expr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// MaxDepth bounds nesting of an expression tree.
	MaxDepth = 32
	// MaxNodes bounds the total number of nodes in an expression tree.
	MaxNodes = 256
)

// Kind tags a node in its JSON form
type Kind string

const (
	KindComparison Kind = "comparison"
	KindAnd        Kind = "and"
	KindOr         Kind = "or"
	KindNot        Kind = "not"
	KindField      Kind = "field"
	KindLiteral    Kind = "literal"
)

// Operator is a comparison operator
type Operator string

const (
	OpEq  Operator = "=="
	OpNe  Operator = "!="
	OpGt  Operator = ">"
	OpLt  Operator = "<"
	OpGte Operator = ">="
	OpLte Operator = "<="
	OpIn  Operator = "in"
)

func (op Operator) valid() bool {
	switch op {
	case OpEq, OpNe, OpGt, OpLt, OpGte, OpLte, OpIn:
		return true
	}
	return false
}

// Node is one element of an expression tree.
type Node interface {
	Kind() Kind
	String() string
}

// Comparison compares two operands. Operands are FieldRef or Literal nodes.
type Comparison struct {
	Op    Operator
	Left  Node
	Right Node
}

// And is true when every argument is true.
type And struct {
	Args []Node
}

// Or is true when any argument is true.
type Or struct {
	Args []Node
}

// Not negates its argument.
type Not struct {
	Arg Node
}

// FieldRef looks up a dotted path in the evaluation context.
type FieldRef struct {
	Path []string
}

// Literal is a constant: string, number, bool, nil or a flat list of those.
// Parsed numbers are json.Number.
type Literal struct {
	Value any
}

func (Comparison) Kind() Kind { return KindComparison }
func (And) Kind() Kind        { return KindAnd }
func (Or) Kind() Kind         { return KindOr }
func (Not) Kind() Kind        { return KindNot }
func (FieldRef) Kind() Kind   { return KindField }
func (Literal) Kind() Kind    { return KindLiteral }

func (c Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

func (a And) String() string { return joinArgs(a.Args, " and ") }
func (o Or) String() string  { return joinArgs(o.Args, " or ") }

func (n Not) String() string {
	return "not (" + n.Arg.String() + ")"
}

func (f FieldRef) String() string { return strings.Join(f.Path, ".") }

func (l Literal) String() string {
	b, err := json.Marshal(l.Value)
	if err != nil {
		return fmt.Sprintf("%v", l.Value)
	}
	return string(b)
}

func joinArgs(args []Node, sep string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = "(" + a.String() + ")"
	}
	return strings.Join(parts, sep)
}

// Field builds a FieldRef from a dotted path.
func Field(path string) FieldRef {
	return FieldRef{Path: strings.Split(path, ".")}
}

// Expression wraps a root node so it can be stored and sent as JSON.
type Expression struct {
	Root Node
}

// MarshalJSON encodes the tree in its tagged JSON form.
func (e Expression) MarshalJSON() ([]byte, error) {
	if e.Root == nil {
		return []byte("null"), nil
	}
	return json.Marshal(toWire(e.Root))
}

// UnmarshalJSON accepts the tagged JSON form or a JSON string holding the text form.
func (e *Expression) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		e.Root = nil
		return nil
	}
	root, err := ParseAny(data)
	if err != nil {
		return err
	}
	e.Root = root
	return nil
}

// String renders the expression in text form.
func (e Expression) String() string {
	if e.Root == nil {
		return ""
	}
	return e.Root.String()
}

// ParseAny parses raw JSON that is either a tagged tree or a string in text form.
func ParseAny(data []byte) (Node, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return nil, &SyntaxError{Pos: -1, Reason: "invalid expression string"}
		}
		return ParseText(text)
	}
	return ParseJSON(data)
}

type wireNode struct {
	Type  Kind              `json:"type"`
	Op    Operator          `json:"op,omitempty"`
	Left  json.RawMessage   `json:"left,omitempty"`
	Right json.RawMessage   `json:"right,omitempty"`
	Args  []json.RawMessage `json:"args,omitempty"`
	Arg   json.RawMessage   `json:"arg,omitempty"`
	Path  string            `json:"path,omitempty"`
	Value json.RawMessage   `json:"value,omitempty"`
}

type wireOut struct {
	Type  Kind      `json:"type"`
	Op    Operator  `json:"op,omitempty"`
	Left  *wireOut  `json:"left,omitempty"`
	Right *wireOut  `json:"right,omitempty"`
	Args  []wireOut `json:"args,omitempty"`
	Arg   *wireOut  `json:"arg,omitempty"`
	Path  string    `json:"path,omitempty"`
	Value any       `json:"value,omitempty"`
}

func toWire(n Node) wireOut {
	switch v := n.(type) {
	case Comparison:
		l, r := toWire(v.Left), toWire(v.Right)
		return wireOut{Type: KindComparison, Op: v.Op, Left: &l, Right: &r}
	case And:
		return wireOut{Type: KindAnd, Args: wireArgs(v.Args)}
	case Or:
		return wireOut{Type: KindOr, Args: wireArgs(v.Args)}
	case Not:
		a := toWire(v.Arg)
		return wireOut{Type: KindNot, Arg: &a}
	case FieldRef:
		return wireOut{Type: KindField, Path: v.String()}
	case Literal:
		if v.Value == nil {
			// keep an explicit null so the literal survives omitempty
			return wireOut{Type: KindLiteral, Value: json.RawMessage("null")}
		}
		return wireOut{Type: KindLiteral, Value: v.Value}
	}
	return wireOut{}
}

func wireArgs(args []Node) []wireOut {
	out := make([]wireOut, len(args))
	for i, a := range args {
		out[i] = toWire(a)
	}
	return out
}

// ParseJSON parses the tagged JSON form of an expression.
func ParseJSON(data []byte) (Node, error) {
	p := &jsonParser{}
	root, err := p.parse(data, 1)
	if err != nil {
		return nil, err
	}
	if err := checkPredicate(root); err != nil {
		return nil, err
	}
	return root, nil
}

type jsonParser struct {
	nodes int
}

func (p *jsonParser) parse(data []byte, depth int) (Node, error) {
	if depth > MaxDepth {
		return nil, &SyntaxError{Pos: -1, Reason: fmt.Sprintf("expression nested deeper than %d", MaxDepth)}
	}
	p.nodes++
	if p.nodes > MaxNodes {
		return nil, &SyntaxError{Pos: -1, Reason: fmt.Sprintf("expression has more than %d nodes", MaxNodes)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &SyntaxError{Pos: -1, Reason: "missing node"}
	}

	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &SyntaxError{Pos: -1, Reason: "malformed node: " + err.Error()}
	}

	switch w.Type {
	case KindComparison:
		if !w.Op.valid() {
			return nil, &SyntaxError{Pos: -1, Reason: fmt.Sprintf("unknown operator %q", w.Op)}
		}
		left, err := p.parseOperand(w.Left, depth+1)
		if err != nil {
			return nil, err
		}
		right, err := p.parseOperand(w.Right, depth+1)
		if err != nil {
			return nil, err
		}
		return Comparison{Op: w.Op, Left: left, Right: right}, nil
	case KindAnd, KindOr:
		if len(w.Args) == 0 {
			return nil, &SyntaxError{Pos: -1, Reason: fmt.Sprintf("%s needs at least one argument", w.Type)}
		}
		args := make([]Node, len(w.Args))
		for i, raw := range w.Args {
			a, err := p.parse(raw, depth+1)
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		if w.Type == KindAnd {
			return And{Args: args}, nil
		}
		return Or{Args: args}, nil
	case KindNot:
		arg, err := p.parse(w.Arg, depth+1)
		if err != nil {
			return nil, err
		}
		return Not{Arg: arg}, nil
	case KindField:
		return parseFieldPath(w.Path)
	case KindLiteral:
		if len(w.Value) == 0 {
			return Literal{}, nil
		}
		v, err := decodeLiteral(w.Value)
		if err != nil {
			return nil, err
		}
		return Literal{Value: v}, nil
	case "":
		return nil, &SyntaxError{Pos: -1, Reason: "missing node type"}
	default:
		return nil, &SyntaxError{Pos: -1, Reason: fmt.Sprintf("unknown node type %q", w.Type)}
	}
}

func (p *jsonParser) parseOperand(data []byte, depth int) (Node, error) {
	n, err := p.parse(data, depth)
	if err != nil {
		return nil, err
	}
	if !isOperand(n) {
		return nil, &SyntaxError{Pos: -1, Reason: "comparison operands must be fields or literals"}
	}
	return n, nil
}

func parseFieldPath(path string) (FieldRef, error) {
	if strings.TrimSpace(path) == "" {
		return FieldRef{}, &SyntaxError{Pos: -1, Reason: "empty field path"}
	}
	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" {
			return FieldRef{}, &SyntaxError{Pos: -1, Reason: fmt.Sprintf("unterminated field path %q", path)}
		}
	}
	return FieldRef{Path: segments}, nil
}

// decodeLiteral decodes a literal keeping numbers as json.Number. Objects are rejected.
func decodeLiteral(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &SyntaxError{Pos: -1, Reason: "malformed literal"}
	}
	if err := checkLiteral(v, true); err != nil {
		return nil, err
	}
	return v, nil
}

func checkLiteral(v any, allowList bool) error {
	switch t := v.(type) {
	case nil, string, bool, json.Number,
		int, int32, int64, uint, uint32, uint64, float32, float64, []string:
		return nil
	case []any:
		if !allowList {
			return &SyntaxError{Pos: -1, Reason: "nested lists are not supported"}
		}
		for _, e := range t {
			if err := checkLiteral(e, false); err != nil {
				return err
			}
		}
		return nil
	}
	return &SyntaxError{Pos: -1, Reason: fmt.Sprintf("unsupported literal of type %T", v)}
}

func isOperand(n Node) bool {
	switch n.(type) {
	case FieldRef, Literal:
		return true
	}
	return false
}

// checkPredicate rejects a root that is a bare operand: an expression must produce a boolean.
func checkPredicate(n Node) error {
	if isOperand(n) {
		return &SyntaxError{Pos: -1, Reason: "expression must be a comparison or a boolean combination"}
	}
	return nil
}

// Check verifies the structure of a tree built in code: known operators,
// operand placement, depth and node limits.
func Check(n Node) error {
	if n == nil {
		return &SyntaxError{Pos: -1, Reason: "missing node"}
	}
	if err := checkPredicate(n); err != nil {
		return err
	}
	count := 0
	return check(n, 1, &count)
}

func check(n Node, depth int, count *int) error {
	if depth > MaxDepth {
		return &SyntaxError{Pos: -1, Reason: fmt.Sprintf("expression nested deeper than %d", MaxDepth)}
	}
	*count++
	if *count > MaxNodes {
		return &SyntaxError{Pos: -1, Reason: fmt.Sprintf("expression has more than %d nodes", MaxNodes)}
	}

	switch v := n.(type) {
	case Comparison:
		if !v.Op.valid() {
			return &SyntaxError{Pos: -1, Reason: fmt.Sprintf("unknown operator %q", v.Op)}
		}
		for _, operand := range []Node{v.Left, v.Right} {
			if operand == nil || !isOperand(operand) {
				return &SyntaxError{Pos: -1, Reason: "comparison operands must be fields or literals"}
			}
			if err := check(operand, depth+1, count); err != nil {
				return err
			}
		}
	case And:
		return checkArgs(KindAnd, v.Args, depth, count)
	case Or:
		return checkArgs(KindOr, v.Args, depth, count)
	case Not:
		if v.Arg == nil {
			return &SyntaxError{Pos: -1, Reason: "not needs an argument"}
		}
		return check(v.Arg, depth+1, count)
	case FieldRef:
		if len(v.Path) == 0 {
			return &SyntaxError{Pos: -1, Reason: "empty field path"}
		}
		for _, s := range v.Path {
			if s == "" {
				return &SyntaxError{Pos: -1, Reason: fmt.Sprintf("unterminated field path %q", v.String())}
			}
		}
	case Literal:
		return checkLiteral(v.Value, true)
	default:
		return &SyntaxError{Pos: -1, Reason: fmt.Sprintf("unknown node type %T", n)}
	}
	return nil
}

func checkArgs(kind Kind, args []Node, depth int, count *int) error {
	if len(args) == 0 {
		return &SyntaxError{Pos: -1, Reason: fmt.Sprintf("%s needs at least one argument", kind)}
	}
	for _, a := range args {
		if a == nil {
			return &SyntaxError{Pos: -1, Reason: "missing node"}
		}
		if err := check(a, depth+1, count); err != nil {
			return err
		}
	}
	return nil
}

// SyntaxError is a structural problem found while parsing or checking an expression.
// Pos is a byte offset into the text form, or -1 when not applicable.
type SyntaxError struct {
	Pos    int
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at position %d", e.Reason, e.Pos)
	}
	return e.Reason
}

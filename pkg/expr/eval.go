package expr

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// EvalError is returned when a tree cannot be evaluated, for example because it was
// built in code with an unknown operator. Missing fields and mismatched types are
// not errors: they make the comparison false.
type EvalError struct {
	Reason string
}

func (e *EvalError) Error() string {
	return "evaluation failed: " + e.Reason
}

// Evaluate evaluates n against ctx. It has no side effects and the same inputs
// always give the same result.
func Evaluate(n Node, ctx map[string]any) (bool, error) {
	return eval(n, ctx, 1)
}

// Validate checks the structure of n and evaluates it against an empty context.
func Validate(n Node) error {
	if err := Check(n); err != nil {
		return err
	}
	_, err := Evaluate(n, map[string]any{})
	return err
}

func eval(n Node, ctx map[string]any, depth int) (bool, error) {
	if depth > MaxDepth {
		return false, &EvalError{Reason: fmt.Sprintf("expression nested deeper than %d", MaxDepth)}
	}
	switch v := n.(type) {
	case Comparison:
		return compare(v, ctx)
	case And:
		if len(v.Args) == 0 {
			return false, &EvalError{Reason: "and needs at least one argument"}
		}
		result := true
		for _, a := range v.Args {
			ok, err := eval(a, ctx, depth+1)
			if err != nil {
				return false, err
			}
			// keep going after a false argument so structural errors always surface
			result = result && ok
		}
		return result, nil
	case Or:
		if len(v.Args) == 0 {
			return false, &EvalError{Reason: "or needs at least one argument"}
		}
		result := false
		for _, a := range v.Args {
			ok, err := eval(a, ctx, depth+1)
			if err != nil {
				return false, err
			}
			result = result || ok
		}
		return result, nil
	case Not:
		if v.Arg == nil {
			return false, &EvalError{Reason: "not needs an argument"}
		}
		ok, err := eval(v.Arg, ctx, depth+1)
		if err != nil {
			return false, err
		}
		return !ok, nil
	case FieldRef, Literal:
		return false, &EvalError{Reason: fmt.Sprintf("%s is not a boolean expression", v)}
	case nil:
		return false, &EvalError{Reason: "missing node"}
	default:
		return false, &EvalError{Reason: fmt.Sprintf("unknown node type %T", n)}
	}
}

func compare(c Comparison, ctx map[string]any) (bool, error) {
	if !c.Op.valid() {
		return false, &EvalError{Reason: fmt.Sprintf("unknown operator %q", c.Op)}
	}
	left, okLeft, err := operand(c.Left, ctx)
	if err != nil {
		return false, err
	}
	right, okRight, err := operand(c.Right, ctx)
	if err != nil {
		return false, err
	}
	if !okLeft || !okRight {
		return false, nil
	}

	switch c.Op {
	case OpEq:
		return equal(left, right), nil
	case OpNe:
		return !equal(left, right), nil
	case OpIn:
		return contains(right, left), nil
	}

	cmp, ok := order(left, right)
	if !ok {
		return false, nil
	}
	switch c.Op {
	case OpGt:
		return cmp > 0, nil
	case OpLt:
		return cmp < 0, nil
	case OpGte:
		return cmp >= 0, nil
	default:
		return cmp <= 0, nil
	}
}

// operand resolves a field or literal. The boolean is false when a field is absent.
func operand(n Node, ctx map[string]any) (any, bool, error) {
	switch v := n.(type) {
	case Literal:
		return v.Value, true, nil
	case FieldRef:
		val, ok := lookup(ctx, v.Path)
		return val, ok, nil
	case nil:
		return nil, false, &EvalError{Reason: "missing comparison operand"}
	default:
		return nil, false, &EvalError{Reason: "comparison operands must be fields or literals"}
	}
}

// lookup walks a dotted path through nested maps and lists. Numeric segments index lists.
// A nil value counts as absent.
func lookup(ctx map[string]any, path []string) (any, bool) {
	var cur any = ctx
	for _, seg := range path {
		switch m := cur.(type) {
		case map[string]any:
			v, ok := m[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case map[string]string:
			v, ok := m[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(m) {
				return nil, false
			}
			cur = m[i]
		case []string:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(m) {
				return nil, false
			}
			cur = m[i]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// equal compares two strings exactly. A numeric string equals a number of the same
// decimal value, so "1000" == 1000 but "007" != "7".
func equal(a, b any) bool {
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return as == bs
	}
	if da, ok := toDecimal(a); ok {
		if db, ok := toDecimal(b); ok {
			return da.Equal(db)
		}
	}
	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return false
}

// order compares values that both read as decimals numerically, and other string pairs
// lexically. Other pairs are unordered.
func order(a, b any) (int, bool) {
	if da, ok := toDecimal(a); ok {
		if db, ok := toDecimal(b); ok {
			return da.Cmp(db), true
		}
		return 0, false
	}
	as, okA := a.(string)
	bs, okB := b.(string)
	if okA && okB {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

// contains implements "needle in haystack" for lists, substrings and map keys.
func contains(haystack, needle any) bool {
	switch h := haystack.(type) {
	case []any:
		for _, e := range h {
			if equal(needle, e) {
				return true
			}
		}
	case []string:
		for _, e := range h {
			if equal(needle, e) {
				return true
			}
		}
	case string:
		n, ok := needle.(string)
		return ok && strings.Contains(h, n)
	case map[string]any:
		n, ok := needle.(string)
		if !ok {
			return false
		}
		_, found := h[n]
		return found
	}
	return false
}

// toDecimal converts numbers, and strings holding a decimal number, to decimal.Decimal.
// Amount fields arrive as decimal strings so that precision is never lost.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), true
	case uint32:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		if n == "" || !looksNumeric(n) {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(n)
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

// looksNumeric rejects strings decimal would accept but a person would not call a number,
// such as exponent forms in hex-looking addresses.
func looksNumeric(s string) bool {
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
		case r == '-' && i == 0:
		default:
			return false
		}
	}
	return true
}

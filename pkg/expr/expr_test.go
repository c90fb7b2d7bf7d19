package expr

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrichedContext() map[string]any {
	return map[string]any{
		"chain":            "ethereum",
		"event_type":       "bridge_transfer",
		"bridge":           "Wormhole",
		"chains_involved":  2,
		"cross_chain_hops": 1,
		"value":            "250000000000000000000000",
		"labels":           []string{"exchange", "hot_wallet"},
		"metadata": map[string]any{
			"destination_chain": "solana",
			"risk":              map[string]any{"score": 0.82},
			"logs":              []any{map[string]any{"topics": []any{"0xabc"}}},
		},
	}
}

func mustText(t *testing.T, text string) Node {
	t.Helper()
	n, err := ParseText(text)
	require.NoError(t, err, text)
	return n
}

func TestEvaluate_Text(t *testing.T) {
	ctx := enrichedContext()

	tests := []struct {
		expr string
		want bool
	}{
		{`bridge == "Wormhole" and chains_involved == 2`, true},
		{`bridge == "Wormhole" && chains_involved >= 3`, false},
		{`bridge != "Stargate"`, true},
		{`chain in ["ethereum", "base"]`, true},
		{`"hot_wallet" in labels`, true},
		{`"cold" in labels`, false},
		{`"Worm" in bridge`, true},
		{`"destination_chain" in metadata`, true},
		{`metadata.destination_chain == "solana"`, true},
		{`metadata.risk.score > 0.8`, true},
		{`metadata.logs.0.topics.0 == "0xabc"`, true},
		{`labels.1 == "hot_wallet"`, true},
		{`value > 100000000000000000000000`, true},
		{`value >= "250000000000000000000000.0"`, true},
		{`not (chain == "bsc")`, true},
		{`!(chain == "ethereum") || cross_chain_hops < 2`, true},
		{`chain == "bsc" or (bridge == "Wormhole" and not chains_involved < 2)`, true},
		{`chains_involved == "2"`, true},
		{`chain > "bsc"`, true},
		{`chain > 5`, false},
		{`bridge == true`, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(mustText(t, tt.expr), ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_MissingFieldIsFalse(t *testing.T) {
	ctx := enrichedContext()

	for _, text := range []string{
		`missing == 1`,
		`missing != 1`,
		`metadata.absent.deeper == "x"`,
		`labels.7 == "x"`,
		`labels.name == "x"`,
		`bridge.name == "x"`,
		`"x" in missing`,
		`missing > 0`,
	} {
		t.Run(text, func(t *testing.T) {
			got, err := Evaluate(mustText(t, text), ctx)
			require.NoError(t, err)
			assert.False(t, got)
		})
	}

	got, err := Evaluate(mustText(t, `not (missing == 1)`), ctx)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEvaluate_Deterministic(t *testing.T) {
	n := mustText(t, `bridge == "Wormhole" and (chains_involved == 2 or "exchange" in labels)`)
	ctx := enrichedContext()

	first, err := Evaluate(n, ctx)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Evaluate(n, ctx)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTextAndJSONAgree(t *testing.T) {
	jsonForm := `{
		"type": "and",
		"args": [
			{"type": "comparison", "op": "==", "left": {"type": "field", "path": "bridge"}, "right": {"type": "literal", "value": "Wormhole"}},
			{"type": "comparison", "op": "==", "left": {"type": "field", "path": "chains_involved"}, "right": {"type": "literal", "value": 2}}
		]
	}`
	fromJSON, err := ParseJSON([]byte(jsonForm))
	require.NoError(t, err)
	fromText := mustText(t, `bridge == "Wormhole" and chains_involved == 2`)

	assert.Equal(t, fromJSON, fromText)

	for _, ctx := range []map[string]any{enrichedContext(), {}, {"bridge": "Wormhole", "chains_involved": 1}} {
		a, errA := Evaluate(fromJSON, ctx)
		b, errB := Evaluate(fromText, ctx)
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, a, b)
	}
}

func TestExpression_JSONRoundTrip(t *testing.T) {
	var e Expression
	require.NoError(t, json.Unmarshal([]byte(`"chain in [\"ethereum\", null, 1.5] or not (bridge == \"x\")"`), &e))

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var back Expression
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, e.Root, back.Root)
	assert.Contains(t, string(data), `"type":"or"`)
}

func TestParseText_Errors(t *testing.T) {
	tests := []struct {
		text   string
		reason string
	}{
		{`bridge = "Wormhole"`, "unknown operator"},
		{`bridge =~ "Worm"`, "unknown operator"},
		{`bridge like "Worm"`, "unknown operator"},
		{`bridge & chain`, "unknown operator"},
		{"`metadata.bridge == 1", "unterminated field path"},
		{`metadata. == 1`, "unterminated field path"},
		{`metadata..bridge == 1`, "unterminated field path"},
		{`bridge == "Wormhole`, "unterminated string"},
		{`chain in ["a", "b"`, "unterminated list"},
		{`(bridge == "x"`, "expected )"},
		{`bridge == "x" extra`, "unexpected"},
		{`bridge`, "expected comparison operator"},
		{`"just a string"`, "expected comparison operator"},
		{`bridge == `, "expected field or value"},
		{`chain in [labels]`, "lists may only hold values"},
		{`amount > 1.2.3`, "malformed number"},
		{`bridge == "x" # comment`, "unexpected character"},
		{``, "expected field or value"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := ParseText(tt.text)
			require.Error(t, err)
			var syn *SyntaxError
			require.ErrorAs(t, err, &syn)
			assert.Contains(t, syn.Reason, tt.reason)
		})
	}
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		json   string
		reason string
	}{
		{`{"type":"comparison","op":"~","left":{"type":"field","path":"a"},"right":{"type":"literal","value":1}}`, "unknown operator"},
		{`{"type":"xor","args":[]}`, "unknown node type"},
		{`{"type":"and","args":[]}`, "at least one argument"},
		{`{"type":"not"}`, "missing node"},
		{`{"type":"comparison","op":"==","left":{"type":"field","path":"a."},"right":{"type":"literal","value":1}}`, "unterminated field path"},
		{`{"type":"comparison","op":"==","left":{"type":"and","args":[]},"right":{"type":"literal","value":1}}`, "at least one argument"},
		{`{"type":"comparison","op":"==","left":{"type":"not","arg":{"type":"literal"}},"right":{"type":"literal","value":1}}`, "fields or literals"},
		{`{"type":"comparison","op":"==","left":{"type":"field","path":"a"},"right":{"type":"literal","value":{"k":1}}}`, "unsupported literal"},
		{`{"type":"field","path":"a"}`, "must be a comparison"},
		{`{"op":"=="}`, "missing node type"},
		{`[1,2]`, "malformed node"},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.json))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestLimits(t *testing.T) {
	t.Run("depth", func(t *testing.T) {
		text := strings.Repeat("not ", MaxDepth+1) + `a == 1`
		_, err := ParseText(text)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nested deeper")
	})

	t.Run("nodes", func(t *testing.T) {
		parts := make([]string, MaxNodes/3+1)
		for i := range parts {
			parts[i] = "a == 1"
		}
		_, err := ParseText(strings.Join(parts, " or "))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "more than")
	})

	t.Run("within limits", func(t *testing.T) {
		_, err := ParseText(strings.Repeat("not ", MaxDepth-3) + `a == 1`)
		require.NoError(t, err)
	})
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(mustText(t, `bridge == "Wormhole" and chains_involved == 2`)))

	err := Validate(Comparison{Op: "===", Left: Field("a"), Right: Literal{Value: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operator")

	err = Validate(And{})
	require.Error(t, err)

	err = Validate(Comparison{Op: OpEq, Left: Field("a"), Right: And{Args: []Node{Literal{Value: true}}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fields or literals")

	err = Validate(nil)
	require.Error(t, err)
}

func TestEvaluate_StructuralErrorsInCodeBuiltTrees(t *testing.T) {
	_, err := Evaluate(Comparison{Op: "~", Left: Field("a"), Right: Literal{Value: 1}}, map[string]any{"a": 1})
	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Contains(t, evalErr.Reason, "unknown operator")

	// a false earlier argument does not hide a broken later one
	_, err = Evaluate(And{Args: []Node{
		Comparison{Op: OpEq, Left: Field("a"), Right: Literal{Value: 2}},
		Comparison{Op: "~", Left: Field("a"), Right: Literal{Value: 1}},
	}}, map[string]any{"a": 1})
	require.Error(t, err)
}

func TestEvaluate_StringEqualityIsExact(t *testing.T) {
	ctx := map[string]any{
		"entity_id": "7",
		"nonce":     "0x10",
		"value":     "2500",
		"hops":      2,
	}

	tests := []struct {
		expr string
		want bool
	}{
		{`entity_id == "007"`, false},
		{`entity_id != "7.0"`, true},
		{`entity_id == "7"`, true},
		{`nonce == "16"`, false},
		{`value == 2500`, true},
		{`value == 2500.0`, true},
		{`hops == "2"`, true},
		{`value > "300"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(mustText(t, tt.expr), ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package bridge

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	transferTopic = TopicHash("Transfer(address,address,uint256)")
	sender        = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	receiver      = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func addressTopic(a common.Address) string {
	return common.BytesToHash(a.Bytes()).Hex()
}

func uintWord(v int64) []byte {
	return common.LeftPadBytes(big.NewInt(v).Bytes(), 32)
}

func words(vals ...[]byte) string {
	var out []byte
	for _, v := range vals {
		out = append(out, v...)
	}
	return hexutil.Encode(out)
}

func TestDecodeBridgeLog_ERC20Transfer(t *testing.T) {
	dec := NewDecoder(NewTopicTable(), nil)
	token := "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"

	got := dec.DecodeBridgeLog("ethereum", token, RawLog{
		Topics: []string{transferTopic, addressTopic(sender), addressTopic(receiver)},
		Data:   words(uintWord(1_000_000)),
	})

	assert.Equal(t, "Transfer", got.EventName)
	assert.GreaterOrEqual(t, got.Confidence, 0.95)
	assert.Equal(t, strings.ToLower(sender.Hex()), got.Sender)
	assert.Equal(t, strings.ToLower(receiver.Hex()), got.Receiver)
	assert.Equal(t, "1000000", got.Amount)
	assert.Equal(t, strings.ToLower(token), got.Token)
	assert.True(t, got.Verified())
}

func TestDecodeBridgeLog_TransferTakesLastTwentyBytes(t *testing.T) {
	dec := NewDecoder(NewTopicTable(), nil)
	// dirty padding must be ignored: only the last 20 bytes are the address
	dirty := "0xffffffffffffffffffffffff" + strings.TrimPrefix(strings.ToLower(receiver.Hex()), "0x")

	got := dec.DecodeBridgeLog("ethereum", "0x01", RawLog{
		Topics: []string{transferTopic, addressTopic(sender), dirty},
		Data:   words(uintWord(5)),
	})

	assert.Equal(t, strings.ToLower(receiver.Hex()), got.Receiver)
	assert.GreaterOrEqual(t, got.Confidence, 0.95)
}

func TestDecodeBridgeLog_EventSpec(t *testing.T) {
	customTopic := TopicHash("BridgeOut(address,uint256,address)")
	specs := map[string]EventSpec{
		customTopic: {Name: "BridgeOut", SenderIndex: index(1), ReceiverIndex: index(2), AmountWordIndex: index(1), TokenIsContract: true},
	}
	dec := NewDecoder(NewTopicTable(), specs)

	got := dec.DecodeBridgeLog("ethereum", "0xBridge", RawLog{
		Topics: []string{customTopic, addressTopic(sender), addressTopic(receiver)},
		Data:   words(uintWord(7), uintWord(42)),
	})

	assert.Equal(t, "BridgeOut", got.EventName)
	assert.Equal(t, 0.85, got.Confidence)
	assert.Equal(t, strings.ToLower(sender.Hex()), got.Sender)
	assert.Equal(t, strings.ToLower(receiver.Hex()), got.Receiver)
	assert.Equal(t, "42", got.Amount)
	assert.Equal(t, "0xbridge", got.Token)
}

func TestDecodeBridgeLog_BuiltinSpec(t *testing.T) {
	dec := NewDecoder(NewTopicTable(), nil)

	got := dec.DecodeBridgeLog("ethereum", "0x01", RawLog{
		Topics: []string{TopicHash("ETHDepositInitiated(address,address,uint256,bytes)"), addressTopic(sender), addressTopic(receiver)},
		Data:   words(uintWord(3), uintWord(64), uintWord(0)),
	})

	assert.Equal(t, "ETHDepositInitiated", got.EventName)
	assert.Equal(t, "3", got.Amount)
	assert.Equal(t, 0.85, got.Confidence)
}

func TestDecodeBridgeLog_GenericFallback(t *testing.T) {
	dec := NewDecoder(NewTopicTable(), nil)
	unknown := TopicHash("Mystery(address,uint256)")

	t.Run("sender and single word amount", func(t *testing.T) {
		got := dec.DecodeBridgeLog("ethereum", "0xC0ffee", RawLog{
			Topics: []string{unknown, addressTopic(sender)},
			Data:   words(uintWord(99)),
		})
		assert.Equal(t, strings.ToLower(sender.Hex()), got.Sender)
		assert.Equal(t, "99", got.Amount)
		assert.Equal(t, 0.6, got.Confidence)
		assert.Equal(t, "0xc0ffee", got.Token)
		assert.Empty(t, got.EventName)
	})

	t.Run("three words leave amount empty", func(t *testing.T) {
		got := dec.DecodeBridgeLog("ethereum", "0xC0ffee", RawLog{
			Topics: []string{unknown, addressTopic(sender)},
			Data:   words(uintWord(1), uintWord(2), uintWord(3)),
		})
		assert.Empty(t, got.Amount)
		assert.Equal(t, 0.5, got.Confidence)
	})

	t.Run("transfer with too few topics falls back", func(t *testing.T) {
		got := dec.DecodeBridgeLog("ethereum", "0x01", RawLog{
			Topics: []string{transferTopic, addressTopic(sender)},
			Data:   words(uintWord(10)),
		})
		assert.Less(t, got.Confidence, 0.95)
		assert.Equal(t, "10", got.Amount)
	})
}

func TestDecodeBridgeLog_MalformedInputNeverFails(t *testing.T) {
	dec := NewDecoder(NewTopicTable(), nil)

	tests := []RawLog{
		{},
		{Topics: []string{"zz"}, Data: "0xnothex"},
		{Topics: []string{transferTopic, "0x1234", "0x5678"}, Data: "0x123"},
		{Topics: []string{transferTopic}, Data: ""},
	}
	for _, l := range tests {
		got := dec.DecodeBridgeLog("ethereum", "", l)
		assert.Less(t, got.Confidence, ConfidenceUnverified)
		assert.Empty(t, got.Sender)
		assert.False(t, got.Verified())
	}
}

func TestLoadEventSpecs_EnvironmentWins(t *testing.T) {
	topic := TopicHash("BridgeOut(address,uint256,address)")
	path := filepath.Join(t.TempDir(), "specs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"`+topic+`": {"name": "FromFile", "sender_index": 1}}`), 0o600))

	specs, err := LoadEventSpecs(path, `{"`+strings.ToUpper(topic[2:])+`": {"name": "FromEnv", "receiver_index": 2}}`)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "FromEnv", specs[strings.ToLower(topic)].Name)

	_, err = LoadEventSpecs("", "{not json")
	require.Error(t, err)

	_, err = LoadEventSpecs(filepath.Join(t.TempDir(), "absent.json"), "")
	require.Error(t, err)
}

func TestTopicTable_Overrides(t *testing.T) {
	table := NewTopicTable()
	custom := TopicHash("Custom(uint256)")
	logMessage := TopicHash("LogMessagePublished(address,uint64,uint32,bytes,uint8)")

	assert.True(t, table.IsBridgeEvent(logMessage))
	assert.False(t, table.IsBridgeEvent(transferTopic))
	assert.Equal(t, "Transfer", table.Name(strings.ToUpper(transferTopic[2:])))

	path := filepath.Join(t.TempDir(), "topics.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"`+custom+`": {"name": "FileName", "bridge": "Acme", "bridge_event": true},
		"`+logMessage+`": "Renamed"
	}`), 0o600))

	require.NoError(t, table.LoadOverrides(path, `{"`+custom+`": "EnvName"}`))

	info, ok := table.Lookup(custom)
	require.True(t, ok)
	assert.Equal(t, "EnvName", info.Name)
	assert.Equal(t, "Acme", info.Bridge)
	assert.True(t, info.BridgeEvent)

	renamed, _ := table.Lookup(logMessage)
	assert.Equal(t, "Renamed", renamed.Name)
	assert.True(t, renamed.BridgeEvent)

	require.Error(t, table.LoadOverrides("", `[1,2]`))
}

package binout

import (
	"testing"

	"github.com/toolc/toolc/pkg/config"
	"github.com/toolc/toolc/pkg/util/assert"
)

func TestRoundTripValuesAndEntries(t *testing.T) {
	cfg := &config.BinaryConfig{
		Name: "sword",
		Properties: []*config.Property{
			{Opcode: 1, Empty: true},
			{Opcode: 2, Values: []config.Value{config.IntValue(7), config.StringValueOf("hi")}},
			{Opcode: 3, Entries: []config.Entry{
				{Key: config.IntValue(1), Val: config.LongValue(200)},
				{Key: config.IntValue(2), Val: config.LongValue(300)},
			}},
		},
	}

	data := Write(cfg)

	got, err := Read("sword", data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	assert.Equal(t, len(cfg.Properties), len(got.Properties))

	assert.True(t, got.Properties[0].Empty)
	assert.Equal(t, 1, got.Properties[0].Opcode)

	assert.Equal(t, 2, len(got.Properties[1].Values))
	assert.Equal(t, int32(7), got.Properties[1].Values[0].Int)
	assert.Equal(t, "hi", got.Properties[1].Values[1].String)

	assert.Equal(t, 2, len(got.Properties[2].Entries))
	assert.Equal(t, int64(200), got.Properties[2].Entries[0].Val.Long)
	assert.Equal(t, int64(300), got.Properties[2].Entries[1].Val.Long)
}

// A config with no properties at all (every property suppressed by an
// EMIT_EMPTY_IF_* rule) writes just the terminator byte.
func TestEmptyConfigIsHeaderAndTerminatorOnly(t *testing.T) {
	cfg := &config.BinaryConfig{Name: "empty"}

	data := Write(cfg)

	assert.Equal(t, 1, len(data))
	assert.Equal(t, byte(0x00), data[0])

	got, err := Read("empty", data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	assert.Equal(t, 0, len(got.Properties))
}

func TestReadTruncatedStreamErrors(t *testing.T) {
	_, err := Read("bad", []byte{1})
	if err == nil {
		t.Fatalf("expected an error reading a truncated stream")
	}
}

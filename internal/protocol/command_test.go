package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The field names and tag strings are the interoperability contract;
// this test pins them.
func TestEncode_WireFieldNames(t *testing.T) {
	t.Parallel()

	data, err := Encode(&Command{
		Command:       TagCall,
		ClientID:      "abc",
		Players:       []string{"a", "b"},
		Number:        42,
		CalledNumbers: []int{7, 42},
		Claimer:       "c",
		GameCard:      []int{1, 2, 3},
	})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{"command", "clientID", "players", "number", "calledNumbers", "claimer", "gamecard"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "call", raw["command"])
}

func TestEncode_OmitsEmptyPayloadFields(t *testing.T) {
	t.Parallel()

	data, err := Encode(&Command{Command: TagHostIdentify})
	require.NoError(t, err)
	assert.JSONEq(t, `{"command":"hostidentify"}`, string(data))
}

func TestDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	cmd, err := Decode([]byte(`{"command":"joined","clientID":"xyz"}`))
	require.NoError(t, err)
	assert.Equal(t, TagJoined, cmd.Command)
	assert.Equal(t, "xyz", cmd.ClientID)
}

func TestDecode_UnknownTagStillDecodes(t *testing.T) {
	t.Parallel()

	// Unknown commands are the dispatcher's problem, not the codec's.
	cmd, err := Decode([]byte(`{"command":"gibberish","clientID":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, Tag("gibberish"), cmd.Command)
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte(`{not json`))
	assert.Error(t, err)
}

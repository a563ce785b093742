package protocol

import "encoding/json"

// Tag identifies a broadcast command.
type Tag string

// Election and roster commands. Any peer may send these.
const (
	TagHostIdentify Tag = "hostidentify" // who is the host?
	TagIAmHost      Tag = "iamhost"      // host announcement, carries the host's id
	TagJoin         Tag = "join"         // join request, carries the joiner's id
	TagJoined       Tag = "joined"       // host acknowledgment addressed to one peer
	TagHold         Tag = "hold"         // host tells a joiner to retry later
	TagLeave        Tag = "leave"        // best-effort departure notice
	TagPlayers      Tag = "players"      // authoritative roster rebroadcast
)

// Game lifecycle commands. Host-originated by convention; the bus cannot
// verify the sender's role (trust gap, see DESIGN.md).
const (
	TagStart        Tag = "start"        // game begins
	TagReset        Tag = "reset"        // back to the joining lobby
	TagCall         Tag = "call"         // one drawn number plus the full history
	TagClaim        Tag = "claim"        // a peer claims a win, carries its card
	TagClaimMade    Tag = "claimmade"    // host acknowledges a claim is being checked
	TagClaimValid   Tag = "claimvalid"   // claim verified, game over
	TagClaimInvalid Tag = "claiminvalid" // claim rejected, claimer disqualified
)

// Command is the fixed wire shape shared by every peer in a room. Field
// names and tag strings are the interoperability contract and must not
// change. All payload fields are flat; unused fields are omitted.
type Command struct {
	Command       Tag      `json:"command"`
	ClientID      string   `json:"clientID,omitempty"`
	Players       []string `json:"players,omitempty"`
	Number        int      `json:"number,omitempty"`
	CalledNumbers []int    `json:"calledNumbers,omitempty"`
	Claimer       string   `json:"claimer,omitempty"`
	GameCard      []int    `json:"gamecard,omitempty"`
}

// Encode serializes a command for the wire.
func Encode(cmd *Command) ([]byte, error) {
	return json.Marshal(cmd)
}

// Decode parses a wire message. Unknown tags decode fine; the dispatcher
// is responsible for dropping them.
func Decode(data []byte) (*Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil, err
	}
	return &cmd, nil
}

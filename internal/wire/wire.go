// Package wire defines the realtime channel protocol: the JSON event
// envelope and one explicit payload type per event. Both the server and
// any client speak exactly these shapes; required fields are validated
// before any state is mutated.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/keydash/keydash/internal/race"
)

// Client → server events.
const (
	EventCreateSession  = "createSession"
	EventJoinSession    = "joinSession"
	EventStartSession   = "startSession"
	EventUpdateProgress = "updateProgress"
	EventSubmitResult   = "submitResult"
)

// Server → client events. Room-scoped unless noted.
const (
	EventSessionCreated      = "sessionCreated"      // caller only
	EventParticipantsUpdated = "participantsUpdated" // room
	EventSessionStarted      = "sessionStarted"      // room
	EventProgressUpdated     = "progressUpdated"     // room
	EventResultsUpdated      = "resultsUpdated"      // room
	EventLeaderboardUpdated  = "leaderboardUpdated"  // global
	EventParticipantCount    = "participantCountUpdated"
	EventAverageSpeed        = "averageSpeedUpdated"
	EventJoinError           = "joinError" // caller only
	EventError               = "error"     // caller only
)

// Event is the envelope every channel message travels in.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode marshals a named event with its payload.
func Encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", event, err)
	}
	return json.Marshal(Event{Event: event, Data: raw})
}

// MustEncode is Encode for payloads that cannot fail to marshal.
func MustEncode(event string, data any) []byte {
	b, err := Encode(event, data)
	if err != nil {
		panic(err)
	}
	return b
}

type CreateSession struct {
	PlayerID string       `json:"participantId"`
	Name     string       `json:"name"`
	Avatar   string       `json:"avatar"`
	Profile  race.Profile `json:"profile"`
}

type JoinSession struct {
	SessionID string       `json:"sessionId"`
	PlayerID  string       `json:"participantId"`
	Name      string       `json:"name"`
	Avatar    string       `json:"avatar"`
	Profile   race.Profile `json:"profile"`
}

type StartSession struct {
	SessionID string   `json:"sessionId"`
	Words     []string `json:"referenceText"`
}

type UpdateProgress struct {
	SessionID string  `json:"sessionId"`
	PlayerID  string  `json:"participantId"`
	Percent   float64 `json:"percent"`
}

type SubmitResult struct {
	SessionID string      `json:"sessionId"`
	Result    race.Result `json:"result"`
}

type SessionCreated struct {
	SessionID string `json:"id"`
}

type ParticipantsUpdated struct {
	SessionID string             `json:"sessionId"`
	Players   []race.Participant `json:"roster"`
}

type SessionStarted struct {
	Words []string `json:"referenceText"`
}

type ProgressUpdated struct {
	Progress map[string]float64 `json:"table"`
}

type ResultsUpdated struct {
	Results []race.Result `json:"list"`
}

type LeaderboardUpdated struct {
	Players []race.LeaderboardEntry `json:"topN"`
}

type ParticipantCountUpdated struct {
	Count int `json:"n"`
}

type AverageSpeedUpdated struct {
	Average float64 `json:"value"`
}

type ErrorPayload struct {
	Reason string `json:"reason"`
}

// Package race defines the core domain types and rules for a typing
// race. It has zero external dependencies — everything here is pure Go.
package race

import "errors"

// Capacity is the maximum number of participants in one session.
const Capacity = 4

// MinPlayers is the minimum roster size required to start a race.
const MinPlayers = 2

var (
	ErrNotFound             = errors.New("session not found")
	ErrFull                 = errors.New("session is full")
	ErrAlreadyStarted       = errors.New("session already started")
	ErrDuplicateParticipant = errors.New("participant already in session")
	ErrMissingParameters    = errors.New("missing required parameters")
)

// Profile carries the optional attributes collected at join time.
type Profile struct {
	University    string `json:"university,omitempty"`
	Role          string `json:"role,omitempty"`
	SchoolStudent bool   `json:"schoolStudent,omitempty"`
}

// Participant is one racer. Created at join time, immutable after.
type Participant struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Avatar  string  `json:"avatar"`
	Profile Profile `json:"profile"`
}

// Result holds a participant's final figures, computed once when their
// local timer expires.
type Result struct {
	PlayerID   string  `json:"id"`
	PlayerName string  `json:"playerName"`
	RawWPM     int     `json:"rawWPM"`
	WPM        int     `json:"correctWPM"`
	Accuracy   float64 `json:"accuracy"`
}

// LeaderboardEntry is one row of the persisted global leaderboard,
// joined with the player's profile.
type LeaderboardEntry struct {
	PlayerID   string  `json:"id"`
	Name       string  `json:"name"`
	Avatar     string  `json:"avatar"`
	University string  `json:"university,omitempty"`
	Role       string  `json:"role,omitempty"`
	WPM        int     `json:"wpm"`
	Accuracy   float64 `json:"accuracy"`
	CreatedAt  string  `json:"createdAt"`
}

// State is the session lifecycle.
type State string

const (
	StateWaiting    State = "waiting"
	StateInProgress State = "in_progress"
	StateFinalized  State = "finalized"
)

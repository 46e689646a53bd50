package race

import "sort"

// Session is one race instance: a fixed roster, the reference text and
// the live progress and result tables. All mutation goes through the
// methods below; the registry serializes calls, so Session itself does
// no locking.
type Session struct {
	ID       string
	Players  []Participant
	Words    []string
	State    State
	Progress map[string]float64
	Results  map[string]Result

	// resultOrder preserves submission order for the partial-standings
	// broadcast; Results alone would lose it.
	resultOrder []string
}

// NewSession creates a session in Waiting state with host as the only
// roster entry.
func NewSession(id string, host Participant) *Session {
	return &Session{
		ID:       id,
		Players:  []Participant{host},
		State:    StateWaiting,
		Progress: make(map[string]float64),
		Results:  make(map[string]Result),
	}
}

// Join appends p to the roster. Roster order is join order.
func (s *Session) Join(p Participant) error {
	if s.State != StateWaiting {
		return ErrAlreadyStarted
	}
	if len(s.Players) >= Capacity {
		return ErrFull
	}
	for _, existing := range s.Players {
		if existing.ID == p.ID {
			return ErrDuplicateParticipant
		}
	}
	s.Players = append(s.Players, p)
	return nil
}

// Start stores the reference text and moves the session to InProgress.
// It reports false, without mutating anything, when the roster is too
// small or the race is already underway.
func (s *Session) Start(words []string) bool {
	if s.State != StateWaiting || len(s.Players) < MinPlayers {
		return false
	}
	s.Words = words
	s.State = StateInProgress
	return true
}

// SetProgress upserts the live percent for a participant. Last write
// wins; no monotonicity is enforced.
func (s *Session) SetProgress(participantID string, percent float64) {
	s.Progress[participantID] = percent
}

// AddResult records a participant's final result. Duplicate submissions
// for the same participant are ignored (first wins), so the complete
// condition below stays an exact equality. The returned complete flag
// is true exactly when every roster member has submitted.
func (s *Session) AddResult(r Result) (complete bool) {
	if _, ok := s.Results[r.PlayerID]; !ok {
		s.Results[r.PlayerID] = r
		s.resultOrder = append(s.resultOrder, r.PlayerID)
	}
	return len(s.Results) == len(s.Players)
}

// ResultList returns the submitted results in submission order.
func (s *Session) ResultList() []Result {
	out := make([]Result, 0, len(s.resultOrder))
	for _, id := range s.resultOrder {
		out = append(out, s.Results[id])
	}
	return out
}

// Rankings returns the submitted results ordered for display: correct
// speed descending, ties broken by accuracy descending.
func (s *Session) Rankings() []Result {
	out := s.ResultList()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WPM != out[j].WPM {
			return out[i].WPM > out[j].WPM
		}
		return out[i].Accuracy > out[j].Accuracy
	})
	return out
}

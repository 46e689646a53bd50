package server

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/keydash/keydash/internal/race"
	"github.com/keydash/keydash/internal/wire"
)

const sessionIDLen = 6

// Registry owns every active race session. All mutation of a session —
// admission, start, progress, results, finalization — happens under the
// registry lock and completes its broadcast before the next event is
// handled, so sessions never observe interleaved updates.
type Registry struct {
	logger *slog.Logger
	store  LeaderboardStore
	broker *Broker
	topN   int

	mu       sync.Mutex
	sessions map[string]*race.Session
}

func NewRegistry(logger *slog.Logger, store LeaderboardStore, broker *Broker, topN int) *Registry {
	return &Registry{
		logger:   logger,
		store:    store,
		broker:   broker,
		topN:     topN,
		sessions: make(map[string]*race.Session),
	}
}

// Create allocates a fresh session with host as its only member and
// subscribes the host's connection to the session room. The identifier
// is returned to the creator alone.
func (reg *Registry) Create(host race.Participant, ch chan []byte) string {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	id := reg.newSessionID()
	reg.sessions[id] = race.NewSession(id, host)
	reg.broker.JoinRoom(id, ch)

	reg.logger.Info("session created", "session", id, "host", host.ID)
	return id
}

// Join admits a participant into an existing session and broadcasts the
// updated roster to the room, joiner included. Admission errors are
// returned to the caller and never broadcast.
func (reg *Registry) Join(id string, p race.Participant, ch chan []byte) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	s, ok := reg.sessions[id]
	if !ok {
		return race.ErrNotFound
	}
	if err := s.Join(p); err != nil {
		return err
	}
	reg.broker.JoinRoom(id, ch)
	reg.broker.PublishRoom(id, wire.MustEncode(wire.EventParticipantsUpdated, wire.ParticipantsUpdated{
		SessionID: id,
		Players:   s.Players,
	}))

	reg.logger.Info("participant joined", "session", id, "participant", p.ID, "roster", len(s.Players))
	return nil
}

// Start stores the reference text and broadcasts it to the room so
// every participant races against the identical words. It is a silent
// no-op when the session is unknown, too small, or already underway.
func (reg *Registry) Start(id string, words []string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	s, ok := reg.sessions[id]
	if !ok || !s.Start(words) {
		return
	}
	reg.broker.PublishRoom(id, wire.MustEncode(wire.EventSessionStarted, wire.SessionStarted{
		Words: words,
	}))

	reg.logger.Info("session started", "session", id, "words", len(words))
}

// UpdateProgress upserts a participant's live percent and rebroadcasts
// the whole progress table to the room. Unknown sessions are ignored.
func (reg *Registry) UpdateProgress(id, participantID string, percent float64) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	s, ok := reg.sessions[id]
	if !ok {
		return
	}
	s.SetProgress(participantID, percent)
	reg.broker.PublishRoom(id, wire.MustEncode(wire.EventProgressUpdated, wire.ProgressUpdated{
		Progress: s.Progress,
	}))
}

// SubmitResult records a participant's final result and broadcasts the
// partial standings. When every roster member has submitted, the
// session is finalized: results are persisted, the global leaderboard
// is refreshed for all connected clients, and the session is destroyed.
// A persistence failure is returned to the submitter and leaves the
// session in place so a retry remains possible.
func (reg *Registry) SubmitResult(ctx context.Context, id string, result race.Result) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	s, ok := reg.sessions[id]
	if !ok {
		return nil
	}
	complete := s.AddResult(result)
	reg.broker.PublishRoom(id, wire.MustEncode(wire.EventResultsUpdated, wire.ResultsUpdated{
		Results: s.ResultList(),
	}))
	if !complete {
		return nil
	}
	return reg.finalize(ctx, s)
}

func (reg *Registry) finalize(ctx context.Context, s *race.Session) error {
	rankings := s.Rankings()
	if err := reg.store.RecordRace(ctx, s.ID, s.Players, rankings); err != nil {
		reg.logger.Error("persisting race results failed", "session", s.ID, "error", err)
		return fmt.Errorf("recording race: %w", err)
	}

	s.State = race.StateFinalized
	reg.broker.CloseRoom(s.ID)
	delete(reg.sessions, s.ID)

	reg.publishLeaderboard(ctx)
	reg.logger.Info("session finalized", "session", s.ID, "results", len(rankings))
	return nil
}

// publishLeaderboard pushes the refreshed global standings to every
// connected client. Read failures are logged and skipped; the race
// itself is already persisted.
func (reg *Registry) publishLeaderboard(ctx context.Context) {
	if top, err := reg.store.TopPlayers(ctx, reg.topN); err != nil {
		reg.logger.Error("loading leaderboard failed", "error", err)
	} else {
		reg.broker.PublishAll(wire.MustEncode(wire.EventLeaderboardUpdated, wire.LeaderboardUpdated{Players: top}))
	}

	if n, err := reg.store.PlayerCount(ctx); err != nil {
		reg.logger.Error("counting players failed", "error", err)
	} else {
		reg.broker.PublishAll(wire.MustEncode(wire.EventParticipantCount, wire.ParticipantCountUpdated{Count: n}))
	}

	avg, err := reg.store.AverageSpeed(ctx)
	switch {
	case err == nil:
		reg.broker.PublishAll(wire.MustEncode(wire.EventAverageSpeed, wire.AverageSpeedUpdated{Average: avg}))
	case !errors.Is(err, ErrNotFound):
		reg.logger.Error("averaging speed failed", "error", err)
	}
}

const sessionIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// newSessionID returns a short random identifier unique among the
// currently active sessions. Callers hold reg.mu.
func (reg *Registry) newSessionID() string {
	for {
		buf := make([]byte, sessionIDLen)
		if _, err := rand.Read(buf); err != nil {
			panic(fmt.Sprintf("reading random bytes: %v", err))
		}
		for i, b := range buf {
			buf[i] = sessionIDAlphabet[int(b)%len(sessionIDAlphabet)]
		}
		id := string(buf)
		if _, taken := reg.sessions[id]; !taken {
			return id
		}
	}
}

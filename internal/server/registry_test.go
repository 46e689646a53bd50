package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/keydash/keydash/internal/race"
	"github.com/keydash/keydash/internal/wire"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory LeaderboardStore with an optional failure
// budget for exercising the persistence-failure path.
type fakeStore struct {
	mu       sync.Mutex
	failures int
	races    int
	players  map[string]race.Participant
	results  []race.Result
}

func newFakeStore() *fakeStore {
	return &fakeStore{players: make(map[string]race.Participant)}
}

func (s *fakeStore) RecordRace(_ context.Context, _ string, players []race.Participant, results []race.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("disk on fire")
	}
	for _, p := range players {
		s.players[p.ID] = p
	}
	s.results = append(s.results, results...)
	s.races++
	return nil
}

func (s *fakeStore) TopPlayers(_ context.Context, limit int) ([]race.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []race.LeaderboardEntry
	for _, r := range s.results {
		if len(out) == limit {
			break
		}
		out = append(out, race.LeaderboardEntry{PlayerID: r.PlayerID, Name: r.PlayerName, WPM: r.WPM, Accuracy: r.Accuracy})
	}
	return out, nil
}

func (s *fakeStore) PlayerCount(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players), nil
}

func (s *fakeStore) AverageSpeed(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.results) == 0 {
		return 0, ErrNotFound
	}
	var sum float64
	for _, r := range s.results {
		sum += float64(r.WPM)
	}
	return sum / float64(len(s.results)), nil
}

func newTestRegistry(store LeaderboardStore) (*Registry, *Broker) {
	broker := NewBroker()
	return NewRegistry(testLogger(), store, broker, 10), broker
}

// drain empties a subscription channel and returns the decoded events.
func drain(t *testing.T, ch chan []byte) []wire.Event {
	t.Helper()
	var out []wire.Event
	for {
		select {
		case data := <-ch:
			var ev wire.Event
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("decoding event: %v", err)
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func countEvents(events []wire.Event, name string) int {
	n := 0
	for _, ev := range events {
		if ev.Event == name {
			n++
		}
	}
	return n
}

func participant(id string) race.Participant {
	return race.Participant{ID: id, Name: "player " + id, Avatar: "cat"}
}

func TestCreateReturnsUniqueIDs(t *testing.T) {
	reg, broker := newTestRegistry(newFakeStore())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		ch := broker.Subscribe()
		id := reg.Create(participant(fmt.Sprintf("p%d", i)), ch)
		if len(id) != sessionIDLen {
			t.Fatalf("id %q has length %d, want %d", id, len(id), sessionIDLen)
		}
		if seen[id] {
			t.Fatalf("duplicate session id %q", id)
		}
		seen[id] = true
	}
}

func TestFullRaceLifecycle(t *testing.T) {
	store := newFakeStore()
	reg, broker := newTestRegistry(store)

	chA := broker.Subscribe()
	chB := broker.Subscribe()

	id := reg.Create(participant("a"), chA)

	if err := reg.Join(id, participant("b"), chB); err != nil {
		t.Fatalf("join: %v", err)
	}

	events := drain(t, chB)
	if countEvents(events, wire.EventParticipantsUpdated) != 1 {
		t.Fatalf("joiner events = %v, want one participantsUpdated", events)
	}
	var roster wire.ParticipantsUpdated
	json.Unmarshal(events[0].Data, &roster)
	if len(roster.Players) != 2 || roster.Players[0].ID != "a" || roster.Players[1].ID != "b" {
		t.Fatalf("roster = %+v, want [a b] in join order", roster.Players)
	}

	reg.Start(id, []string{"the", "cat"})
	if countEvents(drain(t, chA), wire.EventSessionStarted) != 1 {
		t.Fatal("host did not receive sessionStarted")
	}

	reg.UpdateProgress(id, "a", 50)
	events = drain(t, chB)
	if countEvents(events, wire.EventProgressUpdated) != 1 {
		t.Fatalf("progress events = %v", events)
	}

	if err := reg.SubmitResult(context.Background(), id, race.Result{PlayerID: "a", PlayerName: "player a", WPM: 40, Accuracy: 100}); err != nil {
		t.Fatalf("submit a: %v", err)
	}
	if err := reg.SubmitResult(context.Background(), id, race.Result{PlayerID: "b", PlayerName: "player b", WPM: 55, Accuracy: 90}); err != nil {
		t.Fatalf("submit b: %v", err)
	}

	if store.races != 1 {
		t.Errorf("races recorded = %d, want 1", store.races)
	}
	events = drain(t, chA)
	if got := countEvents(events, wire.EventLeaderboardUpdated); got != 1 {
		t.Errorf("leaderboardUpdated count = %d, want exactly 1", got)
	}
	if countEvents(events, wire.EventParticipantCount) != 1 {
		t.Error("missing participantCountUpdated")
	}
	if countEvents(events, wire.EventAverageSpeed) != 1 {
		t.Error("missing averageSpeedUpdated")
	}

	// The session is destroyed after finalization.
	if err := reg.Join(id, participant("c"), broker.Subscribe()); !errors.Is(err, race.ErrNotFound) {
		t.Errorf("join after finalize = %v, want ErrNotFound", err)
	}
}

func TestJoinErrors(t *testing.T) {
	reg, broker := newTestRegistry(newFakeStore())
	chA := broker.Subscribe()

	if err := reg.Join("nosuch", participant("x"), broker.Subscribe()); !errors.Is(err, race.ErrNotFound) {
		t.Errorf("unknown session = %v, want ErrNotFound", err)
	}

	id := reg.Create(participant("p0"), chA)
	for i := 1; i < race.Capacity; i++ {
		if err := reg.Join(id, participant(fmt.Sprintf("p%d", i)), broker.Subscribe()); err != nil {
			t.Fatalf("join p%d: %v", i, err)
		}
	}

	if err := reg.Join(id, participant("extra"), broker.Subscribe()); !errors.Is(err, race.ErrFull) {
		t.Errorf("fifth join = %v, want ErrFull", err)
	}

	if err := reg.Join(id, participant("p1"), broker.Subscribe()); !errors.Is(err, race.ErrFull) {
		// Capacity is checked before duplicates; a full session always
		// reports Full.
		t.Errorf("duplicate join on full session = %v, want ErrFull", err)
	}
}

func TestJoinAfterStart(t *testing.T) {
	reg, broker := newTestRegistry(newFakeStore())
	id := reg.Create(participant("a"), broker.Subscribe())
	reg.Join(id, participant("b"), broker.Subscribe())
	reg.Start(id, []string{"the"})

	if err := reg.Join(id, participant("c"), broker.Subscribe()); !errors.Is(err, race.ErrAlreadyStarted) {
		t.Errorf("join after start = %v, want ErrAlreadyStarted", err)
	}
}

func TestStartSilentNoopWithoutQuorum(t *testing.T) {
	reg, broker := newTestRegistry(newFakeStore())
	chA := broker.Subscribe()
	id := reg.Create(participant("a"), chA)

	reg.Start(id, []string{"the"})
	reg.Start("nosuch", []string{"the"})

	if events := drain(t, chA); len(events) != 0 {
		t.Errorf("start without quorum broadcast %v", events)
	}
}

func TestProgressUnknownSessionIgnored(t *testing.T) {
	reg, _ := newTestRegistry(newFakeStore())
	// Must not panic or broadcast.
	reg.UpdateProgress("nosuch", "a", 40)
}

func TestSubmitUnknownSessionIgnored(t *testing.T) {
	reg, _ := newTestRegistry(newFakeStore())
	if err := reg.SubmitResult(context.Background(), "nosuch", race.Result{PlayerID: "a"}); err != nil {
		t.Errorf("submit to unknown session = %v, want nil", err)
	}
}

func TestPersistenceFailureKeepsSession(t *testing.T) {
	store := newFakeStore()
	store.failures = 1
	reg, broker := newTestRegistry(store)

	chA := broker.Subscribe()
	chB := broker.Subscribe()
	id := reg.Create(participant("a"), chA)
	reg.Join(id, participant("b"), chB)
	reg.Start(id, []string{"the"})

	reg.SubmitResult(context.Background(), id, race.Result{PlayerID: "a", WPM: 40})
	err := reg.SubmitResult(context.Background(), id, race.Result{PlayerID: "b", WPM: 50})
	if err == nil {
		t.Fatal("persistence failure not reported to submitter")
	}

	// The room still received the raw result list.
	if countEvents(drain(t, chA), wire.EventResultsUpdated) != 2 {
		t.Error("room missed resultsUpdated broadcasts")
	}

	// The session survives for a retry: a duplicate submission
	// re-triggers finalization, which now succeeds.
	if err := reg.SubmitResult(context.Background(), id, race.Result{PlayerID: "b", WPM: 50}); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	if store.races != 1 {
		t.Errorf("races recorded = %d, want 1", store.races)
	}
	if countEvents(drain(t, chB), wire.EventLeaderboardUpdated) != 1 {
		t.Error("missing leaderboardUpdated after retry")
	}
}

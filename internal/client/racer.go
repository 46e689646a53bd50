package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/keydash/keydash/internal/race"
	"github.com/keydash/keydash/internal/score"
	"github.com/keydash/keydash/internal/typing"
	"github.com/keydash/keydash/internal/wire"
)

// Racer drives one participant through a complete multiplayer race:
// create or join, wait for the start broadcast, type the reference text
// at a fixed pace while emitting progress, then compute and submit the
// result when the countdown expires.
type Racer struct {
	Client   *Client
	Player   race.Participant
	WPM      int
	Duration time.Duration
	Clock    clockwork.Clock
	Logger   *slog.Logger
}

// Create opens a fresh session and returns its identifier.
func (r *Racer) Create(ctx context.Context) (string, error) {
	err := r.Client.Emit(ctx, wire.EventCreateSession, wire.CreateSession{
		PlayerID: r.Player.ID,
		Name:     r.Player.Name,
		Avatar:   r.Player.Avatar,
		Profile:  r.Player.Profile,
	})
	if err != nil {
		return "", err
	}
	ev, err := r.Client.WaitFor(ctx, wire.EventSessionCreated)
	if err != nil {
		return "", err
	}
	var created wire.SessionCreated
	if err := json.Unmarshal(ev.Data, &created); err != nil {
		return "", fmt.Errorf("decoding sessionCreated: %w", err)
	}
	return created.SessionID, nil
}

// Join enters an existing session and waits for the roster broadcast
// confirming admission.
func (r *Racer) Join(ctx context.Context, sessionID string) error {
	err := r.Client.Emit(ctx, wire.EventJoinSession, wire.JoinSession{
		SessionID: sessionID,
		PlayerID:  r.Player.ID,
		Name:      r.Player.Name,
		Avatar:    r.Player.Avatar,
		Profile:   r.Player.Profile,
	})
	if err != nil {
		return err
	}
	_, err = r.Client.WaitFor(ctx, wire.EventParticipantsUpdated)
	return err
}

// WaitForPlayers blocks until the roster reaches n participants.
func (r *Racer) WaitForPlayers(ctx context.Context, n int) error {
	for {
		ev, err := r.Client.WaitFor(ctx, wire.EventParticipantsUpdated)
		if err != nil {
			return err
		}
		var roster wire.ParticipantsUpdated
		if err := json.Unmarshal(ev.Data, &roster); err != nil {
			return fmt.Errorf("decoding roster: %w", err)
		}
		if len(roster.Players) >= n {
			return nil
		}
	}
}

// Start triggers the race with the given reference text. Only useful
// from the host once enough players joined.
func (r *Racer) Start(ctx context.Context, sessionID string, reference []string) error {
	return r.Client.Emit(ctx, wire.EventStartSession, wire.StartSession{
		SessionID: sessionID,
		Words:     reference,
	})
}

// Race waits for the start broadcast, types the text, and submits the
// computed result. It returns the racer's own final figures.
func (r *Racer) Race(ctx context.Context, sessionID string) (race.Result, error) {
	ev, err := r.Client.WaitFor(ctx, wire.EventSessionStarted)
	if err != nil {
		return race.Result{}, err
	}
	var started wire.SessionStarted
	if err := json.Unmarshal(ev.Data, &started); err != nil {
		return race.Result{}, fmt.Errorf("decoding sessionStarted: %w", err)
	}

	machine := r.typeText(ctx, sessionID, started.Words)

	result := toResult(r.Player, score.Compute(machine.Trace(), started.Words, int(r.Duration/time.Second), score.CharMatch))
	err = r.Client.Emit(ctx, wire.EventSubmitResult, wire.SubmitResult{
		SessionID: sessionID,
		Result:    result,
	})
	if err != nil {
		return race.Result{}, err
	}
	if r.Logger != nil {
		r.Logger.Info("result submitted", "session", sessionID, "wpm", result.WPM, "accuracy", result.Accuracy)
	}
	return result, nil
}

// typeText feeds the reference through a typing machine at the
// configured pace, emitting progress after every keystroke, until the
// text is exhausted or the countdown expires.
func (r *Racer) typeText(ctx context.Context, sessionID string, reference []string) *typing.Machine {
	machine := typing.NewMachine(reference)
	text := strings.Join(reference, " ")
	interval := time.Minute / time.Duration(r.WPM*5)

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The countdown goroutine only cancels the context; the machine is
	// single-threaded, so freezing happens here when expiry is observed.
	countdown := typing.NewCountdown(r.Clock, r.Duration)
	go countdown.Run(raceCtx, nil, cancel)

	for _, key := range text {
		select {
		case <-raceCtx.Done():
			machine.Freeze()
			return machine
		case <-r.Clock.After(interval):
		}
		if !machine.Press(key) {
			return machine
		}
		_ = r.Client.Emit(ctx, wire.EventUpdateProgress, wire.UpdateProgress{
			SessionID: sessionID,
			PlayerID:  r.Player.ID,
			Percent:   machine.Progress(),
		})
	}
	return machine
}

func toResult(p race.Participant, s score.Result) race.Result {
	return race.Result{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		RawWPM:     s.RawWPM,
		WPM:        s.WPM,
		Accuracy:   s.Accuracy,
	}
}

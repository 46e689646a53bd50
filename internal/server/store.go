package server

import (
	"context"
	"errors"

	"github.com/keydash/keydash/internal/race"
)

var ErrNotFound = errors.New("not found")

// LeaderboardStore is the durable side of a finished race: player
// upserts and result rows written in one transaction, plus the read
// queries backing the global leaderboard.
type LeaderboardStore interface {
	// RecordRace persists the roster and the final results of one race
	// atomically. A failure leaves nothing behind.
	RecordRace(ctx context.Context, raceID string, players []race.Participant, results []race.Result) error

	// TopPlayers returns up to limit leaderboard rows ordered by speed
	// descending, ties broken by accuracy descending.
	TopPlayers(ctx context.Context, limit int) ([]race.LeaderboardEntry, error)

	// PlayerCount returns the number of distinct persisted players.
	PlayerCount(ctx context.Context) (int, error)

	// AverageSpeed returns the mean recorded speed, or ErrNotFound when
	// no results have been recorded yet.
	AverageSpeed(ctx context.Context) (float64, error)
}

package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keydash/keydash/internal/race"
)

// SQLiteStore persists finished races and serves the global
// leaderboard queries.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// RecordRace upserts every participant's profile and inserts one result
// row per racer, all within a single transaction.
func (s *SQLiteStore) RecordRace(ctx context.Context, raceID string, players []race.Participant, results []race.Result) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, p := range players {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO players (id, name, avatar, university, role, school_student, created_at)
			VALUES (?, ?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				avatar = excluded.avatar,
				university = excluded.university,
				role = excluded.role,
				school_student = excluded.school_student
		`, p.ID, p.Name, p.Avatar, p.Profile.University, p.Profile.Role, boolToInt(p.Profile.SchoolStudent))
		if err != nil {
			return fmt.Errorf("upserting player %s: %w", p.ID, err)
		}
	}

	for _, r := range results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO race_results (race_id, player_id, raw_wpm, wpm, accuracy, created_at)
			VALUES (?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		`, raceID, r.PlayerID, r.RawWPM, r.WPM, r.Accuracy)
		if err != nil {
			return fmt.Errorf("inserting result for %s: %w", r.PlayerID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing race %s: %w", raceID, err)
	}
	return nil
}

func (s *SQLiteStore) TopPlayers(ctx context.Context, limit int) ([]race.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.avatar, p.university, p.role, r.wpm, r.accuracy, r.created_at
		FROM race_results r
		JOIN players p ON p.id = r.player_id
		ORDER BY r.wpm DESC, r.accuracy DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top players: %w", err)
	}
	defer rows.Close()

	var out []race.LeaderboardEntry
	for rows.Next() {
		var e race.LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.Name, &e.Avatar, &e.University, &e.Role, &e.WPM, &e.Accuracy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) PlayerCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) AverageSpeed(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `SELECT AVG(wpm) FROM race_results`).Scan(&avg)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !avg.Valid) {
		return 0, ErrNotFound
	}
	return avg.Float64, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

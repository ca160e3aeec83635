// Package store keeps a record of played games in SQLite and ranks players
// across them.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/sb3ogun/naasii-game/errs"
	"github.com/sb3ogun/naasii-game/game"
)

//go:embed schema.sql
var schema string

var ErrAlreadyRecorded = fmt.Errorf("%w: game already recorded", errs.ErrPersistence)

const writeAttempts = 5

// Store is a results database.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: database path is required", errs.ErrPersistence)
	}
	memory := path == ":memory:"
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(2000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite db: %w", errs.ErrPersistence, err)
	}
	if memory {
		// each connection would get its own empty database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: ping sqlite db: %w", errs.ErrPersistence, err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: create schema: %w", errs.ErrPersistence, err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func isBusy(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
		return true
	}
	return false
}

func isConstraint(err error) bool {
	var sqliteErr *msqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3lib.SQLITE_CONSTRAINT
}

// RecordGame stores a finished or aborted game. A game can only be recorded
// once.
func (s *Store) RecordGame(ctx context.Context, snap *game.Snapshot) error {
	if snap.State == game.StatePlaying.String() {
		return fmt.Errorf("%w: game %s is still in progress", errs.ErrInput, snap.GameID)
	}
	best := 0
	for _, p := range snap.Players {
		best = max(best, p.Score)
	}

	err := retry.Do(
		func() error {
			return s.recordGame(ctx, snap, best)
		},
		retry.Context(ctx),
		retry.Attempts(writeAttempts),
		retry.Delay(50*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(isBusy),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Err(err).Uint("n", n).Msg("database-busy-try-again")
		}),
	)
	if isConstraint(err) {
		return fmt.Errorf("%w: %s", ErrAlreadyRecorded, snap.GameID)
	}
	if err != nil {
		return fmt.Errorf("%w: record game: %w", errs.ErrPersistence, err)
	}
	log.Info().Str("gid", snap.GameID).Msg("game-recorded")
	return nil
}

func (s *Store) recordGame(ctx context.Context, snap *game.Snapshot, best int) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (id, played_at, rounds, aborted) VALUES (?, ?, ?, ?)`,
		snap.GameID, snap.GameDate.UTC().Unix(), snap.CurrentRound,
		snap.State == game.StateAborted.String())
	if err != nil {
		return err
	}
	for _, p := range snap.Players {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO results (game_id, player, score, turns, winner) VALUES (?, ?, ?, ?, ?)`,
			snap.GameID, p.Name, p.Score, len(p.History), p.Score == best)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LeaderboardEntry aggregates one player name over every recorded game.
type LeaderboardEntry struct {
	Player  string
	Games   int
	Wins    int
	Total   int
	Average float64
}

// Leaderboard ranks players by wins, then average score.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT player, COUNT(*), SUM(winner), SUM(score), AVG(score)
FROM results
GROUP BY player
ORDER BY SUM(winner) DESC, AVG(score) DESC, player ASC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: leaderboard: %w", errs.ErrPersistence, err)
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Player, &e.Games, &e.Wins, &e.Total, &e.Average); err != nil {
			return nil, fmt.Errorf("%w: leaderboard: %w", errs.ErrPersistence, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: leaderboard: %w", errs.ErrPersistence, err)
	}
	return entries, nil
}

// GameCount is the number of recorded games.
func (s *Store) GameCount(ctx context.Context) (int, error) {
	var n int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}
	return n, nil
}

// Package store handles SQLite persistence of finished games.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/pepperoni/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			quota INTEGER NOT NULL,
			duration_s INTEGER NOT NULL,
			final_score INTEGER NOT NULL,
			running_score INTEGER NOT NULL,
			placed INTEGER NOT NULL,
			sector1 INTEGER NOT NULL,
			sector2 INTEGER NOT NULL,
			sector3 INTEGER NOT NULL,
			balance INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_achievements (
			session_id INTEGER NOT NULL,
			achievement TEXT NOT NULL,
			PRIMARY KEY (session_id, achievement)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_difficulty ON sessions(difficulty);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished session and its achievements.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, difficulty, quota, duration_s, final_score, running_score, placed, sector1, sector2, sector3, balance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Difficulty,
		rec.Quota,
		rec.Duration,
		rec.FinalScore,
		rec.RunningScore,
		rec.Placed,
		rec.Sector1,
		rec.Sector2,
		rec.Sector3,
		rec.Balance,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(rec.Achievements) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT OR IGNORE INTO session_achievements (session_id, achievement) VALUES (?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, a := range rec.Achievements {
			if _, err = stmt.ExecContext(ctx, id, a); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Difficulty != "" {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, cfg.Difficulty)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT s.id, s.ended_at, s.difficulty, s.final_score, s.placed, s.quota, s.balance,
			COALESCE((SELECT GROUP_CONCAT(a.achievement, ',') FROM session_achievements a WHERE a.session_id = s.id), '')
		FROM sessions s
		WHERE %s
		ORDER BY s.ended_at ASC, s.id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt, achievements string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Difficulty, &agg.FinalScore, &agg.Placed, &agg.Quota, &agg.Balance, &achievements); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.Achievements = splitAchievements(achievements)
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return sessions, nil
}

// BestScore returns the highest final score recorded for difficulty, and whether any exists.
func (s *Store) BestScore(ctx context.Context, difficulty string) (int, bool, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(final_score) FROM sessions WHERE (? = '' OR difficulty = ?)`,
		difficulty, difficulty,
	).Scan(&best)
	if err != nil {
		return 0, false, err
	}
	if !best.Valid {
		return 0, false, nil
	}
	return int(best.Int64), true, nil
}

// ListDifficultyAggregates aggregates sessions per difficulty.
func (s *Store) ListDifficultyAggregates(ctx context.Context, sessionIDs []int64) ([]model.DifficultyAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT difficulty, COUNT(*), MAX(final_score), SUM(final_score), SUM(balance), SUM(placed)
		FROM sessions
		WHERE id IN (%s)
		GROUP BY difficulty
		ORDER BY difficulty`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.DifficultyAggregate
	for rows.Next() {
		var agg model.DifficultyAggregate
		if err := rows.Scan(&agg.Difficulty, &agg.Sessions, &agg.BestScore, &agg.ScoreSum, &agg.BalanceSum, &agg.PlacedSum); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func splitAchievements(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/park285/pente-server/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS pente_games (
	result_id   TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL,
	game_id     INTEGER NOT NULL,
	ai_side     TEXT NOT NULL,
	human_side  TEXT NOT NULL,
	winner      TEXT NOT NULL,
	method      TEXT NOT NULL,
	move_count  INTEGER NOT NULL,
	captured_x  INTEGER NOT NULL,
	captured_o  INTEGER NOT NULL,
	moves       TEXT NOT NULL,
	final_state TEXT NOT NULL,
	started_at  BIGINT NOT NULL,
	ended_at    BIGINT NOT NULL,
	duration_ms BIGINT NOT NULL
)`

// SQLStore archives finished games in Postgres or SQLite.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// OpenSQL opens a store for dsn. postgres:// and postgresql:// DSNs use
// lib/pq; anything else is treated as a SQLite path (":memory:" allowed).
func OpenSQL(ctx context.Context, dsn string) (*SQLStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("archive dsn is required")
	}
	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "postgres"
	} else if dsn != ":memory:" {
		dsn = filepath.Clean(dsn) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "postgres" {
		db.SetMaxOpenConns(16)
		db.SetMaxIdleConns(8)
		db.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// one connection keeps :memory: databases alive and serializes writers
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create pente_games: %w", err)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

// Driver reports "postgres" or "sqlite".
func (s *SQLStore) Driver() string { return s.driver }

func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) rebind(q string) string {
	if s.driver != "postgres" {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record upserts a finished game keyed by run and game id.
func (s *SQLStore) Record(ctx context.Context, r *domain.GameResult) error {
	if s == nil || s.db == nil || r == nil {
		return nil
	}
	moves, err := json.Marshal(r.Moves)
	if err != nil {
		return fmt.Errorf("marshal moves: %w", err)
	}

	q := s.rebind(`INSERT INTO pente_games (
		result_id, run_id, game_id, ai_side, human_side,
		winner, method, move_count, captured_x, captured_o,
		moves, final_state, started_at, ended_at, duration_ms
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	ON CONFLICT (result_id) DO UPDATE SET
		winner=excluded.winner,
		method=excluded.method,
		move_count=excluded.move_count,
		captured_x=excluded.captured_x,
		captured_o=excluded.captured_o,
		moves=excluded.moves,
		final_state=excluded.final_state,
		ended_at=excluded.ended_at,
		duration_ms=excluded.duration_ms`)

	_, err = s.db.ExecContext(ctx, q,
		resultKey(r), r.RunID, r.GameID, r.AISide, r.HumanSide,
		r.Winner, r.Method, r.MoveCount, r.CapturedX, r.CapturedO,
		string(moves), r.FinalState,
		r.StartedAt.UTC().UnixMilli(), r.EndedAt.UTC().UnixMilli(), r.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("upsert pente game: %w", err)
	}
	return nil
}

// Recent lists archived games, newest first.
func (s *SQLStore) Recent(ctx context.Context, limit int) ([]*domain.GameResult, error) {
	if limit <= 0 {
		limit = defaultRecent
	}
	if limit > maxRecent {
		limit = maxRecent
	}
	q := s.rebind(`SELECT
		run_id, game_id, ai_side, human_side, winner, method,
		move_count, captured_x, captured_o, moves, final_state,
		started_at, ended_at, duration_ms
	FROM pente_games
	ORDER BY ended_at DESC, game_id DESC
	LIMIT ?`)

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("select pente games: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.GameResult, 0, limit)
	for rows.Next() {
		var (
			r                     domain.GameResult
			movesJSON             string
			startMS, endMS, durMS int64
		)
		if err := rows.Scan(
			&r.RunID, &r.GameID, &r.AISide, &r.HumanSide, &r.Winner, &r.Method,
			&r.MoveCount, &r.CapturedX, &r.CapturedO, &movesJSON, &r.FinalState,
			&startMS, &endMS, &durMS,
		); err != nil {
			return nil, fmt.Errorf("scan pente game: %w", err)
		}
		if err := json.Unmarshal([]byte(movesJSON), &r.Moves); err != nil {
			return nil, fmt.Errorf("unmarshal moves: %w", err)
		}
		r.StartedAt = time.UnixMilli(startMS).UTC()
		r.EndedAt = time.UnixMilli(endMS).UTC()
		r.Duration = time.Duration(durMS) * time.Millisecond
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pente games: %w", err)
	}
	return out, nil
}

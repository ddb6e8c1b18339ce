package history

import (
	"context"
	"database/sql"
	"time"
)

// Result is one finished game.
type Result struct {
	GameID        string
	Dictionary    string
	Daily         bool
	Attempts      int // guesses spent
	TotalAttempts int
	Won           bool
	FinishedAt    time.Time
}

// Stats aggregates finished games.
type Stats struct {
	Played       int         `json:"played"`
	Wins         int         `json:"wins"`
	WinRate      float64     `json:"winRate"`
	Distribution map[int]int `json:"distribution"` // attempts used → number of wins
}

// Store records and summarizes finished games.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts a finished game. Re-recording the same id is ignored.
func (s *Store) Record(ctx context.Context, r Result) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO games
            (id, dictionary, daily, attempts, total_attempts, won, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Dictionary, r.Daily, r.Attempts, r.TotalAttempts, r.Won,
		r.FinishedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Stats summarizes games for one dictionary, or all of them when dictionary is "".
func (s *Store) Stats(ctx context.Context, dictionary string) (Stats, error) {
	where, args := "", []any{}
	if dictionary != "" {
		where, args = "WHERE dictionary=?", append(args, dictionary)
	}

	out := Stats{Distribution: map[int]int{}}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(won), 0) FROM games `+where, args...,
	).Scan(&out.Played, &out.Wins); err != nil {
		return Stats{}, err
	}
	if out.Played > 0 {
		out.WinRate = float64(out.Wins) / float64(out.Played)
	}

	cond := "WHERE won=1"
	if where != "" {
		cond += " AND dictionary=?"
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT attempts, COUNT(1) FROM games `+cond+` GROUP BY attempts ORDER BY attempts`, args...)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var attempts, n int
		if err := rows.Scan(&attempts, &n); err != nil {
			return Stats{}, err
		}
		out.Distribution[attempts] = n
	}
	return out, rows.Err()
}

package daily

import (
	"context"
	"database/sql"
)

// Result records one player's completion of a daily puzzle.
type Result struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	ElapsedMs int    `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether userID has completed the puzzle for date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult stores a completion; a second completion for the same day is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, elapsed_ms) VALUES(?,?,?)`,
		r.UserID, r.Date, r.ElapsedMs,
	)
	return err
}

// Get returns the stored completion for userID on date.
func (s *Store) Get(ctx context.Context, userID, date string) (Result, error) {
	r := Result{UserID: userID, Date: date}
	err := s.db.QueryRowContext(ctx,
		"SELECT elapsed_ms FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&r.ElapsedMs)
	return r, err
}

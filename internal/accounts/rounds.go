package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordguess/internal/game"
)

// finishedLayout has a fixed-width fraction so finished_at sorts as text.
const finishedLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RoundResult is one finished round as recorded in the rounds table.
type RoundResult struct {
	ID             string    `json:"id"`
	UserID         string    `json:"-"` // empty for guests
	SessionID      string    `json:"-"`
	Word           string    `json:"word"`
	Category       string    `json:"category"`
	Status         string    `json:"status"` // "won" | "lost"
	Misses         int       `json:"misses"`
	LettersGuessed string    `json:"lettersGuessed"`
	FinishedAt     time.Time `json:"finishedAt"`
}

// ResultFromSession captures a finished round for recording.
func ResultFromSession(userID, sessionID string, s *game.Session) RoundResult {
	return RoundResult{
		UserID:         userID,
		SessionID:      sessionID,
		Word:           s.Word,
		Category:       s.Category,
		Status:         string(s.Status),
		Misses:         game.MaxGuesses - s.RemainingGuesses,
		LettersGuessed: strings.Join(s.LettersGuessed, ""),
	}
}

// LeaderRow is one line of the high scores table.
type LeaderRow struct {
	DisplayName string `json:"displayName"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
	Streak      int    `json:"streak"`
}

// RecordRound inserts a rounds row and, for signed-in players, bumps their
// stats, all within one transaction. Call it once per finished round.
func (s *Store) RecordRound(ctx context.Context, r RoundResult) error {
	if r.Status != string(game.StatusWon) && r.Status != string(game.StatusLost) {
		return fmt.Errorf("record round: status %q is not final", r.Status)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = s.now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO rounds
	        (id, user_id, session_id, word, category, status, misses, letters_guessed, finished_at)
	    VALUES (?,?,?,?,?,?,?,?,?)`,
		r.ID, nullable(r.UserID), r.SessionID, r.Word, r.Category, r.Status, r.Misses,
		r.LettersGuessed, r.FinishedAt.UTC().Format(finishedLayout))
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}

	if r.UserID != "" {
		if err := bumpStats(ctx, tx, r.UserID, r.Status == string(game.StatusWon)); err != nil {
			return fmt.Errorf("bump stats: %w", err)
		}
	}
	return tx.Commit()
}

// bumpStats increments games played; updates wins and streak based on result (within tx).
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, won bool) error {
	var gp, wins, streak int
	row := tx.QueryRowContext(ctx, `SELECT games_played, wins, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&gp, &wins, &streak); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	gp++
	if won {
		wins++
		streak++
	} else {
		streak = 0
	}
	_, err := tx.ExecContext(ctx, `UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`, gp, wins, streak, userID)
	return err
}

// RecentRounds lists a user's finished rounds, newest first.
func (s *Store) RecentRounds(ctx context.Context, userID string, limit int) ([]RoundResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, word, category, status, misses, letters_guessed, finished_at
        FROM rounds
        WHERE user_id=?
        ORDER BY finished_at DESC
        LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RoundResult{}
	for rows.Next() {
		r := RoundResult{UserID: userID}
		var finished string
		if err := rows.Scan(&r.ID, &r.Word, &r.Category, &r.Status, &r.Misses, &r.LettersGuessed, &finished); err != nil {
			return nil, err
		}
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

/**
 * Leaderboard fetches the top players.
 *
 * - Ordered by wins DESC, then games played ASC, then created_at ASC.
 * - Players with no finished games are skipped.
 * - Default limit is 20 if not specified.
 */
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LeaderRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT display_name, games_played, wins, streak
        FROM users
        WHERE games_played > 0
        ORDER BY wins DESC, games_played ASC, created_at ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderRow, 0, limit)
	for rows.Next() {
		var r LeaderRow
		if err := rows.Scan(&r.DisplayName, &r.GamesPlayed, &r.Wins, &r.Streak); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Package store persists one game.Session per player session ID.
//
// The HTTP layer loads a session at the start of a request, lets the game
// package mutate it, and saves it back. Concurrent requests for the same ID
// are not serialized: the last Save wins.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordguess/internal/game"
)

var (
	// ErrNotFound is returned by Get when no session exists for the ID.
	ErrNotFound = errors.New("store: session not found")

	// ErrInvalid is returned by Save for an empty ID or nil session.
	ErrInvalid = errors.New("store: invalid session")
)

// Store defines the persistence interface for game sessions.
// Implementations may be backed by memory (memory.go) or SQLite (sqlite.go).
type Store interface {
	// Save persists or replaces the session under id.
	Save(ctx context.Context, id string, s *game.Session) error

	// Get retrieves the session for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Touch marks the session for id as active without rewriting it.
	// Touching a missing id is not an error.
	Touch(ctx context.Context, id string) error

	// Delete removes the session for id.
	Delete(ctx context.Context, id string) error

	// Prune removes sessions not saved since before and reports how many.
	Prune(ctx context.Context, before time.Time) (int, error)
}

// RunJanitor prunes sessions older than ttl every interval until ctx is done.
func RunJanitor(ctx context.Context, st Store, ttl, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := st.Prune(ctx, now.Add(-ttl))
			if err != nil {
				log.Warn().Err(err).Msg("prune sessions")
				continue
			}
			if n > 0 {
				log.Info().Int("pruned", n).Msg("expired sessions removed")
			}
		}
	}
}

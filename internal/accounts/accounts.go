// internal/accounts/accounts.go
//
// Player accounts and their stats, stored in SQLite.
// Responsibilities:
//   - Local accounts: username + bcrypt password (signup/login).
//   - Social accounts: find-or-create by (provider, provider_id).
//   - Round results: one rounds row per finished round, plus games/wins/streak
//     counters for signed-in players, updated in a single transaction.
//   - High scores: users ordered by wins.

package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ProviderLocal marks accounts created with a username and password.
const ProviderLocal = "local"

var (
	ErrNotFound           = errors.New("accounts: user not found")
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// SignupError reports a username or password that breaks the signup rules.
type SignupError string

func (e SignupError) Error() string { return string(e) }

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username,omitempty"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	Provider     string    `json:"provider"`
	ProviderID   string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	GamesPlayed  int       `json:"gamesPlayed"`
	Wins         int       `json:"wins"`
	Streak       int       `json:"streak"`
}

// Store wraps the accounts tables.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore returns a Store over a migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// CreateLocal validates input, checks uniqueness, hashes the password, and inserts a new user.
func (s *Store) CreateLocal(ctx context.Context, username, pw string) (*User, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		DisplayName:  username,
		PasswordHash: string(h),
		Provider:     ProviderLocal,
		CreatedAt:    s.now().Truncate(time.Second),
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO users (id, username, display_name, password_hash, provider, created_at)
	                                VALUES (?,?,?,?,?,?)`,
		u.ID, u.Username, u.DisplayName, u.PasswordHash, u.Provider, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Authenticate checks a username/password pair.
func (s *Store) Authenticate(ctx context.Context, username, pw string) (*User, error) {
	u, err := s.scanOne(ctx, `WHERE lower(username)=lower(?) AND provider=?`, normalizeUsername(username), ProviderLocal)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pw)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// UpsertSocial finds the user for (provider, providerID) or creates one.
// The display name is refreshed on every login.
func (s *Store) UpsertSocial(ctx context.Context, provider, providerID, displayName string) (*User, error) {
	if provider == "" || provider == ProviderLocal || providerID == "" {
		return nil, fmt.Errorf("invalid social identity %q/%q", provider, providerID)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = provider + " user"
	}

	u, err := s.scanOne(ctx, `WHERE provider=? AND provider_id=?`, provider, providerID)
	switch {
	case err == nil:
		if u.DisplayName != displayName {
			if _, err := s.db.ExecContext(ctx, `UPDATE users SET display_name=? WHERE id=?`, displayName, u.ID); err != nil {
				return nil, fmt.Errorf("update display name: %w", err)
			}
			u.DisplayName = displayName
		}
		return u, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	u = &User{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		Provider:    provider,
		ProviderID:  providerID,
		CreatedAt:   s.now().Truncate(time.Second),
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO users (id, display_name, provider, provider_id, created_at)
	                                VALUES (?,?,?,?,?)`,
		u.ID, u.DisplayName, u.Provider, u.ProviderID, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert social user: %w", err)
	}
	return u, nil
}

// FindByID loads a user or returns ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (*User, error) {
	return s.scanOne(ctx, `WHERE id=?`, id)
}

const userColumns = `id, COALESCE(username,''), display_name, COALESCE(password_hash,''), provider,
                     COALESCE(provider_id,''), created_at, games_played, wins, streak`

func (s *Store) scanOne(ctx context.Context, where string, args ...any) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users `+where, args...)
	var u User
	var created string
	err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash, &u.Provider,
		&u.ProviderID, &created, &u.GamesPlayed, &u.Wins, &u.Streak)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = mustParse(created)
	return &u, nil
}

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// normalizeUsername trims whitespace; adjust here if you want stricter rules.
func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return SignupError("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return SignupError("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return SignupError("password must be 8–100 chars")
	}
	return nil
}

// internal/game/engine.go
//
// Core game engine for one player's word-guess session.
// Responsibilities:
//   - Start rounds from a word list (uniform random pick) while keeping History.
//   - Validate raw guesses (exactly one letter a–z, case-folded).
//   - Apply guesses: duplicate check, reveal, miss counting.
//   - Track state transitions: in_progress → won/lost, bumping History once.
//
// All operations are synchronous and do no I/O; persisting the Session is
// the caller's job (see the store package).
package game

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/robalobadob/wordguess/internal/words"
)

var (
	// ErrNoSession is returned when an operation is called on a nil session.
	ErrNoSession = errors.New("game: no session")

	// ErrEmptyWordList is returned when a round is requested from an empty list.
	ErrEmptyWordList = errors.New("game: empty word list")

	// ErrInvalidWord is returned when the picked entry is not a playable
	// word (empty, or anything other than letters a-z).
	ErrInvalidWord = errors.New("game: invalid word")
)

// ValidationError reports a guess that is not exactly one letter.
type ValidationError struct {
	Input   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// StartRound creates a brand-new session with a random word from list
// and a zeroed History.
func StartRound(list []words.Entry) (*Session, error) {
	entry, err := pick(list)
	if err != nil {
		return nil, err
	}
	return NewSession(entry), nil
}

// NewSession builds a fresh session for a fixed entry.
func NewSession(entry words.Entry) *Session {
	s := &Session{}
	s.reset(entry)
	return s
}

// NewRound replaces the round on an existing session with a random word
// from list. History is preserved.
func (s *Session) NewRound(list []words.Entry) error {
	if s == nil {
		return ErrNoSession
	}
	entry, err := pick(list)
	if err != nil {
		return err
	}
	s.reset(entry)
	return nil
}

// ResetHistory zeroes the win/loss tally. The current round is untouched.
func (s *Session) ResetHistory() error {
	if s == nil {
		return ErrNoSession
	}
	s.History = History{}
	return nil
}

// ClearError drops the pending validation message once it has been shown.
func (s *Session) ClearError() {
	if s != nil {
		s.LastError = ""
	}
}

// Guess validates raw and applies it to the round.
//
// Invalid input returns a *ValidationError, records its message in LastError
// and leaves the round unchanged. A letter already guessed this round, or any
// guess after the round finished, is a no-op. Otherwise the letter is recorded,
// matching slots are revealed, a miss costs one guess, and the terminal check
// runs. History is bumped only on the guess that causes the transition.
func (s *Session) Guess(raw string) (Outcome, error) {
	if s == nil {
		return "", ErrNoSession
	}
	if s.Status.Terminal() {
		return OutcomeIgnored, nil
	}
	r, err := ValidateGuess(raw)
	if err != nil {
		s.LastError = err.Error()
		return "", err
	}
	letter := string(r)
	if s.hasGuessed(letter) {
		return OutcomeRepeat, nil
	}
	s.LastError = ""
	s.LettersGuessed = append(s.LettersGuessed, letter)

	hit := false
	for i := range s.Slots {
		if s.Slots[i].Letter == letter {
			s.Slots[i].Revealed = true
			hit = true
		}
	}
	if !hit && s.RemainingGuesses > 0 {
		s.RemainingGuesses--
	}

	switch {
	case s.allRevealed():
		s.Status = StatusWon
		s.History.Wins++
		return OutcomeWon, nil
	case s.RemainingGuesses == 0:
		s.Status = StatusLost
		s.History.Losses++
		return OutcomeLost, nil
	case hit:
		return OutcomeHit, nil
	default:
		return OutcomeMiss, nil
	}
}

// ValidateGuess checks that raw is exactly one ASCII letter (after trimming
// surrounding whitespace) and returns it lowercased.
func ValidateGuess(raw string) (rune, error) {
	in := strings.TrimSpace(raw)
	switch {
	case in == "":
		return 0, &ValidationError{Input: raw, Message: "enter a letter"}
	case utf8.RuneCountInString(in) != 1:
		return 0, &ValidationError{Input: raw, Message: "guess must be a single letter"}
	}
	r, _ := utf8.DecodeRuneInString(in)
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	if r < 'a' || r > 'z' {
		return 0, &ValidationError{Input: raw, Message: "guess must be a letter a-z"}
	}
	return r, nil
}

// Clone returns a deep copy so stores never share slices with callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Slots != nil {
		c.Slots = make([]Slot, len(s.Slots))
		copy(c.Slots, s.Slots)
	}
	if s.LettersGuessed != nil {
		c.LettersGuessed = make([]string, len(s.LettersGuessed))
		copy(c.LettersGuessed, s.LettersGuessed)
	}
	return &c
}

// reset installs a new round for entry, keeping History.
func (s *Session) reset(entry words.Entry) {
	word := strings.ToLower(entry.Word)
	s.Word = word
	s.Category = entry.Category
	s.Slots = make([]Slot, 0, len(word))
	for _, r := range word {
		s.Slots = append(s.Slots, Slot{Letter: string(r)})
	}
	s.LettersGuessed = []string{}
	s.RemainingGuesses = MaxGuesses
	s.Status = StatusInProgress
	s.LastError = ""
}

// hasGuessed reports whether letter was already accepted this round.
func (s *Session) hasGuessed(letter string) bool {
	for _, l := range s.LettersGuessed {
		if l == letter {
			return true
		}
	}
	return false
}

// allRevealed returns true if every slot has been revealed.
func (s *Session) allRevealed() bool {
	for _, sl := range s.Slots {
		if !sl.Revealed {
			return false
		}
	}
	return true
}

func pick(list []words.Entry) (words.Entry, error) {
	if len(list) == 0 {
		return words.Entry{}, ErrEmptyWordList
	}
	entry, err := words.Random(list)
	if err != nil {
		return words.Entry{}, err
	}
	entry.Word = strings.ToLower(entry.Word)
	if !words.Valid(entry.Word) {
		return words.Entry{}, fmt.Errorf("%w: %q", ErrInvalidWord, entry.Word)
	}
	return entry, nil
}

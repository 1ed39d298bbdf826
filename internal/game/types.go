// internal/game/types.go
//
// Core type definitions for the word-guess engine.
// Defines:
//   - Status: round state (in_progress/won/lost).
//   - Slot: one character position of the secret word and whether it is revealed.
//   - History: win/loss tally that survives across rounds of one session.
//   - Session: the full per-player game state kept in the session store.
//   - Outcome: what a single guess did to the session.

package game

// MaxGuesses is the number of misses a player may make per round.
const MaxGuesses = 5

// Status represents the state of the current round.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Terminal reports whether the round is over.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusLost }

// Slot is one position of the secret word. Repeated letters get separate slots.
type Slot struct {
	Letter   string `json:"letter"`
	Revealed bool   `json:"revealed"`
}

// History is the cumulative tally for a session. Only ResetHistory zeroes it.
type History struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Session holds one player's game across rounds.
type Session struct {
	Word             string   `json:"word"`             // secret word (lowercase a–z)
	Category         string   `json:"category"`         // hint shown to the player
	Slots            []Slot   `json:"slots"`            // one per character of Word, in order
	LettersGuessed   []string `json:"lettersGuessed"`   // every accepted letter this round, in order
	RemainingGuesses int      `json:"remainingGuesses"` // misses left before the round is lost
	Status           Status   `json:"status"`
	History          History  `json:"history"`
	LastError        string   `json:"lastError,omitempty"` // validation message, shown once
}

// Outcome describes the effect of one call to Guess.
type Outcome string

const (
	OutcomeHit     Outcome = "hit"     // revealed at least one slot, round continues
	OutcomeMiss    Outcome = "miss"    // no slot matched, one guess used
	OutcomeRepeat  Outcome = "repeat"  // letter already guessed this round; nothing changed
	OutcomeIgnored Outcome = "ignored" // round already finished; nothing changed
	OutcomeWon     Outcome = "won"     // this guess revealed the last slot
	OutcomeLost    Outcome = "lost"    // this guess used the last remaining miss
)

// Finished reports whether the guess ended the round. True exactly once per round.
func (o Outcome) Finished() bool { return o == OutcomeWon || o == OutcomeLost }

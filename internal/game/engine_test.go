package game

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/robalobadob/wordguess/internal/words"
)

func catSession() *Session {
	return NewSession(words.Entry{Word: "cat", Category: "animal"})
}

func mustGuess(t *testing.T, s *Session, letter string) Outcome {
	t.Helper()
	o, err := s.Guess(letter)
	if err != nil {
		t.Fatalf("Guess(%q): %v", letter, err)
	}
	return o
}

func TestNewSessionSlots(t *testing.T) {
	s := NewSession(words.Entry{Word: "Banana", Category: "fruit"})

	if s.Word != "banana" {
		t.Fatalf("word = %q, want lowercase", s.Word)
	}
	if len(s.Slots) != len(s.Word) {
		t.Fatalf("len(slots) = %d, want %d", len(s.Slots), len(s.Word))
	}
	var b strings.Builder
	for _, sl := range s.Slots {
		if sl.Revealed {
			t.Fatalf("slot %q revealed at start", sl.Letter)
		}
		b.WriteString(sl.Letter)
	}
	if b.String() != s.Word {
		t.Fatalf("slots spell %q, want %q", b.String(), s.Word)
	}
	if s.RemainingGuesses != MaxGuesses || s.Status != StatusInProgress {
		t.Fatalf("unexpected start state %+v", s)
	}
	if len(s.LettersGuessed) != 0 || s.History != (History{}) || s.LastError != "" {
		t.Fatalf("unexpected start state %+v", s)
	}
}

func TestStartRound(t *testing.T) {
	if _, err := StartRound(nil); !errors.Is(err, ErrEmptyWordList) {
		t.Fatalf("StartRound(nil) err = %v, want ErrEmptyWordList", err)
	}

	list := []words.Entry{{Word: "cat", Category: "animal"}, {Word: "dog", Category: "animal"}}
	s, err := StartRound(list)
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if s.Word != "cat" && s.Word != "dog" {
		t.Fatalf("word %q not from list", s.Word)
	}
	if s.Category != "animal" {
		t.Fatalf("category = %q", s.Category)
	}
}

// Guessing every letter of "cat" in turn wins on the last one.
func TestGuessWin(t *testing.T) {
	s := catSession()

	if o := mustGuess(t, s, "c"); o != OutcomeHit {
		t.Fatalf("c: outcome %q, want hit", o)
	}
	if !s.Slots[0].Revealed || s.Slots[1].Revealed || s.Slots[2].Revealed {
		t.Fatalf("after c: slots %+v", s.Slots)
	}
	if s.Status != StatusInProgress || s.RemainingGuesses != MaxGuesses {
		t.Fatalf("after c: status %q remaining %d", s.Status, s.RemainingGuesses)
	}

	if o := mustGuess(t, s, "a"); o != OutcomeHit {
		t.Fatalf("a: outcome %q, want hit", o)
	}
	if !s.Slots[1].Revealed || s.Status != StatusInProgress {
		t.Fatalf("after a: %+v", s)
	}

	if o := mustGuess(t, s, "t"); o != OutcomeWon {
		t.Fatalf("t: outcome %q, want won", o)
	}
	if s.Status != StatusWon || s.History != (History{Wins: 1}) {
		t.Fatalf("after t: status %q history %+v", s.Status, s.History)
	}
}

// Five misses lose the round.
func TestGuessLose(t *testing.T) {
	s := catSession()

	for i, l := range []string{"x", "y", "z", "q"} {
		if o := mustGuess(t, s, l); o != OutcomeMiss {
			t.Fatalf("%s: outcome %q, want miss", l, o)
		}
		if want := MaxGuesses - (i + 1); s.RemainingGuesses != want {
			t.Fatalf("%s: remaining %d, want %d", l, s.RemainingGuesses, want)
		}
	}
	if o := mustGuess(t, s, "w"); o != OutcomeLost {
		t.Fatalf("w: outcome %q, want lost", o)
	}
	if s.RemainingGuesses != 0 || s.Status != StatusLost {
		t.Fatalf("after w: remaining %d status %q", s.RemainingGuesses, s.Status)
	}
	if s.History != (History{Losses: 1}) {
		t.Fatalf("history %+v, want 1 loss", s.History)
	}
}

func TestGuessRepeatIsNoop(t *testing.T) {
	s := catSession()
	mustGuess(t, s, "c")
	mustGuess(t, s, "x")
	before := s.Clone()

	for _, l := range []string{"c", "C", " c ", "x", "X"} {
		if o := mustGuess(t, s, l); o != OutcomeRepeat {
			t.Fatalf("%q: outcome %q, want repeat", l, o)
		}
	}
	if !reflect.DeepEqual(s, before) {
		t.Fatalf("repeat guesses changed session:\n got %+v\nwant %+v", s, before)
	}
	if got := strings.Join(s.LettersGuessed, ""); got != "cx" {
		t.Fatalf("letters guessed %q, want \"cx\"", got)
	}
}

func TestGuessValidation(t *testing.T) {
	cases := []struct {
		name  string
		input string
		msg   string
	}{
		{"two letters", "ab", "guess must be a single letter"},
		{"empty", "", "enter a letter"},
		{"blank", "   ", "enter a letter"},
		{"digit", "7", "guess must be a letter a-z"},
		{"punctuation", "?", "guess must be a letter a-z"},
		{"non ascii letter", "é", "guess must be a letter a-z"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := catSession()
			mustGuess(t, s, "x")
			before := s.Clone()

			_, err := s.Guess(tc.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if verr.Message != tc.msg || s.LastError != tc.msg {
				t.Fatalf("message %q / LastError %q, want %q", verr.Message, s.LastError, tc.msg)
			}
			if !reflect.DeepEqual(s.LettersGuessed, before.LettersGuessed) || s.RemainingGuesses != before.RemainingGuesses {
				t.Fatalf("invalid guess mutated round: %+v", s)
			}

			// A valid guess clears the message.
			mustGuess(t, s, "c")
			if s.LastError != "" {
				t.Fatalf("LastError = %q after valid guess", s.LastError)
			}
		})
	}
}

func TestGuessUppercaseFolds(t *testing.T) {
	s := catSession()
	if o := mustGuess(t, s, "C"); o != OutcomeHit {
		t.Fatalf("outcome %q, want hit", o)
	}
	if s.LettersGuessed[0] != "c" {
		t.Fatalf("letters guessed %v, want lowercase", s.LettersGuessed)
	}
}

func TestGuessRepeatedLetterRevealsAllSlots(t *testing.T) {
	s := NewSession(words.Entry{Word: "banana", Category: "fruit"})
	mustGuess(t, s, "a")
	for i, sl := range s.Slots {
		if want := sl.Letter == "a"; sl.Revealed != want {
			t.Fatalf("slot %d (%s) revealed=%v", i, sl.Letter, sl.Revealed)
		}
	}
	mustGuess(t, s, "n")
	if o := mustGuess(t, s, "b"); o != OutcomeWon {
		t.Fatalf("outcome %q, want won", o)
	}
}

func TestGuessAfterTerminalIsIgnored(t *testing.T) {
	for _, letters := range [][]string{{"c", "a", "t"}, {"v", "w", "x", "y", "z"}} {
		s := catSession()
		for _, l := range letters {
			mustGuess(t, s, l)
		}
		if !s.Status.Terminal() {
			t.Fatalf("%v: status %q not terminal", letters, s.Status)
		}
		before := s.Clone()
		for _, l := range []string{"c", "q", "ab", "7"} {
			o, err := s.Guess(l)
			if err != nil || o != OutcomeIgnored {
				t.Fatalf("%q after terminal: outcome %q err %v", l, o, err)
			}
		}
		if !reflect.DeepEqual(s, before) {
			t.Fatalf("guess after terminal changed session")
		}
	}
}

// History counts every finished round once and survives new rounds.
func TestHistoryAcrossRounds(t *testing.T) {
	list := []words.Entry{{Word: "cat", Category: "animal"}}
	s, err := StartRound(list)
	if err != nil {
		t.Fatal(err)
	}

	rounds := 0
	finish := func(letters ...string) {
		t.Helper()
		finished := 0
		for _, l := range letters {
			if o := mustGuess(t, s, l); o.Finished() {
				finished++
			}
		}
		// stale resubmits after the round ended
		mustGuess(t, s, letters[len(letters)-1])
		if finished != 1 {
			t.Fatalf("round finished %d times", finished)
		}
		rounds++
		if got := s.History.Wins + s.History.Losses; got != rounds {
			t.Fatalf("history total %d, want %d", got, rounds)
		}
		if err := s.NewRound(list); err != nil {
			t.Fatal(err)
		}
	}

	finish("c", "a", "t")
	finish("b", "d", "e", "f", "g")
	finish("t", "a", "x", "c")

	if s.History != (History{Wins: 2, Losses: 1}) {
		t.Fatalf("history %+v, want 2 wins 1 loss", s.History)
	}
	if s.Status != StatusInProgress || s.RemainingGuesses != MaxGuesses || len(s.LettersGuessed) != 0 {
		t.Fatalf("NewRound did not reset round state: %+v", s)
	}
}

func TestResetHistory(t *testing.T) {
	s := catSession()
	s.History = History{Wins: 3, Losses: 2}
	mustGuess(t, s, "c")
	mustGuess(t, s, "x")
	slots := append([]Slot(nil), s.Slots...)

	if err := s.ResetHistory(); err != nil {
		t.Fatal(err)
	}
	if s.History != (History{}) {
		t.Fatalf("history %+v, want zero", s.History)
	}
	if s.Status != StatusInProgress || s.RemainingGuesses != MaxGuesses-1 || !reflect.DeepEqual(s.Slots, slots) {
		t.Fatalf("ResetHistory touched the round: %+v", s)
	}
}

func TestNewRoundErrors(t *testing.T) {
	var nilSession *Session
	if err := nilSession.NewRound([]words.Entry{{Word: "cat"}}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("nil NewRound err = %v", err)
	}
	if _, err := nilSession.Guess("a"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("nil Guess err = %v", err)
	}
	if err := nilSession.ResetHistory(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("nil ResetHistory err = %v", err)
	}

	s := catSession()
	mustGuess(t, s, "c")
	before := s.Clone()
	if err := s.NewRound(nil); !errors.Is(err, ErrEmptyWordList) {
		t.Fatalf("NewRound(nil) err = %v", err)
	}
	if !reflect.DeepEqual(s, before) {
		t.Fatal("failed NewRound mutated session")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := catSession()
	mustGuess(t, s, "c")
	c := s.Clone()
	c.Slots[1].Revealed = true
	c.LettersGuessed[0] = "z"
	if s.Slots[1].Revealed || s.LettersGuessed[0] != "c" {
		t.Fatal("Clone shares slices with the original")
	}
}

func TestRoundRejectsUnplayableWords(t *testing.T) {
	cases := []struct {
		name string
		word string
	}{
		{"empty", ""},
		{"space", "ice cream"},
		{"hyphen", "x-ray"},
		{"digit", "r2d2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			list := []words.Entry{{Word: tc.word, Category: "test"}}
			if _, err := StartRound(list); !errors.Is(err, ErrInvalidWord) {
				t.Fatalf("StartRound err = %v, want ErrInvalidWord", err)
			}

			s := catSession()
			before := s.Clone()
			if err := s.NewRound(list); !errors.Is(err, ErrInvalidWord) {
				t.Fatalf("NewRound err = %v, want ErrInvalidWord", err)
			}
			if !reflect.DeepEqual(s, before) {
				t.Fatal("rejected NewRound mutated session")
			}
		})
	}

	s, err := StartRound([]words.Entry{{Word: "Cat", Category: "animal"}})
	if err != nil || s.Word != "cat" {
		t.Fatalf("mixed case word: %v %+v", err, s)
	}
}

func TestRepeatKeepsPendingError(t *testing.T) {
	s := catSession()
	mustGuess(t, s, "c")
	if _, err := s.Guess("7"); err == nil {
		t.Fatal("digit accepted")
	}
	before := s.Clone()

	if o := mustGuess(t, s, "c"); o != OutcomeRepeat {
		t.Fatalf("outcome %q, want repeat", o)
	}
	if !reflect.DeepEqual(s, before) {
		t.Fatalf("repeat changed session:\n got %+v\nwant %+v", s, before)
	}
}

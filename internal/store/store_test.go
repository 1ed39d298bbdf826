package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/robalobadob/wordguess/internal/database"
	"github.com/robalobadob/wordguess/internal/game"
	"github.com/robalobadob/wordguess/internal/words"
)

// clock is a settable time source shared by both implementations under test.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newStores(t *testing.T) map[string]func(*clock) Store {
	t.Helper()
	return map[string]func(*clock) Store{
		"memory": func(c *clock) Store {
			m := NewMemoryStore().(*memory)
			m.now = c.now
			return m
		},
		"sqlite": func(c *clock) Store {
			db, err := database.OpenTest(context.Background(), t.TempDir())
			if err != nil {
				t.Fatalf("open db: %v", err)
			}
			t.Cleanup(func() { _ = db.Close() })
			s := NewSQLiteStore(db).(*sqliteStore)
			s.now = c.now
			return s
		},
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, mk := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			st := mk(&clock{t: time.Unix(1_700_000_000, 0)})

			if _, err := st.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
			}
			if err := st.Save(ctx, "", game.NewSession(words.Entry{Word: "cat"})); !errors.Is(err, ErrInvalid) {
				t.Fatalf("Save(empty id) err = %v, want ErrInvalid", err)
			}

			sess := game.NewSession(words.Entry{Word: "cat", Category: "animal"})
			sess.History = game.History{Wins: 2, Losses: 1}
			if _, err := sess.Guess("a"); err != nil {
				t.Fatal(err)
			}
			if err := st.Save(ctx, "sid", sess); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := st.Get(ctx, "sid")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !reflect.DeepEqual(got, sess) {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, sess)
			}

			// Mutating the loaded copy must not change what is stored until Save.
			if _, err := got.Guess("c"); err != nil {
				t.Fatal(err)
			}
			again, _ := st.Get(ctx, "sid")
			if again.Slots[0].Revealed {
				t.Fatal("store shares state with a loaded session")
			}
			if err := st.Save(ctx, "sid", got); err != nil {
				t.Fatal(err)
			}
			again, _ = st.Get(ctx, "sid")
			if !again.Slots[0].Revealed {
				t.Fatal("second Save did not replace session")
			}

			if err := st.Delete(ctx, "sid"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := st.Get(ctx, "sid"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get after Delete err = %v", err)
			}
			if err := st.Delete(ctx, "sid"); err != nil {
				t.Fatalf("Delete(missing): %v", err)
			}
		})
	}
}

func TestStorePrune(t *testing.T) {
	ctx := context.Background()
	for name, mk := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			c := &clock{t: time.Unix(1_700_000_000, 0)}
			st := mk(c)

			if err := st.Save(ctx, "old", game.NewSession(words.Entry{Word: "cat"})); err != nil {
				t.Fatal(err)
			}
			c.t = c.t.Add(2 * time.Hour)
			if err := st.Save(ctx, "fresh", game.NewSession(words.Entry{Word: "dog"})); err != nil {
				t.Fatal(err)
			}

			n, err := st.Prune(ctx, c.t.Add(-time.Hour))
			if err != nil {
				t.Fatalf("Prune: %v", err)
			}
			if n != 1 {
				t.Fatalf("pruned %d, want 1", n)
			}
			if _, err := st.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("old session survived prune: %v", err)
			}
			if _, err := st.Get(ctx, "fresh"); err != nil {
				t.Fatalf("fresh session pruned: %v", err)
			}
		})
	}
}

func TestTouchKeepsSessionAlive(t *testing.T) {
	ctx := context.Background()
	for name, mk := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			c := &clock{t: time.Unix(1_700_000_000, 0)}
			st := mk(c)

			sess := game.NewSession(words.Entry{Word: "cat"})
			sess.History = game.History{Wins: 3}
			if err := st.Save(ctx, "reader", sess); err != nil {
				t.Fatal(err)
			}
			if err := st.Save(ctx, "idle", game.NewSession(words.Entry{Word: "dog"})); err != nil {
				t.Fatal(err)
			}

			c.t = c.t.Add(2 * time.Hour)
			if err := st.Touch(ctx, "reader"); err != nil {
				t.Fatalf("Touch: %v", err)
			}
			if err := st.Touch(ctx, "missing"); err != nil {
				t.Fatalf("Touch(missing): %v", err)
			}

			n, err := st.Prune(ctx, c.t.Add(-time.Hour))
			if err != nil {
				t.Fatal(err)
			}
			if n != 1 {
				t.Fatalf("pruned %d, want 1", n)
			}
			got, err := st.Get(ctx, "reader")
			if err != nil {
				t.Fatalf("touched session pruned: %v", err)
			}
			if !reflect.DeepEqual(got, sess) {
				t.Fatalf("Touch changed session: %+v", got)
			}
			if _, err := st.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Touch created a session: %v", err)
			}
		})
	}
}

func TestRunJanitorStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunJanitor(ctx, NewMemoryStore(), time.Hour, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}

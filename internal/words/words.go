// internal/words/words.go
//
// Word list management for the game engine.
//
// Responsibilities:
//   - Parse "word,category" lists from a file or the embedded default.
//   - Normalize entries (lowercase, trimmed) and drop anything that is not a–z.
//   - Pick a uniformly random entry with crypto/rand.
//
// File format:
//   # comment
//   giraffe,animal
//   banana,fruit
//
// A line without a category is accepted and filed under "general".
//
// Environment:
//   WORDS_FILE=/path/to/words.txt   (read by the config package; empty → embedded list)

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/robalobadob/wordguess/assets"
)

// DefaultCategory is used for entries listed without a category.
const DefaultCategory = "general"

// ErrEmpty is returned when a list has no usable entries.
var ErrEmpty = errors.New("words: list is empty")

// Entry is one candidate secret word and the hint category shown to the player.
type Entry struct {
	Word     string `json:"word"`
	Category string `json:"category"`
}

// Load reads the list at path, or the embedded default list when path is empty.
// Returns ErrEmpty if no valid entries remain after normalization.
func Load(path string) ([]Entry, error) {
	var r io.ReadCloser
	if path == "" {
		f, err := assets.WordList()
		if err != nil {
			return nil, fmt.Errorf("open embedded words: %w", err)
		}
		r = f
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		r = f
	}
	defer r.Close()

	list, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrEmpty
	}
	return list, nil
}

// Parse reads one entry per line. Blank lines and '#' comments are skipped,
// as are words containing anything other than a–z after lowercasing.
func Parse(r io.Reader) ([]Entry, error) {
	var out []Entry
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, category, _ := strings.Cut(line, ",")
		word = strings.ToLower(strings.TrimSpace(word))
		category = strings.TrimSpace(category)
		if !Valid(word) {
			continue
		}
		if category == "" {
			category = DefaultCategory
		}
		out = append(out, Entry{Word: word, Category: category})
	}
	return out, sc.Err()
}

// Random returns a cryptographically random entry from list.
func Random(list []Entry) (Entry, error) {
	if len(list) == 0 {
		return Entry{}, ErrEmpty
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	if err != nil {
		return Entry{}, fmt.Errorf("pick word: %w", err)
	}
	return list[n.Int64()], nil
}

// Valid reports whether s is non-empty and all lowercase ASCII letters.
func Valid(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

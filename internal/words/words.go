// internal/words/words.go
//
// Target word list management.
//
// Responsibilities:
//   - Load the ordered target list from a file or fall back to the embedded default.
//   - Validate entries (letters and spaces only, at least 2 letters, distinct
//     once normalized).
//
// File format:
//   One entry per line. Blank lines and lines starting with '#' are ignored.
//   Entries may contain spaces ("I love you"); they are stripped before placement.
//
// Environment variables:
//   WORDS_FILE=/path/to/words.txt

package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/robalobadob/wordhunt/assets"
	"github.com/robalobadob/wordhunt/internal/puzzle"
)

var (
	ErrEmpty     = errors.New("words: list is empty")
	ErrTooShort  = errors.New("words: entry needs at least 2 letters")
	ErrBadLetter = errors.New("words: entry may only contain letters and spaces")
	ErrDuplicate = errors.New("words: duplicate entry")
)

// Load returns the list at path, or the embedded default when path is empty.
func Load(path string) ([]string, error) {
	if path == "" {
		return Default()
	}
	list, err := readWordFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := Validate(list); err != nil {
		return nil, err
	}
	return list, nil
}

// Default returns the embedded default list.
func Default() ([]string, error) {
	list, err := assets.DefaultWords()
	if err != nil {
		return nil, err
	}
	if err := Validate(list); err != nil {
		return nil, err
	}
	return list, nil
}

// Validate checks a target list. Order is not changed.
func Validate(list []string) error {
	if len(list) == 0 {
		return ErrEmpty
	}
	seen := make(map[string]struct{}, len(list))
	for _, w := range list {
		n := puzzle.Normalize(w)
		if len(n) < puzzle.MinMatchLen {
			return fmt.Errorf("%w: %q", ErrTooShort, w)
		}
		if !isAlpha(n) {
			return fmt.Errorf("%w: %q", ErrBadLetter, w)
		}
		if _, dup := seen[n]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicate, w)
		}
		seen[n] = struct{}{}
	}
	return nil
}

// readWordFile loads one entry per line, trimming surrounding whitespace.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		out = append(out, w)
	}
	return out, sc.Err()
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

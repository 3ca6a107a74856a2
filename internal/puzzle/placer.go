// internal/puzzle/placer.go
//
// Word placement for a new puzzle.
// Responsibilities:
//   - Place each target word along one of the 8 directions at a random origin.
//   - Retry up to a fixed budget on conflict, then skip the word with a warning.
//   - Fill every cell left empty with a random filler letter.
//
// Notes:
//   - Words are processed in input order; there is no backtracking, so a
//     crowded grid can legitimately leave a word out.
//   - Crossing words may share a cell when the letters agree.

package puzzle

import (
	"math/rand"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

const (
	DefaultSize    = 12
	DefaultRetries = 100
)

// Placement records where a word ended up on the grid.
type Placement struct {
	Word       string    `json:"word"`       // as requested, may contain spaces
	Normalized string    `json:"normalized"` // whitespace stripped, uppercase
	Cells      []Coord   `json:"cells"`
	Direction  Direction `json:"direction"`
}

// Placer generates grids. The zero value is not usable; build one with NewPlacer.
type Placer struct {
	Size    int
	Retries int
	Rand    *rand.Rand
	Log     zerolog.Logger
}

// NewPlacer returns a placer for size x size grids drawing from rng.
func NewPlacer(size, retries int, rng *rand.Rand, logger zerolog.Logger) *Placer {
	if size <= 0 {
		size = DefaultSize
	}
	if retries <= 0 {
		retries = DefaultRetries
	}
	return &Placer{Size: size, Retries: retries, Rand: rng, Log: logger}
}

// Normalize strips whitespace and uppercases a target word.
func Normalize(word string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, word))
}

// Generate builds a complete grid for words. The returned placements are in
// input order and omit every word that could not be placed.
func (p *Placer) Generate(words []string) (*Grid, []Placement) {
	g := NewGrid(p.Size)
	placements := make([]Placement, 0, len(words))

	for _, w := range words {
		pl, attempts, reason := p.place(g, w)
		if reason != "" {
			p.Log.Warn().Str("word", w).Int("attempts", attempts).Str("reason", reason).Msg("could not place word")
			continue
		}
		placements = append(placements, pl)
	}

	p.fill(g)
	return g, placements
}

// Reasons reported when a word is skipped.
const (
	ReasonEmpty   = "empty"
	ReasonTooLong = "too long"
	ReasonNoRoom  = "no room"
)

// place tries up to p.Retries random (direction, origin) pairs for word. It
// returns the attempts made and, when the word was skipped, why.
func (p *Placer) place(g *Grid, word string) (Placement, int, string) {
	clean := Normalize(word)
	switch {
	case clean == "":
		return Placement{}, 0, ReasonEmpty
	case len(clean) > p.Size:
		return Placement{}, 0, ReasonTooLong
	}

	for attempt := 0; attempt < p.Retries; attempt++ {
		dir := Directions[p.Rand.Intn(len(Directions))]
		origin := Coord{Row: p.Rand.Intn(p.Size), Col: p.Rand.Intn(p.Size)}

		cells, ok := fits(g, clean, origin, dir)
		if !ok {
			continue
		}
		for i, c := range cells {
			g.Cells[c.Row][c.Col].Letter = clean[i]
		}
		return Placement{Word: word, Normalized: clean, Cells: cells, Direction: dir}, attempt + 1, ""
	}
	return Placement{}, p.Retries, ReasonNoRoom
}

// fits returns the cells word would occupy from origin along dir, or false if
// any of them is off the grid or holds a different letter.
func fits(g *Grid, word string, origin Coord, dir Direction) ([]Coord, bool) {
	cells := make([]Coord, len(word))
	for i := 0; i < len(word); i++ {
		c := origin.Add(dir, i)
		if !g.InBounds(c) {
			return nil, false
		}
		if l := g.Cells[c.Row][c.Col].Letter; l != 0 && l != word[i] {
			return nil, false
		}
		cells[i] = c
	}
	return cells, true
}

// fill puts a random A-Z letter in every empty cell.
func (p *Placer) fill(g *Grid) {
	for r := range g.Cells {
		for c := range g.Cells[r] {
			if g.Cells[r][c].Letter == 0 {
				g.Cells[r][c].Letter = byte('A' + p.Rand.Intn(26))
			}
		}
	}
}

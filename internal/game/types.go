// internal/game/types.go
//
// Core type definitions for a word-hunt session.
// Defines:
//   - State:  coarse session state (playing/won).
//   - Result: outcome of finishing a drag.
//   - View:   JSON-friendly snapshot used by the shells.

package game

import (
	"time"

	"github.com/robalobadob/wordhunt/internal/puzzle"
)

// State is the session's position in the playing -> won machine.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
)

// Result describes what a finished drag did to the session.
type Result struct {
	Word      string `json:"word,omitempty"` // matched word as requested, if any
	Matched   bool   `json:"matched"`        // selection spelled a placed word
	New       bool   `json:"new"`            // first time this word was found
	Remaining int    `json:"remaining"`
	State     State  `json:"state"`

	// Set once the session is won.
	WonAt   time.Time     `json:"-"`
	Elapsed time.Duration `json:"-"`
}

// CellView is one rendered cell.
type CellView struct {
	Letter string           `json:"letter"`
	State  puzzle.CellState `json:"state"`
}

// View is a read-only snapshot of a session.
type View struct {
	ID         string             `json:"gameId"`
	Size       int                `json:"size"`
	Cells      [][]CellView       `json:"cells"`
	Words      []string           `json:"words"`
	Found      []string           `json:"found"`
	Unplaced   []string           `json:"unplaced"`
	Remaining  int                `json:"remaining"`
	State      State              `json:"state"`
	Selecting  bool               `json:"selecting"`
	Selection  []puzzle.Coord     `json:"selection"`
	Placements []puzzle.Placement `json:"placements,omitempty"` // only once won
	Daily      string             `json:"daily,omitempty"`
	StartedAt  time.Time          `json:"startedAt"`
}

// Letters returns the grid letters row by row.
func (v View) Letters() []string {
	out := make([]string, len(v.Cells))
	for r, row := range v.Cells {
		b := make([]byte, 0, len(row))
		for _, c := range row {
			b = append(b, c.Letter...)
		}
		out[r] = string(b)
	}
	return out
}

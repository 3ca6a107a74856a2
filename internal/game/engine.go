// internal/game/engine.go
//
// Session state for a single word-hunt puzzle.
// Responsibilities:
//   - Own the grid and placement records produced by the placer.
//   - Drive the drag lifecycle: begin -> extend* -> end (or leave-grid).
//   - Track found words, the remaining counter, and the playing -> won transition.
//   - Restart with a freshly generated grid.
//
// Notes:
//   - The remaining counter and the win condition count only words that were
//     actually placed; a word the placer had to skip can never block a win.
//   - Found state is monotonic until Restart.
//   - Every exported method takes the session lock; shells may call from
//     concurrent request handlers.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/robalobadob/wordhunt/internal/puzzle"
)

// Session holds one puzzle and the player's progress on it.
type Session struct {
	ID    string
	Daily string // YYYY-MM-DD for daily puzzles, empty otherwise

	mu         sync.Mutex
	startedAt  time.Time
	wonAt      time.Time
	placer     *puzzle.Placer
	words      []string
	grid       *puzzle.Grid
	placements []puzzle.Placement
	found      []string
	foundSet   map[string]struct{}
	remaining  int
	state      State
	selecting  bool
	selection  []puzzle.Coord
}

// New generates a puzzle for words with p and returns a fresh session.
func New(words []string, p *puzzle.Placer) *Session {
	s := &Session{
		ID:     randomID(),
		placer: p,
		words:  append([]string(nil), words...),
	}
	s.reset()
	return s
}

// reset regenerates the grid and clears progress. Callers hold mu (or own s).
func (s *Session) reset() {
	s.grid, s.placements = s.placer.Generate(s.words)
	s.found = []string{}
	s.foundSet = make(map[string]struct{})
	s.remaining = len(s.placements)
	s.state = StatePlaying
	s.selecting = false
	s.selection = nil
	s.startedAt = time.Now()
	s.wonAt = time.Time{}
	if s.remaining == 0 {
		// Nothing could be placed: there is nothing left to find.
		s.state = StateWon
		s.wonAt = s.startedAt
	}
}

// Restart replaces the puzzle with a newly generated one, keeping the ID.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// BeginDrag starts a selection at c. Off-grid cells and finished games are ignored.
func (s *Session) BeginDrag(c puzzle.Coord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying || !s.grid.InBounds(c) {
		return
	}
	s.selecting = true
	s.selection = []puzzle.Coord{c}
	s.grid.SetSelected(s.selection)
}

// ExtendDrag replaces the live selection with the line from the drag start to c.
func (s *Session) ExtendDrag(c puzzle.Coord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.selecting || len(s.selection) == 0 {
		return
	}
	s.selection = puzzle.TraceLine(s.selection[0], c)
	s.grid.SetSelected(s.selection)
}

// EndDrag verifies the live selection, applies a match, and clears the selection.
func (s *Session) EndDrag() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endDrag()
}

// LeaveGrid is a drag that left the grid; it ends the drag like a release.
func (s *Session) LeaveGrid() Result {
	return s.EndDrag()
}

// Select runs a complete drag from start to end.
func (s *Session) Select(start, end puzzle.Coord) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying || !s.grid.InBounds(start) {
		return s.result("", false, false)
	}
	s.selecting = true
	s.selection = puzzle.TraceLine(start, end)
	return s.endDrag()
}

func (s *Session) endDrag() Result {
	if !s.selecting {
		return s.result("", false, false)
	}
	// A gesture that ran off the grid never matches, even if its on-grid
	// part spells a word.
	sel := s.selection
	s.selecting = false
	s.selection = nil
	s.grid.ClearSelected()

	word, ok := puzzle.CheckMatch(sel, s.grid, s.placements)
	if !ok {
		return s.result("", false, false)
	}
	if _, dup := s.foundSet[word]; dup {
		return s.result(word, true, false)
	}

	s.foundSet[word] = struct{}{}
	s.found = append(s.found, word)
	s.remaining--
	s.grid.MarkFound(sel)
	if len(s.found) == len(s.placements) {
		s.state = StateWon
		s.wonAt = time.Now()
	}
	return s.result(word, true, true)
}

func (s *Session) result(word string, matched, isNew bool) Result {
	res := Result{Word: word, Matched: matched, New: isNew, Remaining: s.remaining, State: s.state}
	if s.state == StateWon {
		res.WonAt = s.wonAt
		res.Elapsed = s.wonAt.Sub(s.startedAt)
	}
	return res
}

// StartedAt reports when the current round began.
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// WonAt reports when the current round was won; zero while playing.
func (s *Session) WonAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wonAt
}

// State reports the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining reports how many placed words are still to be found.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Found returns the found words in the order they were found.
func (s *Session) Found() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.found...)
}

// Placed reports how many words made it onto the grid.
func (s *Session) Placed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.placements)
}

// Unplaced lists requested words the placer had to skip.
func (s *Session) Unplaced() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unplaced()
}

func (s *Session) unplaced() []string {
	placed := make(map[string]struct{}, len(s.placements))
	for _, p := range s.placements {
		placed[p.Word] = struct{}{}
	}
	out := []string{}
	for _, w := range s.words {
		if _, ok := placed[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}

// Placements returns a copy of the placement records.
func (s *Session) Placements() []puzzle.Placement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]puzzle.Placement(nil), s.placements...)
}

// Rows returns the grid letters row by row.
func (s *Session) Rows() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Rows()
}

// Words returns the requested target list.
func (s *Session) Words() []string {
	return append([]string(nil), s.words...)
}

// View snapshots the session for rendering. Placements are included only
// once the game is won so a client cannot read the answers off the wire.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	cells := make([][]CellView, s.grid.Size)
	for r, row := range s.grid.Cells {
		cells[r] = make([]CellView, len(row))
		for c, cell := range row {
			cells[r][c] = CellView{Letter: string(cell.Letter), State: cell.State()}
		}
	}
	v := View{
		ID:        s.ID,
		Size:      s.grid.Size,
		Cells:     cells,
		Words:     append([]string(nil), s.words...),
		Found:     append([]string{}, s.found...),
		Unplaced:  s.unplaced(),
		Remaining: s.remaining,
		State:     s.state,
		Selecting: s.selecting,
		Selection: append([]puzzle.Coord{}, s.grid.FilterInBounds(s.selection)...),
		Daily:     s.Daily,
		StartedAt: s.startedAt,
	}
	if s.state == StateWon {
		v.Placements = append([]puzzle.Placement(nil), s.placements...)
	}
	return v
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

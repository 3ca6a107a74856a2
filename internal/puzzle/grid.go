// internal/puzzle/grid.go
//
// Grid model for a word-search puzzle.
// Defines:
//   - Coord: a (row, col) position, 0-indexed.
//   - Cell:  one letter plus its transient selected/found flags.
//   - Grid:  a square matrix of cells owned by a single session.
//
// Notes:
//   - Letters are uppercase ASCII; an empty cell (0) only exists while the
//     placer is still running.
//   - Found is monotonic: once set it is only cleared by building a new grid.

package puzzle

// Coord identifies a cell on the grid.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns c shifted by n steps along d.
func (c Coord) Add(d Direction, n int) Coord {
	return Coord{Row: c.Row + n*d.DRow, Col: c.Col + n*d.DCol}
}

// CellState is the renderable state of a cell.
type CellState string

const (
	StateDefault  CellState = "default"
	StateSelected CellState = "selected"
	StateFound    CellState = "found"
)

// Cell is one grid position.
type Cell struct {
	Letter   byte
	Row      int
	Col      int
	Selected bool
	Found    bool
}

// State reports how the cell should be drawn. Found wins over selected so a
// drag across an already-found word does not hide it.
func (c Cell) State() CellState {
	switch {
	case c.Found:
		return StateFound
	case c.Selected:
		return StateSelected
	default:
		return StateDefault
	}
}

// Grid is a Size x Size matrix of cells.
type Grid struct {
	Size  int
	Cells [][]Cell
}

// NewGrid returns an empty grid of the given size with coordinates filled in.
func NewGrid(size int) *Grid {
	cells := make([][]Cell, size)
	for r := range cells {
		cells[r] = make([]Cell, size)
		for c := range cells[r] {
			cells[r][c] = Cell{Row: r, Col: c}
		}
	}
	return &Grid{Size: size, Cells: cells}
}

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.Size && c.Col >= 0 && c.Col < g.Size
}

// Letter returns the letter at c, or 0 when c is off the grid.
func (g *Grid) Letter(c Coord) byte {
	if !g.InBounds(c) {
		return 0
	}
	return g.Cells[c.Row][c.Col].Letter
}

// Cell returns a copy of the cell at c and whether c is on the grid.
func (g *Grid) Cell(c Coord) (Cell, bool) {
	if !g.InBounds(c) {
		return Cell{}, false
	}
	return g.Cells[c.Row][c.Col], true
}

// FilterInBounds drops coordinates that fall off the grid, keeping order.
func (g *Grid) FilterInBounds(cs []Coord) []Coord {
	out := make([]Coord, 0, len(cs))
	for _, c := range cs {
		if g.InBounds(c) {
			out = append(out, c)
		}
	}
	return out
}

// ClearSelected resets every selected flag.
func (g *Grid) ClearSelected() {
	for r := range g.Cells {
		for c := range g.Cells[r] {
			g.Cells[r][c].Selected = false
		}
	}
}

// SetSelected replaces the selected flags with exactly the in-bounds cells of cs.
func (g *Grid) SetSelected(cs []Coord) {
	g.ClearSelected()
	for _, c := range g.FilterInBounds(cs) {
		g.Cells[c.Row][c.Col].Selected = true
	}
}

// MarkFound sets the found flag on the in-bounds cells of cs.
func (g *Grid) MarkFound(cs []Coord) {
	for _, c := range g.FilterInBounds(cs) {
		g.Cells[c.Row][c.Col].Found = true
	}
}

// Rows returns the letters row by row as strings.
func (g *Grid) Rows() []string {
	out := make([]string, g.Size)
	for r := range g.Cells {
		b := make([]byte, g.Size)
		for c := range g.Cells[r] {
			b[c] = g.Cells[r][c].Letter
		}
		out[r] = string(b)
	}
	return out
}

// Complete reports whether every cell holds an uppercase letter.
func (g *Grid) Complete() bool {
	for r := range g.Cells {
		for _, cell := range g.Cells[r] {
			if cell.Letter < 'A' || cell.Letter > 'Z' {
				return false
			}
		}
	}
	return true
}

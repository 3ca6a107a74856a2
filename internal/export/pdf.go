// internal/export/pdf.go
//
// Printable word-search sheets.
// Lays out a session snapshot on a single A4 page: title, letter grid, and the
// list of words to find. Found cells are shaded; once a game is won the
// answers can be outlined too.
//
// Built-in Helvetica keeps text vector without embedding fonts.

package export

import (
	"errors"
	"io"
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/robalobadob/wordhunt/internal/game"
	"github.com/robalobadob/wordhunt/internal/puzzle"
)

// PDFOptions controls PDF export behavior. Units are millimetres.
type PDFOptions struct {
	Title       string
	ShadeFound  bool // fill cells of found words
	ShowAnswers bool // outline every placement; ignored until the game is won
	MaxCellSize float64
}

const (
	pageMargin     = 15.0
	defaultCell    = 12.0
	titleHeight    = 12.0
	wordListHeight = 6.0
)

// WritePuzzlePDF renders v to w.
func WritePuzzlePDF(w io.Writer, v game.View, opt PDFOptions) error {
	if v.Size <= 0 || len(v.Cells) != v.Size {
		return errors.New("export: empty grid")
	}
	title := opt.Title
	if title == "" {
		title = "Word Hunt"
	}
	maxCell := opt.MaxCellSize
	if maxCell <= 0 {
		maxCell = defaultCell
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetAuthor("Word Hunt", false)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*pageMargin

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(usable, titleHeight, title, "", 1, "C", false, 0, "")
	if v.Daily != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(usable, 6, "Daily puzzle "+v.Daily, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	cell := math.Min(usable/float64(v.Size), maxCell)
	left := pageMargin + (usable-cell*float64(v.Size))/2
	top := pdf.GetY()

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.SetFillColor(220, 220, 220)
	pdf.SetFont("Helvetica", "B", cell*1.6)
	for r, row := range v.Cells {
		for c, cv := range row {
			pdf.SetXY(left+float64(c)*cell, top+float64(r)*cell)
			fill := opt.ShadeFound && cv.State == puzzle.StateFound
			pdf.CellFormat(cell, cell, cv.Letter, "1", 0, "CM", fill, 0, "")
		}
	}

	if opt.ShowAnswers && v.State == game.StateWon {
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.6)
		for _, p := range v.Placements {
			a, b := p.Cells[0], p.Cells[len(p.Cells)-1]
			pdf.Line(
				left+(float64(a.Col)+0.5)*cell, top+(float64(a.Row)+0.5)*cell,
				left+(float64(b.Col)+0.5)*cell, top+(float64(b.Row)+0.5)*cell,
			)
		}
	}

	pdf.SetXY(pageMargin, top+float64(v.Size)*cell+8)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(usable, 8, "Find these words:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for _, word := range ToFind(v) {
		pdf.CellFormat(usable, wordListHeight, strings.ToUpper(word), "", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// ToFind lists the requested words that were placed on the grid.
func ToFind(v game.View) []string {
	skip := make(map[string]struct{}, len(v.Unplaced))
	for _, w := range v.Unplaced {
		skip[w] = struct{}{}
	}
	out := make([]string, 0, len(v.Words))
	for _, w := range v.Words {
		if _, ok := skip[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}

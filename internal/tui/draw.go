package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/robalobadob/wordhunt/internal/game"
	"github.com/robalobadob/wordhunt/internal/puzzle"
)

var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Foreground(tcell.ColorHotPink).Bold(true)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleFound    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStruck   = tcell.StyleDefault.Foreground(tcell.ColorGreen).StrikeThrough(true)
)

func (p *Player) draw() {
	p.screen.Clear()
	switch p.phase {
	case phaseWon:
		p.drawCentered([]string{"You won!", "", "Enter: next   r: play again   q: quit"}, styleTitle)
	case phaseCountdown:
		p.drawCentered([]string{"Next surprise in", strconv.Itoa(p.count)}, styleTitle)
	case phaseFinal:
		p.drawCentered(append(wrap(p.opt.FinalMessage, 50), "", "r: play again   q: quit"), styleTitle)
	default:
		p.drawBoard(p.sess.View())
	}
	p.screen.Show()
}

func (p *Player) drawBoard(v game.View) {
	drawText(p.screen, gridLeft, 0, "Word Hunt", styleTitle)
	drawText(p.screen, gridLeft+12, 0, fmt.Sprintf("Words left: %d", v.Remaining), styleDefault)

	for r, row := range v.Cells {
		for c, cell := range row {
			x, y := screenPos(puzzle.Coord{Row: r, Col: c})
			st := styleDefault
			switch cell.State {
			case puzzle.StateFound:
				st = styleFound
			case puzzle.StateSelected:
				st = styleSelected
			}
			drawText(p.screen, x, y, cell.Letter, st)
		}
	}

	// word list to the right of the grid
	x := gridLeft + v.Size*cellW + 3
	found := make(map[string]bool, len(v.Found))
	for _, w := range v.Found {
		found[w] = true
	}
	unplaced := make(map[string]bool, len(v.Unplaced))
	for _, w := range v.Unplaced {
		unplaced[w] = true
	}
	for i, w := range v.Words {
		label, st := strings.ToUpper(w), styleDefault
		switch {
		case found[w]:
			st = styleStruck
		case unplaced[w]:
			label, st = label+" (not placed)", styleDim
		}
		drawText(p.screen, x, gridTop+i, label, st)
	}

	y := gridTop + v.Size + 1
	drawText(p.screen, gridLeft, y, p.status, styleTitle)
	drawText(p.screen, gridLeft, y+1, "drag to select   r: restart   q: quit", styleDim)
}

// drawCentered draws lines centred on the screen.
func (p *Player) drawCentered(lines []string, st tcell.Style) {
	w, h := p.screen.Size()
	top := (h - len(lines)) / 2
	for i, l := range lines {
		drawText(p.screen, (w-len(l))/2, top+i, l, st)
	}
}

func drawText(s tcell.Screen, x, y int, text string, st tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, st)
		x++
	}
}

// wrap splits text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

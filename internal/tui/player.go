// internal/tui/player.go
//
// Terminal player for a word-hunt session, drawn with tcell.
//
// Input mapping:
//   - button-1 press on a cell        → drag start
//   - motion with button-1 held       → drag continue (off-grid: leave-grid, ends the drag)
//   - button-1 release                → drag end
//   - r restarts, q / Esc / Ctrl-C quits
//   - on the won screen: Enter, Space, n or a click → next
//
// After the last word is found the board stays up for WinDelay, then the won
// screen waits for the player to go next. Only then does it count down
// CountdownTicks ticks of CountdownInterval and show the final message.
// Timers never touch the session or the screen directly: they post interrupt
// events that the event loop handles, so all drawing stays on one goroutine.

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordhunt/internal/game"
	"github.com/robalobadob/wordhunt/internal/puzzle"
)

const (
	gridTop  = 2
	gridLeft = 2
	cellW    = 2 // letter + gap keeps cells roughly square
)

// DefaultFinalMessage is shown when the countdown ends.
const DefaultFinalMessage = "Every word found. Thanks for playing!"

type phase int

const (
	phasePlaying   phase = iota
	phaseSolved          // board still shown during the post-win delay
	phaseWon             // won screen, waiting for the player to go next
	phaseCountdown       // ticking down to the final message
	phaseFinal
)

type tickKind int

const (
	tickWin tickKind = iota
	tickCountdown
)

// tick is the payload of the interrupt events posted by timers. gen ties a
// tick to the round that scheduled it so a restart discards stale ones.
type tick struct {
	gen  int
	kind tickKind
}

// Options tunes the win sequence.
type Options struct {
	CountdownTicks    int
	CountdownInterval time.Duration
	WinDelay          time.Duration
	FinalMessage      string
	Log               zerolog.Logger
}

// Player binds a session to a tcell screen.
type Player struct {
	screen tcell.Screen
	sess   *game.Session
	opt    Options
	log    zerolog.Logger

	phase    phase
	count    int  // countdown value on screen
	held     bool // button-1 was down at the previous mouse event
	dragging bool
	status   string

	gen   int
	timer *time.Timer
}

// NewPlayer prepares a player; the screen must already be initialised.
func NewPlayer(screen tcell.Screen, sess *game.Session, opt Options) *Player {
	if opt.FinalMessage == "" {
		opt.FinalMessage = DefaultFinalMessage
	}
	if opt.CountdownInterval <= 0 {
		opt.CountdownInterval = time.Second
	}
	p := &Player{screen: screen, sess: sess, opt: opt, log: opt.Log}
	if sess.State() == game.StateWon {
		// nothing could be placed; go straight to the win sequence
		p.win()
	}
	return p
}

// Run polls events until the user quits or the screen is finalised.
func (p *Player) Run() {
	p.screen.EnableMouse()
	defer p.stopTimer()
	p.draw()
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return
		}
		if !p.handle(ev) {
			return
		}
		p.draw()
	}
}

// handle dispatches one event. It returns false when the player should exit.
func (p *Player) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return p.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		p.handleMouse(x, y, ev.Buttons())
	case *tcell.EventInterrupt:
		if t, ok := ev.Data().(tick); ok {
			p.onTick(t)
		}
	case *tcell.EventResize:
		p.screen.Sync()
	}
	return true
}

func (p *Player) handleKey(k tcell.Key, r rune) bool {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		p.next()
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return false
		case 'r', 'R':
			p.restart()
		case ' ', 'n', 'N':
			p.next()
		}
	}
	return true
}

func (p *Player) handleMouse(x, y int, btn tcell.ButtonMask) {
	pressed := btn&tcell.Button1 != 0
	wasHeld := p.held
	p.held = pressed
	if p.phase == phaseWon && pressed && !wasHeld {
		p.next()
		return
	}
	if p.phase != phasePlaying {
		return
	}

	c, onGrid := p.cellAt(x, y)
	switch {
	case pressed && !wasHeld:
		if onGrid {
			p.dragging = true
			p.sess.BeginDrag(c)
		}
	case pressed && p.dragging:
		if onGrid {
			p.sess.ExtendDrag(c)
		} else {
			p.finish(p.sess.LeaveGrid())
		}
	case !pressed && p.dragging:
		p.finish(p.sess.EndDrag())
	}
}

// cellAt maps a screen position to a grid cell.
func (p *Player) cellAt(x, y int) (puzzle.Coord, bool) {
	if x < gridLeft || y < gridTop {
		return puzzle.Coord{}, false
	}
	c := puzzle.Coord{Row: y - gridTop, Col: (x - gridLeft) / cellW}
	size := len(p.sess.Rows())
	if c.Row >= size || c.Col >= size {
		return puzzle.Coord{}, false
	}
	return c, true
}

// screenPos is the inverse of cellAt.
func screenPos(c puzzle.Coord) (x, y int) {
	return gridLeft + c.Col*cellW, gridTop + c.Row
}

func (p *Player) finish(res game.Result) {
	p.dragging = false
	switch {
	case res.New:
		p.status = fmt.Sprintf("Found %s!", strings.ToUpper(res.Word))
		p.log.Info().Str("word", res.Word).Int("remaining", res.Remaining).Msg("word found")
	case res.Matched:
		p.status = fmt.Sprintf("%s is already found", strings.ToUpper(res.Word))
	default:
		p.status = ""
	}
	if res.State == game.StateWon {
		p.win()
	}
}

func (p *Player) win() {
	p.phase = phaseSolved
	p.status = "You found them all!"
	p.log.Info().Str("gameId", p.sess.ID).Msg("puzzle solved")
	p.schedule(p.opt.WinDelay, tickWin)
}

// next leaves the won screen and starts the countdown. It does nothing in
// any other phase.
func (p *Player) next() {
	if p.phase != phaseWon {
		return
	}
	p.phase = phaseCountdown
	p.count = p.opt.CountdownTicks
	p.step()
}

func (p *Player) onTick(t tick) {
	if t.gen != p.gen {
		return
	}
	switch {
	case t.kind == tickWin && p.phase == phaseSolved:
		p.phase = phaseWon
	case t.kind == tickCountdown && p.phase == phaseCountdown:
		p.count--
		p.step()
	}
}

// step ends the countdown at zero or schedules the next tick.
func (p *Player) step() {
	if p.count <= 0 {
		p.phase = phaseFinal
		return
	}
	p.schedule(p.opt.CountdownInterval, tickCountdown)
}

func (p *Player) schedule(d time.Duration, kind tickKind) {
	p.stopTimer()
	t := tick{gen: p.gen, kind: kind}
	p.timer = time.AfterFunc(d, func() {
		_ = p.screen.PostEvent(tcell.NewEventInterrupt(t))
	})
}

func (p *Player) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Player) restart() {
	p.gen++
	p.stopTimer()
	p.sess.Restart()
	p.phase = phasePlaying
	p.count = 0
	p.dragging = false
	p.status = ""
	p.log.Info().Str("gameId", p.sess.ID).Msg("restarted")
	if p.sess.State() == game.StateWon {
		p.win()
	}
}

package display

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/lavafield/renderer"
)

// Half-block glyphs: each terminal cell shows two vertically stacked pixels.
const (
	glyphNone  = ' '
	glyphUpper = '▀'
	glyphLower = '▄'
	glyphFull  = '█'
)

// Terminal draws frames with half-block characters. Space or Enter taps the
// button; Escape, Ctrl-C or q quits.
type Terminal struct {
	screen tcell.Screen
	events chan tcell.Event
	style  tcell.Style
}

// NewTerminal opens the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen)
}

// NewTerminalWithScreen wraps an uninitialised screen, such as a simulation
// screen in tests.
func NewTerminalWithScreen(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	screen.Clear()

	t := &Terminal{
		screen: screen,
		events: make(chan tcell.Event, 100),
		style:  tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
	}

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			t.events <- ev
		}
	}()

	return t, nil
}

// Present draws the frame at the top-left of the screen.
func (t *Terminal) Present(f *renderer.Frame) error {
	rows := (f.H + 1) / 2
	for cy := 0; cy < rows; cy++ {
		for x := 0; x < f.W; x++ {
			top := f.Pixel(x, 2*cy)
			bottom := f.Pixel(x, 2*cy+1)
			t.screen.SetContent(x, cy, halfBlock(top, bottom), nil, t.style)
		}
	}
	t.screen.Show()
	return nil
}

func halfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return glyphFull
	case top:
		return glyphUpper
	case bottom:
		return glyphLower
	default:
		return glyphNone
	}
}

// Poll drains queued terminal events without blocking.
func (t *Terminal) Poll() Events {
	var out Events
	for {
		select {
		case ev := <-t.events:
			t.handle(ev, &out)
		default:
			return out
		}
	}
}

func (t *Terminal) handle(ev tcell.Event, out *Events) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			out.Quit = true
		case ev.Key() == tcell.KeyEnter:
			out.Reset = true
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			out.Quit = true
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			out.Reset = true
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	t.screen.Fini()
	return nil
}

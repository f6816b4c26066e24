package pointer

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/blockdrop/internal/model"
)

// Translator converts tcell mouse reports into pointer events.
type Translator struct {
	mu    sync.Mutex
	cellW float64
	cellH float64
	held  Button
	last  model.Point
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithCellSize sets the viewport size of one terminal cell.
func WithCellSize(w, h float64) TranslatorOption {
	return func(t *Translator) {
		if w > 0 && h > 0 {
			t.cellW, t.cellH = w, h
		}
	}
}

// NewTranslator creates a translator. Cells map to one viewport unit
// unless WithCellSize is given.
func NewTranslator(opts ...TranslatorOption) *Translator {
	t := &Translator{cellW: 1, cellH: 1}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate converts ev. It returns false for reports that carry no new
// information, such as a repeated report of a held button at the same cell.
func (t *Translator) Translate(ev *tcell.EventMouse) (Event, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	x, y := ev.Position()
	out := Event{
		Pos:       model.Point{X: float64(x) * t.cellW, Y: float64(y) * t.cellH},
		Modifiers: convertMod(ev.Modifiers()),
		Timestamp: ev.When(),
	}
	button := convertButton(ev.Buttons())

	switch {
	case button.IsWheel():
		out.Button, out.Action = button, ActionPress
		return out, true
	case t.held == ButtonNone && button != ButtonNone:
		t.held = button
		out.Button, out.Action = button, ActionPress
	case t.held != ButtonNone && button == ButtonNone:
		out.Button, out.Action = t.held, ActionRelease
		t.held = ButtonNone
	case t.held != ButtonNone:
		if out.Pos == t.last {
			return Event{}, false
		}
		out.Button, out.Action = t.held, ActionDrag
	default:
		if out.Pos == t.last {
			return Event{}, false
		}
		out.Action = ActionMove
	}
	t.last = out.Pos
	return out, true
}

// Reset forgets the held button.
func (t *Translator) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.held = ButtonNone
	t.last = model.Point{}
}

func convertButton(b tcell.ButtonMask) Button {
	switch {
	case b&tcell.Button1 != 0:
		return ButtonLeft
	case b&tcell.Button2 != 0:
		return ButtonRight
	case b&tcell.Button3 != 0:
		return ButtonMiddle
	case b&tcell.WheelUp != 0:
		return ButtonWheelUp
	case b&tcell.WheelDown != 0:
		return ButtonWheelDown
	case b&tcell.WheelLeft != 0:
		return ButtonWheelLeft
	case b&tcell.WheelRight != 0:
		return ButtonWheelRight
	default:
		return ButtonNone
	}
}

func convertMod(m tcell.ModMask) Modifier {
	var out Modifier
	if m&tcell.ModShift != 0 {
		out |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= ModMeta
	}
	return out
}

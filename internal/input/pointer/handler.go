package pointer

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/blockdrop/internal/dnd/extract"
	"github.com/dshills/blockdrop/internal/dnd/session"
	"github.com/dshills/blockdrop/internal/model"
)

// Sink receives pointer samples. *session.Controller implements it.
type Sink interface {
	PointerDown(s session.Sample, g session.Grab) bool
	PointerMove(s session.Sample)
	PointerUp(ctx context.Context, s session.Sample) session.Outcome
	Cancel() session.Outcome
}

// HitTester finds the block under a viewport point.
type HitTester interface {
	HitTest(p model.Point) (string, bool)
}

// GrabFunc decides what a press over hovered picks up.
type GrabFunc func(hovered string, ev Event) (session.Grab, bool)

// Handler routes pointer events to a Sink.
type Handler struct {
	mu         sync.Mutex
	sink       Sink
	hits       HitTester
	grab       GrabFunc
	translator *Translator
	logger     *zap.Logger

	// pressed is true between a left press and its release.
	pressed bool
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithGrab replaces the default grab, which picks up the hovered block.
func WithGrab(fn GrabFunc) HandlerOption {
	return func(h *Handler) {
		if fn != nil {
			h.grab = fn
		}
	}
}

// WithTranslator sets the translator used for tcell events.
func WithTranslator(t *Translator) HandlerOption {
	return func(h *Handler) {
		if t != nil {
			h.translator = t
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates a handler.
func NewHandler(sink Sink, hits HitTester, opts ...HandlerOption) *Handler {
	h := &Handler{
		sink:       sink,
		hits:       hits,
		grab:       GrabHovered,
		translator: NewTranslator(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GrabHovered picks up the hovered block.
func GrabHovered(hovered string, _ Event) (session.Grab, bool) {
	if hovered == "" {
		return session.Grab{}, false
	}
	return session.Grab{Selection: extract.Selection{Blocks: []string{hovered}}}, true
}

// Handle processes one pointer event. It returns the outcome and true when
// the event ended a gesture.
func (h *Handler) Handle(ctx context.Context, ev Event) (session.Outcome, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ev.Button.IsWheel() {
		return session.Outcome{}, false
	}
	sample := session.Sample{Pos: ev.Pos, Hovered: h.hovered(ev.Pos)}

	switch ev.Action {
	case ActionPress:
		if ev.Button != ButtonLeft || h.pressed {
			return session.Outcome{}, false
		}
		g, ok := h.grab(sample.Hovered, ev)
		if !ok {
			return session.Outcome{}, false
		}
		h.pressed = h.sink.PointerDown(sample, g)
	case ActionDrag, ActionMove:
		if h.pressed {
			h.sink.PointerMove(sample)
		}
	case ActionRelease:
		if !h.pressed {
			return session.Outcome{}, false
		}
		h.pressed = false
		out := h.sink.PointerUp(ctx, sample)
		h.logger.Debug("pointer released",
			zap.Float64("x", ev.Pos.X),
			zap.Float64("y", ev.Pos.Y),
			zap.String("hovered", sample.Hovered),
			zap.Stringer("state", out.State),
		)
		return out, out.State != session.StateIdle
	}
	return session.Outcome{}, false
}

// HandleEvent processes a raw tcell event. Mouse reports go through the
// translator; Escape cancels the active gesture.
func (h *Handler) HandleEvent(ctx context.Context, ev tcell.Event) (session.Outcome, bool) {
	switch e := ev.(type) {
	case *tcell.EventMouse:
		pe, ok := h.translator.Translate(e)
		if !ok {
			return session.Outcome{}, false
		}
		return h.Handle(ctx, pe)
	case *tcell.EventKey:
		if e.Key() == tcell.KeyEscape {
			return h.Cancel()
		}
	}
	return session.Outcome{}, false
}

// Adopt marks a gesture that started in another editor as held, so its
// moves and release are forwarded.
func (h *Handler) Adopt() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pressed = true
}

// Cancel aborts the active gesture.
func (h *Handler) Cancel() (session.Outcome, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.pressed = false
	h.translator.Reset()
	out := h.sink.Cancel()
	return out, out.State == session.StateCancelled
}

func (h *Handler) hovered(p model.Point) string {
	if h.hits == nil {
		return ""
	}
	id, _ := h.hits.HitTest(p)
	return id
}

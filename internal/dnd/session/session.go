package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/blockdrop/internal/config"
	"github.com/dshills/blockdrop/internal/dnd/extract"
	"github.com/dshills/blockdrop/internal/dnd/mutate"
	"github.com/dshills/blockdrop/internal/dnd/target"
	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/snapshot"
	"github.com/dshills/blockdrop/internal/store"
)

// State is the gesture state.
type State uint8

// Gesture states.
const (
	StateIdle State = iota
	StateDragging
	StateApplied
	StateCancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateApplied:
		return "applied"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Grab is what a pointer-down picked up: a page selection, or a canvas
// element when Element is set.
type Grab struct {
	Selection extract.Selection
	Element   string
}

// Sample is one pointer position.
type Sample struct {
	// Pos is in viewport coordinates.
	Pos model.Point
	// Hovered is the block under the pointer, empty over the bare canvas.
	Hovered string
}

// Controller runs drag gestures over one editor document.
type Controller struct {
	mu sync.Mutex

	doc       store.Doc
	mode      snapshot.Mode
	extractor *extract.Extractor
	targets   *target.Resolver
	mutator   *mutate.Mutator
	viewport  Viewport
	hooks     Hooks
	threshold float64
	logger    *zap.Logger

	// Gesture state
	state      State
	tracker    dragTracker
	grab       Grab
	source     store.Doc
	fromEditor bool
	snap       *snapshot.Snapshot
	decision   *target.Decision
	dimmed     []string
	locked     bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithMode sets the editor mode. The default is page mode.
func WithMode(m snapshot.Mode) Option {
	return func(c *Controller) {
		c.mode = m
	}
}

// WithHooks sets the presentation hooks.
func WithHooks(h Hooks) Option {
	return func(c *Controller) {
		c.hooks = h
	}
}

// WithViewport sets the viewport used to convert drop points.
func WithViewport(v Viewport) Option {
	return func(c *Controller) {
		if v != nil {
			c.viewport = v
		}
	}
}

// WithConfig applies the activation threshold from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(c *Controller) {
		if cfg != nil {
			c.threshold = cfg.Drag.ActivationThreshold
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a controller for doc.
func New(doc store.Doc, extractor *extract.Extractor, targets *target.Resolver, mutator *mutate.Mutator, opts ...Option) *Controller {
	c := &Controller{
		doc:       doc,
		mode:      snapshot.ModePage,
		extractor: extractor,
		targets:   targets,
		mutator:   mutator,
		viewport:  identityViewport{},
		threshold: config.DefaultActivationThreshold,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the snapshot of the active drag.
func (c *Controller) Snapshot() *snapshot.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Decision returns the current drop decision.
func (c *Controller) Decision() (target.Decision, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.decision == nil {
		return target.Decision{}, false
	}
	return *c.decision, true
}

// PointerDown records a pending gesture. It returns false and does nothing
// while another gesture is pending or active.
func (c *Controller) PointerDown(s Sample, g Grab) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle || c.tracker.pressed {
		c.logger.Debug("ignoring pointer-down during a gesture")
		return false
	}
	c.tracker.start(s.Pos)
	c.grab = g
	return true
}

// Enter starts a drag that began in another editor with an already
// captured snapshot. A nil src marks content of unknown origin, which no
// block accepts.
func (c *Controller) Enter(src store.Doc, snap *snapshot.Snapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle || c.tracker.pressed || snap.IsEmpty() {
		return false
	}
	c.snap = snap
	c.source = src
	c.fromEditor = src != nil
	c.state = StateDragging
	if src != nil && src.ID() == c.doc.ID() {
		c.dim()
	}
	return true
}

// PointerMove advances the gesture. It never blocks on the store.
func (c *Controller) PointerMove(s Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateIdle:
		if !c.tracker.pressed {
			return
		}
		c.tracker.update(s.Pos)
		if c.tracker.travelled() < c.threshold {
			return
		}
		if !c.begin() {
			c.tracker.end()
			return
		}
	case StateDragging:
		c.tracker.update(s.Pos)
	default:
		return
	}
	c.track(s)
}

// PointerUp ends the gesture, applying the drop when there is a target.
func (c *Controller) PointerUp(ctx context.Context, s Sample) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateDragging {
		c.tracker.end()
		return Outcome{State: c.state}
	}
	c.track(s)

	point := c.viewport.ToModel(s.Pos)
	var out Outcome
	switch {
	case c.decision != nil:
		d := *c.decision
		out = Outcome{State: StateApplied, Decision: &d}
		out.Result = c.mutator.DropOnBlock(ctx, mutate.Drop{
			Source:   c.source,
			Dest:     c.doc,
			Snapshot: c.snap,
			Decision: d,
			Point:    point,
		})
	case c.overCanvas(s):
		out = Outcome{State: StateApplied}
		out.Result = c.mutator.DropOnCanvas(ctx, mutate.CanvasDrop{
			Source:   c.source,
			Dest:     c.doc,
			Snapshot: c.snap,
			Point:    point,
		})
	default:
		out = Outcome{State: StateCancelled}
	}
	c.finish(out)
	return out
}

// Cancel aborts a pending or active gesture.
func (c *Controller) Cancel() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateDragging {
		c.tracker.end()
		return Outcome{State: c.state}
	}
	out := Outcome{State: StateCancelled}
	c.finish(out)
	return out
}

// begin captures the snapshot once the activation threshold is crossed.
func (c *Controller) begin() bool {
	var snap *snapshot.Snapshot
	var ok bool
	if c.grab.Element != "" {
		snap, ok = c.extractor.FromElement(c.grab.Element)
	} else {
		snap, ok = c.extractor.FromBlocks(c.grab.Selection)
	}
	if !ok {
		c.logger.Debug("nothing to drag")
		return false
	}
	c.snap = snap
	c.source = c.doc
	c.fromEditor = true
	c.state = StateDragging
	c.dim()
	if c.hooks.SelectionLock != nil {
		c.hooks.SelectionLock.Lock()
		c.locked = true
	}
	c.logger.Debug("drag started", zap.Strings("units", snap.IDs()), zap.String("mode", string(snap.Mode)))
	return true
}

// track re-resolves the decision and redraws the indicator on change.
func (c *Controller) track(s Sample) {
	next, ok := c.targets.Resolve(target.Input{
		Pointer:        s.Pos,
		Hovered:        s.Hovered,
		Snapshot:       c.snap,
		Mode:           c.mode,
		FromThisEditor: c.fromEditor,
	})
	if !ok {
		next = nil
	}
	if !sameDecision(c.decision, next) {
		if c.hooks.Indicator != nil {
			c.hooks.Indicator.Clear()
			if next != nil {
				c.hooks.Indicator.Show(*next)
			}
		}
		c.decision = next
	}
	if c.hooks.AutoScroller != nil {
		c.hooks.AutoScroller.AutoScroll(s.Pos)
	}
}

func (c *Controller) overCanvas(s Sample) bool {
	if c.mode != snapshot.ModeCanvas || !c.fromEditor {
		return false
	}
	if s.Hovered == "" {
		return true
	}
	surface, ok := c.doc.Surface()
	return ok && s.Hovered == surface
}

// dim lowers the opacity of the dragged content.
func (c *Controller) dim() {
	if c.hooks.Dimmer == nil {
		return
	}
	var ids []string
	for _, b := range c.snap.Blocks {
		if b.Flavour != model.FlavourSurface {
			ids = append(ids, b.ID)
			continue
		}
		for _, child := range b.Children {
			ids = append(ids, child.ID)
		}
		for _, e := range b.Elements {
			ids = append(ids, e.ID())
		}
	}
	c.dimmed = ids
	c.hooks.Dimmer.Dim(ids)
}

// finish runs cleanup, reports the outcome and returns to Idle.
func (c *Controller) finish(out Outcome) {
	c.state = out.State
	if c.hooks.Indicator != nil {
		c.hooks.Indicator.Clear()
	}
	if c.hooks.Dimmer != nil && c.dimmed != nil {
		c.hooks.Dimmer.Restore(c.dimmed)
	}
	if c.locked {
		c.hooks.SelectionLock.Unlock()
	}
	c.logger.Debug("drag finished",
		zap.Stringer("state", out.State),
		zap.Bool("applied", out.Result.Applied),
		zap.String("reason", string(out.Result.Reason)),
	)
	if c.hooks.OnDrop != nil {
		c.hooks.OnDrop(out)
	}

	c.state = StateIdle
	c.tracker.end()
	c.grab = Grab{}
	c.source = nil
	c.fromEditor = false
	c.snap = nil
	c.decision = nil
	c.dimmed = nil
	c.locked = false
}

func sameDecision(a, b *target.Decision) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

package resolve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/snapshot"
)

// Kind is the kind of a member.
type Kind uint8

// Member kinds.
const (
	// KindBlock is a top-level block unit applied with its subtree.
	KindBlock Kind = iota
	// KindSurfaceBlock is a block living directly under the surface.
	KindSurfaceBlock
	// KindElement is a canvas element.
	KindElement
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindSurfaceBlock:
		return "surface-block"
	case KindElement:
		return "element"
	default:
		return "unknown"
	}
}

// Member is one applicable unit of a snapshot.
type Member struct {
	ID   string
	Kind Kind

	// Block is set for block kinds.
	Block *snapshot.BlockSnapshot
	// Element is set for KindElement.
	Element model.Element

	// Index is the position of a KindBlock member among the snapshot's
	// top-level units, counting only block members.
	Index int

	deps []int // owned members
	refs []int // ordering-only references
}

// Dependencies returns the ids of the members this member owns.
func (m *Member) Dependencies(p *Plan) []string {
	out := make([]string, len(m.deps))
	for i, d := range m.deps {
		out[i] = p.arena[d].ID
	}
	return out
}

// ApplyFunc creates one member in the destination and returns its new id.
// References held by the member have already been rewritten to live ids.
type ApplyFunc func(ctx context.Context, m *Member) (string, error)

// Plan is the dependency-ordered application sequence of a snapshot.
type Plan struct {
	arena []*Member
	index map[string]int
	owner map[int]int
	order []int
}

// Members returns the members in application order.
func (p *Plan) Members() []*Member {
	out := make([]*Member, len(p.order))
	for i, idx := range p.order {
		out[i] = p.arena[idx]
	}
	return out
}

// Roots returns the ids of members no container owns, in arena order.
func (p *Plan) Roots() []string {
	var out []string
	for i, m := range p.arena {
		if _, owned := p.owner[i]; !owned {
			out = append(out, m.ID)
		}
	}
	return out
}

// Owner returns the id of the container that owns id.
func (p *Plan) Owner(id string) (string, bool) {
	idx, ok := p.index[id]
	if !ok {
		return "", false
	}
	o, ok := p.owner[idx]
	if !ok {
		return "", false
	}
	return p.arena[o].ID, true
}

// Resolver applies snapshots in dependency order.
type Resolver struct {
	logger *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewPlan builds the dependency-ordered plan for snap.
func NewPlan(snap *snapshot.Snapshot) (*Plan, error) {
	p := &Plan{index: make(map[string]int), owner: make(map[int]int)}
	if snap.IsEmpty() {
		return p, nil
	}
	p.collect(snap)
	p.link()
	if err := p.sort(); err != nil {
		return nil, err
	}
	return p, nil
}

// collect fills the arena in traversal order: block units, surface blocks,
// surface elements.
func (p *Plan) collect(snap *snapshot.Snapshot) {
	var surfaceBlocks []*snapshot.BlockSnapshot
	var elements []model.Element
	blockIndex := 0
	for _, b := range snap.Blocks {
		if b.Flavour == model.FlavourSurface {
			surfaceBlocks = append(surfaceBlocks, b.Children...)
			elements = append(elements, b.Elements...)
			continue
		}
		p.add(&Member{ID: b.ID, Kind: KindBlock, Block: b, Index: blockIndex})
		blockIndex++
	}
	for _, b := range surfaceBlocks {
		p.add(&Member{ID: b.ID, Kind: KindSurfaceBlock, Block: b})
	}
	for _, e := range elements {
		p.add(&Member{ID: e.ID(), Kind: KindElement, Element: e})
	}
}

func (p *Plan) add(m *Member) {
	if _, dup := p.index[m.ID]; dup || m.ID == "" {
		return
	}
	p.index[m.ID] = len(p.arena)
	p.arena = append(p.arena, m)
}

// link builds the dependency map. The first container to claim a member
// owns it.
func (p *Plan) link() {
	for i, m := range p.arena {
		for _, id := range m.memberIDs() {
			d, ok := p.index[id]
			if !ok || d == i {
				continue
			}
			if _, owned := p.owner[d]; owned {
				continue
			}
			p.owner[d] = i
			m.deps = append(m.deps, d)
		}
		for _, id := range m.endpointIDs() {
			if d, ok := p.index[id]; ok && d != i {
				m.refs = append(m.refs, d)
			}
		}
	}
}

func (m *Member) memberIDs() []string {
	switch m.Kind {
	case KindElement:
		if m.Element.Type().IsGroupLike() {
			return m.Element.Children()
		}
	default:
		if m.Block.Flavour.IsGroupLike() {
			return m.Block.Props.IDList(model.PropChildElementIDs)
		}
	}
	return nil
}

func (m *Member) endpointIDs() []string {
	if m.Kind != KindElement || !m.Element.Type().HasEndpoints() {
		return nil
	}
	var out []string
	for _, which := range []model.Endpoint{model.EndpointSource, model.EndpointTarget} {
		if id := m.Element.Endpoint(which); id != "" {
			out = append(out, id)
		}
	}
	return out
}

const (
	unvisited = iota
	visiting
	done
)

// sort orders the arena so every dependency precedes its container.
// Roots are expanded in arena order. Cycles are only detected on ownership;
// a reference pulls in the root that applies its target, and is left
// unresolved when that root is already open.
func (p *Plan) sort() error {
	state := make([]int, len(p.arena))
	type frame struct {
		idx      int
		expanded bool
	}

	for root := range p.arena {
		if _, owned := p.owner[root]; owned || state[root] != unvisited {
			continue
		}
		stack := []frame{{idx: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if state[top.idx] == done || (state[top.idx] == visiting && !top.expanded) {
				stack = stack[:len(stack)-1]
				continue
			}
			if top.expanded {
				state[top.idx] = done
				p.order = append(p.order, top.idx)
				stack = stack[:len(stack)-1]
				continue
			}
			top.expanded = true
			state[top.idx] = visiting
			m := p.arena[top.idx]

			next := make([]int, 0, len(m.deps)+len(m.refs))
			for _, d := range m.deps {
				if state[d] == visiting {
					return fmt.Errorf("%w: %s owns %s", ErrCycleDetected, m.ID, p.arena[d].ID)
				}
				next = append(next, d)
			}
			for _, r := range m.refs {
				if rt, ok := p.rootOf(r); ok && state[rt] == unvisited {
					next = append(next, rt)
				}
			}
			for i := len(next) - 1; i >= 0; i-- {
				if state[next[i]] != done {
					stack = append(stack, frame{idx: next[i]})
				}
			}
		}
	}

	if len(p.order) != len(p.arena) {
		// Members only reachable through each other.
		for i, s := range state {
			if s != done {
				return fmt.Errorf("%w: %s is unreachable from any root", ErrCycleDetected, p.arena[i].ID)
			}
		}
	}
	return nil
}

// rootOf returns the unowned member whose application creates idx.
// It reports false when idx sits on an ownership cycle.
func (p *Plan) rootOf(idx int) (int, bool) {
	for range p.arena {
		o, owned := p.owner[idx]
		if !owned {
			return idx, true
		}
		idx = o
	}
	return 0, false
}

// Resolve applies snap through apply in dependency order and returns the
// identifier remap table.
func (r *Resolver) Resolve(ctx context.Context, snap *snapshot.Snapshot, apply ApplyFunc) (*RemapTable, error) {
	if apply == nil {
		return nil, ErrNilApply
	}
	plan, err := NewPlan(snap)
	if err != nil {
		return nil, err
	}
	return r.Apply(ctx, plan, apply)
}

// Apply runs a plan. References are rewritten through the table built so
// far before each member is handed to apply.
func (r *Resolver) Apply(ctx context.Context, plan *Plan, apply ApplyFunc) (*RemapTable, error) {
	table := NewRemapTable()
	for _, idx := range plan.order {
		if err := ctx.Err(); err != nil {
			return table, err
		}
		m, err := plan.rewrite(plan.arena[idx], table)
		if err != nil {
			return table, err
		}
		live, err := apply(ctx, m)
		if err != nil {
			r.logger.Warn("member apply failed",
				zap.String("id", m.ID),
				zap.Stringer("kind", m.Kind),
				zap.Int("applied", table.Len()),
				zap.Error(err),
			)
			return table, fmt.Errorf("applying %s %s: %w", m.Kind, m.ID, err)
		}
		table.Set(m.ID, live)
		r.logger.Debug("member applied", zap.String("id", m.ID), zap.String("live", live))
	}
	return table, nil
}

// rewrite returns a copy of m whose references point at live ids.
// A container keeps only the members it owns; references that never
// resolved are dropped.
func (p *Plan) rewrite(m *Member, table *RemapTable) (*Member, error) {
	out := *m
	switch m.Kind {
	case KindElement:
		e := m.Element
		var err error
		if e.Type().IsGroupLike() {
			if e, err = e.WithChildren(table.remapAll(m.Dependencies(p))); err != nil {
				return nil, err
			}
		}
		if e.Type().HasEndpoints() {
			for _, which := range []model.Endpoint{model.EndpointSource, model.EndpointTarget} {
				id := e.Endpoint(which)
				if id == "" {
					continue
				}
				live, _ := table.Get(id)
				if e, err = e.WithEndpoint(which, live); err != nil {
					return nil, err
				}
			}
		}
		out.Element = e
	default:
		if m.Block.Flavour.IsGroupLike() {
			b := m.Block.Clone()
			if _, ok := b.Props[model.PropChildElementIDs]; ok {
				b.Props[model.PropChildElementIDs] = table.remapAll(m.Dependencies(p))
			}
			out.Block = b
		}
	}
	return &out, nil
}

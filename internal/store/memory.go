package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/schema"
)

// Memory is an in-memory implementation of Doc.
// It is safe for concurrent access.
type Memory struct {
	mu sync.RWMutex

	id   string
	root string

	// Block storage
	blocks map[string]*model.Block

	// Canvas element storage, kept in insertion order
	elements  map[string]model.Element
	elemOrder []string

	schema *schema.Registry
	newID  func() string
}

// Option configures a Memory document.
type Option func(*Memory)

// WithSchema validates every added or moved block against r.
func WithSchema(r *schema.Registry) Option {
	return func(m *Memory) {
		m.schema = r
	}
}

// WithIDGenerator replaces the uuid based id generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Memory) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithRootID sets the id of the root page block.
func WithRootID(id string) Option {
	return func(m *Memory) {
		if id != "" {
			m.root = id
		}
	}
}

// NewMemory creates a document containing only a root page block.
func NewMemory(docID string, opts ...Option) *Memory {
	m := &Memory{
		id:       docID,
		root:     "root",
		blocks:   make(map[string]*model.Block),
		elements: make(map[string]model.Element),
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(m)
	}
	m.blocks[m.root] = &model.Block{ID: m.root, Flavour: model.FlavourPage, Props: model.Props{}}
	return m
}

// ID returns the document identifier.
func (m *Memory) ID() string {
	return m.id
}

// Root returns the id of the root block.
func (m *Memory) Root() string {
	return m.root
}

// AddBlock creates a block under parent at index. An index outside
// [0, len(children)] appends.
func (m *Memory) AddBlock(ctx context.Context, flavour model.Flavour, props model.Props, parent string, index int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.newID()
	b := &model.Block{ID: id, Flavour: flavour, Props: props.Clone(), Parent: parent}
	if err := m.insertLocked(b, index); err != nil {
		return "", err
	}
	return id, nil
}

// Put inserts a fully specified block, keeping its id. Children listed on b
// are ignored; they attach themselves through their own Put calls.
func (m *Memory) Put(b *model.Block, index int) error {
	if b == nil || b.ID == "" {
		return ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c := b.Clone()
	c.Children = nil
	return m.insertLocked(c, index)
}

func (m *Memory) insertLocked(b *model.Block, index int) error {
	if _, exists := m.blocks[b.ID]; exists {
		return fmt.Errorf("%w: %s", ErrBlockExists, b.ID)
	}
	p, ok := m.blocks[b.Parent]
	if !ok {
		return fmt.Errorf("%w: parent %s", ErrBlockNotFound, b.Parent)
	}
	if err := m.validateLocked(b.Flavour, b.Props, p.Flavour); err != nil {
		return err
	}
	if b.Props == nil {
		b.Props = model.Props{}
	}
	m.blocks[b.ID] = b
	p.Children = insertAt(p.Children, index, b.ID)
	return nil
}

func (m *Memory) validateLocked(flavour model.Flavour, props model.Props, parent model.Flavour) error {
	if !flavour.Valid() {
		return model.ErrUnknownFlavour
	}
	if m.schema == nil {
		return nil
	}
	if err := m.schema.SafeValidate(flavour, parent); err != nil {
		return err
	}
	return m.schema.ValidateProps(flavour, props)
}

// UpdateBlock merges patch into the block's props. A nil value removes the key.
func (m *Memory) UpdateBlock(ctx context.Context, id string, patch model.Props) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blocks[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	next := b.Props.Clone()
	for k, v := range patch.Clone() {
		if v == nil {
			delete(next, k)
			continue
		}
		next[k] = v
	}
	if m.schema != nil {
		if err := m.schema.ValidateProps(b.Flavour, next); err != nil {
			return err
		}
	}
	b.Props = next
	return nil
}

// DeleteBlock removes a block and its subtree.
func (m *Memory) DeleteBlock(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == m.root {
		return ErrRootImmutable
	}
	b, ok := m.blocks[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	if p, ok := m.blocks[b.Parent]; ok {
		p.Children = slices.DeleteFunc(p.Children, func(c string) bool { return c == id })
	}

	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		blk, ok := m.blocks[cur]
		if !ok {
			continue
		}
		if blk.Flavour == model.FlavourSurface {
			m.elements = make(map[string]model.Element)
			m.elemOrder = nil
		}
		stack = append(stack, blk.Children...)
		delete(m.blocks, cur)
	}
	return nil
}

// MoveBlocks detaches ids and re-inserts them, in order, under parent.
// The index refers to parent's children as they are before the move.
func (m *Memory) MoveBlocks(ctx context.Context, ids []string, parent string, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.blocks[parent]
	if !ok {
		return fmt.Errorf("%w: parent %s", ErrBlockNotFound, parent)
	}
	for _, id := range ids {
		if id == m.root {
			return ErrRootImmutable
		}
		b, ok := m.blocks[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
		}
		if m.isAncestorLocked(id, parent) {
			return fmt.Errorf("%w: %s into %s", ErrCycleDetected, id, parent)
		}
		if err := m.validateLocked(b.Flavour, b.Props, p.Flavour); err != nil {
			return err
		}
	}

	if index < 0 || index > len(p.Children) {
		index = len(p.Children)
	}
	moving := make(map[string]bool, len(ids))
	for _, id := range ids {
		moving[id] = true
	}
	for i := 0; i < index && i < len(p.Children); i++ {
		if moving[p.Children[i]] {
			index--
		}
	}

	for _, id := range ids {
		b := m.blocks[id]
		if old, ok := m.blocks[b.Parent]; ok {
			old.Children = slices.DeleteFunc(old.Children, func(c string) bool { return c == id })
		}
	}
	for i, id := range ids {
		m.blocks[id].Parent = parent
		p.Children = insertAt(p.Children, index+i, id)
	}
	return nil
}

func (m *Memory) isAncestorLocked(ancestor, id string) bool {
	for cur, steps := id, 0; cur != "" && steps <= len(m.blocks); steps++ {
		if cur == ancestor {
			return true
		}
		b, ok := m.blocks[cur]
		if !ok {
			return false
		}
		cur = b.Parent
	}
	return false
}

// GetParent returns the parent id of a block.
func (m *Memory) GetParent(id string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blocks[id]
	if !ok || b.Parent == "" {
		return "", false
	}
	return b.Parent, true
}

// GetBlock returns a copy of a block.
func (m *Memory) GetBlock(id string) (*model.Block, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blocks[id]
	if !ok {
		return nil, false
	}
	return b.Clone(), true
}

// HasBlock reports whether a block exists.
func (m *Memory) HasBlock(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blocks[id]
	return ok
}

// BlockCount returns the number of blocks including the root.
func (m *Memory) BlockCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blocks)
}

// Surface returns the id of the root's surface child.
func (m *Memory) Surface() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.blocks[m.root].Children {
		if b, ok := m.blocks[c]; ok && b.Flavour == model.FlavourSurface {
			return c, true
		}
	}
	return "", false
}

// GetElement returns a canvas element.
func (m *Memory) GetElement(id string) (model.Element, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.elements[id]
	return e, ok
}

// AddElement stores e under a freshly generated id and returns that id.
func (m *Memory) AddElement(ctx context.Context, e model.Element) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.newID()
	renamed, err := e.WithID(id)
	if err != nil {
		return "", err
	}
	if err := m.putElementLocked(renamed); err != nil {
		return "", err
	}
	return id, nil
}

// PutElement stores e keeping its id.
func (m *Memory) PutElement(e model.Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putElementLocked(e)
}

func (m *Memory) putElementLocked(e model.Element) error {
	if e.IsZero() || e.ID() == "" {
		return ErrInvalidID
	}
	if !m.hasSurfaceLocked() {
		return ErrNoSurface
	}
	if _, exists := m.elements[e.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrElementExists, e.ID())
	}
	m.elements[e.ID()] = e
	m.elemOrder = append(m.elemOrder, e.ID())
	return nil
}

func (m *Memory) hasSurfaceLocked() bool {
	for _, c := range m.blocks[m.root].Children {
		if b, ok := m.blocks[c]; ok && b.Flavour == model.FlavourSurface {
			return true
		}
	}
	return false
}

// UpdateElement replaces the stored element with the same id.
func (m *Memory) UpdateElement(ctx context.Context, e model.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.elements[e.ID()]; !ok {
		return fmt.Errorf("%w: %s", ErrElementNotFound, e.ID())
	}
	m.elements[e.ID()] = e
	return nil
}

// DeleteElement removes a canvas element.
func (m *Memory) DeleteElement(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.elements[id]; !ok {
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	delete(m.elements, id)
	m.elemOrder = slices.DeleteFunc(m.elemOrder, func(e string) bool { return e == id })
	return nil
}

// Elements returns all canvas elements in insertion order.
func (m *Memory) Elements() []model.Element {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Element, 0, len(m.elemOrder))
	for _, id := range m.elemOrder {
		out = append(out, m.elements[id])
	}
	return out
}

// ElementBounds returns the union of all element bounds.
func (m *Memory) ElementBounds() (model.Bound, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bounds := make([]model.Bound, 0, len(m.elements))
	for _, id := range m.elemOrder {
		if b, ok := m.elements[id].Bound(); ok {
			bounds = append(bounds, b)
		}
	}
	return model.UnionAll(bounds)
}

// CheckTree verifies that every block reaches the root without repeating an
// id and that parent/child links agree.
func (m *Memory) CheckTree() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, b := range m.blocks {
		seen := map[string]bool{}
		for cur := id; cur != m.root; {
			if seen[cur] {
				return fmt.Errorf("%w: cycle through %s", ErrInvalidTree, cur)
			}
			seen[cur] = true
			blk, ok := m.blocks[cur]
			if !ok || blk.Parent == "" {
				return fmt.Errorf("%w: %s does not reach the root", ErrInvalidTree, id)
			}
			cur = blk.Parent
		}
		if id == m.root {
			continue
		}
		p := m.blocks[b.Parent]
		if !slices.Contains(p.Children, id) {
			return fmt.Errorf("%w: %s missing from parent %s", ErrInvalidTree, id, b.Parent)
		}
	}
	return nil
}

func insertAt(s []string, index int, v string) []string {
	if index < 0 || index > len(s) {
		return append(s, v)
	}
	return slices.Insert(s, index, v)
}

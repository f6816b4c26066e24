package store

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/dshills/blockdrop/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// docData is the serialization format for a document.
type docData struct {
	ID       string          `json:"id"`
	Root     string          `json:"root"`
	Blocks   []blockData     `json:"blocks"`
	Elements []model.Element `json:"elements,omitempty"`
}

type blockData struct {
	ID       string        `json:"id"`
	Flavour  model.Flavour `json:"flavour"`
	Props    model.Props   `json:"props,omitempty"`
	Children []string      `json:"children,omitempty"`
}

// Save serializes the document to a writer. Blocks are written in
// pre-order so Load can rebuild them parent first.
func (m *Memory) Save(w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data := docData{ID: m.id, Root: m.root}
	stack := []string{m.root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b := m.blocks[cur]
		data.Blocks = append(data.Blocks, blockData{
			ID:       b.ID,
			Flavour:  b.Flavour,
			Props:    b.Props,
			Children: b.Children,
		})
		for i := len(b.Children) - 1; i >= 0; i-- {
			stack = append(stack, b.Children[i])
		}
	}
	for _, id := range m.elemOrder {
		data.Elements = append(data.Elements, m.elements[id])
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Load deserializes a document previously written by Save.
func Load(r io.Reader, opts ...Option) (*Memory, error) {
	var data docData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if data.Root == "" || len(data.Blocks) == 0 {
		return nil, fmt.Errorf("%w: missing root", ErrInvalidTree)
	}

	opts = append(opts, WithRootID(data.Root))
	m := NewMemory(data.ID, opts...)

	parents := make(map[string]string, len(data.Blocks))
	for _, bd := range data.Blocks {
		for _, c := range bd.Children {
			parents[c] = bd.ID
		}
	}
	for _, bd := range data.Blocks {
		if bd.ID == data.Root {
			m.blocks[m.root].Props = bd.Props.Clone()
			continue
		}
		parent, ok := parents[bd.ID]
		if !ok {
			return nil, fmt.Errorf("%w: orphan block %s", ErrInvalidTree, bd.ID)
		}
		b := &model.Block{ID: bd.ID, Flavour: bd.Flavour, Props: bd.Props, Parent: parent}
		if err := m.Put(b, -1); err != nil {
			return nil, fmt.Errorf("loading block %s: %w", bd.ID, err)
		}
	}
	for _, e := range data.Elements {
		if err := m.PutElement(e); err != nil {
			return nil, fmt.Errorf("loading element %s: %w", e.ID(), err)
		}
	}
	return m, nil
}

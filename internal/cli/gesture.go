package cli

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dshills/blockdrop/internal/dnd/extract"
	"github.com/dshills/blockdrop/internal/input/pointer"
	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/snapshot"
)

// Step actions besides the pointer actions.
const (
	stepCancel = "cancel"
	stepEnter  = "enter"
)

// ErrInvalidGesture is returned for malformed gesture scripts.
var ErrInvalidGesture = errors.New("invalid gesture")

// Gesture is a scripted pointer interaction.
type Gesture struct {
	Mode     snapshot.Mode        `yaml:"mode"`
	Viewport Viewport             `yaml:"viewport"`
	Layout   map[string][]float64 `yaml:"layout"`
	Filters  []string             `yaml:"filters"`
	Steps    []Step               `yaml:"steps"`
}

// Viewport maps viewport pixels to model coordinates: p/zoom + origin.
type Viewport struct {
	Zoom float64 `yaml:"zoom"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// ToModel implements session.Viewport.
func (v Viewport) ToModel(p model.Point) model.Point {
	return model.Point{X: p.X/v.Zoom + v.X, Y: p.Y/v.Zoom + v.Y}
}

// Step is one scripted event.
type Step struct {
	Action string  `yaml:"action"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`

	// Select, Text and Element override what a press picks up. Without
	// them the block under the pointer is grabbed.
	Select  []string   `yaml:"select"`
	Text    *TextRange `yaml:"text"`
	Element string     `yaml:"element"`

	// Source is the document an enter step drags from.
	Source string `yaml:"source"`
}

// TextRange is a text selection between two blocks.
type TextRange struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// selection returns the page selection the step names.
func (s Step) selection() (extract.Selection, bool) {
	sel := extract.Selection{Blocks: s.Select}
	if s.Text != nil {
		sel.Text = &extract.TextRange{From: s.Text.From, To: s.Text.To}
	}
	return sel, len(sel.Blocks) > 0 || sel.Text != nil
}

// ParseGesture decodes and validates a YAML gesture script.
func ParseGesture(r io.Reader) (*Gesture, error) {
	var g Gesture
	if err := yaml.NewDecoder(r).Decode(&g); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGesture, err)
	}
	if g.Mode == "" {
		g.Mode = snapshot.ModePage
	}
	if g.Mode != snapshot.ModePage && g.Mode != snapshot.ModeCanvas {
		return nil, fmt.Errorf("%w: mode %q", ErrInvalidGesture, g.Mode)
	}
	if g.Viewport.Zoom == 0 {
		g.Viewport.Zoom = 1
	}
	if g.Viewport.Zoom < 0 {
		return nil, fmt.Errorf("%w: zoom must be positive", ErrInvalidGesture)
	}
	for id, r := range g.Layout {
		if len(r) != 4 {
			return nil, fmt.Errorf("%w: layout.%s needs [x, y, w, h]", ErrInvalidGesture, id)
		}
	}
	for i, s := range g.Steps {
		switch s.Action {
		case stepCancel:
		case stepEnter:
			_, hasSel := s.selection()
			if s.Source == "" || (!hasSel && s.Element == "") {
				return nil, fmt.Errorf("%w: step %d: enter needs source and a selection", ErrInvalidGesture, i)
			}
		default:
			if _, ok := pointer.ParseAction(s.Action); !ok {
				return nil, fmt.Errorf("%w: step %d: unknown action %q", ErrInvalidGesture, i, s.Action)
			}
		}
	}
	return &g, nil
}

// rects converts the layout section.
func (g *Gesture) rects() map[string]model.Bound {
	out := make(map[string]model.Bound, len(g.Layout))
	for id, r := range g.Layout {
		out[id] = model.Bound{X: r[0], Y: r[1], W: r[2], H: r[3]}
	}
	return out
}

func (s Step) viewportPoint() model.Point {
	return model.Point{X: s.X, Y: s.Y}
}

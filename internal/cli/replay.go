package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/blockdrop/internal/config"
	"github.com/dshills/blockdrop/internal/dnd/extract"
	"github.com/dshills/blockdrop/internal/dnd/mutate"
	"github.com/dshills/blockdrop/internal/dnd/session"
	"github.com/dshills/blockdrop/internal/dnd/target"
	"github.com/dshills/blockdrop/internal/input/pointer"
	"github.com/dshills/blockdrop/internal/observability"
	"github.com/dshills/blockdrop/internal/plugin/lua"
	"github.com/dshills/blockdrop/internal/schema"
	"github.com/dshills/blockdrop/internal/snapshot"
	"github.com/dshills/blockdrop/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Report summarizes a replay.
type Report struct {
	Outcomes   []OutcomeView   `json:"outcomes"`
	Indicators []IndicatorView `json:"indicators,omitempty"`
}

// OutcomeView is one finished gesture.
type OutcomeView struct {
	State     string   `json:"state"`
	Placement string   `json:"placement,omitempty"`
	Target    string   `json:"target,omitempty"`
	Applied   bool     `json:"applied"`
	Reason    string   `json:"reason,omitempty"`
	IDs       []string `json:"ids,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// IndicatorView is one drawn drop indicator.
type IndicatorView struct {
	Placement string     `json:"placement"`
	Target    string     `json:"target"`
	Rect      [4]float64 `json:"rect"`
}

func newReplayCmd(g *globals) *cobra.Command {
	var gesturePath, outPath string
	cmd := &cobra.Command{
		Use:   "replay DOC",
		Short: "Replay a scripted pointer gesture against a document",
		Long: `Loads a JSON document and a YAML gesture script, feeds the scripted
pointer events through a drag session and prints a JSON report of every
finished gesture. With --out the resulting document is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), g.cfg, observability.GetLogger(), args[0], gesturePath, outPath, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&gesturePath, "gesture", "g", "", "gesture script (.yaml)")
	_ = cmd.MarkFlagRequired("gesture")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the resulting document here")
	return cmd
}

// runReplay contains the testable core of the replay command.
func runReplay(ctx context.Context, cfg *config.Config, logger *zap.Logger, docPath, gesturePath, outPath string, w io.Writer) error {
	if cfg == nil {
		cfg = config.Default()
	}
	reg := schema.Default()
	doc, err := loadDoc(docPath, reg)
	if err != nil {
		return err
	}
	gesture, err := loadGesture(gesturePath)
	if err != nil {
		return err
	}

	r, err := newReplayer(doc, reg, gesture, cfg, logger)
	if err != nil {
		return err
	}
	defer r.close()

	for i, step := range gesture.Steps {
		if err := r.step(ctx, step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}

	if outPath != "" {
		if err := saveDoc(doc, outPath); err != nil {
			return err
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.report)
}

// replayer wires a session to a scripted gesture.
type replayer struct {
	doc     *store.Memory
	reg     *schema.Registry
	ctrl    *session.Controller
	handler *pointer.Handler
	filters []*lua.Filter
	logger  *zap.Logger

	current Step
	report  Report
}

func newReplayer(doc *store.Memory, reg *schema.Registry, g *Gesture, cfg *config.Config, logger *zap.Logger) (*replayer, error) {
	r := &replayer{doc: doc, reg: reg, logger: logger}

	layout := target.NewStaticLayout(g.rects())
	layout.SetZoom(g.Viewport.Zoom)

	targetOpts := []target.Option{target.WithConfig(cfg), target.WithLogger(logger)}
	for _, path := range g.Filters {
		f, err := lua.LoadFilter(path, lua.WithLogger(logger))
		if err != nil {
			r.close()
			return nil, err
		}
		r.filters = append(r.filters, f)
		targetOpts = append(targetOpts, target.WithFilter(f))
	}

	r.ctrl = session.New(doc,
		extract.New(doc, extract.WithValidator(reg), extract.WithLogger(logger)),
		target.New(doc, reg, layout, targetOpts...),
		mutate.New(reg, mutate.WithConfig(cfg), mutate.WithLogger(logger)),
		session.WithMode(g.Mode),
		session.WithConfig(cfg),
		session.WithViewport(g.Viewport),
		session.WithLogger(logger),
		session.WithHooks(session.Hooks{
			Indicator: r,
			OnDrop:    r.record,
		}),
	)
	r.handler = pointer.NewHandler(r.ctrl, layout, pointer.WithGrab(r.grab), pointer.WithLogger(logger))
	return r, nil
}

func (r *replayer) step(ctx context.Context, s Step) error {
	r.current = s
	switch s.Action {
	case stepCancel:
		r.handler.Cancel()
		return nil
	case stepEnter:
		return r.enter(s)
	}
	action, _ := pointer.ParseAction(s.Action)
	ev := pointer.Event{Pos: s.viewportPoint(), Action: action}
	if action != pointer.ActionMove {
		ev.Button = pointer.ButtonLeft
	}
	r.handler.Handle(ctx, ev)
	return nil
}

// enter starts a drag carrying content from another document.
func (r *replayer) enter(s Step) error {
	src, err := loadDoc(s.Source, r.reg)
	if err != nil {
		return err
	}
	x := extract.New(src, extract.WithValidator(r.reg), extract.WithLogger(r.logger))
	var snap *snapshot.Snapshot
	var ok bool
	if s.Element != "" {
		snap, ok = x.FromElement(s.Element)
	} else {
		sel, _ := s.selection()
		snap, ok = x.FromBlocks(sel)
	}
	if !ok {
		return fmt.Errorf("nothing to drag in %s", s.Source)
	}
	if !r.ctrl.Enter(src, snap) {
		return fmt.Errorf("a gesture is already active")
	}
	r.handler.Adopt()
	return nil
}

func (r *replayer) grab(hovered string, ev pointer.Event) (session.Grab, bool) {
	if r.current.Element != "" {
		return session.Grab{Element: r.current.Element}, true
	}
	if sel, ok := r.current.selection(); ok {
		return session.Grab{Selection: sel}, true
	}
	return pointer.GrabHovered(hovered, ev)
}

// Show implements session.Indicator.
func (r *replayer) Show(d target.Decision) {
	b := d.Indicator
	r.report.Indicators = append(r.report.Indicators, IndicatorView{
		Placement: string(d.Placement),
		Target:    d.Target,
		Rect:      [4]float64{b.X, b.Y, b.W, b.H},
	})
}

// Clear implements session.Indicator.
func (r *replayer) Clear() {}

func (r *replayer) record(o session.Outcome) {
	v := OutcomeView{
		State:   o.State.String(),
		Applied: o.Result.Applied,
		Reason:  string(o.Result.Reason),
		IDs:     o.Result.IDs,
	}
	if o.Decision != nil {
		v.Placement = string(o.Decision.Placement)
		v.Target = o.Decision.Target
	}
	if o.Result.Err != nil {
		v.Error = o.Result.Err.Error()
	}
	r.report.Outcomes = append(r.report.Outcomes, v)
}

func (r *replayer) close() {
	for _, f := range r.filters {
		_ = f.Close()
	}
}

func loadDoc(path string, reg *schema.Registry) (*store.Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()
	doc, err := store.Load(f, store.WithSchema(reg))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return doc, nil
}

func loadGesture(path string) (*Gesture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening gesture: %w", err)
	}
	defer f.Close()
	return ParseGesture(f)
}

func saveDoc(doc *store.Memory, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := doc.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return f.Close()
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/blockdrop/internal/config"
	"github.com/dshills/blockdrop/internal/dnd/coord"
	"github.com/dshills/blockdrop/internal/dnd/extract"
	"github.com/dshills/blockdrop/internal/dnd/resolve"
	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/observability"
	"github.com/dshills/blockdrop/internal/schema"
	"github.com/dshills/blockdrop/internal/snapshot"
)

// inspectOptions are the inspect command flags.
type inspectOptions struct {
	selectIDs []string
	from, to  string
	element   string
	at        []float64
	absolute  bool
	plan      bool
}

// PlanView is the printed form of a dependency plan.
type PlanView struct {
	Order []MemberView `json:"order"`
	Roots []string     `json:"roots"`
}

// MemberView is one planned member.
type MemberView struct {
	ID    string   `json:"id"`
	Kind  string   `json:"kind"`
	Owner string   `json:"owner,omitempty"`
	Owns  []string `json:"owns,omitempty"`
}

func newInspectCmd(g *globals) *cobra.Command {
	var opts inspectOptions
	cmd := &cobra.Command{
		Use:   "inspect DOC",
		Short: "Print the drag snapshot of a selection",
		Long: `Captures the snapshot a drag of the selection would carry and prints it
as JSON. --at previews the coordinate rewrite to a drop point; --plan prints
the dependency order the snapshot would be applied in instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(g.cfg, args[0], opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringSliceVarP(&opts.selectIDs, "select", "s", nil, "block ids to select")
	cmd.Flags().StringVar(&opts.from, "from", "", "text selection start block")
	cmd.Flags().StringVar(&opts.to, "to", "", "text selection end block")
	cmd.Flags().StringVarP(&opts.element, "element", "e", "", "canvas element or block to grab")
	cmd.Flags().Float64SliceVar(&opts.at, "at", nil, "rewrite bounds to the drop point x,y")
	cmd.Flags().BoolVar(&opts.absolute, "absolute", false, "with --at, ignore original positions")
	cmd.Flags().BoolVar(&opts.plan, "plan", false, "print the dependency plan")
	return cmd
}

func runInspect(cfg *config.Config, docPath string, opts inspectOptions, w io.Writer) error {
	if cfg == nil {
		cfg = config.Default()
	}
	reg := schema.Default()
	doc, err := loadDoc(docPath, reg)
	if err != nil {
		return err
	}

	x := extract.New(doc, extract.WithValidator(reg), extract.WithLogger(observability.GetLogger()))
	var snap *snapshot.Snapshot
	var ok bool
	if opts.element != "" {
		snap, ok = x.FromElement(opts.element)
	} else {
		sel := extract.Selection{Blocks: opts.selectIDs}
		if opts.from != "" || opts.to != "" {
			sel.Text = &extract.TextRange{From: opts.from, To: opts.to}
		}
		snap, ok = x.FromBlocks(sel)
	}
	if !ok {
		return fmt.Errorf("nothing to drag")
	}

	if len(opts.at) > 0 {
		if len(opts.at) != 2 {
			return fmt.Errorf("--at needs x,y")
		}
		p := model.Point{X: opts.at[0], Y: opts.at[1]}
		snap = coord.New(cfg).Rewrite(snap, p, coord.Options{IgnoreOriginalPosition: opts.absolute})
	}

	if !opts.plan {
		return snapshot.Encode(w, snap)
	}
	plan, err := resolve.NewPlan(snap)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(planView(plan))
}

func planView(p *resolve.Plan) PlanView {
	v := PlanView{Roots: p.Roots()}
	for _, m := range p.Members() {
		mv := MemberView{ID: m.ID, Kind: m.Kind.String(), Owns: m.Dependencies(p)}
		if owner, ok := p.Owner(m.ID); ok {
			mv.Owner = owner
		}
		if len(mv.Owns) == 0 {
			mv.Owns = nil
		}
		v.Order = append(v.Order, mv)
	}
	return v
}

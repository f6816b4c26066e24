package lua

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/blockdrop/internal/dnd/target"
	"github.com/dshills/blockdrop/internal/model"
)

// AcceptFunc is the global a filter script must define.
const AcceptFunc = "accept"

// Filter vetoes drop targets through a Lua script.
type Filter struct {
	name   string
	state  *State
	logger *zap.Logger
}

// FilterOption configures a Filter.
type FilterOption func(*Filter)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) FilterOption {
	return func(f *Filter) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithState runs the script in s instead of a fresh state.
func WithState(s *State) FilterOption {
	return func(f *Filter) {
		if s != nil {
			f.state = s
		}
	}
}

// NewFilter compiles a filter script. name labels log entries.
func NewFilter(name, script string, opts ...FilterOption) (*Filter, error) {
	f := &Filter{name: name, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	if f.state == nil {
		f.state = NewState()
	}
	if err := f.state.DoString(script); err != nil {
		_ = f.state.Close()
		return nil, fmt.Errorf("loading filter %s: %w", name, err)
	}
	if !f.state.HasFunction(AcceptFunc) {
		_ = f.state.Close()
		return nil, fmt.Errorf("loading filter %s: %w: %s", name, ErrFunctionNotFound, AcceptFunc)
	}
	return f, nil
}

// LoadFilter compiles the filter script at path.
func LoadFilter(path string, opts ...FilterOption) (*Filter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading filter %s: %w", path, err)
	}
	return NewFilter(path, string(data), opts...)
}

// Name returns the filter label.
func (f *Filter) Name() string {
	return f.name
}

// Accept implements target.Filter.
func (f *Filter) Accept(c target.Candidate) bool {
	ret, err := f.state.Call(AcceptFunc, f.candidateTable(c))
	if err != nil {
		f.logger.Warn("drop filter failed",
			zap.String("filter", f.name),
			zap.String("target", c.Block.ID),
			zap.Error(err),
		)
		return true
	}
	return lua.LVAsBool(ret)
}

// Close releases the script state.
func (f *Filter) Close() error {
	return f.state.Close()
}

func (f *Filter) candidateTable(c target.Candidate) *lua.LTable {
	t := f.state.NewTable()
	t.RawSetString("id", lua.LString(c.Block.ID))
	t.RawSetString("flavour", lua.LString(c.Block.Flavour.String()))
	t.RawSetString("parent", lua.LString(c.Block.Parent))
	t.RawSetString("text", lua.LString(c.Block.Props.String(model.PropText)))
	t.RawSetString("mode", lua.LString(string(c.Mode)))

	units := f.state.NewTable()
	if c.Snapshot != nil {
		t.RawSetString("doc", lua.LString(c.Snapshot.DocID))
		for i, u := range c.Snapshot.Blocks {
			units.RawSetInt(i+1, lua.LString(u.Flavour.String()))
		}
	}
	t.RawSetString("units", units)
	return t
}

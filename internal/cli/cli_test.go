package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/schema"
	"github.com/dshills/blockdrop/internal/snapshot"
	"github.com/dshills/blockdrop/internal/store"
)

func put(t *testing.T, m *store.Memory, id string, f model.Flavour, parent string) {
	t.Helper()
	require.NoError(t, m.Put(&model.Block{ID: id, Flavour: f, Parent: parent}, -1))
}

// pageDoc builds root → n1 (a, b, c, d).
func pageDoc(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory("doc", store.WithSchema(schema.Default()))
	put(t, m, "n1", model.FlavourNote, "root")
	for _, id := range []string{"a", "b", "c", "d"} {
		put(t, m, id, model.FlavourParagraph, "n1")
	}
	return m
}

func writeDoc(t *testing.T, m *store.Memory) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), m.ID()+".json")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, m.Save(f))
	require.NoError(t, f.Close())
	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func children(t *testing.T, path, id string) []string {
	t.Helper()
	doc, err := loadDoc(path, schema.Default())
	require.NoError(t, err)
	b, ok := doc.GetBlock(id)
	require.True(t, ok)
	return b.Children
}

const pageLayout = `
layout:
  n1: [0, 0, 400, 200]
  a: [10, 10, 380, 40]
  b: [10, 50, 380, 40]
  c: [10, 90, 380, 40]
  d: [10, 130, 380, 40]
`

func TestParseGesture(t *testing.T) {
	g, err := ParseGesture(strings.NewReader(pageLayout + `
steps:
  - {action: press, x: 1, y: 2}
  - {action: cancel}
`))
	require.NoError(t, err)
	assert.Equal(t, snapshot.ModePage, g.Mode)
	assert.Equal(t, 1.0, g.Viewport.Zoom)
	assert.Equal(t, model.Bound{X: 10, Y: 50, W: 380, H: 40}, g.rects()["b"])
	require.Len(t, g.Steps, 2)
	assert.Equal(t, model.Point{X: 1, Y: 2}, g.Steps[0].viewportPoint())

	empty, err := ParseGesture(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Steps)
}

func TestParseGesture_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"malformed", "steps: [\n"},
		{"mode", "mode: sideways\n"},
		{"zoom", "viewport: {zoom: -1}\n"},
		{"rect", "layout: {a: [1, 2]}\n"},
		{"action", "steps: [{action: wiggle}]\n"},
		{"enter without source", "steps: [{action: enter, select: [a]}]\n"},
		{"enter without selection", "steps: [{action: enter, source: x.json}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGesture(strings.NewReader(tt.src))
			assert.ErrorIs(t, err, ErrInvalidGesture)
		})
	}
}

func TestViewport_ToModel(t *testing.T) {
	v := Viewport{Zoom: 2, X: 100, Y: -10}
	assert.Equal(t, model.Point{X: 105, Y: 0}, v.ToModel(model.Point{X: 10, Y: 20}))
}

func TestRunReplay_MoveWithinDocument(t *testing.T) {
	docPath := writeDoc(t, pageDoc(t))
	gesture := writeFile(t, "g.yaml", pageLayout+`
steps:
  - {action: press, x: 20, y: 60}
  - {action: drag, x: 20, y: 100}
  - {action: drag, x: 20, y: 125}
  - {action: release, x: 20, y: 125}
`)
	out := filepath.Join(t.TempDir(), "out.json")

	var buf bytes.Buffer
	require.NoError(t, runReplay(context.Background(), nil, zap.NewNop(), docPath, gesture, out, &buf))

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, OutcomeView{State: "applied", Placement: "after", Target: "c", Applied: true, IDs: []string{"b"}}, report.Outcomes[0])
	require.Len(t, report.Indicators, 2)
	assert.Equal(t, IndicatorView{Placement: "before", Target: "c", Rect: [4]float64{10, 88.5, 380, 3}}, report.Indicators[0])

	assert.Equal(t, []string{"a", "c", "b", "d"}, children(t, out, "n1"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, children(t, docPath, "n1"), "input untouched")
}

func TestRunReplay_CancelledAndFiltered(t *testing.T) {
	filter := writeFile(t, "f.lua", `function accept(t) return t.id ~= "c" end`)
	docPath := writeDoc(t, pageDoc(t))
	gesture := writeFile(t, "g.yaml", pageLayout+`
filters: [`+filter+`]
steps:
  - {action: press, x: 20, y: 60}
  - {action: drag, x: 20, y: 100}
  - {action: release, x: 20, y: 100}
  - {action: press, x: 20, y: 60, select: [b, c]}
  - {action: drag, x: 20, y: 15}
  - {action: cancel}
`)

	var buf bytes.Buffer
	require.NoError(t, runReplay(context.Background(), nil, zap.NewNop(), docPath, gesture, "", &buf))

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, "cancelled", report.Outcomes[0].State, "filtered target")
	assert.Equal(t, "cancelled", report.Outcomes[1].State)
	require.Len(t, report.Indicators, 1)
	assert.Equal(t, "a", report.Indicators[0].Target)
}

func TestRunReplay_EnterFromOtherDocument(t *testing.T) {
	src := store.NewMemory("src", store.WithSchema(schema.Default()))
	put(t, src, "m", model.FlavourNote, "root")
	put(t, src, "p", model.FlavourParagraph, "m")
	srcPath := writeDoc(t, src)

	docPath := writeDoc(t, pageDoc(t))
	gesture := writeFile(t, "g.yaml", pageLayout+`
steps:
  - {action: enter, source: `+srcPath+`, select: [p]}
  - {action: move, x: 20, y: 15}
  - {action: release, x: 20, y: 15}
`)
	out := filepath.Join(t.TempDir(), "out.json")

	var buf bytes.Buffer
	require.NoError(t, runReplay(context.Background(), nil, zap.NewNop(), docPath, gesture, out, &buf))

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.Len(t, report.Outcomes, 1)
	assert.True(t, report.Outcomes[0].Applied)
	require.Len(t, report.Outcomes[0].IDs, 1)

	got := children(t, out, "n1")
	assert.Equal(t, []string{report.Outcomes[0].IDs[0], "a", "b", "c", "d"}, got)
}

func TestRunReplay_Errors(t *testing.T) {
	docPath := writeDoc(t, pageDoc(t))
	var buf bytes.Buffer

	err := runReplay(context.Background(), nil, zap.NewNop(), "absent.json", writeFile(t, "g.yaml", ""), "", &buf)
	assert.Error(t, err)

	err = runReplay(context.Background(), nil, zap.NewNop(), docPath, writeFile(t, "g.yaml", "mode: x\n"), "", &buf)
	assert.ErrorIs(t, err, ErrInvalidGesture)

	err = runReplay(context.Background(), nil, zap.NewNop(), docPath, writeFile(t, "g.yaml", "filters: [absent.lua]\n"), "", &buf)
	assert.Error(t, err)

	err = runReplay(context.Background(), nil, zap.NewNop(), docPath,
		writeFile(t, "g.yaml", "steps: [{action: enter, source: "+docPath+", select: [zz]}]\n"), "", &buf)
	assert.ErrorContains(t, err, "step 0")
}

func canvasDoc(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory("doc", store.WithSchema(schema.Default()))
	put(t, m, "surface", model.FlavourSurface, "root")
	for _, e := range []struct {
		id       string
		typ      model.ElementType
		bound    model.Bound
		children []string
	}{
		{"g", model.ElementGroup, model.Bound{X: 0, Y: 0, W: 50, H: 50}, []string{"s1", "s2"}},
		{"s1", model.ElementShape, model.Bound{X: 10, Y: 10, W: 10, H: 10}, nil},
		{"s2", model.ElementShape, model.Bound{X: 20, Y: 20, W: 10, H: 10}, nil},
	} {
		el, err := model.BuildElement(e.id, e.typ, e.bound, e.children...)
		require.NoError(t, err)
		require.NoError(t, m.PutElement(el))
	}
	return m
}

func TestRunInspect(t *testing.T) {
	t.Run("selection", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, runInspect(nil, writeDoc(t, pageDoc(t)), inspectOptions{from: "b", to: "c"}, &buf))
		snap, err := snapshot.Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c"}, snap.IDs())
	})

	t.Run("rewrite", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, runInspect(nil, writeDoc(t, canvasDoc(t)), inspectOptions{element: "g", at: []float64{100, 100}}, &buf))
		snap, err := snapshot.Decode(&buf)
		require.NoError(t, err)
		bounds, ok := snap.Bounds()
		require.True(t, ok)
		assert.Equal(t, model.Bound{X: 100, Y: 100, W: 50, H: 50}, bounds)
	})

	t.Run("plan", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, runInspect(nil, writeDoc(t, canvasDoc(t)), inspectOptions{element: "g", plan: true}, &buf))
		var plan PlanView
		require.NoError(t, json.Unmarshal(buf.Bytes(), &plan))
		assert.Equal(t, []MemberView{
			{ID: "s1", Kind: "element", Owner: "g"},
			{ID: "s2", Kind: "element", Owner: "g"},
			{ID: "g", Kind: "element", Owns: []string{"s1", "s2"}},
		}, plan.Order)
		assert.Equal(t, []string{"g"}, plan.Roots)
	})

	t.Run("errors", func(t *testing.T) {
		var buf bytes.Buffer
		path := writeDoc(t, pageDoc(t))
		assert.Error(t, runInspect(nil, path, inspectOptions{selectIDs: []string{"zz"}}, &buf))
		assert.Error(t, runInspect(nil, path, inspectOptions{selectIDs: []string{"a"}, at: []float64{1}}, &buf))
	})
}

func TestRootCmd(t *testing.T) {
	t.Setenv("BLOCKDROP_LOG_LEVEL", "error")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--version"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, Version+"\n", out.String())

	root = NewRootCmd()
	out.Reset()
	root.SetOut(&out)
	root.SetArgs([]string{"inspect", writeDoc(t, pageDoc(t)), "--select", "a,c"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	snap, err := snapshot.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, snap.IDs())

	root = NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--log-level", "loud", "inspect", "x.json"})
	assert.Error(t, root.ExecuteContext(context.Background()))
}

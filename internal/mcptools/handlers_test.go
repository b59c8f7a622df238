package mcptools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/refig/internal/config"
	"github.com/dusk-indust/refig/internal/graph"
	"github.com/dusk-indust/refig/internal/pipeline"
)

const fixtureModule = "../../testdata/fixtures/plots.py"

// stubRenderer stands in for the Python interpreter in tests.
type stubRenderer struct{}

func (stubRenderer) Render(context.Context, string) error { return nil }

func testService(t *testing.T) (*FigureService, *graph.MemStore) {
	t.Helper()
	store := graph.NewMemStore()
	pipe := &pipeline.Pipeline{
		Config:   &config.ProjectConfig{FiguresDir: filepath.Join(t.TempDir(), "figures")},
		Store:    store,
		Renderer: stubRenderer{},
	}
	return NewFigureService(pipe, store), store
}

func TestAnalyzeFunction(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, out, err := svc.AnalyzeFunction(ctx, nil, AnalyzeFunctionInput{
		ModulePath: fixtureModule,
		Function:   "plot_trend",
	})
	require.NoError(t, err)
	assert.Equal(t, "plot_trend", out.Analysis.Entry)
	assert.Equal(t, []string{"AxisStyler", "zscore", "smooth"}, out.Analysis.Helpers)

	_, _, err = svc.AnalyzeFunction(ctx, nil, AnalyzeFunctionInput{Function: "plot_trend"})
	require.Error(t, err, "modulePath is required")
}

func TestAssembleScript(t *testing.T) {
	svc, _ := testService(t)

	_, out, err := svc.AssembleScript(context.Background(), nil, AssembleScriptInput{
		ModulePath: fixtureModule,
		Function:   "plot_trend",
	})
	require.NoError(t, err)
	assert.Contains(t, out.Script, "def plot_trend(data):")
	assert.Contains(t, out.Script, "figures/plot_trend/data.csv",
		"the figure name defaults to the function name")
	assert.Empty(t, out.Diagnostics)
}

func TestSaveFigure(t *testing.T) {
	svc, store := testService(t)

	_, out, err := svc.SaveFigure(context.Background(), nil, SaveFigureInput{
		Name:       "trend",
		ModulePath: fixtureModule,
		Function:   "plot_trend",
		DataPath:   "../../testdata/fixtures/data.csv",
	})
	require.NoError(t, err)

	_, statErr := os.Stat(out.ScriptPath)
	assert.NoError(t, statErr)
	_, statErr = os.Stat(out.DataPath)
	assert.NoError(t, statErr)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FigureCount)

	_, _, err = svc.SaveFigure(context.Background(), nil, SaveFigureInput{
		ModulePath: fixtureModule,
		Function:   "plot_trend",
	})
	require.Error(t, err, "name is required")
}

func TestDependencyGraph(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, _, err := svc.SaveFigure(ctx, nil, SaveFigureInput{
		Name:       "trend",
		ModulePath: fixtureModule,
		Function:   "plot_trend",
	})
	require.NoError(t, err)

	_, out, err := svc.DependencyGraph(ctx, nil, DependencyGraphInput{})
	require.NoError(t, err)
	assert.Contains(t, out.Mermaid, "graph TD")
	assert.Equal(t, 1, out.Stats.FigureCount)
	assert.Equal(t, 4, out.Stats.UnitCount)
}

func TestQueryUnits(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()

	for _, name := range []string{"plot_trend", "smooth", "zscore"} {
		require.NoError(t, store.AddUnit(ctx, graph.UnitNode{Name: name, Module: "plots.py"}))
	}

	_, out, err := svc.QueryUnits(ctx, nil, QueryUnitsInput{Query: "plot"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Total)

	_, out, err = svc.QueryUnits(ctx, nil, QueryUnitsInput{Query: ""})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total, "an empty query matches everything up to the default limit")
}

func TestNewFigureMCPServer(t *testing.T) {
	svc, _ := testService(t)

	server := NewFigureMCPServer(svc, "1.2.3")
	require.NotNil(t, server)

	server = NewFigureMCPServer(svc, "")
	require.NotNil(t, server, "an empty version falls back to dev")
}

package mcptools

import (
	"context"
	"fmt"

	"github.com/dusk-indust/refig/internal/graph"
	"github.com/dusk-indust/refig/internal/pipeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FigureService holds the pipeline and graph store used by MCP tool
// handlers.
type FigureService struct {
	pipe  *pipeline.Pipeline
	store graph.Store
}

// NewFigureService creates a FigureService around a pipeline and store.
func NewFigureService(pipe *pipeline.Pipeline, store graph.Store) *FigureService {
	return &FigureService{pipe: pipe, store: store}
}

// AnalyzeFunction classifies the dependencies of one figure function
// without writing any artifacts.
func (s *FigureService) AnalyzeFunction(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeFunctionInput,
) (*mcp.CallToolResult, AnalyzeFunctionOutput, error) {
	if input.ModulePath == "" || input.Function == "" {
		return nil, AnalyzeFunctionOutput{}, fmt.Errorf("modulePath and function are required")
	}

	a, err := s.pipe.Analyze(input.ModulePath, input.Function)
	if err != nil {
		return nil, AnalyzeFunctionOutput{}, err
	}
	return nil, AnalyzeFunctionOutput{Analysis: *a}, nil
}

// AssembleScript builds the standalone script text without writing the
// artifact bundle or rendering a figure.
func (s *FigureService) AssembleScript(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input AssembleScriptInput,
) (*mcp.CallToolResult, AssembleScriptOutput, error) {
	if input.ModulePath == "" || input.Function == "" {
		return nil, AssembleScriptOutput{}, fmt.Errorf("modulePath and function are required")
	}
	name := input.Name
	if name == "" {
		name = input.Function
	}

	res, err := s.pipe.Assemble(pipeline.Request{
		Name:            name,
		ModulePath:      input.ModulePath,
		Entry:           input.Function,
		ManualImports:   input.Imports,
		Helpers:         input.Helpers,
		OverrideSources: input.OverrideSources,
		Show:            input.Show,
	})
	if err != nil {
		return nil, AssembleScriptOutput{}, err
	}
	return nil, AssembleScriptOutput{
		Script:      res.Script,
		Diagnostics: res.Diagnostics,
	}, nil
}

// SaveFigure runs the full pipeline: snapshot data, write the script,
// render the figure, and record the closure in the graph store.
func (s *FigureService) SaveFigure(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SaveFigureInput,
) (*mcp.CallToolResult, SaveFigureOutput, error) {
	if input.ModulePath == "" || input.Function == "" || input.Name == "" {
		return nil, SaveFigureOutput{}, fmt.Errorf("name, modulePath, and function are required")
	}

	res, err := s.pipe.Save(ctx, pipeline.Request{
		Name:          input.Name,
		ModulePath:    input.ModulePath,
		Entry:         input.Function,
		DataPath:      input.DataPath,
		ManualImports: input.Imports,
		Helpers:       input.Helpers,
		Show:          input.Show,
	})
	if err != nil {
		return nil, SaveFigureOutput{}, err
	}
	return nil, SaveFigureOutput{
		ScriptPath:  res.Bundle.ScriptPath,
		DataPath:    res.Bundle.DataPath,
		FigurePath:  res.Bundle.FigurePath,
		Diagnostics: res.Diagnostics,
		Warnings:    res.Warnings,
	}, nil
}

// DependencyGraph renders the stored dependency graph as Mermaid.
func (s *FigureService) DependencyGraph(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ DependencyGraphInput,
) (*mcp.CallToolResult, DependencyGraphOutput, error) {
	if s.store == nil {
		return nil, DependencyGraphOutput{}, fmt.Errorf("no graph store configured")
	}

	diagram, err := graph.GenerateMermaid(ctx, s.store)
	if err != nil {
		return nil, DependencyGraphOutput{}, err
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, DependencyGraphOutput{}, err
	}
	return nil, DependencyGraphOutput{Mermaid: diagram, Stats: *stats}, nil
}

// QueryUnits searches stored units by name substring.
func (s *FigureService) QueryUnits(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryUnitsInput,
) (*mcp.CallToolResult, QueryUnitsOutput, error) {
	if s.store == nil {
		return nil, QueryUnitsOutput{}, fmt.Errorf("no graph store configured")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	units, err := s.store.QueryUnits(ctx, input.Query, limit)
	if err != nil {
		return nil, QueryUnitsOutput{}, err
	}
	return nil, QueryUnitsOutput{Units: units, Total: len(units)}, nil
}

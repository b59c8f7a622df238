package mcptools

import (
	"github.com/dusk-indust/refig/internal/graph"
	"github.com/dusk-indust/refig/internal/pipeline"
	"github.com/dusk-indust/refig/internal/resolve"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// AnalyzeFunctionInput is the input for the analyze_function MCP tool.
type AnalyzeFunctionInput struct {
	ModulePath string `json:"modulePath" jsonschema:"path to the Python module defining the figure function"`
	Function   string `json:"function" jsonschema:"name of the figure-building function to analyze"`
}

// AnalyzeFunctionOutput is the result of the analyze_function MCP tool.
type AnalyzeFunctionOutput struct {
	Analysis pipeline.Analysis `json:"analysis"`
}

// AssembleScriptInput is the input for the assemble_script MCP tool.
type AssembleScriptInput struct {
	Name            string   `json:"name" jsonschema:"figure name used for artifact paths inside the script"`
	ModulePath      string   `json:"modulePath" jsonschema:"path to the Python module defining the figure function"`
	Function        string   `json:"function" jsonschema:"name of the figure-building function"`
	Imports         []string `json:"imports,omitempty" jsonschema:"additional raw import statements to emit first"`
	Helpers         []string `json:"helpers,omitempty" jsonschema:"names of module units to force-include"`
	OverrideSources []string `json:"overrideSources,omitempty" jsonschema:"raw Python snippets, each defining one helper unit to force-include"`
	Show            bool     `json:"show,omitempty" jsonschema:"emit an interactive display call in the driver block"`
}

// AssembleScriptOutput is the result of the assemble_script MCP tool.
type AssembleScriptOutput struct {
	Script      string               `json:"script"`
	Diagnostics []resolve.Diagnostic `json:"diagnostics,omitempty"`
}

// SaveFigureInput is the input for the save_figure MCP tool.
type SaveFigureInput struct {
	Name       string   `json:"name" jsonschema:"figure name; artifact directory and figure base name"`
	ModulePath string   `json:"modulePath" jsonschema:"path to the Python module defining the figure function"`
	Function   string   `json:"function" jsonschema:"name of the figure-building function"`
	DataPath   string   `json:"dataPath" jsonschema:"path to the CSV dataset to snapshot into the bundle"`
	Imports    []string `json:"imports,omitempty" jsonschema:"additional raw import statements to emit first"`
	Helpers    []string `json:"helpers,omitempty" jsonschema:"names of module units to force-include"`
	Show       bool     `json:"show,omitempty" jsonschema:"emit an interactive display call in the driver block"`
}

// SaveFigureOutput is the result of the save_figure MCP tool.
type SaveFigureOutput struct {
	ScriptPath  string               `json:"scriptPath"`
	DataPath    string               `json:"dataPath"`
	FigurePath  string               `json:"figurePath"`
	Diagnostics []resolve.Diagnostic `json:"diagnostics,omitempty"`
	Warnings    []string             `json:"warnings,omitempty"`
}

// DependencyGraphInput is the input for the dependency_graph MCP tool.
type DependencyGraphInput struct{}

// DependencyGraphOutput is the result of the dependency_graph MCP tool.
type DependencyGraphOutput struct {
	Mermaid string           `json:"mermaid"`
	Stats   graph.GraphStats `json:"stats"`
}

// QueryUnitsInput is the input for the query_units MCP tool.
type QueryUnitsInput struct {
	Query string `json:"query" jsonschema:"search query for unit names (substring match)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results (default: 20)"`
}

// QueryUnitsOutput is the result of the query_units MCP tool.
type QueryUnitsOutput struct {
	Units []graph.UnitNode `json:"units"`
	Total int              `json:"total"`
}

package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewFigureMCPServer creates an MCP server with all 5 figure tools
// registered. version is whatever the hosting binary was built as.
func NewFigureMCPServer(svc *FigureService, version string) *mcp.Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "refig",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_function",
		Description: "Statically analyze a Python figure-building function: its free names, the imports it needs, the user-defined helpers it depends on, and any names that could not be resolved.",
	}, svc.AnalyzeFunction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "assemble_script",
		Description: "Assemble the standalone reproduction script for a figure function without writing files: imports, embedded helpers in dependency order, the function source, and a driver block.",
	}, svc.AssembleScript)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_figure",
		Description: "Save a reproducible figure bundle: snapshot the CSV dataset, write the assembled script, render the figure by executing the script, and record the dependency closure.",
	}, svc.SaveFigure)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dependency_graph",
		Description: "Return the recorded figure dependency graph as a Mermaid diagram with node and edge counts.",
	}, svc.DependencyGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_units",
		Description: "Search recorded user-defined units (functions and classes) by name substring match.",
	}, svc.QueryUnits)

	return server
}

// RunMCPServer starts an HTTP server exposing the figure MCP tools.
func RunMCPServer(ctx context.Context, svc *FigureService, addr, version string) error {
	server := NewFigureMCPServer(svc, version)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/dusk-indust/refig/internal/config"
	"github.com/dusk-indust/refig/internal/mcptools"
	"github.com/dusk-indust/refig/internal/pipeline"
)

// CLI flags parsed before the subcommand.
type cliFlags struct {
	ProjectRoot string
	ServeMCP    bool
	Addr        string
	Version     bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("refig", flag.ContinueOnError)
	fs.StringVar(&flags.ProjectRoot, "project-root", ".", "directory holding refig.yml")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as MCP server for agent integration")
	fs.StringVar(&flags.Addr, "addr", ":7767", "listen address for -serve-mcp")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(flags.ProjectRoot)
	if err != nil {
		return err
	}

	if flags.ServeMCP {
		return serveMCP(cfg, flags.Addr)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return fmt.Errorf("missing command (save, analyze, assemble, batch, graph)")
	}

	switch rest[0] {
	case "save":
		return runSave(cfg, rest[1:])
	case "analyze":
		return runAnalyze(cfg, rest[1:])
	case "assemble":
		return runAssemble(cfg, rest[1:])
	case "batch":
		return runBatch(cfg, rest[1:])
	case "graph":
		return runGraph(cfg, rest[1:])
	default:
		return fmt.Errorf("unknown command %q", rest[0])
	}
}

func serveMCP(cfg *config.ProjectConfig, addr string) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	pipe := pipeline.New(cfg, store)
	svc := mcptools.NewFigureService(pipe, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "refig MCP server listening on %s\n", addr)
	return mcptools.RunMCPServer(ctx, svc, addr, version)
}

// splitList splits a flag value on sep, trimming whitespace and
// dropping empty entries.
func splitList(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

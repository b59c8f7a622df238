package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/dusk-indust/refig/internal/config"
	"github.com/dusk-indust/refig/internal/graph"
)

func runGraph(cfg *config.ProjectConfig, args []string) error {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	stats := fs.Bool("stats", false, "print node and edge counts instead of the diagram")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cfg.GraphDB == "" {
		return fmt.Errorf("no graphDB configured in refig.yml; the dependency graph is only persisted to a database")
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open graph: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	if *stats {
		s, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("figures: %d\nunits:   %d\nimports: %d\nedges:   %d\n",
			s.FigureCount, s.UnitCount, s.ImportCount, s.EdgeCount)
		return nil
	}

	mermaid, err := graph.GenerateMermaid(ctx, store)
	if err != nil {
		return err
	}
	fmt.Print(mermaid)
	return nil
}

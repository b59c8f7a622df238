package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dusk-indust/refig/internal/config"
	"github.com/dusk-indust/refig/internal/pipeline"
)

func runBatch(cfg *config.ProjectConfig, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: refig batch <manifest.yml>")
	}

	m, err := pipeline.LoadManifest(args[0])
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	pipe := pipeline.New(cfg, store)
	done := printProgress(pipe.Progress)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := pipe.Batch(ctx, m)
	pipe.Progress.Close()
	<-done

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("✗ %s: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Printf("✓ %s: %s\n", r.Name, r.Result.Bundle.FigurePath)
	}
	fmt.Printf("\n%d figures saved, %d failed\n", len(results)-failed, failed)
	return err
}

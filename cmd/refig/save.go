package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/refig/internal/config"
	"github.com/dusk-indust/refig/internal/pipeline"
)

func runSave(cfg *config.ProjectConfig, args []string) error {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	name := fs.String("name", "", "figure name (required)")
	module := fs.String("module", "", "Python module defining the entry function (required)")
	entry := fs.String("entry", "", "entry function name (required)")
	data := fs.String("data", "", "CSV dataset to snapshot into the bundle")
	helpers := fs.String("helpers", "", "comma-separated unit names to force-include")
	imports := fs.String("imports", "", "semicolon-separated import statements to emit first")
	show := fs.Bool("show", false, "emit an interactive display call in the driver")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *module == "" || *entry == "" {
		return fmt.Errorf("usage: refig save -name <name> -module <file.py> -entry <function> [-data <file.csv>]")
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	pipe := pipeline.New(cfg, store)
	done := printProgress(pipe.Progress)

	res, err := pipe.Save(context.Background(), pipeline.Request{
		Name:          *name,
		ModulePath:    *module,
		Entry:         *entry,
		DataPath:      *data,
		ManualImports: splitList(*imports, ";"),
		Helpers:       splitList(*helpers, ","),
		Show:          *show,
	})
	pipe.Progress.Close()
	<-done
	if err != nil {
		return err
	}

	printOutcome(res, *data != "")
	return nil
}

// printProgress drains the reporter to stderr until it is closed.
func printProgress(pr *pipeline.ProgressReporter) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range pr.Subscribe() {
			fmt.Fprintln(os.Stderr, pipeline.FormatProgress(ev))
		}
	}()
	return done
}

func printOutcome(res *pipeline.Result, withData bool) {
	if withData {
		fmt.Printf("wrote %s\n", res.Bundle.DataPath)
	}
	fmt.Printf("wrote %s\n", res.Bundle.ScriptPath)
	fmt.Printf("wrote %s\n", res.Bundle.FigurePath)
	for _, d := range res.Diagnostics {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d.String())
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/refig/internal/config"
	"github.com/dusk-indust/refig/internal/pipeline"
)

func runAnalyze(cfg *config.ProjectConfig, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	module := fs.String("module", "", "Python module defining the entry function (required)")
	entry := fs.String("entry", "", "entry function name (required)")
	jsonOut := fs.Bool("json", false, "print the report as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *module == "" || *entry == "" {
		return fmt.Errorf("usage: refig analyze -module <file.py> -entry <function>")
	}

	pipe := &pipeline.Pipeline{Config: cfg}
	a, err := pipe.Analyze(*module, *entry)
	if err != nil {
		return err
	}

	if *jsonOut {
		out, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		_, err = os.Stdout.Write(append(out, '\n'))
		return err
	}

	fmt.Printf("Entry: %s\n", a.Entry)
	printSection("Free names", a.FreeNames)
	printSection("Imports", a.Imports)
	printSection("Helpers", a.Helpers)
	printSection("Globals", a.Globals)
	if len(a.Diagnostics) > 0 {
		fmt.Println("\nDiagnostics:")
		for _, d := range a.Diagnostics {
			fmt.Printf("  %s\n", d.String())
		}
	}
	return nil
}

func printSection(title string, items []string) {
	fmt.Printf("\n%s (%d):\n", title, len(items))
	for _, it := range items {
		fmt.Printf("  %s\n", it)
	}
}

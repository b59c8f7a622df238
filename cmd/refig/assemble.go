package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/refig/internal/config"
	"github.com/dusk-indust/refig/internal/pipeline"
)

func runAssemble(cfg *config.ProjectConfig, args []string) error {
	fs := flag.NewFlagSet("assemble", flag.ContinueOnError)
	name := fs.String("name", "", "figure name used for paths inside the script (defaults to the entry name)")
	module := fs.String("module", "", "Python module defining the entry function (required)")
	entry := fs.String("entry", "", "entry function name (required)")
	helpers := fs.String("helpers", "", "comma-separated unit names to force-include")
	imports := fs.String("imports", "", "semicolon-separated import statements to emit first")
	show := fs.Bool("show", false, "emit an interactive display call in the driver")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *module == "" || *entry == "" {
		return fmt.Errorf("usage: refig assemble -module <file.py> -entry <function>")
	}
	if *name == "" {
		*name = *entry
	}

	pipe := &pipeline.Pipeline{Config: cfg}
	res, err := pipe.Assemble(pipeline.Request{
		Name:          *name,
		ModulePath:    *module,
		Entry:         *entry,
		ManualImports: splitList(*imports, ";"),
		Helpers:       splitList(*helpers, ","),
		Show:          *show,
	})
	if err != nil {
		return err
	}

	fmt.Print(res.Script)
	for _, d := range res.Diagnostics {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d.String())
	}
	return nil
}

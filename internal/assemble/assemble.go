// Package assemble linearizes a dependency closure into a standalone
// Python script that reproduces a figure from its data snapshot.
package assemble

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/dusk-indust/refig/internal/closure"
)

// Params controls the script's driver block and rendering defaults.
type Params struct {
	Name       string // figure name; directory and figure base name
	FiguresDir string // artifact root, default "figures"
	Backend    string // matplotlib backend, default "pdf"
	Format     string // figure file extension, defaults to Backend
	DPI        int    // default 1000

	// Show appends an interactive display call to the driver block.
	// The figure is always persisted regardless.
	Show bool

	// StylePrelude emits a seaborn style block after the backend line.
	StylePrelude bool

	// ManualImports are emitted verbatim ahead of discovered imports.
	ManualImports []string
}

func (p Params) withDefaults() Params {
	if p.FiguresDir == "" {
		p.FiguresDir = "figures"
	}
	if p.Backend == "" {
		p.Backend = "pdf"
	}
	if p.Format == "" {
		p.Format = p.Backend
	}
	if p.DPI == 0 {
		p.DPI = 1000
	}
	return p
}

// OutputDir returns the artifact directory for the figure.
func (p Params) OutputDir() string {
	p = p.withDefaults()
	return path.Join(p.FiguresDir, p.Name)
}

// DataPath returns the data snapshot path inside the artifact directory.
func (p Params) DataPath() string {
	return path.Join(p.OutputDir(), "data.csv")
}

// FigurePath returns the rendered figure path inside the artifact directory.
func (p Params) FigurePath() string {
	p = p.withDefaults()
	return path.Join(p.OutputDir(), p.Name+"."+p.Format)
}

// ScriptPath returns the assembled script path inside the artifact directory.
func (p Params) ScriptPath() string {
	return path.Join(p.OutputDir(), "code.py")
}

// Script produces the assembled script text. Output is deterministic:
// manual imports first in caller order, discovered imports sorted,
// helpers in the closure's post-order, then the entry source and the
// driver block. Running the emitted text twice against the same inputs
// yields byte-identical output.
func Script(c *closure.Closure, p Params) string {
	p = p.withDefaults()

	returnsFigure := c.Entry.ReturnsValue()

	imports := importLines(c, p, returnsFigure)

	var sb strings.Builder
	sb.WriteString(strings.Join(imports, "\n"))
	sb.WriteString("\n\n\n")
	sb.WriteString(fmt.Sprintf("matplotlib.use(%s)\n", pyQuote(p.Backend)))

	if p.StylePrelude {
		sb.WriteString("\nsns.set(font_scale=1.5, rc={'savefig.facecolor': 'white'})\n")
	}

	for _, g := range c.Globals {
		sb.WriteString("\n")
		sb.WriteString(g.Statement)
		sb.WriteString("\n")
	}

	for _, u := range c.Units {
		sb.WriteString("\n\n")
		sb.WriteString(u.Source)
		sb.WriteString("\n")
	}

	sb.WriteString("\n\n")
	sb.WriteString(c.Entry.Source)
	sb.WriteString("\n")

	sb.WriteString("\n\n")
	sb.WriteString(driverBlock(c.Entry.Name, p, returnsFigure))

	return sb.String()
}

// importLines merges manual, default, and discovered imports.
// Manual overrides come first and win deduplication.
func importLines(c *closure.Closure, p Params, returnsFigure bool) []string {
	seen := make(map[string]bool)
	var lines []string

	for _, raw := range p.ManualImports {
		stmt := strings.TrimSpace(raw)
		if stmt == "" || seen[stmt] {
			continue
		}
		seen[stmt] = true
		lines = append(lines, stmt)
	}

	defaults := []string{"import matplotlib", "import pandas as pd"}
	if !returnsFigure || p.Show {
		// The driver needs pyplot for plt.savefig / plt.show.
		defaults = append(defaults, "import matplotlib.pyplot as plt")
	}
	if p.StylePrelude {
		defaults = append(defaults, "import seaborn as sns")
	}

	var discovered []string
	for _, stmt := range defaults {
		if !seen[stmt] {
			seen[stmt] = true
			discovered = append(discovered, stmt)
		}
	}
	for _, rec := range c.Imports {
		stmt := rec.Statement()
		if !seen[stmt] {
			seen[stmt] = true
			discovered = append(discovered, stmt)
		}
	}
	sort.Strings(discovered)

	return append(lines, discovered...)
}

// driverBlock emits the data-loading stub, the entry invocation, and
// the save/show tail.
func driverBlock(entryName string, p Params, returnsFigure bool) string {
	var sb strings.Builder

	sb.WriteString("def reproduce_figure():\n")
	sb.WriteString(fmt.Sprintf("    data = pd.read_csv(%s)\n", pyQuote(p.DataPath())))

	savePrefix := "plt"
	if returnsFigure {
		savePrefix = "fig"
		sb.WriteString(fmt.Sprintf("    fig = %s(data)\n", entryName))
	} else {
		sb.WriteString(fmt.Sprintf("    %s(data)\n", entryName))
	}

	sb.WriteString(fmt.Sprintf("    %s.savefig(\n        %s,\n        bbox_inches='tight', dpi=%d\n    )\n",
		savePrefix, pyQuote(p.FigurePath()), p.DPI))

	if p.Show {
		sb.WriteString("    plt.show()\n")
	}

	sb.WriteString("\n\nif __name__ == '__main__':\n    reproduce_figure()\n")
	return sb.String()
}

// pyQuote renders a single-quoted Python string literal.
func pyQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

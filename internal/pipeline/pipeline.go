// Package pipeline orchestrates the full save operation: extract the
// entry unit, build its dependency closure, assemble the script, write
// the artifact bundle, render the figure, and record the closure into
// the dependency-graph store.
package pipeline

import (
	"context"
	"fmt"

	"github.com/dusk-indust/refig/internal/artifact"
	"github.com/dusk-indust/refig/internal/assemble"
	"github.com/dusk-indust/refig/internal/closure"
	"github.com/dusk-indust/refig/internal/config"
	"github.com/dusk-indust/refig/internal/graph"
	"github.com/dusk-indust/refig/internal/pysrc"
	"github.com/dusk-indust/refig/internal/resolve"
)

// Pipeline wires the engine to its collaborators. Store, Renderer, and
// Formatter are optional; a nil collaborator skips that stage.
type Pipeline struct {
	Config    *config.ProjectConfig
	Store     graph.Store
	Renderer  artifact.Renderer
	Formatter artifact.Formatter
	Progress  *ProgressReporter
}

// New builds a Pipeline with production collaborators derived from cfg.
func New(cfg *config.ProjectConfig, store graph.Store) *Pipeline {
	p := &Pipeline{
		Config:   cfg,
		Store:    store,
		Renderer: artifact.PythonRenderer{Python: cfg.Python},
		Progress: NewProgressReporter(),
	}
	if cfg.AutoFormat {
		p.Formatter = artifact.BlackFormatter{}
	}
	return p
}

// Request describes one figure to save.
type Request struct {
	Name       string // figure name; artifact directory and figure base name
	ModulePath string // Python module defining the entry function
	Entry      string // entry function name
	DataPath   string // CSV dataset snapshotted into the bundle

	// ManualImports are raw import statements trusted without
	// resolution and emitted first.
	ManualImports []string

	// Helpers are names of additional units from the same module to
	// force-include.
	Helpers []string

	// OverrideSources are raw Python snippets, each defining one helper
	// unit to force-include.
	OverrideSources []string

	// Show makes the emitted driver display the figure interactively in
	// addition to saving it.
	Show bool
}

// Result is the outcome of one save invocation. Diagnostics list every
// dependency the engine could not carry; the bundle is still written.
type Result struct {
	Script      string
	Bundle      artifact.Bundle
	Diagnostics []resolve.Diagnostic
	Warnings    []string
}

// Save runs the pipeline end to end. Only entry-unit extraction
// failures (and I/O failures on the bundle) are errors; everything else
// degrades to diagnostics or warnings on the Result.
func (p *Pipeline) Save(ctx context.Context, req Request) (*Result, error) {
	mod, entry, err := p.extract(req)
	if err != nil {
		return nil, err
	}
	defer mod.Close()

	c, overrideMods, err := p.buildClosure(req, mod, entry)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, om := range overrideMods {
			om.Close()
		}
	}()

	params := p.params(req)
	p.emit(req.Name, StageAssemble, ProgressWorking, "")
	script := assemble.Script(c, params)
	p.emit(req.Name, StageAssemble, ProgressComplete, "")

	res := &Result{
		Script:      script,
		Bundle:      artifact.At(params.FiguresDir, params.Name, figureFormat(params)),
		Diagnostics: c.Diagnostics,
	}

	if err := p.writeBundle(ctx, req, res, script); err != nil {
		return nil, err
	}

	if p.Store != nil {
		p.emit(req.Name, StageRecord, ProgressWorking, "")
		if err := graph.Record(ctx, p.Store, req.Name, c); err != nil {
			// Graph recording is advisory; the bundle already exists.
			res.Warnings = append(res.Warnings, fmt.Sprintf("record graph: %v", err))
			p.emit(req.Name, StageRecord, ProgressFailed, err.Error())
		} else {
			p.emit(req.Name, StageRecord, ProgressComplete, "")
		}
	}

	return res, nil
}

// Assemble runs the front half of the pipeline and returns the script
// without touching disk, rendering, or recording.
func (p *Pipeline) Assemble(req Request) (*Result, error) {
	mod, entry, err := p.extract(req)
	if err != nil {
		return nil, err
	}
	defer mod.Close()

	c, overrideMods, err := p.buildClosure(req, mod, entry)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, om := range overrideMods {
			om.Close()
		}
	}()

	params := p.params(req)
	p.emit(req.Name, StageAssemble, ProgressWorking, "")
	script := assemble.Script(c, params)
	p.emit(req.Name, StageAssemble, ProgressComplete, "")

	return &Result{
		Script:      script,
		Bundle:      artifact.At(params.FiguresDir, params.Name, figureFormat(params)),
		Diagnostics: c.Diagnostics,
	}, nil
}

// Analysis is the classification report for one entry unit, without
// writing any artifacts.
type Analysis struct {
	Entry       string               `json:"entry"`
	FreeNames   []string             `json:"freeNames"`
	Imports     []string             `json:"imports"`
	Helpers     []string             `json:"helpers"`
	Globals     []string             `json:"globals"`
	Diagnostics []resolve.Diagnostic `json:"diagnostics,omitempty"`
}

// Analyze classifies the entry unit's dependencies without touching disk.
func (p *Pipeline) Analyze(modulePath, entry string) (*Analysis, error) {
	mod, err := pysrc.LoadModule(modulePath)
	if err != nil {
		return nil, err
	}
	defer mod.Close()

	u, err := mod.Unit(entry)
	if err != nil {
		return nil, err
	}

	c, err := closure.Build(u, closure.Options{})
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Entry:       entry,
		FreeNames:   u.FreeNames(),
		Diagnostics: c.Diagnostics,
	}
	for _, rec := range c.Imports {
		a.Imports = append(a.Imports, rec.Statement())
	}
	for _, hu := range c.Units {
		a.Helpers = append(a.Helpers, hu.Name)
	}
	for _, g := range c.Globals {
		a.Globals = append(a.Globals, g.Name)
	}
	return a, nil
}

// --- Stages ---

func (p *Pipeline) extract(req Request) (*pysrc.Module, *pysrc.Unit, error) {
	p.emit(req.Name, StageExtract, ProgressWorking, "")
	mod, err := pysrc.LoadModule(req.ModulePath)
	if err != nil {
		p.emit(req.Name, StageExtract, ProgressFailed, err.Error())
		return nil, nil, err
	}
	entry, err := mod.Unit(req.Entry)
	if err != nil {
		mod.Close()
		p.emit(req.Name, StageExtract, ProgressFailed, err.Error())
		return nil, nil, err
	}
	p.emit(req.Name, StageExtract, ProgressComplete, "")
	return mod, entry, nil
}

func (p *Pipeline) buildClosure(req Request, mod *pysrc.Module, entry *pysrc.Unit) (*closure.Closure, []*pysrc.Module, error) {
	p.emit(req.Name, StageResolve, ProgressWorking, "")

	var opts closure.Options
	var overrideMods []*pysrc.Module

	for _, h := range req.Helpers {
		u, err := mod.Unit(h)
		if err != nil {
			p.emit(req.Name, StageResolve, ProgressFailed, err.Error())
			return nil, overrideMods, fmt.Errorf("helper %q: %w", h, err)
		}
		opts.ManualUnits = append(opts.ManualUnits, u)
	}
	for i, src := range req.OverrideSources {
		u, err := pysrc.ParseOverrideUnit(fmt.Sprintf("<override-%d>", i), []byte(src))
		if err != nil {
			p.emit(req.Name, StageResolve, ProgressFailed, err.Error())
			return nil, overrideMods, err
		}
		overrideMods = append(overrideMods, u.Module)
		opts.ManualUnits = append(opts.ManualUnits, u)
	}

	c, err := closure.Build(entry, opts)
	if err != nil {
		p.emit(req.Name, StageResolve, ProgressFailed, err.Error())
		return nil, overrideMods, err
	}
	p.emit(req.Name, StageResolve, ProgressComplete, "")
	return c, overrideMods, nil
}

func (p *Pipeline) writeBundle(ctx context.Context, req Request, res *Result, script string) error {
	p.emit(req.Name, StageWrite, ProgressWorking, "")
	if req.DataPath != "" {
		if err := artifact.CopyDataFile(res.Bundle, req.DataPath); err != nil {
			p.emit(req.Name, StageWrite, ProgressFailed, err.Error())
			return err
		}
	}
	if err := artifact.Write(ctx, res.Bundle, nil, script, nil); err != nil {
		p.emit(req.Name, StageWrite, ProgressFailed, err.Error())
		return err
	}
	p.emit(req.Name, StageWrite, ProgressComplete, "")

	if p.Formatter != nil {
		if err := p.Formatter.Format(ctx, res.Bundle.ScriptPath); err != nil {
			// Formatting is cosmetic; keep the unformatted script.
			res.Warnings = append(res.Warnings, fmt.Sprintf("autoformat: %v", err))
		}
	}

	if p.Renderer != nil {
		p.emit(req.Name, StageRender, ProgressWorking, "")
		if err := p.Renderer.Render(ctx, res.Bundle.ScriptPath); err != nil {
			p.emit(req.Name, StageRender, ProgressFailed, err.Error())
			return err
		}
		p.emit(req.Name, StageRender, ProgressComplete, "")
	}
	return nil
}

// --- Helpers ---

func (p *Pipeline) params(req Request) assemble.Params {
	cfg := p.Config
	if cfg == nil {
		cfg = &config.ProjectConfig{}
	}
	params := assemble.Params{
		Name:          req.Name,
		FiguresDir:    cfg.FiguresDir,
		Backend:       cfg.Backend,
		Format:        cfg.FigureFormat,
		DPI:           cfg.DPI,
		Show:          req.Show || cfg.Show,
		StylePrelude:  cfg.StylePrelude,
		ManualImports: req.ManualImports,
	}
	if params.FiguresDir == "" {
		params.FiguresDir = "figures"
	}
	return params
}

func figureFormat(params assemble.Params) string {
	if params.Format != "" {
		return params.Format
	}
	if params.Backend != "" {
		return params.Backend
	}
	return "pdf"
}

func (p *Pipeline) emit(figure string, stage Stage, status ProgressStatus, msg string) {
	if p.Progress == nil {
		return
	}
	p.Progress.Emit(ProgressEvent{
		Figure:  figure,
		Stage:   stage,
		Status:  status,
		Message: msg,
	})
}

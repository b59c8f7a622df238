package pipeline

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Manifest lists figures to save in one batch run.
type Manifest struct {
	Figures []ManifestEntry `yaml:"figures"`
}

// ManifestEntry is one figure specification in a batch manifest.
type ManifestEntry struct {
	Name          string   `yaml:"name"`
	Module        string   `yaml:"module"`
	Entry         string   `yaml:"entry"`
	Data          string   `yaml:"data"`
	Imports       []string `yaml:"imports,omitempty"`
	Helpers       []string `yaml:"helpers,omitempty"`
	Show          bool     `yaml:"show,omitempty"`
}

// LoadManifest reads a batch manifest from a YAML file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	for i, f := range m.Figures {
		if f.Name == "" || f.Module == "" || f.Entry == "" {
			return nil, fmt.Errorf("manifest entry %d: name, module, and entry are required", i)
		}
	}
	return &m, nil
}

// BatchResult holds the outcome of one manifest entry after fan-out.
type BatchResult struct {
	Name   string
	Result *Result
	Err    error
}

// Batch saves every manifest entry in parallel and collects the
// results. Each entry targets its own artifact directory, so the runs
// share no mutable state. The first failure cancels the derived
// context, abandoning remaining renders promptly; all collected
// results are returned regardless.
func (p *Pipeline) Batch(ctx context.Context, m *Manifest) ([]BatchResult, error) {
	results := make([]BatchResult, len(m.Figures))
	g, gctx := errgroup.WithContext(ctx)

	for i, entry := range m.Figures {
		g.Go(func() error {
			res, err := p.Save(gctx, Request{
				Name:          entry.Name,
				ModulePath:    entry.Module,
				Entry:         entry.Entry,
				DataPath:      entry.Data,
				ManualImports: entry.Imports,
				Helpers:       entry.Helpers,
				Show:          entry.Show,
			})
			results[i] = BatchResult{Name: entry.Name, Result: res, Err: err}
			if err != nil {
				return fmt.Errorf("figure %s: %w", entry.Name, err)
			}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

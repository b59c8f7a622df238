package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from refig.yml.
type ProjectConfig struct {
	FiguresDir   string `yaml:"figuresDir,omitempty"`   // artifact root, default "figures"
	Backend      string `yaml:"backend,omitempty"`      // matplotlib backend, default "pdf"
	FigureFormat string `yaml:"figureFormat,omitempty"` // figure extension, defaults to backend
	DPI          int    `yaml:"dpi,omitempty"`          // default 1000
	Python       string `yaml:"python,omitempty"`       // interpreter binary, default "python"
	AutoFormat   bool   `yaml:"autoFormat,omitempty"`   // run black on the assembled script
	Show         bool   `yaml:"show,omitempty"`         // emit an interactive display call
	StylePrelude bool   `yaml:"stylePrelude,omitempty"` // emit the seaborn style block
	GraphDB      string `yaml:"graphDB,omitempty"`      // kuzu path; empty = in-memory
}

// Load attempts to read refig.yml or refig.yaml from the given
// directory. Returns a zero-value config (not an error) if no config
// file exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"refig.yml", "refig.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

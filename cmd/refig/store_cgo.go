//go:build cgo

package main

import (
	"github.com/dusk-indust/refig/internal/config"
	"github.com/dusk-indust/refig/internal/graph"
)

// openStore opens the kuzu database named by the config, or an
// in-memory kuzu database when no path is configured.
func openStore(cfg *config.ProjectConfig) (graph.Store, error) {
	if cfg.GraphDB == "" {
		return graph.NewKuzuStore()
	}
	return graph.NewKuzuFileStore(cfg.GraphDB)
}

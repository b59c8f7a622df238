//go:build !cgo

package main

import (
	"fmt"

	"github.com/dusk-indust/refig/internal/config"
	"github.com/dusk-indust/refig/internal/graph"
)

// openStore falls back to the in-memory store when the kuzu driver is
// unavailable. The dependency graph then lives only for the duration
// of the process. A configured graphDB path cannot be honored and is
// an error.
func openStore(cfg *config.ProjectConfig) (graph.Store, error) {
	if cfg.GraphDB != "" {
		return nil, fmt.Errorf("graphDB %q is configured but this binary was built without the database driver; rebuild with cgo or clear graphDB", cfg.GraphDB)
	}
	return graph.NewMemStore(), nil
}

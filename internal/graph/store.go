package graph

import (
	"context"
	"io"
)

// Store is the interface for the dependency graph backend.
// Implementations: KuzuStore (persistent), MemStore (in-memory/testing).
type Store interface {
	io.Closer

	// Schema setup, called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// Write operations.
	AddFigure(ctx context.Context, node FigureNode) error
	AddUnit(ctx context.Context, node UnitNode) error
	AddImport(ctx context.Context, node ImportNode) error
	AddEdge(ctx context.Context, edge Edge) error

	// Read operations.
	GetUnit(ctx context.Context, module, name string) (*UnitNode, error)
	QueryUnits(ctx context.Context, query string, limit int) ([]UnitNode, error)
	AllEdges(ctx context.Context) ([]Edge, error)

	// Graph traversal.
	Dependencies(ctx context.Context, nodeID string, direction Direction, maxDepth int) ([]DependencyChain, error)

	// Stats.
	Stats(ctx context.Context) (*GraphStats, error)
}

// Direction controls dependency traversal direction.
type Direction string

const (
	DirectionUpstream   Direction = "upstream"   // what depends on this?
	DirectionDownstream Direction = "downstream" // what does this depend on?
)

package graph

import (
	"context"
	"strings"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu      sync.RWMutex
	figures map[string]FigureNode
	units   map[string]UnitNode
	imports map[string]ImportNode
	edges   []Edge
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		figures: make(map[string]FigureNode),
		units:   make(map[string]UnitNode),
		imports: make(map[string]ImportNode),
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// AddFigure stores a figure node keyed by name.
func (m *MemStore) AddFigure(_ context.Context, node FigureNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.figures[node.Name] = node
	return nil
}

// AddUnit stores a unit node keyed by "module:name".
func (m *MemStore) AddUnit(_ context.Context, node UnitNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units[node.ID()] = node
	return nil
}

// AddImport stores an import node keyed by its rendered statement.
func (m *MemStore) AddImport(_ context.Context, node ImportNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imports[node.Statement] = node
	return nil
}

// AddEdge appends an edge, skipping exact duplicates.
func (m *MemStore) AddEdge(_ context.Context, edge Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.edges {
		if e == edge {
			return nil
		}
	}
	m.edges = append(m.edges, edge)
	return nil
}

// GetUnit returns the unit for the given module and name, or nil if not found.
func (m *MemStore) GetUnit(_ context.Context, module, name string) (*UnitNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.units[unitID(module, name)]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// QueryUnits returns units whose name contains query (case-insensitive),
// up to limit results. A limit <= 0 returns all matches.
func (m *MemStore) QueryUnits(_ context.Context, query string, limit int) ([]UnitNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lowerQuery := strings.ToLower(query)
	var results []UnitNode
	for _, u := range m.units {
		if strings.Contains(strings.ToLower(u.Name), lowerQuery) {
			results = append(results, u)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// AllEdges returns a copy of all edges in the store.
func (m *MemStore) AllEdges(_ context.Context) ([]Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Edge, len(m.edges))
	copy(out, m.edges)
	return out, nil
}

// Dependencies performs a BFS from nodeID in the given direction, up to
// maxDepth hops. It returns one DependencyChain per reachable node.
func (m *MemStore) Dependencies(_ context.Context, nodeID string, direction Direction, maxDepth int) ([]DependencyChain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if maxDepth <= 0 {
		return nil, nil
	}

	type bfsEntry struct {
		id   string
		path []string
	}

	visited := map[string]bool{nodeID: true}
	queue := []bfsEntry{{id: nodeID, path: []string{nodeID}}}
	var chains []DependencyChain

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var nextQueue []bfsEntry
		for _, entry := range queue {
			for _, nb := range m.neighbors(entry.id, direction) {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				newPath := make([]string, len(entry.path), len(entry.path)+1)
				copy(newPath, entry.path)
				newPath = append(newPath, nb)
				chains = append(chains, DependencyChain{
					Nodes: newPath,
					Depth: len(newPath) - 1,
				})
				nextQueue = append(nextQueue, bfsEntry{id: nb, path: newPath})
			}
		}
		queue = nextQueue
	}

	return chains, nil
}

// neighbors returns IDs reachable from id in one hop along the given direction.
func (m *MemStore) neighbors(id string, direction Direction) []string {
	var result []string
	for _, e := range m.edges {
		switch direction {
		case DirectionDownstream:
			if e.SourceID == id {
				result = append(result, e.TargetID)
			}
		case DirectionUpstream:
			if e.TargetID == id {
				result = append(result, e.SourceID)
			}
		}
	}
	return result
}

// Stats returns counts of all node and edge types in the graph.
func (m *MemStore) Stats(_ context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &GraphStats{
		FigureCount: len(m.figures),
		UnitCount:   len(m.units),
		ImportCount: len(m.imports),
		EdgeCount:   len(m.edges),
	}, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}

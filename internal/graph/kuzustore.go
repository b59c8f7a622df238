//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph
// backend. It requires CGO because the go-kuzu driver wraps KuzuDB's C
// library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at
// the given directory path, so the dependency graph of saved figures
// persists across invocations.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Order matters: node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Figure(
		name STRING,
		module STRING,
		entry STRING,
		PRIMARY KEY(name)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Unit(
		id STRING,
		name STRING,
		kind STRING,
		module STRING,
		start_line INT64,
		end_line INT64,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Import(
		statement STRING,
		module STRING,
		PRIMARY KEY(statement)
	)`,
	`CREATE REL TABLE IF NOT EXISTS REQUIRES(FROM Figure TO Unit, FROM Unit TO Unit)`,
	`CREATE REL TABLE IF NOT EXISTS IMPORTS(FROM Figure TO Import, FROM Unit TO Import)`,
}

// InitSchema creates all node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// AddFigure upserts a Figure node.
func (s *KuzuStore) AddFigure(_ context.Context, node FigureNode) error {
	return s.exec(
		`MERGE (f:Figure {name: $name})
		 ON MATCH SET f.module = $module, f.entry = $entry
		 ON CREATE SET f.module = $module, f.entry = $entry`,
		map[string]any{
			"name":   node.Name,
			"module": node.Module,
			"entry":  node.Entry,
		},
	)
}

// AddUnit upserts a Unit node.
func (s *KuzuStore) AddUnit(_ context.Context, node UnitNode) error {
	return s.exec(
		`MERGE (u:Unit {id: $id})
		 ON MATCH SET u.name = $name, u.kind = $kind, u.module = $module,
			u.start_line = $sl, u.end_line = $el
		 ON CREATE SET u.name = $name, u.kind = $kind, u.module = $module,
			u.start_line = $sl, u.end_line = $el`,
		map[string]any{
			"id":     node.ID(),
			"name":   node.Name,
			"kind":   node.Kind,
			"module": node.Module,
			"sl":     int64(node.StartLine),
			"el":     int64(node.EndLine),
		},
	)
}

// AddImport upserts an Import node.
func (s *KuzuStore) AddImport(_ context.Context, node ImportNode) error {
	return s.exec(
		`MERGE (i:Import {statement: $stmt})
		 ON MATCH SET i.module = $module
		 ON CREATE SET i.module = $module`,
		map[string]any{
			"stmt":   node.Statement,
			"module": node.Module,
		},
	)
}

// AddEdge inserts a relationship edge between two nodes.
// The Cypher statement is chosen based on the edge kind and whether the
// source is a figure node.
func (s *KuzuStore) AddEdge(_ context.Context, edge Edge) error {
	cypher, err := edgeCypher(edge)
	if err != nil {
		return err
	}
	return s.exec(cypher, map[string]any{
		"src": edgeSourceKey(edge.SourceID),
		"dst": edge.TargetID,
	})
}

// edgeCypher returns the MERGE Cypher for the given edge.
func edgeCypher(edge Edge) (string, error) {
	fromFigure := isFigureID(edge.SourceID)
	switch edge.Kind {
	case EdgeKindRequires:
		if fromFigure {
			return `MATCH (a:Figure {name: $src}), (b:Unit {id: $dst})
					MERGE (a)-[:REQUIRES]->(b)`, nil
		}
		return `MATCH (a:Unit {id: $src}), (b:Unit {id: $dst})
				MERGE (a)-[:REQUIRES]->(b)`, nil
	case EdgeKindImports:
		if fromFigure {
			return `MATCH (a:Figure {name: $src}), (b:Import {statement: $dst})
					MERGE (a)-[:IMPORTS]->(b)`, nil
		}
		return `MATCH (a:Unit {id: $src}), (b:Import {statement: $dst})
				MERGE (a)-[:IMPORTS]->(b)`, nil
	default:
		return "", fmt.Errorf("kuzu: unsupported edge kind: %s", edge.Kind)
	}
}

// ---------- Read operations ----------

// GetUnit retrieves a single Unit node, or nil if not found.
func (s *KuzuStore) GetUnit(_ context.Context, module, name string) (*UnitNode, error) {
	rows, err := s.query(
		`MATCH (u:Unit {id: $id})
		 RETURN u.name, u.kind, u.module, u.start_line, u.end_line`,
		map[string]any{"id": unitID(module, name)},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToUnit(rows[0]), nil
}

// QueryUnits returns units whose name contains the query string.
func (s *KuzuStore) QueryUnits(_ context.Context, queryStr string, limit int) ([]UnitNode, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.query(
		`MATCH (u:Unit) WHERE u.name CONTAINS $q
		 RETURN u.name, u.kind, u.module, u.start_line, u.end_line
		 LIMIT $lim`,
		map[string]any{
			"q":   queryStr,
			"lim": int64(limit),
		},
	)
	if err != nil {
		return nil, err
	}
	out := make([]UnitNode, 0, len(rows))
	for _, r := range rows {
		out = append(out, *rowToUnit(r))
	}
	return out, nil
}

// AllEdges returns all edges across both relationship tables.
func (s *KuzuStore) AllEdges(_ context.Context) ([]Edge, error) {
	type relQuery struct {
		cypher string
		kind   EdgeKind
		figure bool
	}

	queries := []relQuery{
		{"MATCH (a:Figure)-[:REQUIRES]->(b:Unit) RETURN a.name, b.id", EdgeKindRequires, true},
		{"MATCH (a:Unit)-[:REQUIRES]->(b:Unit) RETURN a.id, b.id", EdgeKindRequires, false},
		{"MATCH (a:Figure)-[:IMPORTS]->(b:Import) RETURN a.name, b.statement", EdgeKindImports, true},
		{"MATCH (a:Unit)-[:IMPORTS]->(b:Import) RETURN a.id, b.statement", EdgeKindImports, false},
	}

	var edges []Edge
	for _, q := range queries {
		rows, err := s.query(q.cypher, nil)
		if err != nil {
			// Table may not exist yet; skip.
			continue
		}
		for _, r := range rows {
			src := toString(r[0])
			if q.figure {
				src = figureID(src)
			}
			edges = append(edges, Edge{
				SourceID: src,
				TargetID: toString(r[1]),
				Kind:     q.kind,
			})
		}
	}
	return edges, nil
}

// ---------- Graph traversal ----------

// Dependencies performs a BFS from the given node ID. Traversal runs
// over the edge list so figure and unit nodes are handled uniformly.
func (s *KuzuStore) Dependencies(ctx context.Context, nodeID string, dir Direction, maxDepth int) ([]DependencyChain, error) {
	if maxDepth <= 0 {
		maxDepth = 10
	}

	edges, err := s.AllEdges(ctx)
	if err != nil {
		return nil, err
	}

	type bfsEntry struct {
		path  []string
		depth int
	}
	visited := map[string]bool{nodeID: true}
	queue := []bfsEntry{{path: []string{nodeID}, depth: 0}}
	var chains []DependencyChain

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		tip := cur.path[len(cur.path)-1]
		for _, e := range edges {
			var nb string
			switch dir {
			case DirectionDownstream:
				if e.SourceID != tip {
					continue
				}
				nb = e.TargetID
			case DirectionUpstream:
				if e.TargetID != tip {
					continue
				}
				nb = e.SourceID
			default:
				return nil, fmt.Errorf("kuzu: unknown direction: %s", dir)
			}
			if visited[nb] {
				continue
			}
			visited[nb] = true
			newPath := make([]string, len(cur.path)+1)
			copy(newPath, cur.path)
			newPath[len(cur.path)] = nb
			chains = append(chains, DependencyChain{
				Nodes: newPath,
				Depth: cur.depth + 1,
			})
			queue = append(queue, bfsEntry{path: newPath, depth: cur.depth + 1})
		}
	}
	return chains, nil
}

// ---------- Stats ----------

// Stats returns counts of all node and edge tables.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	figures, err := s.countTable("Figure")
	if err != nil {
		return nil, err
	}
	units, err := s.countTable("Unit")
	if err != nil {
		return nil, err
	}
	imports, err := s.countTable("Import")
	if err != nil {
		return nil, err
	}
	edges, err := s.countEdges()
	if err != nil {
		return nil, err
	}
	return &GraphStats{
		FigureCount: figures,
		UnitCount:   units,
		ImportCount: imports,
		EdgeCount:   edges,
	}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result
// rows. Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// countTable returns the number of rows in a node table.
func (s *KuzuStore) countTable(table string) (int, error) {
	// Table name is a fixed internal constant, not user input.
	cypher := fmt.Sprintf("MATCH (n:%s) RETURN count(n)", table)
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// countEdges returns the total edge count across both relationship tables.
func (s *KuzuStore) countEdges() (int, error) {
	total := 0
	for _, t := range []string{"REQUIRES", "IMPORTS"} {
		cypher := fmt.Sprintf("MATCH ()-[r:%s]->() RETURN count(r)", t)
		rows, err := s.query(cypher, nil)
		if err != nil {
			// Table may not exist yet; treat as zero.
			continue
		}
		if len(rows) > 0 && len(rows[0]) > 0 {
			total += toInt(rows[0][0])
		}
	}
	return total, nil
}

// rowToUnit converts a 5-column result row into a UnitNode.
// Column order: name, kind, module, start_line, end_line.
func rowToUnit(r []any) *UnitNode {
	return &UnitNode{
		Name:      toString(r[0]),
		Kind:      toString(r[1]),
		Module:    toString(r[2]),
		StartLine: toInt(r[3]),
		EndLine:   toInt(r[4]),
	}
}

// isFigureID reports whether the node ID names a figure node.
func isFigureID(id string) bool {
	return len(id) > 7 && id[:7] == "figure:"
}

// edgeSourceKey strips the figure prefix so the ID matches the node's
// primary key column.
func edgeSourceKey(id string) string {
	if isFigureID(id) {
		return id[7:]
	}
	return id
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).
// These helpers safely coerce any -> concrete type.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

package graph

// --- Enums ---

// NodeKind classifies nodes in the dependency graph.
type NodeKind string

const (
	NodeKindFigure NodeKind = "figure"
	NodeKindUnit   NodeKind = "unit"
	NodeKindImport NodeKind = "import"
)

// EdgeKind classifies relationships between nodes.
type EdgeKind string

const (
	// EdgeKindRequires links a figure or unit to a user-defined unit
	// its body references.
	EdgeKindRequires EdgeKind = "REQUIRES"

	// EdgeKindImports links a figure or unit to an import binding.
	EdgeKindImports EdgeKind = "IMPORTS"
)

// --- Models ---

// FigureNode represents one saved figure: the root of a closure.
type FigureNode struct {
	Name   string `json:"name"`
	Module string `json:"module"` // path of the defining Python module
	Entry  string `json:"entry"`  // entry unit name
}

// UnitNode represents a user-defined function or class in a closure.
type UnitNode struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"` // "function" | "class"
	Module    string `json:"module"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
}

// ID returns the unit's graph identifier.
func (u UnitNode) ID() string { return unitID(u.Module, u.Name) }

// ImportNode represents one import statement required by a closure.
type ImportNode struct {
	Statement string `json:"statement"` // rendered import line; graph identifier
	Module    string `json:"module"`    // canonical module path
}

// Edge represents a relationship between two nodes.
type Edge struct {
	SourceID string   `json:"sourceId"`
	TargetID string   `json:"targetId"`
	Kind     EdgeKind `json:"kind"`
}

// GraphStats summarizes a dependency graph.
type GraphStats struct {
	FigureCount int `json:"figureCount"`
	UnitCount   int `json:"unitCount"`
	ImportCount int `json:"importCount"`
	EdgeCount   int `json:"edgeCount"`
}

// DependencyChain is an ordered sequence of node IDs forming a
// dependency path.
type DependencyChain struct {
	Nodes []string `json:"nodes"`
	Depth int      `json:"depth"`
}

// unitID produces a deterministic identifier for a unit: "module:name".
func unitID(module, name string) string {
	return module + ":" + name
}

// figureID produces a deterministic identifier for a figure node.
func figureID(name string) string {
	return "figure:" + name
}

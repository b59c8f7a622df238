package pysrc

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// ErrSourceUnavailable is returned when a requested unit has no
// retrievable source in the parsed module.
var ErrSourceUnavailable = errors.New("source unavailable")

// Module is a parsed Python module: its source, its syntax tree, and a
// snapshot of the top-level namespace (imports, function/class
// definitions, module globals). The snapshot is the "defining scope"
// used for dependency resolution and is never mutated after parsing.
//
// The tree-sitter tree stays open for the Module's lifetime because
// Unit nodes point into it; call Close when done.
type Module struct {
	Path    string
	Source  []byte
	Scope   Scope
	Globals []GlobalVar // module-level assignments, in source order

	units map[string]*Unit
	tree  *tree_sitter.Tree
}

// LoadModule reads and parses a Python module from disk.
func LoadModule(path string) (*Module, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module %s: %w", path, err)
	}
	return ParseModule(path, source)
}

// ParseModule parses Python source and builds the module scope.
func ParseModule(path string, source []byte) (*Module, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	lang := tree_sitter.NewLanguage(tree_sitter_python.Language())
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("set python language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}

	m := &Module{
		Path:   path,
		Source: source,
		Scope:  make(Scope),
		units:  make(map[string]*Unit),
		tree:   tree,
	}
	m.buildScope(tree.RootNode())
	return m, nil
}

// Close releases the tree-sitter tree. Unit nodes are invalid afterwards.
func (m *Module) Close() error {
	if m.tree != nil {
		m.tree.Close()
		m.tree = nil
	}
	return nil
}

// Unit returns the named top-level function or class.
// Returns ErrSourceUnavailable if the module defines no such unit.
func (m *Module) Unit(name string) (*Unit, error) {
	u, ok := m.units[name]
	if !ok {
		return nil, fmt.Errorf("unit %q in %s: %w", name, m.Path, ErrSourceUnavailable)
	}
	return u, nil
}

// UnitNames returns the names of all top-level units in source order.
func (m *Module) UnitNames() []string {
	names := make([]string, 0, len(m.units))
	for _, u := range m.unitOrder() {
		names = append(names, u.Name)
	}
	return names
}

func (m *Module) unitOrder() []*Unit {
	out := make([]*Unit, 0, len(m.units))
	for _, u := range m.units {
		out = append(out, u)
	}
	// Order by position in source.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].declNode.StartByte() < out[j-1].declNode.StartByte(); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// --- Scope building ---

// buildScope walks the module's top-level statements and records every
// name binding: imports, function/class definitions, and assignments.
func (m *Module) buildScope(root *tree_sitter.Node) {
	for i := uint(0); i < root.NamedChildCount(); i++ {
		stmt := root.NamedChild(i)
		if stmt == nil {
			continue
		}

		switch stmt.Kind() {
		case "import_statement":
			m.bindImports(stmt)

		case "import_from_statement":
			m.bindFromImports(stmt)

		case "function_definition":
			m.bindUnit(stmt, stmt, UnitFunction)

		case "class_definition":
			m.bindUnit(stmt, stmt, UnitClass)

		case "decorated_definition":
			def := stmt.ChildByFieldName("definition")
			if def == nil {
				continue
			}
			kind := UnitFunction
			if def.Kind() == "class_definition" {
				kind = UnitClass
			}
			m.bindUnit(def, stmt, kind)

		case "expression_statement":
			m.bindAssignment(stmt)
		}
	}
}

// bindImports handles `import a.b, c as d`.
func (m *Module) bindImports(node *tree_sitter.Node) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			modulePath := child.Utf8Text(m.Source)
			if modulePath == "" {
				continue
			}
			// `import matplotlib.pyplot` binds the root package name.
			bindName := modulePath
			if idx := strings.Index(modulePath, "."); idx != -1 {
				bindName = modulePath[:idx]
			}
			m.Scope[bindName] = Binding{
				Kind:   BindImport,
				Import: ImportRecord{Module: modulePath},
			}

		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil || aliasNode == nil {
				continue
			}
			modulePath := nameNode.Utf8Text(m.Source)
			alias := aliasNode.Utf8Text(m.Source)
			m.Scope[alias] = Binding{
				Kind:   BindImport,
				Import: ImportRecord{Module: modulePath, Alias: alias},
			}
		}
	}
}

// bindFromImports handles `from a.b import c, d as e`.
func (m *Module) bindFromImports(node *tree_sitter.Node) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}
	modulePath := moduleNode.Utf8Text(m.Source)
	if modulePath == "" {
		return
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.StartByte() <= moduleNode.StartByte() {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			name := child.Utf8Text(m.Source)
			m.Scope[name] = Binding{
				Kind:   BindImport,
				Import: ImportRecord{Module: modulePath, Name: name},
			}

		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil || aliasNode == nil {
				continue
			}
			name := nameNode.Utf8Text(m.Source)
			alias := aliasNode.Utf8Text(m.Source)
			m.Scope[alias] = Binding{
				Kind:   BindImport,
				Import: ImportRecord{Module: modulePath, Name: name, Alias: alias},
			}
		}
		// wildcard_import binds nothing statically; names pulled in by
		// `import *` surface as Unresolved diagnostics downstream.
	}
}

// bindUnit records a top-level function or class definition.
// declNode includes decorators when the definition is decorated.
func (m *Module) bindUnit(defNode, declNode *tree_sitter.Node, kind UnitKind) {
	nameNode := defNode.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Utf8Text(m.Source)
	u := &Unit{
		Name:     name,
		Kind:     kind,
		Source:   declNode.Utf8Text(m.Source),
		Module:   m,
		defNode:  defNode,
		declNode: declNode,
	}
	m.units[name] = u
	m.Scope[name] = Binding{Kind: BindUnit, Unit: u}
}

// bindAssignment records module-level assignments as globals.
func (m *Module) bindAssignment(stmt *tree_sitter.Node) {
	expr := stmt.NamedChild(0)
	if expr == nil || expr.Kind() != "assignment" {
		return
	}
	left := expr.ChildByFieldName("left")
	if left == nil {
		return
	}

	statement := stmt.Utf8Text(m.Source)
	names := targetNames(left, m.Source)
	if len(names) == 0 {
		return
	}

	var free []string
	if right := expr.ChildByFieldName("right"); right != nil {
		free = exprFreeNames(right, m.Source)
	}

	g := GlobalVar{Name: names[0], Statement: statement, FreeNames: free}
	m.Globals = append(m.Globals, g)
	for _, name := range names {
		m.Scope[name] = Binding{
			Kind:   BindGlobal,
			Global: GlobalVar{Name: name, Statement: statement, FreeNames: free},
		}
	}
}

// targetNames extracts the plain identifier names bound by an
// assignment target pattern. Attribute and subscript targets bind
// nothing (they mutate an existing object).
func targetNames(node *tree_sitter.Node, source []byte) []string {
	switch node.Kind() {
	case "identifier":
		return []string{node.Utf8Text(source)}
	case "attribute", "subscript":
		return nil
	}
	var names []string
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		names = append(names, targetNames(child, source)...)
	}
	return names
}

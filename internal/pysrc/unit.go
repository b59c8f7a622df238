package pysrc

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// UnitKind distinguishes functions from classes.
type UnitKind string

const (
	UnitFunction UnitKind = "function"
	UnitClass    UnitKind = "class"
)

// Unit is a named, source-backed callable: a top-level function or
// class. Identity is name plus defining module, so two units with the
// same name in different modules are distinct.
type Unit struct {
	Name   string
	Kind   UnitKind
	Source string // verbatim source, decorators included
	Module *Module

	defNode  *tree_sitter.Node // function_definition / class_definition
	declNode *tree_sitter.Node // defNode, or the decorated_definition wrapper
}

// Key identifies the unit across modules.
func (u *Unit) Key() string {
	return u.Module.Path + ":" + u.Name
}

// StartLine returns the 1-based line the declaration starts on.
func (u *Unit) StartLine() int {
	return int(u.declNode.StartPosition().Row) + 1
}

// EndLine returns the 1-based line the declaration ends on.
func (u *Unit) EndLine() int {
	return int(u.declNode.EndPosition().Row) + 1
}

// ReturnsValue reports whether the unit's body contains a
// value-returning return statement outside any nested scope. Class
// units never return a value. Used to pick the driver-block shape
// (`fig = f(data)` vs a bare call).
func (u *Unit) ReturnsValue() bool {
	if u.Kind != UnitFunction {
		return false
	}
	body := u.defNode.ChildByFieldName("body")
	if body == nil {
		return false
	}
	return hasValueReturn(body)
}

func hasValueReturn(node *tree_sitter.Node) bool {
	switch node.Kind() {
	case "function_definition", "class_definition", "lambda":
		return false
	case "return_statement":
		return node.NamedChildCount() > 0
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && hasValueReturn(child) {
			return true
		}
	}
	return false
}

// ParseOverrideUnit parses a standalone source snippet containing one
// function or class definition, for caller-supplied helper units. The
// snippet is parsed as its own miniature module, so any imports inside
// the snippet form its defining scope.
func ParseOverrideUnit(label string, source []byte) (*Unit, error) {
	m, err := ParseModule(label, source)
	if err != nil {
		return nil, err
	}
	units := m.unitOrder()
	if len(units) == 0 {
		m.Close()
		return nil, fmt.Errorf("override %q contains no function or class definition: %w",
			label, ErrSourceUnavailable)
	}
	return units[0], nil
}

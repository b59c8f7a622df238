package pysrc

import (
	"fmt"
	"strings"
)

// --- Scope model ---

// BindingKind classifies what a module-scope name is bound to.
type BindingKind string

const (
	BindImport BindingKind = "import"
	BindUnit   BindingKind = "unit"
	BindGlobal BindingKind = "global"
)

// ImportRecord describes one imported binding: either a whole module
// (`import numpy as np`) or a single name pulled from a module
// (`from math import sqrt`). The record keeps the form the source used,
// so re-emission preserves conventional aliases.
type ImportRecord struct {
	Module string `json:"module"`          // canonical module path, e.g. "matplotlib.pyplot"
	Name   string `json:"name,omitempty"`  // non-empty for from-imports
	Alias  string `json:"alias,omitempty"` // local alias when it differs from the default
}

// Statement renders the record back to a Python import statement.
func (r ImportRecord) Statement() string {
	if r.Name != "" {
		if r.Alias != "" && r.Alias != r.Name {
			return fmt.Sprintf("from %s import %s as %s", r.Module, r.Name, r.Alias)
		}
		return fmt.Sprintf("from %s import %s", r.Module, r.Name)
	}
	if r.Alias != "" && r.Alias != r.Module {
		return fmt.Sprintf("import %s as %s", r.Module, r.Alias)
	}
	return fmt.Sprintf("import %s", r.Module)
}

// Relative reports whether the record refers to a package-relative
// module, which cannot be re-imported from a standalone script.
func (r ImportRecord) Relative() bool {
	return strings.HasPrefix(r.Module, ".")
}

// GlobalVar is a module-level assignment, kept verbatim so it can be
// embedded into the assembled script. FreeNames are the identifiers the
// assigned expression reads, so the global's own dependencies (imports,
// other globals) can be resolved into a closure.
type GlobalVar struct {
	Name      string   `json:"name"`
	Statement string   `json:"statement"`
	FreeNames []string `json:"freeNames,omitempty"`
}

// Binding is a tagged value for one name in a module scope.
type Binding struct {
	Kind   BindingKind
	Import ImportRecord
	Unit   *Unit
	Global GlobalVar
}

// Scope maps names to their bindings in a module's top-level namespace.
// It is built once when the module is parsed and read-only afterwards.
type Scope map[string]Binding

// Lookup returns the binding for name, if any.
func (s Scope) Lookup(name string) (Binding, bool) {
	b, ok := s[name]
	return b, ok
}

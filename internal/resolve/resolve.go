package resolve

import (
	"fmt"

	"github.com/dusk-indust/refig/internal/pysrc"
)

// Kind tags the outcome of resolving one free name.
type Kind string

const (
	KindUnresolved Kind = "unresolved" // not found in any namespace
	KindBuiltin    Kind = "builtin"    // Python builtin, no action needed
	KindImport     Kind = "import"     // bound by an import statement
	KindUnit       Kind = "unit"       // user-defined function or class
	KindGlobal     Kind = "global"     // module-level assignment
	KindAmbiguous  Kind = "ambiguous"  // import exists but cannot be re-emitted
)

// Symbol is the classification of a single free name.
type Symbol struct {
	Name   string
	Kind   Kind
	Import pysrc.ImportRecord // valid when Kind == KindImport
	Unit   *pysrc.Unit        // valid when Kind == KindUnit
	Global pysrc.GlobalVar    // valid when Kind == KindGlobal
}

// DiagKind classifies diagnostics surfaced during resolution.
type DiagKind string

const (
	DiagUnresolved        DiagKind = "unresolved-dependency"
	DiagAmbiguousImport   DiagKind = "ambiguous-import-path"
	DiagSourceUnavailable DiagKind = "source-unavailable"
)

// Diagnostic records a dependency the engine could not carry into the
// assembled script. Diagnostics are reported, never raised.
type Diagnostic struct {
	Kind   DiagKind `json:"kind"`
	Name   string   `json:"name"`
	Unit   string   `json:"unit"` // unit whose body referenced the name
	Detail string   `json:"detail,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Detail != "" {
		return fmt.Sprintf("%s: %q in %s (%s)", d.Kind, d.Name, d.Unit, d.Detail)
	}
	return fmt.Sprintf("%s: %q in %s", d.Kind, d.Name, d.Unit)
}

// Resolve classifies a free name against a unit's defining scope.
// Resolution order: module scope, then the builtin namespace. The scope
// is an immutable snapshot, so resolution is a pure function.
func Resolve(name string, scope pysrc.Scope) Symbol {
	if b, ok := scope.Lookup(name); ok {
		switch b.Kind {
		case pysrc.BindImport:
			if b.Import.Relative() {
				// Package-relative imports have no meaning outside the
				// package; the script cannot re-import them.
				return Symbol{Name: name, Kind: KindAmbiguous, Import: b.Import}
			}
			return Symbol{Name: name, Kind: KindImport, Import: b.Import}

		case pysrc.BindUnit:
			return Symbol{Name: name, Kind: KindUnit, Unit: b.Unit}

		case pysrc.BindGlobal:
			return Symbol{Name: name, Kind: KindGlobal, Global: b.Global}
		}
	}

	if IsBuiltin(name) {
		return Symbol{Name: name, Kind: KindBuiltin}
	}

	return Symbol{Name: name, Kind: KindUnresolved}
}

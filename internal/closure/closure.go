// Package closure builds the transitive dependency closure of an entry
// unit: every import record and user-defined helper the unit needs to
// run standalone.
package closure

import (
	"fmt"

	"github.com/dusk-indust/refig/internal/pysrc"
	"github.com/dusk-indust/refig/internal/resolve"
)

// Options carries caller-supplied overrides, trusted without resolution.
type Options struct {
	// ManualUnits are pre-supplied helper units, force-included and
	// traversed for their own dependencies like any discovered unit.
	ManualUnits []*pysrc.Unit
}

// Closure is the deduplicated set of dependencies reachable from the
// entry unit. Helper units appear in post-order: every unit comes after
// the units it depends on, so the assembled script defines names before
// top-level code references them.
type Closure struct {
	Entry       *pysrc.Unit
	Imports     []pysrc.ImportRecord // discovery order, deduped by statement
	Globals     []pysrc.GlobalVar    // deduped by statement; a referenced global precedes its reader
	Units       []*pysrc.Unit        // helpers in post-order; entry excluded
	Diagnostics []resolve.Diagnostic
}

// builder carries traversal state. The visited set is keyed by unit
// identity and marked before recursion, which terminates self- and
// mutual recursion in one pass per unique unit.
type builder struct {
	closure     Closure
	visited     map[string]bool
	manualNames map[string]bool
	seenImports map[string]bool
	seenGlobals map[string]bool
}

// Build walks the dependency graph starting at entry, plus any manual
// override units. Only a missing entry unit is an error; every other
// failure degrades to a diagnostic on the returned closure.
func Build(entry *pysrc.Unit, opts Options) (*Closure, error) {
	if entry == nil {
		return nil, fmt.Errorf("entry unit: %w", pysrc.ErrSourceUnavailable)
	}

	b := &builder{
		closure:     Closure{Entry: entry},
		visited:     map[string]bool{},
		manualNames: map[string]bool{},
		seenImports: map[string]bool{},
		seenGlobals: map[string]bool{},
	}

	// Manual units first, so force-included helpers and their
	// dependencies precede anything the entry pulls in. A manual unit
	// also claims its name: a same-named unit discovered later in the
	// entry's module is skipped, so the override definition wins.
	for _, u := range opts.ManualUnits {
		if u == nil {
			continue
		}
		b.manualNames[u.Name] = true
		if !b.visited[u.Key()] {
			b.visit(u)
		}
	}

	// The entry is traversed like any unit but emitted separately by
	// the assembler, so it is not appended to the helper list.
	b.visited[entry.Key()] = true
	b.resolveInto(entry)

	return &b.closure, nil
}

// visit processes one unit post-order: dependencies are resolved and
// appended before the unit itself.
func (b *builder) visit(u *pysrc.Unit) {
	b.visited[u.Key()] = true
	b.resolveInto(u)
	b.closure.Units = append(b.closure.Units, u)
}

// resolveInto classifies every free name of u and feeds the closure.
func (b *builder) resolveInto(u *pysrc.Unit) {
	for _, name := range u.FreeNames() {
		sym := resolve.Resolve(name, u.Module.Scope)

		switch sym.Kind {
		case resolve.KindBuiltin:
			// No action needed.

		case resolve.KindImport:
			b.addImport(sym.Import)

		case resolve.KindGlobal:
			b.addGlobal(sym.Global, u.Module.Scope)

		case resolve.KindUnit:
			if sym.Unit.Key() == u.Key() {
				continue // self-recursion
			}
			if b.manualNames[sym.Unit.Name] && !b.visited[sym.Unit.Key()] {
				continue // name already satisfied by a manual unit
			}
			if !b.visited[sym.Unit.Key()] {
				b.visit(sym.Unit)
			}

		case resolve.KindAmbiguous:
			b.diag(resolve.Diagnostic{
				Kind:   resolve.DiagAmbiguousImport,
				Name:   name,
				Unit:   u.Name,
				Detail: sym.Import.Statement(),
			})

		case resolve.KindUnresolved:
			b.diag(resolve.Diagnostic{
				Kind: resolve.DiagUnresolved,
				Name: name,
				Unit: u.Name,
			})
		}
	}
}

func (b *builder) addImport(rec pysrc.ImportRecord) {
	stmt := rec.Statement()
	if b.seenImports[stmt] {
		return
	}
	b.seenImports[stmt] = true
	b.closure.Imports = append(b.closure.Imports, rec)
}

// addGlobal resolves the free names of the global's assigned expression
// before appending the global itself, so a global whose value reads an
// import, a unit, or another global carries those dependencies and a
// referenced global is emitted before its reader. Marking seenGlobals
// ahead of the recursion terminates cyclic definitions.
func (b *builder) addGlobal(g pysrc.GlobalVar, scope pysrc.Scope) {
	if b.seenGlobals[g.Statement] {
		return
	}
	b.seenGlobals[g.Statement] = true

	for _, name := range g.FreeNames {
		sym := resolve.Resolve(name, scope)

		switch sym.Kind {
		case resolve.KindBuiltin:

		case resolve.KindImport:
			b.addImport(sym.Import)

		case resolve.KindGlobal:
			b.addGlobal(sym.Global, scope)

		case resolve.KindUnit:
			if b.manualNames[sym.Unit.Name] && !b.visited[sym.Unit.Key()] {
				continue
			}
			if !b.visited[sym.Unit.Key()] {
				b.visit(sym.Unit)
			}

		case resolve.KindAmbiguous:
			b.diag(resolve.Diagnostic{
				Kind:   resolve.DiagAmbiguousImport,
				Name:   name,
				Unit:   g.Name,
				Detail: sym.Import.Statement(),
			})

		case resolve.KindUnresolved:
			b.diag(resolve.Diagnostic{
				Kind: resolve.DiagUnresolved,
				Name: name,
				Unit: g.Name,
			})
		}
	}

	b.closure.Globals = append(b.closure.Globals, g)
}

func (b *builder) diag(d resolve.Diagnostic) {
	b.closure.Diagnostics = append(b.closure.Diagnostics, d)
}

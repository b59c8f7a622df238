package graph

import (
	"context"
	"fmt"

	"github.com/dusk-indust/refig/internal/closure"
	"github.com/dusk-indust/refig/internal/pysrc"
	"github.com/dusk-indust/refig/internal/resolve"
)

// Record writes one figure's dependency closure into the store: the
// figure node, every unit and import in the closure, and per-unit
// REQUIRES/IMPORTS edges derived by re-resolving each unit's free
// names against its defining scope.
func Record(ctx context.Context, store Store, figureName string, c *closure.Closure) error {
	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	fig := FigureNode{
		Name:   figureName,
		Module: c.Entry.Module.Path,
		Entry:  c.Entry.Name,
	}
	if err := store.AddFigure(ctx, fig); err != nil {
		return fmt.Errorf("add figure %s: %w", figureName, err)
	}

	units := append([]*pysrc.Unit{c.Entry}, c.Units...)
	for _, u := range units {
		if err := store.AddUnit(ctx, toUnitNode(u)); err != nil {
			return fmt.Errorf("add unit %s: %w", u.Name, err)
		}
	}
	for _, rec := range c.Imports {
		node := ImportNode{Statement: rec.Statement(), Module: rec.Module}
		if err := store.AddImport(ctx, node); err != nil {
			return fmt.Errorf("add import %q: %w", node.Statement, err)
		}
	}

	// Figure -> entry unit.
	if err := store.AddEdge(ctx, Edge{
		SourceID: figureID(figureName),
		TargetID: toUnitNode(c.Entry).ID(),
		Kind:     EdgeKindRequires,
	}); err != nil {
		return fmt.Errorf("add figure edge: %w", err)
	}

	// Per-unit edges.
	for _, u := range units {
		srcID := toUnitNode(u).ID()
		for _, name := range u.FreeNames() {
			sym := resolve.Resolve(name, u.Module.Scope)
			switch sym.Kind {
			case resolve.KindUnit:
				if sym.Unit.Key() == u.Key() {
					continue
				}
				edge := Edge{
					SourceID: srcID,
					TargetID: toUnitNode(sym.Unit).ID(),
					Kind:     EdgeKindRequires,
				}
				if err := store.AddEdge(ctx, edge); err != nil {
					return fmt.Errorf("add edge %s->%s: %w", edge.SourceID, edge.TargetID, err)
				}
			case resolve.KindImport:
				edge := Edge{
					SourceID: srcID,
					TargetID: sym.Import.Statement(),
					Kind:     EdgeKindImports,
				}
				if err := store.AddEdge(ctx, edge); err != nil {
					return fmt.Errorf("add edge %s->%s: %w", edge.SourceID, edge.TargetID, err)
				}
			}
		}
	}
	return nil
}

func toUnitNode(u *pysrc.Unit) UnitNode {
	return UnitNode{
		Name:      u.Name,
		Kind:      string(u.Kind),
		Module:    u.Module.Path,
		StartLine: u.StartLine(),
		EndLine:   u.EndLine(),
	}
}

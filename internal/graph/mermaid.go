package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// GenerateMermaid produces a Mermaid graph TD diagram of the stored
// dependency graph. REQUIRES edges become solid arrows, IMPORTS edges
// dashed arrows into import-statement leaves.
func GenerateMermaid(ctx context.Context, store Store) (string, error) {
	edges, err := store.AllEdges(ctx)
	if err != nil {
		return "", fmt.Errorf("all edges: %w", err)
	}

	// Deterministic order.
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].SourceID != edges[j].SourceID {
			return edges[i].SourceID < edges[j].SourceID
		}
		if edges[i].TargetID != edges[j].TargetID {
			return edges[i].TargetID < edges[j].TargetID
		}
		return edges[i].Kind < edges[j].Kind
	})

	// Node -> ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(node string) string {
		if id, ok := nodeIDs[node]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[node] = id
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[string]bool)
	declare := func(node string) {
		if declared[node] {
			return
		}
		declared[node] = true
		sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", getID(node), mermaidLabel(node)))
	}

	for _, e := range edges {
		declare(e.SourceID)
		declare(e.TargetID)
	}
	for _, e := range edges {
		arrow := "-->"
		if e.Kind == EdgeKindImports {
			arrow = "-.->"
		}
		sb.WriteString(fmt.Sprintf("  %s %s %s\n", getID(e.SourceID), arrow, getID(e.TargetID)))
	}

	return sb.String(), nil
}

// mermaidLabel shortens node IDs for display and escapes quotes.
func mermaidLabel(node string) string {
	label := node
	// Unit IDs are "module:name"; show just the trailing name.
	if idx := strings.LastIndex(node, ":"); idx != -1 && !strings.HasPrefix(node, "figure:") {
		label = node[idx+1:]
	}
	label = strings.TrimPrefix(label, "figure:")
	label = strings.ReplaceAll(label, `"`, `#quot;`)
	if len(label) > 40 {
		label = label[:40]
	}
	return label
}

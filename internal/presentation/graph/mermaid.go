package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/waypoint/pkg/navtree"
)

// GenerateMermaid produces a Mermaid flowchart for a navigation tree.
// Node shapes follow the container kind:
// - Screen: [Rectangle]
// - Stack: [[Subroutine]]
// - Tabs: {{Hexagon}}
// - Panes: [/Parallelogram/]
// Edges into the active branch are solid, inactive branches are dotted.
// The active screen and the path leading to it get overlay classes.
func GenerateMermaid(root navtree.Node) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if root == nil {
		return sb.String()
	}

	active := make(map[string]bool)
	for _, n := range navtree.ActivePath(root) {
		active[n.Key()] = true
	}

	navtree.Walk(root, func(n navtree.Node, _ int) bool {
		id := sanitizeMermaidID(n.Key())
		opener, closer, label := shape(n)
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer))

		for _, edge := range children(n) {
			arrow := "-.->"
			if active[edge.node.Key()] && active[n.Key()] {
				arrow = "-->"
			}
			if edge.label != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", edge.label)
				if !active[edge.node.Key()] {
					arrow = fmt.Sprintf("-. \"%s\" .->", edge.label)
				}
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", id, arrow, sanitizeMermaidID(edge.node.Key())))
		}
		return true
	})

	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text for contrast on both light and dark themes.
	sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

	leaf := navtree.ActiveLeaf(root)
	for _, n := range navtree.ActivePath(root) {
		if leaf != nil && n.Key() == leaf.Key() {
			continue
		}
		sb.WriteString(fmt.Sprintf("    class %s visited;\n", sanitizeMermaidID(n.Key())))
	}
	if leaf != nil {
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(leaf.Key())))
	}

	return sb.String()
}

type edge struct {
	node  navtree.Node
	label string
}

func shape(n navtree.Node) (opener, closer, label string) {
	switch v := n.(type) {
	case *navtree.ScreenNode:
		return "[", "]", fmt.Sprintf("%s <br/> %s", v.Key(), v.Destination().Kind())
	case *navtree.StackNode:
		return "[[", "]]", v.Key()
	case *navtree.TabNode:
		return "{{", "}}", v.Key()
	case *navtree.PaneNode:
		return "[/", "/]", v.Key()
	default:
		return "[", "]", n.Key()
	}
}

func children(n navtree.Node) []edge {
	var out []edge
	switch v := n.(type) {
	case *navtree.StackNode:
		for _, c := range v.Children() {
			out = append(out, edge{node: c})
		}
	case *navtree.TabNode:
		for _, id := range v.TabIDs() {
			c, _ := v.Tab(id)
			out = append(out, edge{node: c, label: id})
		}
	case *navtree.PaneNode:
		for _, role := range v.Roles() {
			cfg, _ := v.Pane(role)
			out = append(out, edge{node: cfg.Content, label: role.String()})
		}
	}
	return out
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}

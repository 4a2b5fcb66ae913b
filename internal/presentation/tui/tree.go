package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/waypoint/pkg/navtree"
)

const (
	colorContainer = "#a78bfa"
	colorScreen    = "#e5e7eb"
	colorActive    = "#facc15"
	colorMuted     = "#6b7280"
)

// paint styles s for the profile. Ascii output is left untouched.
func paint(p termenv.Profile, s, color string, bold bool) string {
	if p == termenv.Ascii {
		return s
	}
	st := p.String(s).Foreground(p.Color(color))
	if bold {
		st = st.Bold()
	}
	return st.String()
}

// RenderTree writes an indented outline of the navigation tree. Nodes on the
// active path are marked with "*", the active screen is highlighted.
func RenderTree(w io.Writer, root navtree.Node, p termenv.Profile) {
	if root == nil {
		fmt.Fprintln(w, paint(p, "(empty)", colorMuted, false))
		return
	}

	onPath := make(map[string]bool)
	for _, n := range navtree.ActivePath(root) {
		onPath[n.Key()] = true
	}
	leaf := navtree.ActiveLeaf(root)

	navtree.Walk(root, func(n navtree.Node, depth int) bool {
		marker := "  "
		if onPath[n.Key()] {
			marker = "* "
		}
		indent := strings.Repeat("  ", depth)

		var line string
		switch v := n.(type) {
		case *navtree.ScreenNode:
			color := colorScreen
			if leaf != nil && v.Key() == leaf.Key() {
				color = colorActive
			}
			line = paint(p, v.Key(), color, color == colorActive) + " " + paint(p, "["+v.Destination().Kind()+"]", colorMuted, false)
		case *navtree.StackNode:
			line = paint(p, v.Key(), colorContainer, true) + paint(p, fmt.Sprintf(" stack(%d)", v.Len()), colorMuted, false)
		case *navtree.TabNode:
			line = paint(p, v.Key(), colorContainer, true) + paint(p, " tabs active="+v.ActiveTab()+scopeSuffix(v.ScopeKey()), colorMuted, false)
		case *navtree.PaneNode:
			line = paint(p, v.Key(), colorContainer, true) + paint(p, fmt.Sprintf(" panes active=%s back=%s%s", v.ActivePane(), v.BackBehavior(), scopeSuffix(v.ScopeKey())), colorMuted, false)
		default:
			line = n.Key()
		}

		fmt.Fprintf(w, "%s%s%s\n", indent, marker, line)
		return true
	})
}

func scopeSuffix(scope string) string {
	if scope == "" {
		return ""
	}
	return " scope=" + scope
}

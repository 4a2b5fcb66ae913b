/*
Package waypoint is a navigation state manager for applications with nested screens.

It keeps the navigation structure (stacks, tabs and multi-pane layouts) as an immutable tree of nodes, applies push, pop, replace and clear operations to it, and notifies registered lifecycle observers when screens become visible, hidden or are removed for good.

# Concept

Every screen on screen is a node with a unique key. Containers decide which child is active: a stack shows its top entry, a tab container shows its selected tab, a pane container shows its active pane. Destinations are plain values tagged with a kind; routes map kinds to scopes so that a push lands in the container that claims it, not simply in the deepest stack.

# Key Features

  - Immutable Tree: Every change produces a new root; unchanged branches are shared.
  - Scope-Aware Routing: Destinations are pushed into the stack owned by the container claiming their scope.
  - Lifecycle Dispatch: Enter, exit and destroy notifications, safe to register from any goroutine.
  - Persistence: Flat back stacks can be checkpointed to memory, files or Redis and restored with fresh keys.
  - Declarative Definitions: Trees and routes can be loaded from YAML and validated up front.

# Usage

Load a definition and create a navigator from it:

	package main

	import (
		"log"

		"github.com/aretw0/waypoint"
	)

	func main() {
		eng, err := waypoint.New("./navigation.yaml")
		if err != nil {
			log.Fatal(err)
		}

		tree, err := eng.NewTree()
		if err != nil {
			log.Fatal(err)
		}

		msg, err := eng.Destination("message", map[string]any{"id": 7})
		if err != nil {
			log.Fatal(err)
		}
		if _, err := tree.Navigate(msg); err != nil {
			log.Fatal(err)
		}

		log.Println("active screen:", tree.ActiveScreen().Key())
		tree.NavigateBack()
	}

Applications that only need a single back stack can use navigator.NewStack directly.
*/
package waypoint

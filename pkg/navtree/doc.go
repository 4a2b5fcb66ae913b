/*
Package navtree models navigation as a tree of nodes and applies navigation
intents to it.

# Node Variants

  - ScreenNode: leaf holding one destination; its key is the screen key.
  - StackNode: ordered children, the last one is active (push/pop semantics).
  - TabNode: one active tab at a time; inactive tabs are retained.
  - PaneNode: role-keyed panes (Primary, Supporting, Extra) with one active role.

Nodes are immutable once built. Every Mutator operation returns a new root that
shares untouched subtrees with the old one, so a caller can publish the old and
new trees as consistent snapshots and diff them.

Parent keys are back-references for traversal only; containers own their
children. Constructors re-parent the children they receive.

# Scope-aware Push

Tab and pane containers may declare a scope key. While walking the active path
from the root, each scoped container asks the ScopeResolver for the
destination's scope; if it differs, the push lands in the nearest stack above
the container instead of inside it, leaving the container intact.
*/
package navtree

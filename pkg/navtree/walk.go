package navtree

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/aretw0/waypoint/pkg/domain"
)

// ActivePath returns the nodes from root to the deepest active node.
func ActivePath(root Node) []Node {
	var path []Node
	for n := root; n != nil; {
		path = append(path, n)
		c, ok := n.(container)
		if !ok {
			break
		}
		n = c.activeChild()
	}
	return path
}

// ActiveLeaf returns the active screen, or nil when the active path ends in an
// empty stack.
func ActiveLeaf(root Node) *ScreenNode {
	path := ActivePath(root)
	if len(path) == 0 {
		return nil
	}
	leaf, _ := path[len(path)-1].(*ScreenNode)
	return leaf
}

// Walk visits every node depth-first. Returning false from fn skips the
// node's children.
func Walk(root Node, fn func(n Node, depth int) bool) {
	walk(root, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	if c, ok := n.(container); ok {
		for _, child := range c.childNodes() {
			walk(child, depth+1, fn)
		}
	}
}

// Find returns the node with the given key.
func Find(root Node, key string) (Node, bool) {
	path := PathTo(root, key)
	if path == nil {
		return nil, false
	}
	return path[len(path)-1], true
}

// PathTo returns the nodes from root to the node with key, or nil.
func PathTo(root Node, key string) []Node {
	if root == nil {
		return nil
	}
	if root.Key() == key {
		return []Node{root}
	}
	c, ok := root.(container)
	if !ok {
		return nil
	}
	for _, child := range c.childNodes() {
		if sub := PathTo(child, key); sub != nil {
			return append([]Node{root}, sub...)
		}
	}
	return nil
}

// ScreenKeys returns the keys of every screen in the tree.
func ScreenKeys(root Node) []string {
	var keys []string
	Walk(root, func(n Node, _ int) bool {
		if s, ok := n.(*ScreenNode); ok {
			keys = append(keys, s.key)
		}
		return true
	})
	return keys
}

// Validate checks tree-wide invariants that single constructors cannot see:
// globally unique keys and parent back-references matching the owner.
// All violations are reported together.
func Validate(root Node) error {
	if root == nil {
		return &domain.InvalidNodeError{Reason: "nil root"}
	}
	var errs error
	seen := make(map[string]struct{})
	var check func(n Node, parent string)
	check = func(n Node, parent string) {
		if _, dup := seen[n.Key()]; dup {
			errs = multierr.Append(errs, &domain.InvalidNodeError{Key: n.Key(), Reason: "duplicate key"})
		}
		seen[n.Key()] = struct{}{}
		if n.ParentKey() != parent {
			errs = multierr.Append(errs, &domain.InvalidNodeError{
				Key:    n.Key(),
				Reason: fmt.Sprintf("parent key %q does not match owner %q", n.ParentKey(), parent),
			})
		}
		if c, ok := n.(container); ok {
			for _, child := range c.childNodes() {
				check(child, n.Key())
			}
		}
	}
	check(root, root.ParentKey())
	return errs
}

// rebuild replaces path[idx] with repl and copies every ancestor above it.
func rebuild(path []Node, idx int, repl Node) Node {
	for j := idx - 1; j >= 0; j-- {
		repl = path[j].(container).replaceChild(path[j+1].Key(), repl)
	}
	return repl
}

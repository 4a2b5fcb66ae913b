package navtree

// Rekey returns a copy of root in which every screen gets a fresh key from
// keys, labeled by its destination kind. Container keys are kept, so tab and
// pane containers stay addressable by the keys they were declared with.
//
// Screen keys are lifecycle identities: navigators that share a lifecycle
// manager must not share screen keys, so each one should start from its own
// rekeyed copy of a common tree.
func Rekey(root Node, keys KeyGenerator) (Node, error) {
	if root == nil {
		return nil, nil
	}
	used := make(map[string]struct{})
	Walk(root, func(n Node, _ int) bool {
		if _, ok := n.(*ScreenNode); !ok {
			used[n.Key()] = struct{}{}
		}
		return true
	})
	r := rekeyer{keys: keys, used: used}
	return r.node(root)
}

type rekeyer struct {
	keys KeyGenerator
	used map[string]struct{}
}

func (r rekeyer) node(n Node) (Node, error) {
	switch v := n.(type) {
	case *ScreenNode:
		key, err := freeKey(r.keys, v.dest.Kind(), func(k string) bool {
			_, taken := r.used[k]
			return taken
		})
		if err != nil {
			return nil, err
		}
		r.used[key] = struct{}{}
		c := *v
		c.key = key
		c.savedState = v.SavedState()
		return &c, nil

	case *StackNode:
		c := *v
		c.children = make([]Node, len(v.children))
		for i, child := range v.children {
			next, err := r.node(child)
			if err != nil {
				return nil, err
			}
			c.children[i] = next.withParent(v.key)
		}
		return &c, nil

	case *TabNode:
		c := *v
		c.tabs = make(map[string]Node, len(v.tabs))
		c.order = append([]string(nil), v.order...)
		for _, id := range v.order {
			next, err := r.node(v.tabs[id])
			if err != nil {
				return nil, err
			}
			c.tabs[id] = next.withParent(v.key)
		}
		return &c, nil

	case *PaneNode:
		c := *v
		c.panes = make(map[PaneRole]PaneConfiguration, len(v.panes))
		for _, role := range v.Roles() {
			cfg := v.panes[role]
			next, err := r.node(cfg.Content)
			if err != nil {
				return nil, err
			}
			cfg.Content = next.withParent(v.key)
			c.panes[role] = cfg
		}
		return &c, nil
	}
	return n, nil
}

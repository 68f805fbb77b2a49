package sop

import (
	"github.com/tauroid/csv-dataflow/internal/errs"
)

// Merge unions the children of same-shaped trees. All trees must agree on
// kind and data at every aligned path, and on back-references wherever any
// of them has one. Children keep first-seen order. Merge of no trees is nil.
func Merge[D comparable](nodes ...*Node[D]) (*Node[D], error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	return merge(nodes, Path{})
}

func merge[D comparable](nodes []*Node[D], path Path) (*Node[D], error) {
	first := nodes[0]
	if len(nodes) == 1 {
		return first, nil
	}
	for _, n := range nodes[1:] {
		if n.Kind != first.Kind {
			return nil, errs.AtPath(errs.ShapeMismatch, path, "cannot merge %s with %s", first.Kind, n.Kind)
		}
		if n.Data != first.Data {
			return nil, errs.AtPath(errs.ShapeMismatch, path, "cannot merge data %v with %v", first.Data, n.Data)
		}
	}

	var labels []string
	seen := make(map[string]bool)
	for _, n := range nodes {
		for _, e := range n.Children {
			if !seen[e.Label] {
				seen[e.Label] = true
				labels = append(labels, e.Label)
			}
		}
	}

	children := make([]Entry[D], 0, len(labels))
	for _, label := range labels {
		childPath := path.Append(label)
		var present []Child[D]
		for _, n := range nodes {
			if c, ok := n.Lookup(label); ok {
				present = append(present, c)
			}
		}

		head := present[0]
		var subtrees []*Node[D]
		for _, c := range present {
			if c.IsBackRef() != head.IsBackRef() {
				return nil, errs.AtPath(errs.ShapeMismatch, childPath, "back-reference merged with a subtree")
			}
			if c.IsBackRef() {
				if c.Ref != head.Ref {
					return nil, errs.AtPath(errs.ShapeMismatch, childPath,
						"back-references %d and %d differ", head.Ref, c.Ref)
				}
				continue
			}
			subtrees = append(subtrees, c.Node)
		}

		if head.IsBackRef() {
			children = append(children, Entry[D]{Label: label, Child: head})
			continue
		}
		merged, err := merge(subtrees, childPath)
		if err != nil {
			return nil, err
		}
		children = append(children, Field(label, merged))
	}
	return first.withChildren(children), nil
}

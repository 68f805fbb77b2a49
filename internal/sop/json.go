package sop

import (
	"encoding/json"
	"fmt"
)

type jsonNode[D comparable] struct {
	Kind     string         `json:"kind"`
	Data     *D             `json:"data,omitempty"`
	Children []jsonEntry[D] `json:"children,omitempty"`
}

type jsonEntry[D comparable] struct {
	Label string   `json:"label"`
	Node  *Node[D] `json:"node,omitempty"`
	Ref   *int     `json:"ref,omitempty"`
}

// MarshalJSON encodes n with children as an ordered list:
//
//	{"kind":"sum","children":[{"label":"a","node":{...}},{"label":"tail","ref":1}]}
func (n *Node[D]) MarshalJSON() ([]byte, error) {
	out := jsonNode[D]{Kind: n.Kind.String()}
	var zero D
	if n.Data != zero {
		data := n.Data
		out.Data = &data
	}
	for _, e := range n.Children {
		je := jsonEntry[D]{Label: e.Label}
		if e.Child.IsBackRef() {
			ref := e.Child.Ref
			je.Ref = &ref
		} else {
			je.Node = e.Child.Node
		}
		out.Children = append(out.Children, je)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (n *Node[D]) UnmarshalJSON(b []byte) error {
	var in jsonNode[D]
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	switch in.Kind {
	case "sum":
		n.Kind = Sum
	case "product":
		n.Kind = Product
	default:
		return fmt.Errorf("unknown node kind %q", in.Kind)
	}

	var zero D
	n.Data = zero
	if in.Data != nil {
		n.Data = *in.Data
	}

	n.Children = nil
	seen := make(map[string]bool, len(in.Children))
	for _, je := range in.Children {
		if seen[je.Label] {
			return fmt.Errorf("duplicate child label %q", je.Label)
		}
		seen[je.Label] = true
		switch {
		case je.Node != nil && je.Ref != nil:
			return fmt.Errorf("child %q has both node and ref", je.Label)
		case je.Node != nil:
			n.Children = append(n.Children, Field(je.Label, je.Node))
		case je.Ref != nil:
			if *je.Ref < 0 {
				return fmt.Errorf("child %q: negative back-reference %d", je.Label, *je.Ref)
			}
			n.Children = append(n.Children, Ref[D](je.Label, *je.Ref))
		default:
			return fmt.Errorf("child %q has neither node nor ref", je.Label)
		}
	}
	return nil
}

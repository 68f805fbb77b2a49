package relation

import (
	"encoding/json"
	"fmt"

	"github.com/tauroid/csv-dataflow/internal/sop"
)

type jsonRelation[D comparable] struct {
	Type     string         `json:"type"`
	Source   *sop.Node[D]   `json:"source,omitempty"`
	Target   *sop.Node[D]   `json:"target,omitempty"`
	Children []jsonChild[D] `json:"children,omitempty"`
	Reduced  bool           `json:"reduced,omitempty"`
}

type jsonChild[D comparable] struct {
	Relation *jsonRelation[D] `json:"relation,omitempty"`
	Ref      *int             `json:"ref,omitempty"`
	Between  jsonBetween      `json:"between"`
}

type jsonBetween struct {
	Source []string `json:"source"`
	Target []string `json:"target"`
}

// Marshal encodes r as JSON. Trees use the sop.Node encoding.
func Marshal[D comparable](r Relation[D]) ([]byte, error) {
	jr, err := toJSON(r)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jr)
}

// Unmarshal decodes a relation written by Marshal.
func Unmarshal[D comparable](data []byte) (Relation[D], error) {
	var jr jsonRelation[D]
	if err := json.Unmarshal(data, &jr); err != nil {
		return nil, err
	}
	return fromJSON(&jr)
}

func toJSON[D comparable](r Relation[D]) (*jsonRelation[D], error) {
	switch r := r.(type) {
	case *Basic[D]:
		return &jsonRelation[D]{Type: "basic", Source: r.Source, Target: r.Target, Reduced: r.Reduced}, nil
	case *Copy[D]:
		return &jsonRelation[D]{Type: "copy", Source: r.Source, Target: r.Target, Reduced: r.Reduced}, nil
	case *Parallel[D]:
		jr := &jsonRelation[D]{Type: "parallel", Reduced: r.Reduced, Children: make([]jsonChild[D], 0, len(r.Children))}
		for _, c := range r.Children {
			jc := jsonChild[D]{Between: jsonBetween{
				Source: nonNil(c.Between.Source),
				Target: nonNil(c.Between.Target),
			}}
			if c.IsBackRef() {
				ref := c.Ref
				jc.Ref = &ref
			} else {
				child, err := toJSON(c.Relation)
				if err != nil {
					return nil, err
				}
				jc.Relation = child
			}
			jr.Children = append(jr.Children, jc)
		}
		return jr, nil
	default:
		return nil, seriesError()
	}
}

func fromJSON[D comparable](jr *jsonRelation[D]) (Relation[D], error) {
	switch jr.Type {
	case "basic":
		return &Basic[D]{Source: jr.Source, Target: jr.Target, Reduced: jr.Reduced}, nil
	case "copy":
		return &Copy[D]{Source: jr.Source, Target: jr.Target, Reduced: jr.Reduced}, nil
	case "parallel":
		p := &Parallel[D]{Reduced: jr.Reduced, Children: make([]ParallelChild[D], 0, len(jr.Children))}
		for i, jc := range jr.Children {
			between := Between{Source: sop.Path(nonNil(jc.Between.Source)), Target: sop.Path(nonNil(jc.Between.Target))}
			switch {
			case jc.Relation != nil && jc.Ref != nil:
				return nil, fmt.Errorf("child %d has both relation and ref", i)
			case jc.Relation != nil:
				child, err := fromJSON(jc.Relation)
				if err != nil {
					return nil, fmt.Errorf("child %d: %w", i, err)
				}
				p.Children = append(p.Children, Child(child, between))
			case jc.Ref != nil:
				if *jc.Ref < 0 {
					return nil, fmt.Errorf("child %d: negative back-reference %d", i, *jc.Ref)
				}
				p.Children = append(p.Children, BackRef[D](*jc.Ref, between))
			default:
				return nil, fmt.Errorf("child %d has neither relation nor ref", i)
			}
		}
		return p, nil
	case "series":
		return nil, seriesError()
	default:
		return nil, fmt.Errorf("unknown relation type %q", jr.Type)
	}
}

func nonNil(p []string) []string {
	if p == nil {
		return []string{}
	}
	return p
}

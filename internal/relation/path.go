package relation

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tauroid/csv-dataflow/internal/sop"
)

// Point selects the source or the target tree.
type Point uint8

const (
	Source Point = iota
	Target
)

func (p Point) String() string {
	switch p {
	case Source:
		return "Source"
	case Target:
		return "Target"
	default:
		return fmt.Sprintf("Point(%d)", uint8(p))
	}
}

// ParsePoint parses "Source" or "Target".
func ParsePoint(s string) (Point, error) {
	switch s {
	case "Source":
		return Source, nil
	case "Target":
		return Target, nil
	}
	return 0, fmt.Errorf("invalid point %q: want Source or Target", s)
}

// Between is the offset of a Parallel child's source and target trees
// within its parent's trees.
type Between struct {
	Source sop.Path
	Target sop.Path
}

// Identity is the Between with empty offsets.
var Identity = Between{Source: sop.Path{}, Target: sop.Path{}}

// Side returns the offset on the given point's side.
func (b Between) Side(p Point) sop.Path {
	if p == Source {
		return b.Source
	}
	return b.Target
}

// SubtractFrom re-expresses p relative to this frame. Reports false if p
// lies outside it.
func (b Between) SubtractFrom(p Path) (Path, bool) {
	prefix := b.Side(p.Point)
	if !p.SOPPath.HasPrefix(prefix) {
		return Path{}, false
	}
	out := p
	out.SOPPath = p.SOPPath[len(prefix):].Clone()
	return out, true
}

// Equal reports whether both offsets match.
func (b Between) Equal(o Between) bool {
	return b.Source.Equal(o.Source) && b.Target.Equal(o.Target)
}

func (b Between) String() string {
	return fmt.Sprintf("(%s, %s)", b.Source, b.Target)
}

// Path addresses a node of a relation's source or target tree. Prefix
// lists the Parallel child indices leading to the relation whose tree
// SOPPath is relative to.
type Path struct {
	Point   Point
	SOPPath sop.Path
	Prefix  []int
}

// NewPath builds a Path with an empty prefix.
func NewPath(point Point, sopPath sop.Path) Path {
	return Path{Point: point, SOPPath: sopPath}
}

// ParsePath parses the String form: optional child indices, the point,
// then labels, all "/"-separated, e.g. "Target/code/x" or
// "0/2/Source/name".
func ParsePath(s string) (Path, error) {
	parts := strings.Split(s, "/")
	var prefix []int
	for i, part := range parts {
		if point, err := ParsePoint(part); err == nil {
			return Path{Point: point, SOPPath: sop.Path(slices.Clone(parts[i+1:])), Prefix: prefix}, nil
		}
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return Path{}, fmt.Errorf("invalid relation path %q: %q is neither a child index nor Source/Target", s, part)
		}
		prefix = append(prefix, idx)
	}
	return Path{}, fmt.Errorf("invalid relation path %q: missing Source or Target", s)
}

// MustParsePath is ParsePath for literals; it panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	parts := make([]string, 0, len(p.Prefix)+1+len(p.SOPPath))
	for _, i := range p.Prefix {
		parts = append(parts, strconv.Itoa(i))
	}
	parts = append(parts, p.Point.String())
	parts = append(parts, p.SOPPath...)
	return strings.Join(parts, "/")
}

// ID is a stable identifier for the tree node, ignoring the prefix:
// "Source:name:Bob".
func (p Path) ID() string {
	return strings.Join(append([]string{p.Point.String()}, p.SOPPath...), ":")
}

// Equal reports whether p and q address the same node.
func (p Path) Equal(q Path) bool {
	return p.Point == q.Point && p.SOPPath.Equal(q.SOPPath) && slices.Equal(p.Prefix, q.Prefix)
}

// AddPrefixes moves p into an enclosing frame: prefix is prepended to the
// child indices and the offset for p's side to the tree path.
func (p Path) AddPrefixes(prefix []int, between Between) Path {
	return Path{
		Point:   p.Point,
		SOPPath: between.Side(p.Point).Append(p.SOPPath...),
		Prefix:  append(slices.Clone(prefix), p.Prefix...),
	}
}

// SubtractPrefixes is the inverse of AddPrefixes. Reports false if p does
// not start with prefix or lies outside between.
func (p Path) SubtractPrefixes(prefix []int, between Between) (Path, bool) {
	if len(p.Prefix) < len(prefix) || !slices.Equal(p.Prefix[:len(prefix)], prefix) {
		return Path{}, false
	}
	out, ok := between.SubtractFrom(p)
	if !ok {
		return Path{}, false
	}
	out.Prefix = slices.Clone(p.Prefix[len(prefix):])
	return out, true
}

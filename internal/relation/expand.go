package relation

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand turns path patterns into filter paths for r.
//
// A pattern without glob syntax is parsed as a single Path, which need not
// address a leaf. A pattern with glob syntax ("Target/code/**",
// "Source/*/Bob") is matched with doublestar against "Point/labels" for
// every leaf path of r and every prefix of one. Results are deduplicated,
// keep first-match order and carry no child-index prefix.
func Expand[D comparable](r Relation[D], patterns []string) ([]Path, error) {
	var candidates []Path
	seen := make(map[string]bool)
	var out []Path
	add := func(p Path) {
		if k := nodeKey(p); !seen[k] {
			seen[k] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if !hasGlobMeta(pattern) {
			p, err := ParsePath(pattern)
			if err != nil {
				return nil, err
			}
			add(NewPath(p.Point, p.SOPPath))
			continue
		}

		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid path pattern %q", pattern)
		}
		if candidates == nil {
			var err error
			candidates, err = expansionCandidates(r)
			if err != nil {
				return nil, err
			}
		}
		for _, c := range candidates {
			name := strings.Join(append([]string{c.Point.String()}, c.SOPPath...), "/")
			ok, err := doublestar.Match(pattern, name)
			if err != nil {
				return nil, fmt.Errorf("matching %q: %w", pattern, err)
			}
			if ok {
				add(c)
			}
		}
	}
	return out, nil
}

// expansionCandidates lists every leaf path of r and all their proper
// prefixes below the point, without child indices.
func expansionCandidates[D comparable](r Relation[D]) ([]Path, error) {
	seen := make(map[string]bool)
	var out []Path
	for p, err := range Paths(r) {
		if err != nil {
			return nil, err
		}
		for i := 1; i <= len(p.SOPPath); i++ {
			c := NewPath(p.Point, p.SOPPath[:i].Clone())
			if k := nodeKey(c); !seen[k] {
				seen[k] = true
				out = append(out, c)
			}
		}
	}
	return out, nil
}

// nodeKey identifies the node p addresses, ignoring the prefix. Labels are
// length-prefixed so that no label content can make two paths collide.
func nodeKey(p Path) string {
	var b strings.Builder
	b.WriteString(p.Point.String())
	for _, label := range p.SOPPath {
		fmt.Fprintf(&b, "/%d:%s", len(label), label)
	}
	return b.String()
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// PathStrings renders paths with String, for display.
func PathStrings(paths []Path) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	return out
}

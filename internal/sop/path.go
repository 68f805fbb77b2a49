package sop

import (
	"slices"
	"strings"
)

// Path addresses a node by the labels leading to it from some root.
type Path []string

// ParsePath splits a "/"-separated path. The empty string is the root.
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}
	return Path(strings.Split(s, "/"))
}

func (p Path) String() string {
	return strings.Join(p, "/")
}

// Append returns p extended by labels without aliasing p.
func (p Path) Append(labels ...string) Path {
	out := make(Path, 0, len(p)+len(labels))
	out = append(out, p...)
	return append(out, labels...)
}

// HasPrefix reports whether prefix is a prefix of p.
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && slices.Equal(p[:len(prefix)], prefix)
}

// Equal reports whether p and q have the same labels.
func (p Path) Equal(q Path) bool {
	return slices.Equal(p, q)
}

// Clone returns a copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return slices.Clone(p)
}

// tails returns the suffixes of paths whose first label is label.
func tails(paths []Path, label string) []Path {
	var out []Path
	for _, p := range paths {
		if len(p) > 0 && p[0] == label {
			out = append(out, p[1:])
		}
	}
	return out
}

func containsEmpty(paths []Path) bool {
	for _, p := range paths {
		if len(p) == 0 {
			return true
		}
	}
	return false
}

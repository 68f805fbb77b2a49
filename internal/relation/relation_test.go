package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Concrete variants infer D through the Relation method set, so callers
// need no explicit type arguments.
func TestVariants_InferDataType(t *testing.T) {
	r := NewParallel(
		Child(basic(prod(f("a", unit())), prod(f("b", unit()))), Identity),
		Child(NewCopy(prod(f("c", unit())), prod(f("d", unit()))), between("c", "d")),
	)

	filtered, err := Filter(r, mustPaths("Source/a"))
	require.NoError(t, err)
	assert.False(t, filtered.Full())
	assert.True(t, Equal(r, r))
	assert.False(t, Equal(r, filtered))

	paths, err := CollectPaths(filtered)
	require.NoError(t, err)
	assert.Equal(t, []string{"0/Source/a", "0/Target/b"}, PathStrings(paths))

	assert.False(t, IsEmptyRecursion(mapFlip()))
}

func TestSeries_NotImplemented(t *testing.T) {
	_, err := NewSeries(nil, Relation[int](NewBasic[int](nil, nil)))
	require.Error(t, err)
}

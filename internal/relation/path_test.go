package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauroid/csv-dataflow/internal/sop"
)

func TestParsePath(t *testing.T) {
	p, err := ParsePath("Target/code/x")
	require.NoError(t, err)
	assert.Equal(t, Target, p.Point)
	assert.Equal(t, sop.Path{"code", "x"}, p.SOPPath)
	assert.Empty(t, p.Prefix)
	assert.Equal(t, "Target/code/x", p.String())
	assert.Equal(t, "Target:code:x", p.ID())

	p, err = ParsePath("0/2/Source/name")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, p.Prefix)
	assert.Equal(t, "0/2/Source/name", p.String())
	assert.Equal(t, "Source:name", p.ID())

	p, err = ParsePath("Source")
	require.NoError(t, err)
	assert.Empty(t, p.SOPPath)

	for _, bad := range []string{"", "Nowhere/a", "-1/Source/a", "0/1"} {
		_, err := ParsePath(bad)
		assert.Error(t, err, bad)
	}
}

func TestPath_Prefixes(t *testing.T) {
	p := NewPath(Target, sop.Path{"x"})

	q := p.AddPrefixes([]int{1}, between("a", "b"))
	assert.Equal(t, "1/Target/b/x", q.String())

	back, ok := q.SubtractPrefixes([]int{1}, between("a", "b"))
	require.True(t, ok)
	assert.True(t, p.Equal(back))

	_, ok = q.SubtractPrefixes([]int{0}, between("a", "b"))
	assert.False(t, ok)
	_, ok = q.SubtractPrefixes([]int{1}, between("a", "c"))
	assert.False(t, ok)
}

func TestBetween_SubtractFrom(t *testing.T) {
	b := between("list/head", "out")

	got, ok := b.SubtractFrom(MustParsePath("Source/list/head/true"))
	require.True(t, ok)
	assert.Equal(t, "Source/true", got.String())

	got, ok = b.SubtractFrom(MustParsePath("Target/out"))
	require.True(t, ok)
	assert.Equal(t, "Target", got.String())

	_, ok = b.SubtractFrom(MustParsePath("Source/list/tail"))
	assert.False(t, ok)

	got, ok = Identity.SubtractFrom(MustParsePath("Source/a"))
	require.True(t, ok)
	assert.Equal(t, "Source/a", got.String())
}

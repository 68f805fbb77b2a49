package sop

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_RoundTripKeepsBackRefs(t *testing.T) {
	data, err := json.Marshal(boolList())
	require.NoError(t, err)

	var got tree
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, Equal(boolList(), &got), "got %s", Format(&got))
}

func TestJSON_Format(t *testing.T) {
	data, err := json.Marshal(prod(f("a", unit()), r("tail", 1)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"product","children":[
		{"label":"a","node":{"kind":"product"}},
		{"label":"tail","ref":1}
	]}`, string(data))
}

func TestJSON_CarriesData(t *testing.T) {
	n := NewSum(Field("x", Unit[int]().WithData(3))).WithData(1)

	data, err := json.Marshal(n)
	require.NoError(t, err)

	var got Node[int]
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 1, got.Data)
	c, ok := got.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 3, c.Node.Data)
}

func TestJSON_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"unknown_kind", `{"kind":"list"}`, "unknown node kind"},
		{"duplicate_label", `{"kind":"sum","children":[{"label":"a","ref":1},{"label":"a","ref":1}]}`, "duplicate child label"},
		{"node_and_ref", `{"kind":"sum","children":[{"label":"a","ref":1,"node":{"kind":"sum"}}]}`, "both node and ref"},
		{"neither", `{"kind":"sum","children":[{"label":"a"}]}`, "neither node nor ref"},
		{"negative_ref", `{"kind":"sum","children":[{"label":"a","ref":-1}]}`, "negative back-reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n tree
			err := json.Unmarshal([]byte(tt.in), &n)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

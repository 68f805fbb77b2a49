package typedesc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tree := NewUnion("Tree",
		F("leaf", NewPrimitive("int")),
		F("node", NewRecord("",
			F("left", NewRef("Tree")),
			F("right", NewRef("Tree")),
		)),
	)

	tests := []struct {
		name    string
		desc    *Desc
		wantErr string
	}{
		{name: "primitive", desc: NewPrimitive("string")},
		{name: "list of bool", desc: NewList(NewBool())},
		{name: "recursive tree", desc: tree},
		{
			name:    "dangling ref",
			desc:    NewRecord("A", F("next", NewRef("B"))),
			wantErr: `A.next: reference to "B" has no enclosing definition`,
		},
		{
			name:    "duplicate member",
			desc:    NewRecord("A", F("x", NewBool()), F("x", NewBool())),
			wantErr: `A: duplicate member "x"`,
		},
		{
			name:    "list without elem",
			desc:    &Desc{Kind: List},
			wantErr: "<root>: list without element type",
		},
		{
			name:    "nested dangling ref",
			desc:    NewRecord("A", F("items", NewList(NewRecord("", F("next", NewRef("B")))))),
			wantErr: `A.items.[].next: reference to "B"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDesc_String(t *testing.T) {
	d := NewRecord("A",
		F("name", NewPrimitive("string")),
		F("option", NewBool()),
		F("slots", NewList(NewPrimitive("int"))),
		F("colour", NewEnum("", "red", "green")),
	)

	assert.Equal(t, "{name: string, option: bool, slots: [...int], colour: red | green}", d.String())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "record", Record.String())
	assert.Equal(t, "union", Union.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

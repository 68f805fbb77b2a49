package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tauroid/csv-dataflow/internal/typedesc"
)

// WriteFile writes content to name under dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// PersonType is {name: string, option: string}.
func PersonType() *typedesc.Desc {
	return typedesc.NewRecord("Person",
		typedesc.F("name", typedesc.NewPrimitive("string")),
		typedesc.F("option", typedesc.NewPrimitive("string")),
	)
}

// CodeType is {code: {x: string, y: string}}.
func CodeType() *typedesc.Desc {
	return typedesc.NewRecord("Coded",
		typedesc.F("code", typedesc.NewRecord("Code",
			typedesc.F("x", typedesc.NewPrimitive("string")),
			typedesc.F("y", typedesc.NewPrimitive("string")),
		)),
	)
}

// PeopleType is a list of PersonType.
func PeopleType() *typedesc.Desc {
	return typedesc.NewList(PersonType())
}

// BoolListType is a list of bool.
func BoolListType() *typedesc.Desc {
	return typedesc.NewList(typedesc.NewBool())
}

// TypesCUE declares the same types in CUE.
const TypesCUE = `
#Person: {
	name:   string
	option: string
}

#Code: {
	x: string
	y: string
}

#Coded: {
	code: #Code
}

#People: [...#Person]

#Bools: [...bool]
`

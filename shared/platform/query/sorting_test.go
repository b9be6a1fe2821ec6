package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestAliasMap_Resolve(t *testing.T) {
	// Alias declarado: ida y vuelta
	assert.Equal(t, "created_at", wishAliases.Resolve("createdAt"))
	assert.Equal(t, "createdAt", wishAliases.Public("created_at"))

	// Sin alias: se resuelve a sí mismo
	assert.Equal(t, "title", wishAliases.Resolve("title"))
	assert.Equal(t, "title", wishAliases.Public("title"))

	// Nombre canónico de un campo con alias y nombre desconocido
	assert.Equal(t, "created_at", wishAliases.Resolve("created_at"))
	assert.Equal(t, "nope", wishAliases.Resolve("nope"))
}

func TestNewAliasMap_DuplicatedPublicNamePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewAliasMap(
			SchemaField{Name: "created_at", Alias: "date"},
			SchemaField{Name: "updated_at", Alias: "date"},
		)
	})
}

func TestCompileSorting(t *testing.T) {
	available := []string{"created_at", "title", "priority", "id"}

	tests := []struct {
		name string
		raw  []string
		want SortSpec
	}{
		{
			name: "sin tokens usa la ordenación por defecto",
			raw:  nil,
			want: SortSpec{{Column: "id", Direction: Desc}},
		},
		{
			name: "alias y signos con desempate añadido",
			raw:  []string{"-createdAt", "+title"},
			want: SortSpec{
				{Column: "created_at", Direction: Desc},
				{Column: "title", Direction: Asc},
				{Column: "id", Direction: Desc},
			},
		},
		{
			name: "columnas desconocidas, no permitidas o relaciones se descartan",
			raw:  []string{"secret", "description", "tags", "-priority"},
			want: SortSpec{
				{Column: "priority", Direction: Desc},
				{Column: "id", Direction: Desc},
			},
		},
		{
			name: "si el último token ya es el desempate no se añade",
			raw:  []string{"title", "id"},
			want: SortSpec{
				{Column: "title", Direction: Asc},
				{Column: "id", Direction: Asc},
			},
		},
		{
			name: "los duplicados se conservan",
			raw:  []string{"title", "-title"},
			want: SortSpec{
				{Column: "title", Direction: Asc},
				{Column: "title", Direction: Desc},
				{Column: "id", Direction: Desc},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompileSorting(tt.raw, wishModel, available, wishAliases, nil)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CompileSorting() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileSorting_AlwaysEndsWithTieBreaker(t *testing.T) {
	available := []string{"created_at", "title", "priority", "id"}
	inputs := [][]string{
		nil,
		{},
		{"title"},
		{"-priority", "createdAt"},
		{"unknown", "-unknown2"},
		{"+id", "title"},
	}

	for _, raw := range inputs {
		spec := CompileSorting(raw, wishModel, available, wishAliases, nil)
		if assert.NotEmpty(t, spec) {
			assert.Equal(t, "id", spec[len(spec)-1].Column, "raw=%v", raw)
		}
	}
}

func TestCompileSorting_DoesNotMutateInput(t *testing.T) {
	raw := make([]string, 1, 4)
	raw[0] = "title"

	CompileSorting(raw, wishModel, []string{"title", "id"}, wishAliases, nil)

	assert.Equal(t, []string{"title"}, raw)
	assert.Equal(t, "", raw[:2][1], "no debe escribir en la capacidad sobrante del slice")
}

func TestSortSpec_OrderBy(t *testing.T) {
	spec := SortSpec{{Column: "priority", Direction: Desc}, {Column: "id", Direction: Asc}}

	assert.Equal(t, []string{"priority DESC", "id ASC"}, spec.OrderBy())
	assert.Equal(t, []string{"priority", "id"}, spec.Columns())
	assert.True(t, spec.Contains("id"))
	assert.False(t, spec.Contains("title"))
}

package query

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileProjection(t *testing.T) {
	byPriority := SortSpec{{Column: "priority", Direction: Desc}, {Column: "id", Direction: Desc}}
	allScalar := []string{"id", "title", "description", "status", "priority", "wishlist_id", "created_at", "updated_at"}

	tests := []struct {
		name string
		spec *ProjectionSpec
		want []string
	}{
		{
			name: "sin proyección se cargan todas las escalares",
			spec: nil,
			want: allScalar,
		},
		{
			name: "asterisco incluido",
			spec: &ProjectionSpec{Fields: ProjectionFields{All: true}, Mode: Include},
			want: allScalar,
		},
		{
			name: "asterisco excluido deja solo la ordenación",
			spec: &ProjectionSpec{Fields: ProjectionFields{All: true}, Mode: Exclude},
			want: []string{"id", "priority"},
		},
		{
			name: "lista incluida más columnas de ordenación, en orden del modelo",
			spec: &ProjectionSpec{Fields: ProjectionFields{Names: []string{"createdAt", "title"}}},
			want: []string{"id", "title", "priority", "created_at"},
		},
		{
			name: "lista excluida nunca quita pk ni ordenación",
			spec: &ProjectionSpec{Fields: ProjectionFields{Names: []string{"id", "priority", "description", "updatedAt"}}, Mode: "exclude"},
			want: []string{"id", "title", "status", "priority", "wishlist_id", "created_at"},
		},
		{
			name: "nombres desconocidos y relaciones se ignoran",
			spec: &ProjectionSpec{Fields: ProjectionFields{Names: []string{"tags", "nope"}}},
			want: []string{"id", "priority"},
		},
		{
			name: "sin campos equivale a asterisco",
			spec: &ProjectionSpec{Mode: Include},
			want: allScalar,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := CompileProjection(tt.spec, byPriority, wishModel, wishAliases)

			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, plan.Columns); diff != "" {
				t.Errorf("CompileProjection() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileProjection_RequiresSorting(t *testing.T) {
	_, err := CompileProjection(nil, nil, wishModel, wishAliases)

	assert.ErrorIs(t, err, ErrProjectionWithoutSorting)
}

func TestCompileProjection_InvalidMode(t *testing.T) {
	spec := &ProjectionSpec{Fields: ProjectionFields{All: true}, Mode: "ONLY"}

	_, err := CompileProjection(spec, SortSpec{{Column: "id", Direction: Desc}}, wishModel, wishAliases)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "mode", ve.Field)
}

func TestProjectionFields_JSON(t *testing.T) {
	var spec ProjectionSpec

	require.NoError(t, json.Unmarshal([]byte(`{"fields": "*", "mode": "EXCLUDE"}`), &spec))
	assert.True(t, spec.Fields.All)
	assert.Equal(t, Exclude, spec.Mode)

	require.NoError(t, json.Unmarshal([]byte(`{"fields": ["title", "createdAt"]}`), &spec))
	assert.False(t, spec.Fields.All)
	assert.Equal(t, []string{"title", "createdAt"}, spec.Fields.Names)

	assert.Error(t, json.Unmarshal([]byte(`{"fields": "title"}`), &spec))
	assert.Error(t, json.Unmarshal([]byte(`{"fields": 5}`), &spec))
}

func TestProject_UsesPublicNames(t *testing.T) {
	row := newFakeRow(3)
	plan := ColumnPlan{Columns: []string{"id", "priority", "created_at", "description"}}

	out := Project(row, plan, wishAliases)

	assert.Equal(t, row["id"], out["id"])
	assert.Equal(t, int64(3), out["priority"])
	assert.Contains(t, out, "createdAt")
	assert.NotContains(t, out, "created_at")
	assert.NotContains(t, out, "description", "columnas sin valor en la fila no se emiten")
	assert.NotContains(t, out, "title", "columnas fuera del plan no se emiten")
}

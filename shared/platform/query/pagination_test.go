package query

import (
	"encoding/base64"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestCompileLimit(t *testing.T) {
	tests := []struct {
		name     string
		limit    *int
		fallback int
		want     int
		wantErr  bool
	}{
		{"sin límite usa el valor por defecto", nil, 0, DefaultLimit, false},
		{"sin límite usa el del endpoint", nil, 25, 25, false},
		{"valor por defecto fuera de rango", nil, MaxLimit + 1, DefaultLimit, false},
		{"mínimo", intPtr(1), 0, 1, false},
		{"máximo", intPtr(MaxLimit), 0, MaxLimit, false},
		{"cero", intPtr(0), 0, 0, true},
		{"negativo", intPtr(-3), 0, 0, true},
		{"por encima del máximo", intPtr(MaxLimit + 1), 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompileLimit(tt.limit, tt.fallback)

			if tt.wantErr {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "limit", ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeNextToken_Exhaustion(t *testing.T) {
	sort := SortSpec{{Column: "priority", Direction: Desc}, {Column: "id", Direction: Desc}}

	// Página corta: no hay más filas.
	token, err := EncodeNextToken(newFakeRow(1), sort, 3, 5)
	require.NoError(t, err)
	assert.Nil(t, token)

	// Página vacía.
	token, err = EncodeNextToken(nil, sort, 0, 5)
	require.NoError(t, err)
	assert.Nil(t, token)

	// Página completa: siempre se emite cursor.
	token, err = EncodeNextToken(newFakeRow(1), sort, 5, 5)
	require.NoError(t, err)
	assert.NotNil(t, token)
}

func TestEncodeNextToken_MissingSortColumn(t *testing.T) {
	sort := SortSpec{{Column: "status", Direction: Asc}, {Column: "id", Direction: Desc}}

	_, err := EncodeNextToken(newFakeRow(1), sort, 5, 5)

	assert.Error(t, err)
}

func TestCursor_RoundTrip(t *testing.T) {
	row := newFakeRow(5)
	sort := SortSpec{
		{Column: "priority", Direction: Desc},
		{Column: "created_at", Direction: Asc},
		{Column: "id", Direction: Desc},
	}

	token, err := EncodeNextToken(row, sort, 10, 10)
	require.NoError(t, err)
	require.NotNil(t, token)

	got, err := DecodeCursor(*token, wishModel)
	require.NoError(t, err)

	want := []CursorField{
		{Field: "priority", Value: int64(5), Order: Desc},
		{Field: "created_at", Value: row["created_at"], Order: Asc},
		{Field: "id", Value: row["id"], Order: Desc},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeCursor() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCursor_Malformed(t *testing.T) {
	encode := func(s string) string { return base64.URLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		token string
	}{
		{"no es base64", "%%%"},
		{"no es json", encode("hola")},
		{"lista vacía", encode(`[]`)},
		{"objeto en lugar de lista", encode(`{"field":"id"}`)},
		{"campo desconocido", encode(`[{"field":"secret","value":"x","order":"asc"}]`)},
		{"campo de relación", encode(`[{"field":"tags","value":"x","order":"asc"}]`)},
		{"orden inválido", encode(`[{"field":"priority","value":1,"order":"up"}]`)},
		{"valor del tipo incorrecto", encode(`[{"field":"priority","value":"alta","order":"asc"}]`)},
		{"uuid inválido", encode(`[{"field":"id","value":"zz","order":"desc"}]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.token, wishModel)

			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestResumePredicate(t *testing.T) {
	sort := SortSpec{{Column: "priority", Direction: Desc}, {Column: "id", Direction: Desc}}
	row := newFakeRow(2)

	token, err := EncodeNextToken(row, sort, 1, 1)
	require.NoError(t, err)

	t.Run("sin token no hay predicado", func(t *testing.T) {
		pred, err := ResumePredicate("", sort, wishModel)

		assert.NoError(t, err)
		assert.Nil(t, pred)
	})

	t.Run("token válido", func(t *testing.T) {
		pred, err := ResumePredicate(*token, sort, wishModel)
		require.NoError(t, err)

		sql, args := toSQL(t, pred)
		assert.Equal(t, "(priority < ? OR (priority = ? AND id < ?))", sql)
		assert.Equal(t, []interface{}{int64(2), int64(2), row["id"].(uuid.UUID).String()}, args)
	})

	t.Run("token de otra ordenación", func(t *testing.T) {
		other := SortSpec{{Column: "priority", Direction: Asc}, {Column: "id", Direction: Desc}}

		_, err := ResumePredicate(*token, other, wishModel)

		assert.ErrorIs(t, err, ErrInvalidCursor)
	})

	t.Run("token con distinto número de campos", func(t *testing.T) {
		other := SortSpec{{Column: "id", Direction: Desc}}

		_, err := ResumePredicate(*token, other, wishModel)

		assert.ErrorIs(t, err, ErrInvalidCursor)
	})
}

func TestKeysetPredicate(t *testing.T) {
	fields := []CursorField{
		{Field: "priority", Value: 5, Order: Desc},
		{Field: "id", Value: "b", Order: Desc},
	}

	sql, args := toSQL(t, KeysetPredicate(fields))

	assert.Equal(t, "(priority < ? OR (priority = ? AND id < ?))", sql)
	assert.Equal(t, []interface{}{5, 5, "b"}, args)
}

func TestKeysetPredicate_MixedDirections(t *testing.T) {
	fields := []CursorField{
		{Field: "title", Value: "a", Order: Asc},
		{Field: "priority", Value: 1, Order: Desc},
		{Field: "id", Value: "c", Order: Asc},
	}

	sql, args := toSQL(t, KeysetPredicate(fields))

	assert.Equal(t, "(title > ? OR (title = ? AND priority < ?) OR (title = ? AND priority = ? AND id > ?))", sql)
	assert.Equal(t, []interface{}{"a", "a", 1, "a", 1, "c"}, args)
}

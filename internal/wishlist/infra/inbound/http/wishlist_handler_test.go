package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/wishlab/internal/mocks"
	"github.com/davicafu/wishlab/internal/wishlist/application"
	"github.com/davicafu/wishlab/internal/wishlist/domain"
)

type jsend struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type page struct {
	Objects    []map[string]any `json:"objects"`
	TotalCount int64            `json:"totalCount"`
	NextToken  *string          `json:"nextToken"`
}

func newRouter(t *testing.T) (*gin.Engine, *mocks.InMemoryWishlistRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := mocks.NewInMemoryWishlistRepo()
	service := application.NewWishlistService(repo.WishlistRepo(), repo.WishRepo(), mocks.NewDummyCache(), time.Minute, 0, zap.NewNop())
	r := gin.New()
	RegisterWishlistRoutes(r, NewWishlistHandler(service, false, zap.NewNop()))
	return r, repo
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, jsend) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp jsend
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func createList(t *testing.T, r *gin.Engine) domain.WishList {
	t.Helper()
	rec, resp := do(t, r, http.MethodPost, "/wishlists", `{"title":"Cumpleaños","ownerId":"`+uuid.NewString()+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var list domain.WishList
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	return list
}

func TestWishlistHTTP_CRUD(t *testing.T) {
	r, repo := newRouter(t)
	list := createList(t, r)
	path := "/wishlists/" + list.ID.String()

	rec, resp := do(t, r, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"title":"Cumpleaños"`)

	rec, resp = do(t, r, http.MethodPut, path, `{"title":"Navidad"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"title":"Navidad"`)

	rec, _ = do(t, r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.Lists)

	rec, resp = do(t, r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "fail", resp.Status)
}

func TestWishHTTP_CRUD(t *testing.T) {
	r, _ := newRouter(t)
	list := createList(t, r)

	rec, resp := do(t, r, http.MethodPost, "/wishes", `{"wishlistId":"`+list.ID.String()+`","title":"Bicicleta","priority":3}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var wish domain.Wish
	require.NoError(t, json.Unmarshal(resp.Data, &wish))
	assert.Equal(t, domain.PriorityHigh, wish.Priority)
	assert.Equal(t, domain.ComplexityNormal, wish.Complexity)
	path := "/wishes/" + wish.ID.String()

	rec, resp = do(t, r, http.MethodPut, path, `{"status":"COMPLETED","description":"roja"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"status":"COMPLETED"`)
	assert.Contains(t, string(resp.Data), `"description":"roja"`)

	rec, _ = do(t, r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestWishlistHTTP_Errors(t *testing.T) {
	r, _ := newRouter(t)
	list := createList(t, r)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"id de lista inválido", http.MethodGet, "/wishlists/no-uuid", "", http.StatusBadRequest},
		{"lista sin propietario", http.MethodPost, "/wishlists", `{"title":"Navidad"}`, http.StatusBadRequest},
		{"lista inexistente", http.MethodPut, "/wishlists/" + uuid.NewString(), `{"title":"Navidad"}`, http.StatusNotFound},
		{"deseo en lista inexistente", http.MethodPost, "/wishes", `{"wishlistId":"` + uuid.NewString() + `","title":"Bici"}`, http.StatusNotFound},
		{"deseo con prioridad inválida", http.MethodPost, "/wishes", `{"wishlistId":"` + list.ID.String() + `","title":"Bici","priority":8}`, http.StatusBadRequest},
		{"deseo inexistente", http.MethodDelete, "/wishes/" + uuid.NewString(), "", http.StatusNotFound},
		{"listar deseos de lista inexistente", http.MethodPost, "/wishlists/" + uuid.NewString() + "/wishes/list", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, r, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "fail", resp.Status)
		})
	}
}

func TestWishHTTP_List(t *testing.T) {
	r, repo := newRouter(t)
	list := createList(t, r)
	for _, title := range []string{"Bicicleta", "Libro"} {
		rec, _ := do(t, r, http.MethodPost, "/wishes", `{"wishlistId":"`+list.ID.String()+`","title":"`+title+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("lista anidada con proyección", func(t *testing.T) {
		rec, resp := do(t, r, http.MethodPost, "/wishlists/"+list.ID.String()+"/wishes/list",
			`{"sorting":["-priority"],"projection":{"fields":["title"]},"pagination":{"limit":1}}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var p page
		require.NoError(t, json.Unmarshal(resp.Data, &p))
		assert.Equal(t, int64(2), p.TotalCount)
		require.Len(t, p.Objects, 1)
		assert.Contains(t, p.Objects[0], "title")
		assert.NotContains(t, p.Objects[0], "description")
		assert.NotNil(t, p.NextToken)
		assert.Len(t, repo.LastQuery.Scope, 1)
	})

	t.Run("filtro con valor inválido", func(t *testing.T) {
		rec, resp := do(t, r, http.MethodPost, "/wishes/list", `{"filtration":[{"f":"priority","o":">","v":"alta"}]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "fail", resp.Status)
	})

	t.Run("listas sin cuerpo", func(t *testing.T) {
		rec, resp := do(t, r, http.MethodPost, "/wishlists/list", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var p page
		require.NoError(t, json.Unmarshal(resp.Data, &p))
		assert.Len(t, p.Objects, 1)
	})
}

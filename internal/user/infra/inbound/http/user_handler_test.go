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
	"github.com/davicafu/wishlab/internal/user/application"
	"github.com/davicafu/wishlab/internal/user/domain"
)

type jsend struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newRouter(t *testing.T) (*gin.Engine, *mocks.InMemoryUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := mocks.NewInMemoryUserRepo()
	service := application.NewUserService(repo, mocks.NewDummyCache(), time.Minute, 0, zap.NewNop())
	r := gin.New()
	RegisterUserRoutes(r, NewUserHandler(service, false, zap.NewNop()))
	return r, repo
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, jsend) {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp jsend
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestUserHTTP_CRUD(t *testing.T) {
	r, repo := newRouter(t)

	// Crear
	rec, resp := do(t, r, http.MethodPost, "/users", `{"email":"ana@example.com","firstName":"Ana","lastName":"Ruiz"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "success", resp.Status)

	var created domain.User
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, "ana@example.com", created.Email)
	assert.Len(t, repo.Outbox, 1)

	// Leer
	rec, resp = do(t, r, http.MethodGet, "/users/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"firstName":"Ana"`)

	// Actualizar
	rec, resp = do(t, r, http.MethodPut, "/users/"+created.ID.String(), `{"status":"CONFIRMED"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"status":"CONFIRMED"`)

	// Borrar
	rec, _ = do(t, r, http.MethodDelete, "/users/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, resp = do(t, r, http.MethodGet, "/users/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "fail", resp.Status)
}

func TestUserHTTP_Errors(t *testing.T) {
	r, _ := newRouter(t)
	_, _ = do(t, r, http.MethodPost, "/users", `{"email":"dup@example.com","firstName":"Ana","lastName":"Ruiz"}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"id inválido", http.MethodGet, "/users/no-uuid", "", http.StatusBadRequest},
		{"email inválido", http.MethodPost, "/users", `{"email":"x","firstName":"Ana","lastName":"Ruiz"}`, http.StatusBadRequest},
		{"email inválido al actualizar", http.MethodPut, "/users/" + uuid.NewString(), `{"email":"ana-at-example"}`, http.StatusBadRequest},
		{"email duplicado", http.MethodPost, "/users", `{"email":"dup@example.com","firstName":"Eva","lastName":"Mora"}`, http.StatusConflict},
		{"actualizar inexistente", http.MethodPut, "/users/" + uuid.NewString(), `{"status":"X"}`, http.StatusNotFound},
		{"borrar inexistente", http.MethodDelete, "/users/" + uuid.NewString(), "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, r, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "fail", resp.Status)
		})
	}
}

func TestUserHTTP_List(t *testing.T) {
	r, _ := newRouter(t)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		rec, _ := do(t, r, http.MethodPost, "/users", `{"email":"`+email+`","firstName":"N","lastName":"A"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("cuerpo vacío usa los valores por defecto", func(t *testing.T) {
		rec, resp := do(t, r, http.MethodPost, "/users/list", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var page struct {
			Objects    []map[string]any `json:"objects"`
			TotalCount int64            `json:"totalCount"`
			NextToken  *string          `json:"nextToken"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &page))
		assert.Len(t, page.Objects, 3)
		assert.Equal(t, int64(3), page.TotalCount)
		assert.Nil(t, page.NextToken)
	})

	t.Run("límite inválido es un fail", func(t *testing.T) {
		rec, resp := do(t, r, http.MethodPost, "/users/list", `{"pagination":{"limit":5000}}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "fail", resp.Status)
		assert.Equal(t, "null", string(resp.Data), "sin debug no se exponen datos")
	})

	t.Run("json mal formado", func(t *testing.T) {
		rec, _ := do(t, r, http.MethodPost, "/users/list", `{"sorting":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

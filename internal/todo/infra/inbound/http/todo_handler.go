package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/wishlab/internal/todo/application"
	"github.com/davicafu/wishlab/internal/todo/domain"
	"github.com/davicafu/wishlab/pkg/utils"
)

// TodoHandler encapsula los endpoints HTTP relacionados con Todo.
type TodoHandler struct {
	service *application.TodoService
	debug   bool
	log     *zap.Logger
}

func NewTodoHandler(service *application.TodoService, debug bool, log *zap.Logger) *TodoHandler {
	return &TodoHandler{service: service, debug: debug, log: log}
}

// --- Handlers CRUD ---

// CreateTodo endpoint POST /todos
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	var req struct {
		Title       string  `json:"title" binding:"required"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	todo, err := h.service.CreateTodo(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		h.sendError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusCreated, todo)
}

// GetTodo endpoint GET /todos/:id
func (h *TodoHandler) GetTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	todo, err := h.service.GetTodo(c.Request.Context(), id)
	if err != nil {
		h.sendError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, todo)
}

// UpdateTodo endpoint PUT /todos/:id
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Title       *string            `json:"title,omitempty"`
		Description *string            `json:"description,omitempty"`
		Status      *domain.TodoStatus `json:"status,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	todo, err := h.service.UpdateTodo(c.Request.Context(), id, domain.TodoChanges{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.sendError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, todo)
}

// DeleteTodo endpoint DELETE /todos/:id
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTodo(c.Request.Context(), id); err != nil {
		h.sendError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListTodos endpoint POST /todos/list
func (h *TodoHandler) ListTodos(c *gin.Context) {
	req, err := utils.BindListRequest(c)
	if err != nil {
		utils.SendBadRequest(c, "invalid list request: "+err.Error())
		return
	}

	page, err := h.service.ListTodos(c.Request.Context(), req)
	if err != nil {
		utils.SendQueryError(c, err, h.debug, h.log)
		return
	}

	utils.SendPage(c, page)
}

// --- Analítica ---

// Trend endpoint GET /todos/stats/trend?from=2026-01-01&to=2026-01-31
// Sin parámetros devuelve los últimos 7 días.
func (h *TodoHandler) Trend(c *gin.Context) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -7)

	var err error
	if v := c.Query("from"); v != "" {
		if from, err = parseDate(v); err != nil {
			utils.SendBadRequest(c, "invalid 'from' date")
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = parseDate(v); err != nil {
			utils.SendBadRequest(c, "invalid 'to' date")
			return
		}
	}

	trend, err := h.service.Trend(c.Request.Context(), from, to)
	if err != nil {
		h.sendError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, trend)
}

// ---------------- Helpers ----------------

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, v)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid todo id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *TodoHandler) sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTodoNotFound):
		utils.SendNotFound(c, "todo not found")
	case errors.Is(err, domain.ErrTodoAlreadyExists):
		utils.SendConflict(c, "todo with this title already exists")
	case errors.Is(err, domain.ErrInvalidTodo), errors.Is(err, domain.ErrInvalidTrendWindow):
		utils.SendBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrAnalyticsDisabled):
		utils.SendError(c, http.StatusServiceUnavailable, "todo analytics are not configured", nil)
	default:
		utils.SendInternalServerError(c, err, h.debug, h.log)
	}
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/wishlab/internal/wishlist/application"
	"github.com/davicafu/wishlab/internal/wishlist/domain"
	"github.com/davicafu/wishlab/pkg/utils"
)

// WishlistHandler expone listas y deseos por HTTP.
type WishlistHandler struct {
	service *application.WishlistService
	debug   bool
	log     *zap.Logger
}

func NewWishlistHandler(service *application.WishlistService, debug bool, log *zap.Logger) *WishlistHandler {
	return &WishlistHandler{service: service, debug: debug, log: log}
}

// ---------------- Listas ----------------

// CreateWishlist endpoint POST /wishlists
func (h *WishlistHandler) CreateWishlist(c *gin.Context) {
	var req struct {
		Title   string    `json:"title" binding:"required"`
		OwnerID uuid.UUID `json:"ownerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	list, err := h.service.CreateWishlist(c.Request.Context(), req.Title, req.OwnerID)
	if err != nil {
		h.sendError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusCreated, list)
}

// GetWishlist endpoint GET /wishlists/:id
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	id, ok := parseID(c, "wishlist")
	if !ok {
		return
	}

	list, err := h.service.GetWishlist(c.Request.Context(), id)
	if err != nil {
		h.sendError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, list)
}

// UpdateWishlist endpoint PUT /wishlists/:id
func (h *WishlistHandler) UpdateWishlist(c *gin.Context) {
	id, ok := parseID(c, "wishlist")
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	list, err := h.service.RenameWishlist(c.Request.Context(), id, req.Title)
	if err != nil {
		h.sendError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, list)
}

// DeleteWishlist endpoint DELETE /wishlists/:id
func (h *WishlistHandler) DeleteWishlist(c *gin.Context) {
	id, ok := parseID(c, "wishlist")
	if !ok {
		return
	}

	if err := h.service.DeleteWishlist(c.Request.Context(), id); err != nil {
		h.sendError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListWishlists endpoint POST /wishlists/list
func (h *WishlistHandler) ListWishlists(c *gin.Context) {
	req, err := utils.BindListRequest(c)
	if err != nil {
		utils.SendBadRequest(c, "invalid list request: "+err.Error())
		return
	}

	page, err := h.service.ListWishlists(c.Request.Context(), req)
	if err != nil {
		h.sendListError(c, err)
		return
	}

	utils.SendPage(c, page)
}

// ListWishlistWishes endpoint POST /wishlists/:id/wishes/list
func (h *WishlistHandler) ListWishlistWishes(c *gin.Context) {
	id, ok := parseID(c, "wishlist")
	if !ok {
		return
	}
	req, err := utils.BindListRequest(c)
	if err != nil {
		utils.SendBadRequest(c, "invalid list request: "+err.Error())
		return
	}

	page, err := h.service.ListWishlistWishes(c.Request.Context(), id, req)
	if err != nil {
		h.sendListError(c, err)
		return
	}

	utils.SendPage(c, page)
}

// ---------------- Deseos ----------------

type wishRequest struct {
	WishlistID  uuid.UUID         `json:"wishlistId" binding:"required"`
	Title       string            `json:"title" binding:"required"`
	Description *string           `json:"description"`
	Complexity  domain.Complexity `json:"complexity"`
	Priority    domain.Priority   `json:"priority"`
}

// CreateWish endpoint POST /wishes
func (h *WishlistHandler) CreateWish(c *gin.Context) {
	var req wishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	wish, err := h.service.CreateWish(c.Request.Context(), domain.NewWishParams{
		WishlistID:  req.WishlistID,
		Title:       req.Title,
		Description: req.Description,
		Complexity:  req.Complexity,
		Priority:    req.Priority,
	})
	if err != nil {
		h.sendError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusCreated, wish)
}

// GetWish endpoint GET /wishes/:id
func (h *WishlistHandler) GetWish(c *gin.Context) {
	id, ok := parseID(c, "wish")
	if !ok {
		return
	}

	wish, err := h.service.GetWish(c.Request.Context(), id)
	if err != nil {
		h.sendError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, wish)
}

// UpdateWish endpoint PUT /wishes/:id
func (h *WishlistHandler) UpdateWish(c *gin.Context) {
	id, ok := parseID(c, "wish")
	if !ok {
		return
	}

	var req struct {
		Title       *string            `json:"title,omitempty"`
		Description *string            `json:"description,omitempty"`
		Status      *domain.WishStatus `json:"status,omitempty"`
		Complexity  *domain.Complexity `json:"complexity,omitempty"`
		Priority    *domain.Priority   `json:"priority,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	wish, err := h.service.UpdateWish(c.Request.Context(), id, domain.WishChanges{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Complexity:  req.Complexity,
		Priority:    req.Priority,
	})
	if err != nil {
		h.sendError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, wish)
}

// DeleteWish endpoint DELETE /wishes/:id
func (h *WishlistHandler) DeleteWish(c *gin.Context) {
	id, ok := parseID(c, "wish")
	if !ok {
		return
	}

	if err := h.service.DeleteWish(c.Request.Context(), id); err != nil {
		h.sendError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListWishes endpoint POST /wishes/list
func (h *WishlistHandler) ListWishes(c *gin.Context) {
	req, err := utils.BindListRequest(c)
	if err != nil {
		utils.SendBadRequest(c, "invalid list request: "+err.Error())
		return
	}

	page, err := h.service.ListWishes(c.Request.Context(), req)
	if err != nil {
		h.sendListError(c, err)
		return
	}

	utils.SendPage(c, page)
}

// ---------------- Helpers ----------------

func parseID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid "+resource+" id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *WishlistHandler) sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrWishlistNotFound):
		utils.SendNotFound(c, "wishlist not found")
	case errors.Is(err, domain.ErrWishNotFound):
		utils.SendNotFound(c, "wish not found")
	case errors.Is(err, domain.ErrOwnerNotFound):
		utils.SendBadRequest(c, "owner does not exist")
	case errors.Is(err, domain.ErrInvalidWishlist), errors.Is(err, domain.ErrInvalidWish):
		utils.SendBadRequest(c, err.Error())
	default:
		utils.SendInternalServerError(c, err, h.debug, h.log)
	}
}

// sendListError distingue la lista padre inexistente de los errores de consulta.
func (h *WishlistHandler) sendListError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrWishlistNotFound) {
		utils.SendNotFound(c, "wishlist not found")
		return
	}
	utils.SendQueryError(c, err, h.debug, h.log)
}

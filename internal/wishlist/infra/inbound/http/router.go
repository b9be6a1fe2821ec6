package http

import "github.com/gin-gonic/gin"

// RegisterWishlistRoutes registra las rutas de listas y deseos.
func RegisterWishlistRoutes(r *gin.Engine, handler *WishlistHandler) {
	lists := r.Group("/wishlists")
	{
		lists.POST("", handler.CreateWishlist)
		lists.POST("/list", handler.ListWishlists)
		lists.GET("/:id", handler.GetWishlist)
		lists.PUT("/:id", handler.UpdateWishlist)
		lists.DELETE("/:id", handler.DeleteWishlist)
		lists.POST("/:id/wishes/list", handler.ListWishlistWishes)
	}

	wishes := r.Group("/wishes")
	{
		wishes.POST("", handler.CreateWish)
		wishes.POST("/list", handler.ListWishes)
		wishes.GET("/:id", handler.GetWish)
		wishes.PUT("/:id", handler.UpdateWish)
		wishes.DELETE("/:id", handler.DeleteWish)
	}
}

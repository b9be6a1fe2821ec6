package http

import "github.com/gin-gonic/gin"

// RegisterTodoRoutes registra las rutas HTTP del dominio de todos.
func RegisterTodoRoutes(r *gin.Engine, handler *TodoHandler) {
	todos := r.Group("/todos")
	{
		todos.POST("", handler.CreateTodo)
		todos.POST("/list", handler.ListTodos)
		todos.GET("/stats/trend", handler.Trend)
		todos.GET("/:id", handler.GetTodo)
		todos.PUT("/:id", handler.UpdateTodo)
		todos.DELETE("/:id", handler.DeleteTodo)
	}
}

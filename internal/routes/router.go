package routes

import (
	"github.com/gin-gonic/gin"

	"focusdock/internal/auth"
	"focusdock/internal/controller"
	"focusdock/internal/middleware"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Auth     *auth.Service
	Todos    *controller.TodoController
	Sessions *controller.SessionController
	Accounts *controller.AuthController
}

func Router(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// Health for load balancers and K8s probes
	router.GET("/health", controller.Health)
	router.GET("/ready", controller.Ready)

	authGroup := router.Group("/auth")
	authGroup.POST("/register", deps.Accounts.Register)
	authGroup.POST("/login", deps.Accounts.Login)

	// Protected: session token required
	api := router.Group("")
	api.Use(middleware.Auth(deps.Auth))
	{
		api.GET("/todos", deps.Todos.GetTodos)
		api.POST("/todos", deps.Todos.CreateTodo)
		api.PUT("/todos/:id", deps.Todos.UpdateTodo)
		api.PATCH("/todos/:id/move-up", deps.Todos.MoveTodoUp)
		api.PATCH("/todos/:id/move-down", deps.Todos.MoveTodoDown)
		api.DELETE("/todos/:id", deps.Todos.DeleteTodo)

		api.POST("/sessions", deps.Sessions.StoreSession)
		api.GET("/sessions", deps.Sessions.FetchSessions)
	}

	return router
}

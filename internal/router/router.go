package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/handlers"
	"github.com/taskhive-dev/taskhive/internal/middleware"
	"github.com/taskhive-dev/taskhive/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthCheck)

	users := r.Group("/users")
	{
		users.POST("/register", handlers.Register)
		users.POST("/login", handlers.Login)

		profile := users.Group("", middleware.AuthMiddleware())
		{
			profile.GET("", handlers.Profile)
			profile.PUT("", handlers.UpdateProfile)
			profile.DELETE("", handlers.DeleteAccount)
		}
	}

	token := r.Group("/token")
	{
		token.POST("", handlers.ObtainTokenPair)
		token.POST("/refresh", handlers.RefreshToken)
	}

	projects := r.Group("/projects", middleware.AuthMiddleware())
	{
		projects.GET("", handlers.ListProjects)
		projects.POST("", handlers.CreateProject)
		projects.GET("/:project_id", handlers.GetProject)
		projects.PUT("/:project_id", handlers.UpdateProject)
		projects.DELETE("/:project_id", handlers.DeleteProject)

		projects.GET("/:project_id/tasks", handlers.ListTasks)
		projects.POST("/:project_id/tasks", handlers.CreateTask)
	}

	tasks := r.Group("/tasks", middleware.AuthMiddleware())
	{
		tasks.GET("/:task_id", handlers.GetTask)
		tasks.PUT("/:task_id", handlers.UpdateTask)
		tasks.DELETE("/:task_id", handlers.DeleteTask)

		tasks.GET("/:task_id/comments", handlers.ListComments)
		tasks.POST("/:task_id/comments", handlers.CreateComment)
	}

	comments := r.Group("/comments", middleware.AuthMiddleware())
	{
		comments.GET("/:comment_id", handlers.GetComment)
		comments.PUT("/:comment_id", handlers.UpdateComment)
		comments.DELETE("/:comment_id", handlers.DeleteComment)
	}

	r.GET("/ws/projects/:project_id", middleware.AuthMiddleware(), handlers.ProjectEvents)

	return r
}

// Package server assembles the gin engine: middleware chain, route
// groups and their handlers.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskhub/backend/internal/cache"
	"taskhub/backend/internal/config"
	"taskhub/backend/internal/handlers"
	"taskhub/backend/internal/middleware"
	"taskhub/backend/internal/monitoring"
	"taskhub/backend/internal/services"
)

// New wires the full HTTP surface. cacheInstance may be nil; task reads
// then go straight to the database.
func New(cfg *config.Config, db *gorm.DB, cacheInstance *cache.RedisCache) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	codec := services.NewTokenCodec(cfg.Auth)
	authService := services.NewAuthService(db, codec, cfg.Auth.BCryptCost)
	resolver := services.NewSessionResolver(db, codec)

	var taskService services.TaskService = services.NewTaskService(db)
	if cacheInstance != nil {
		taskService = services.NewCachedTaskService(taskService, cacheInstance)
	}

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	healthHandler := handlers.NewHealthHandler(db, cacheInstance)

	router := gin.New()
	router.Use(middleware.RecoveryWithLog())
	router.Use(middleware.RequestID())
	router.Use(monitoring.MetricsMiddleware())
	router.Use(cors.Default())

	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.Check)
		api.GET("/metrics", monitoring.MetricsHandler)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.AuthnMiddleware(resolver))
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTaskByID)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	return router
}

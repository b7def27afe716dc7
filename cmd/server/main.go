package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jmherrera/task-tracker-api/internal/config"
	"github.com/jmherrera/task-tracker-api/internal/constants"
	"github.com/jmherrera/task-tracker-api/internal/database"
	"github.com/jmherrera/task-tracker-api/internal/handlers"
	"github.com/jmherrera/task-tracker-api/internal/middleware"
	"github.com/jmherrera/task-tracker-api/internal/repository"
	"github.com/jmherrera/task-tracker-api/internal/services"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// An unreachable store at startup is the one fatal condition; readiness
	// polling is handled outside this process.
	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	userService := services.NewUserService(userRepo)
	tokenService := services.NewTokenService(tokenRepo, userRepo)
	taskService := services.NewTaskService(taskRepo)

	userHandler := handlers.NewUserHandler(userService, tokenService)
	taskHandler := handlers.NewTaskHandler(taskService)
	adminHandler := handlers.NewAdminHandler(userService, taskService)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.GinZapMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", userHandler.Register)
			users.POST("/token", userHandler.CreateToken)

			me := users.Group("/me")
			me.Use(middleware.RequireToken(tokenService))
			{
				me.GET("", userHandler.Me)
				me.PATCH("", userHandler.UpdateMe)
				me.POST("", userHandler.MeNotAllowed)
			}
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireToken(tokenService))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	// Admin console: internal, session-authenticated, staff only.
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/admin",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(sessions.Sessions(constants.AdminSessionCookieName, store))
	{
		adminGroup.POST("/login", adminHandler.Login)
		adminGroup.POST("/logout", adminHandler.Logout)

		protected := adminGroup.Group("")
		protected.Use(middleware.RequireAdminSession(userService))
		{
			protected.GET("/users", adminHandler.ListUsers)
			protected.POST("/users", adminHandler.CreateUser)
			protected.GET("/users/:id", adminHandler.GetUser)
			protected.PATCH("/users/:id", adminHandler.UpdateUser)

			protected.GET("/tasks", adminHandler.ListTasks)
			protected.GET("/tasks/:id", adminHandler.GetTask)
			protected.PATCH("/tasks/:id", adminHandler.UpdateTask)
			protected.DELETE("/tasks/:id", adminHandler.DeleteTask)
		}
	}

	addr := ":" + cfg.AppPort
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}

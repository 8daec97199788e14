package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/prbyl0809/smart-team-assistant/internal/config"
	v1 "github.com/prbyl0809/smart-team-assistant/internal/delivery/http/v1"
	"github.com/prbyl0809/smart-team-assistant/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	jwtCfg := config.Global().JWT

	authService := services.NewAuthService(
		globalLogger,
		globalPostgresPool,
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.AccessTokenTTL,
	)
	handler := v1.New(
		globalLogger,
		authService,
		services.NewUserService(globalLogger, globalPostgresPool),
		services.NewProjectService(globalLogger, globalPostgresPool),
		services.NewTaskService(globalLogger, globalPostgresPool),
		services.NewCommentService(globalLogger, globalPostgresPool),
	)

	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/login", handler.HandleLogin)

	usersRouter := router.Group("/users")
	usersRouter.POST("/register", handler.HandleRegister)
	usersRouter.GET("/me", handler.HandleAuthMiddleware, handler.HandleGetMe)
	usersRouter.GET("/", handler.HandleAuthMiddleware, handler.HandleListUsers)

	projectsRouter := router.Group("/projects", handler.HandleAuthMiddleware)
	projectsRouter.POST("/", handler.HandleCreateProject)
	projectsRouter.GET("/", handler.HandleListProjects)
	projectsRouter.GET("/:project_id", handler.HandleGetProject)
	projectsRouter.PUT("/:project_id", handler.HandleUpdateProject)
	projectsRouter.DELETE("/:project_id", handler.HandleDeleteProject)

	commentsRouter := projectsRouter.Group("/:project_id/comments")
	commentsRouter.POST("/", handler.HandleCreateComment)
	commentsRouter.GET("/", handler.HandleListComments)
	commentsRouter.PATCH("/:comment_id", handler.HandleUpdateComment)
	commentsRouter.DELETE("/:comment_id", handler.HandleDeleteComment)

	// The singular /project segment mirrors the shape the frontend
	// already depends on.
	tasksRouter := router.Group("/project/:project_id/tasks", handler.HandleAuthMiddleware)
	tasksRouter.POST("/", handler.HandleCreateTask)
	tasksRouter.GET("/", handler.HandleListTasks)
	tasksRouter.GET("/:task_id", handler.HandleGetTask)
	tasksRouter.PUT("/:task_id", handler.HandleUpdateTask)
	tasksRouter.PATCH("/:task_id", handler.HandleUpdateTask)
	tasksRouter.DELETE("/:task_id", handler.HandleDeleteTask)
}

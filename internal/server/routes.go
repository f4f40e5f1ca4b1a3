package server

import (
	"github.com/gin-contrib/cors"
	"go.uber.org/fx"

	"github.com/looplj/visionhub/internal/server/api"
	"github.com/looplj/visionhub/internal/server/middleware"
)

type Handlers struct {
	fx.In

	OpenAI *api.OpenAIHandlers
	System *api.SystemHandlers
}

func SetupRoutes(server *Server, handlers Handlers) {
	server.Use(middleware.AccessLog())
	server.Use(middleware.WithLoggingTracing(server.Config.Trace))
	server.Use(middleware.WithMetrics())

	// Setup CORS middleware at server level if enabled
	if server.Config.CORS.Enabled {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = server.Config.CORS.AllowedOrigins
		corsConfig.AllowMethods = server.Config.CORS.AllowedMethods
		corsConfig.AllowHeaders = server.Config.CORS.AllowedHeaders
		corsConfig.ExposeHeaders = server.Config.CORS.ExposedHeaders
		corsConfig.AllowCredentials = server.Config.CORS.AllowCredentials
		corsConfig.MaxAge = server.Config.CORS.MaxAge

		corsHandler := cors.New(corsConfig)
		server.Use(corsHandler)
		server.OPTIONS("*any", corsHandler)
	}

	publicGroup := server.Group("", middleware.WithTimeout(server.Config.RequestTimeout))
	{
		publicGroup.GET("/health", handlers.System.Health)
		publicGroup.GET("/models", handlers.OpenAI.ListModels)
	}

	// Generation requests carry no timeout: once admitted, a generate call
	// runs to completion.
	server.POST("/chat/completions", handlers.OpenAI.ChatCompletion)

	// Mirror the routes under /v1 for clients that keep the standard
	// OpenAI base path.
	v1 := server.Group("/v1")
	v1.GET("/models", middleware.WithTimeout(server.Config.RequestTimeout), handlers.OpenAI.ListModels)
	v1.POST("/chat/completions", handlers.OpenAI.ChatCompletion)
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/looplj/visionhub/internal/engine"
	"github.com/looplj/visionhub/internal/log"
	"github.com/looplj/visionhub/internal/server/api"
	"github.com/looplj/visionhub/internal/server/middleware"
	"github.com/looplj/visionhub/internal/vision"
)

func New(config Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ginEngine := gin.New()
	ginEngine.Use(middleware.Recovery())

	return &Server{
		Config: config,
		Engine: ginEngine,
	}
}

type Server struct {
	*gin.Engine

	Config Config
	server *http.Server
	addr   string
}

func (srv *Server) Run() error {
	log.Info(context.Background(), "run server",
		log.String("name", srv.Config.Name),
		log.String("host", srv.Config.Host),
		log.Int("port", srv.Config.Port),
	)

	addr := fmt.Sprintf("%s:%d", srv.Config.Host, srv.Config.Port)
	srv.server = &http.Server{
		Addr:         addr,
		Handler:      srv.Engine,
		ReadTimeout:  srv.Config.ReadTimeout,
		WriteTimeout: srv.Config.WriteTimeout,
	}
	srv.addr = addr

	err := srv.server.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}

	return nil
}

func (srv *Server) Shutdown(ctx context.Context) error {
	return srv.server.Shutdown(ctx)
}

func Run(opts ...fx.Option) {
	constructors := []any{
		engine.New,
		vision.NewImageResolver,
		vision.NewPromptFormatter,
		vision.NewService,
		api.NewOpenAIHandlers,
		api.NewSystemHandlers,
		New,
	}

	app := fx.New(
		append([]fx.Option{
			fx.NopLogger,
			fx.Provide(constructors...),
			fx.Invoke(func(cfg log.Config) {
				log.SetGlobalConfig(cfg)
			}),
			fx.Invoke(func(lc fx.Lifecycle, eng engine.Engine) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						// Load in the background so the server comes up
						// immediately; requests racing the load get a
						// model-not-loaded error until it completes.
						go func() {
							if err := eng.Load(context.Background()); err != nil {
								log.Error(context.Background(), "model load failed", log.Cause(err))
							}
						}()

						return nil
					},
					OnStop: func(ctx context.Context) error {
						return eng.Stop(ctx)
					},
				})
			}),
			fx.Invoke(SetupRoutes),
		}, opts...)...,
	)
	app.Run()
}

// Package rest exposes the account and task API over HTTP.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type Server struct {
	address string
	users   UserService
	tasks   TaskService
	tokens  TokenVerifier
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, us UserService, ts TaskService, tokens TokenVerifier) *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{
		address: address,
		users:   us,
		tasks:   ts,
		tokens:  tokens,
		logger:  l.With("module", "http_server"),
	}
}

// Handler returns the routed API with the full middleware chain.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(
		RecoverPanic(s.logger),
		RequestID(),
		Tracing(),
		AccessLog(s.logger),
	)
	router.NoRoute(s.notFound)

	api := router.Group("/api")
	{
		api.POST("/auth/register", s.register)
		api.POST("/auth/login", s.login)

		tasks := api.Group("/tasks", RequireAuth(s.tokens))
		tasks.GET("", s.listTasks)
		tasks.POST("", s.createTask)
		tasks.PUT("/:id", s.updateTask)
		tasks.DELETE("/:id", s.deleteTask)
	}

	router.GET("/healthz", s.health)

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

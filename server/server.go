// Package server exposes the controller as a local JSON API
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-generalize/golf-score-memo/controller"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// Server is the HTTP front of one signed-in session
type Server struct {
	router     *gin.Engine
	controller *controller.Controller
	logger     *zap.Logger
	email      string
	now        func() time.Time
	signOut    func()
}

// Options configures a Server
type Options struct {
	// Email of the signed-in user, shown by the front end
	Email string
	// Development enables gin's debug mode
	Development bool
	Logger      *zap.Logger
	Now         func() time.Time
	// SignOut ends the session. The serving process stops when it is called.
	SignOut func()
}

// New returns a server driving c
func New(c *controller.Controller, opts Options) *Server {
	if !opts.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		router:     gin.New(),
		controller: c,
		logger:     opts.Logger,
		email:      opts.Email,
		now:        opts.Now,
		signOut:    opts.SignOut,
	}
	s.router.Use(gin.Recovery(), s.accessLog)
	s.setupRoutes()

	return s
}

func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()

	s.logger.Debug("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/state", s.getState)
		api.POST("/logout", s.logout)

		api.POST("/rounds", s.newRound)
		api.DELETE("/rounds/:id", s.deleteRound)

		api.PUT("/setup", s.updateSetup)
		api.POST("/setup/cancel", s.cancelSetup)
		api.POST("/play", s.startPlay)
		api.POST("/resume", s.resume)

		api.PATCH("/hole", s.editHole)
		api.POST("/hole/save", s.saveHole)
		api.POST("/hole/navigate", s.navigate)
		api.POST("/list", s.showList)

		api.GET("/export.csv", s.exportCSV)
		api.GET("/export.xlsx", s.exportXLSX)
		api.GET("/arrow.svg", s.arrowSVG)
	}
}

// Handler returns the router for use with an http.Server or httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if xerrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return xerrors.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return xerrors.Errorf("failed to shut down: %w", err)
	}
	return nil
}

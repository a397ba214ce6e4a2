// Package httpapi exposes the channel over HTTP for visitors and the admin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"channel_sync/internal/domain"
	"channel_sync/internal/metrics"
	"channel_sync/internal/service"
)

// SyncStateReader reports the state of the debounced writer.
type SyncStateReader interface {
	State() domain.SyncState
}

type Server struct {
	engine   *gin.Engine
	channel  *service.ChannelService
	sync     SyncStateReader
	metrics  *metrics.Metrics
	sessions *sessionStore
	logger   *slog.Logger

	// baseCtx outlives single requests; background work started by a retry uses it.
	baseCtx context.Context
}

func NewServer(channel *service.ChannelService, sync SyncStateReader, m *metrics.Metrics, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:   gin.New(),
		channel:  channel,
		sync:     sync,
		metrics:  m,
		sessions: newSessionStore(),
		logger:   logger.With("component", "http"),
		baseCtx:  context.Background(),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger(), s.instrument())
	s.setupRoutes()

	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() {
	r := s.engine

	r.GET("/healthz", s.health)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	public := r.Group("/api")
	public.Use(s.visitor())
	{
		public.GET("/state", s.state)
		public.POST("/retry", s.retry)
		public.GET("/channel", s.getChannel)
		public.GET("/videos", s.listVideos)
		public.GET("/shorts", s.listShorts)
		public.GET("/notifications", s.listNotifications)
		public.GET("/new-videos", s.newVideos)
		public.POST("/new-videos/dismiss", s.dismissNewVideos)
		public.POST("/videos/:id/view", s.recordView)
		public.POST("/feedback", s.submitFeedback)
		public.POST("/admin/login", s.login)
	}

	admin := r.Group("/api/admin")
	admin.Use(s.adminAuth())
	{
		admin.POST("/logout", s.logout)

		admin.POST("/videos", s.addVideo)
		admin.POST("/shorts", s.addShort)
		admin.PUT("/videos/:id", s.editVideo)
		admin.DELETE("/videos/:id", s.deleteVideo)

		admin.POST("/activities", s.addActivity)
		admin.DELETE("/activities/:id", s.deleteActivity)

		admin.POST("/playlists", s.createPlaylist)
		admin.POST("/playlists/:id/videos", s.addToPlaylist)

		admin.PUT("/settings/logo", s.setLogo)
		admin.PUT("/settings/description", s.setDescription)
		admin.PUT("/settings/subscription", s.setSubscription)
		admin.PUT("/settings/ads", s.setAds)
		admin.PUT("/settings/credentials", s.setCredentials)
		admin.PUT("/settings/sync", s.configureSync)
		admin.PUT("/settings/feedback-sync", s.setFeedbackSync)

		admin.DELETE("/feedback/:id", s.deleteFeedback)

		admin.GET("/export", s.export)
		admin.POST("/import", s.importDocument)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.baseCtx = ctx

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

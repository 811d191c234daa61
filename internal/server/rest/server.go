// Package rest exposes the timecheck service as HTTP/JSON under /api/v1.
// Requests are decoded into the same api types the gRPC transport uses and
// handed to the same implementation.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/api"
	"github.com/dmitrijs2005/timecheck/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type authenticator interface {
	Authenticate(token string) (string, error)
}

type HTTPServer struct {
	address string
	svc     api.TimeCheckServiceServer
	auth    authenticator
	logger  logging.Logger
}

func NewHTTPServer(a string, l logging.Logger, svc api.TimeCheckServiceServer, auth authenticator) *HTTPServer {
	return &HTTPServer{
		address: a,
		svc:     svc,
		auth:    auth,
		logger:  l.With("module", "http_server"),
	}
}

// Router returns the HTTP handler tree.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", handle(s, s.svc.Register, http.StatusCreated))
		r.Post("/login", handle(s, s.svc.Login, http.StatusOK))
		r.Post("/refresh", handle(s, s.svc.RefreshToken, http.StatusOK))

		r.Group(func(r chi.Router) {
			r.Use(s.bearerAuth)
			r.Post("/sync", handle(s, s.svc.Sync, http.StatusOK))
			r.Post("/export", handle(s, s.svc.Export, http.StatusOK))
		})
	})

	return r
}

// Run serves on the configured address until ctx is done.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}

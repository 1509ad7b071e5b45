package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/ekisa-team/napcast/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 30 * time.Second

type (
	HealthResponseDTO struct {
		Status string `json:"status" example:"ok"`
	}

	HealthOutput struct {
		Body HealthResponseDTO
	}
)

// Server serves the NapCast HTTP API.
type Server struct {
	addr    string
	router  chi.Router
	api     huma.API
	httpSrv *http.Server
}

// NewServer creates a server listening on addr with every route registered.
func NewServer(addr, version string, voiceService *service.Voice) *Server {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(requestLogger)
	router.Use(chimw.Recoverer)

	config := huma.DefaultConfig("NapCast API", version)
	config.CreateHooks = nil // no $schema links in response bodies

	api := humachi.New(router, config)
	Register(api, voiceService)

	return &Server{
		addr:   addr,
		router: router,
		api:    api,
	}
}

// Register adds every API operation to api.
// It installs the API error envelope as huma.NewError, which is process-wide:
// every huma API in the process reports errors in that envelope afterwards.
func Register(api huma.API, voiceService *service.Voice) {
	huma.NewError = newError

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"system"},
	}, func(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
		return &HealthOutput{Body: HealthResponseDTO{Status: "ok"}}, nil
	})

	NewVoiceHandler(api, voiceService)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// API returns the huma API.
func (s *Server) API() huma.API {
	return s.api
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
// In-flight generations keep running until they finish or the shutdown timeout elapses.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpSrv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", ln.Addr().String())
		errCh <- s.httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		slog.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

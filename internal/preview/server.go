package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/go-csv2pdf/internal/assets"
	"github.com/alnah/go-csv2pdf/internal/pipeline"
)

// WebSocketPath is where the live-reload script connects.
const WebSocketPath = "/ws"

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// RenderFunc produces a complete HTML document.
type RenderFunc func(ctx context.Context) (string, error)

// Config configures a Server.
type Config struct {
	// Dir is served for every path other than / and WebSocketPath, so
	// stylesheets and images referenced by the document resolve.
	Dir string

	// Render is called on every GET /.
	Render RenderFunc

	// Hint optionally adds advice to the error page.
	Hint func(error) string

	// Logger receives request and render logs. Nil discards them.
	Logger *slog.Logger
}

// Server is the preview HTTP server.
type Server struct {
	cfg     Config
	hub     *Hub
	snippet string
	router  chi.Router
}

// NewServer creates a Server. Call Close to disconnect clients.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Render == nil {
		return nil, ErrNoRenderer
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	snippet, err := assets.LiveReloadSnippet(WebSocketPath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		hub:     NewHub(cfg.Logger),
		snippet: snippet,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get(WebSocketPath, s.hub.ServeHTTP)
	r.Handle("/*", http.FileServer(http.Dir(s.cfg.Dir)))
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Reload tells every open preview to reload.
func (s *Server) Reload() {
	s.hub.Broadcast(ReloadMessage)
}

// Clients returns the number of connected previews.
func (s *Server) Clients() int {
	return s.hub.Len()
}

// Close disconnects every preview.
func (s *Server) Close() {
	s.hub.Close()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	doc, err := s.cfg.Render(r.Context())
	if err != nil {
		s.cfg.Logger.Error("preview render failed", slog.Any("error", err))
		s.writeError(w, err)
		return
	}
	s.cfg.Logger.Debug("preview rendered",
		slog.Int("bytes", len(doc)),
		slog.Duration("elapsed", time.Since(start)))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(pipeline.InjectBeforeBodyEnd(doc, s.snippet)))
}

// writeError shows err as a page that still reloads, so fixing the files
// brings the preview back.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	page := assets.ErrorPage{Message: err.Error()}
	if s.cfg.Hint != nil {
		page.Hint = s.cfg.Hint(err)
	}

	var buf bytes.Buffer
	if rerr := assets.RenderErrorPage(&buf, page); rerr != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(pipeline.InjectBeforeBodyEnd(buf.String(), s.snippet)))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.cfg.Logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(start)))
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. ready, when non-nil, receives the bound address once the
// listener is open.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	if ready != nil {
		ready(ln.Addr())
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	// Hijacked websocket connections are not closed by Shutdown.
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down preview server: %w", err)
	}
	return nil
}

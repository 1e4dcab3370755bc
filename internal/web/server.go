package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"tasktree/internal/logging"
	"tasktree/internal/session"

	"github.com/charmbracelet/log"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

type ServerConfig struct {
	Addr   string
	Logger *log.Logger
	// DatastarURL overrides where the page loads the datastar client from.
	DatastarURL string
}

const defaultDatastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// Server renders one session in the browser. Every command handler holds mu for
// the whole command, so commands from several tabs run one at a time.
type Server struct {
	mu   sync.Mutex
	cfg  ServerConfig
	sess *session.Session
	tmpl *template.Template
	log  *log.Logger
	hub  *resourceHub
}

func NewServer(sess *session.Session, cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.DatastarURL = strings.TrimSpace(cfg.DatastarURL)
	if sess == nil {
		return nil, errors.New("web: session is nil")
	}
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.DatastarURL == "" {
		cfg.DatastarURL = defaultDatastarURL
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim":     strings.TrimSpace,
		"taskWord": taskWord,
		"childKey": childSignalKey,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:  cfg,
		sess: sess,
		tmpl: tmpl,
		log:  cfg.Logger.WithPrefix("web"),
		hub:  newResourceHub(),
	}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("POST /tasks", s.handleAddRoot)
	mux.HandleFunc("POST /tasks/{path}/children", s.handleAddChild)
	mux.HandleFunc("POST /tasks/{path}/edit", s.handleEdit)
	mux.HandleFunc("POST /tasks/{path}/delete", s.handleDelete)
	mux.HandleFunc("POST /tasks/{path}/toggle", s.handleToggle)
	mux.HandleFunc("GET /tasks/{path}/preview", s.handlePreview)
	return s.logRequests(mux)
}

// ListenAndServe listens on the configured address and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", "http://"+ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Open event streams only end with their request context; release them first.
		s.hub.closeAll()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.log.Info("stopped")
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(b)
}

// resourceHub fans out "something changed" pings to open event streams.
type resourceHub struct {
	mu     sync.Mutex
	subs   map[chan struct{}]struct{}
	closed bool
}

func newResourceHub() *resourceHub {
	return &resourceHub{subs: map[chan struct{}]struct{}{}}
}

func (h *resourceHub) subscribe() (ch chan struct{}, cancel func()) {
	ch = make(chan struct{}, 8)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
}

func (h *resourceHub) broadcast() {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}

func (h *resourceHub) closeAll() {
	h.mu.Lock()
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *resourceHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

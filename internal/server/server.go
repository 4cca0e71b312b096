// Package server implements the kneefig preview server.
//
// The server renders figures of one loaded trial on demand, so that a
// figure can be checked in a browser while tuning a style file:
//
//	GET /healthz                    liveness probe
//	GET /figures                    JSON list of figures and formats
//	GET /figures/{kind}.{format}    rendered figure
//	GET /stats                      render and cache counters
//
// Rendered bytes go through the runner's artifact cache.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/kneefig/pkg/errors"
	"github.com/matzehuels/kneefig/pkg/figure"
	"github.com/matzehuels/kneefig/pkg/observability"
	"github.com/matzehuels/kneefig/pkg/pipeline"
	"github.com/matzehuels/kneefig/pkg/trial"
)

const (
	renderTimeout   = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server serves rendered figures of a single trial.
type Server struct {
	runner   *pipeline.Runner
	trial    *trial.Trial
	opts     pipeline.Options
	logger   *log.Logger
	recorder *observability.Recorder
	router   chi.Router
}

// New creates a server for t. opts supplies the cosmetics; its paths,
// formats and figure selection are ignored. recorder may be nil, in which
// case /stats reports zeros.
func New(runner *pipeline.Runner, t *trial.Trial, opts pipeline.Options, recorder *observability.Recorder) *Server {
	if recorder == nil {
		recorder = observability.NewRecorder()
	}
	s := &Server{
		runner:   runner,
		trial:    t,
		opts:     opts,
		logger:   runner.Logger,
		recorder: recorder,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(renderTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/stats", s.handleStats)
	r.Route("/figures", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{kind}.{format}", s.handleFigure)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Preview server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.recorder.Counts())
}

// figureInfo describes one figure in the /figures listing.
type figureInfo struct {
	Kind  figure.Kind       `json:"kind"`
	Files map[string]string `json:"files"` // format → file name
	URL   string            `json:"url"`   // default format
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	formats := make([]string, 0, len(figure.ValidFormats))
	for f := range figure.ValidFormats {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	out := make([]figureInfo, 0, len(figure.Kinds()))
	for _, k := range figure.Kinds() {
		info := figureInfo{
			Kind:  k,
			Files: make(map[string]string, len(formats)),
			URL:   "/figures/" + string(k) + "." + figure.DefaultFormat,
		}
		for _, f := range formats {
			info.Files[f] = k.FileName(f)
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	k, err := figure.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	format := chi.URLParam(r, "format")
	if err := errors.ValidateFormat(format, figure.ValidFormats); err != nil {
		writeError(w, err)
		return
	}

	data, hit, err := s.runner.RenderFigure(r.Context(), s.trial, k, format, s.opts)
	if err != nil {
		s.logger.Error("Render failed", "figure", k, "format", format, "err", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", figure.ContentType(format))
	w.Header().Set("Content-Disposition", "inline; filename=\""+k.FileName(format)+"\"")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	_, _ = w.Write(data)
}

// logRequests logs every request at debug level and reports it to the
// HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.recorder.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("Request", "method", r.Method, "path", r.URL.Path, "status", status,
			"bytes", ww.BytesWritten(), "duration", elapsed.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

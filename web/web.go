// Package web provides the live preview web interface: the preview
// page, the compiled document, and the reload event stream.
package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tigerabrodi/rudo/pkg/sse"
)

// Handler provides the preview endpoints.
type Handler struct {
	state        *State
	manifestPath string
	metricsH     http.Handler
	metricsPath  string
	onClient     func(delta int)
	keepalive    time.Duration
	logger       zerolog.Logger
	startTime    time.Time
}

// Deps contains dependencies for the preview handler.
type Deps struct {
	State        *State
	ManifestPath string // shown on the preview page

	MetricsHandler http.Handler // optional, mounted at MetricsPath
	MetricsPath    string       // default /metrics

	// OnClientChange is called with +1/-1 as event streams connect and
	// disconnect. Optional.
	OnClientChange func(delta int)

	// Keepalive is the comment interval on the event stream, keeping
	// proxies from idling the connection out. Default 15s.
	Keepalive time.Duration

	Logger zerolog.Logger
}

// NewHandler creates a preview handler.
func NewHandler(deps Deps) *Handler {
	if deps.MetricsPath == "" {
		deps.MetricsPath = "/metrics"
	}
	if deps.Keepalive <= 0 {
		deps.Keepalive = 15 * time.Second
	}
	return &Handler{
		state:        deps.State,
		manifestPath: deps.ManifestPath,
		metricsH:     deps.MetricsHandler,
		metricsPath:  deps.MetricsPath,
		onClient:     deps.OnClientChange,
		keepalive:    deps.Keepalive,
		logger:       deps.Logger.With().Str("component", "web").Logger(),
		startTime:    time.Now(),
	}
}

// Router builds the preview router. No timeout middleware: the event
// stream is long-lived.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", h.Index)
	r.Get("/scene.svg", h.SceneSVG)
	r.Get("/events", h.Events)
	r.Get("/healthz", h.Healthz)

	if h.metricsH != nil {
		r.Handle(h.metricsPath, h.metricsH)
	}

	return r
}

// Index serves the preview page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()

	data := indexData{
		Manifest: h.manifestPath,
		HasDoc:   len(snap.SVG) > 0,
		Seq:      snap.Seq,
	}
	if snap.Err != nil {
		data.Error = snap.Err.Error()
	}
	if snap.Result != nil {
		data.Elements = snap.Result.Elements
		data.Directives = snap.Result.Directives
		data.CompiledAt = snap.Result.CompiledAt.Format(time.RFC3339)
		data.Took = snap.Result.Duration.String()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		h.logger.Error().Err(err).Msg("render preview page")
	}
}

// SceneSVG serves the latest compiled document.
func (h *Handler) SceneSVG(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()
	if len(snap.SVG) == 0 {
		http.Error(w, "no compiled document yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(snap.SVG)
}

// Events serves the live-reload event stream. One reload event is sent
// per state change, carrying the change sequence number.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	if h.onClient != nil {
		h.onClient(+1)
		defer h.onClient(-1)
	}

	ch := h.state.Subscribe()
	defer h.state.Unsubscribe(ch)

	// Confirm the stream before the first change arrives.
	if err := sse.WriteComment(w, "connected"); err != nil {
		return
	}
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case seq, ok := <-ch:
			if !ok {
				return
			}
			err := sse.WriteEvent(w, sse.Event{
				Event: "reload",
				Data:  strconv.FormatUint(seq, 10),
			})
			if err != nil {
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			if err := sse.WriteComment(w, "keepalive"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// NewLoggingMiddleware creates a request logging middleware.
func NewLoggingMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// Skip logging for health checks and metrics
			if r.URL.Path == "/healthz" || strings.HasPrefix(r.URL.Path, "/metrics") {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/marginlab/marginalia/pkg/config"
	"github.com/marginlab/marginalia/pkg/document"
	"github.com/marginlab/marginalia/pkg/margin/schedule"
	"github.com/marginlab/marginalia/pkg/pipeline"
	"github.com/marginlab/marginalia/pkg/render/sink"
)

// serveCommand creates the serve command for the preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [document.html]",
		Short: "Serve resolved layouts and snapshots over HTTP",
		Long: `Serve resolved layouts and snapshots over HTTP.

The serve command loads the document once and exposes its layout:

  GET  /healthz     liveness check
  GET  /layout      resolved offsets as JSON (?focus=ID&width=W&gap=G)
  GET  /render.svg  interactive SVG snapshot (same query parameters)
  POST /trigger     fire a scheduler trigger (hover, resize, visibility)

Triggers feed the same scheduler the live page uses: hover-leave is
delayed, visibility changes are debounced, and every accepted trigger
runs a full layout pass whose result the GET endpoints serve.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8460", "listen address")

	return cmd
}

// runServe starts the preview server and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, input, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	doc, err := c.openDocument(input, cfg)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	srv := newPreviewServer(doc, cfg, c.newRunner(doc, cfg, nil), c)
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	printSuccess("Serving %s", input)
	printKeyValue("address", addr)
	printNextStep("Layout", "curl http://localhost"+addr+"/layout")

	if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// previewServer holds the document, runner, and trigger scheduler behind
// the HTTP handlers. The scheduler serializes passes; latest holds the
// most recent result for the GET endpoints.
type previewServer struct {
	doc    *document.Document
	cfg    config.Config
	runner *pipeline.Runner
	cli    *CLI
	sched  *schedule.Scheduler

	mu     sync.RWMutex
	latest *pipeline.Result
}

func newPreviewServer(doc *document.Document, cfg config.Config, runner *pipeline.Runner, c *CLI) *previewServer {
	s := &previewServer{doc: doc, cfg: cfg, runner: runner, cli: c}
	s.sched = schedule.New(schedule.Options{
		Run:                s.runPass,
		HoverLeaveDelay:    time.Duration(cfg.HoverLeaveDelayMs) * time.Millisecond,
		VisibilityDebounce: time.Duration(cfg.VisibilityDebounceMs) * time.Millisecond,
		Logger:             c.Logger,
	})
	s.sched.OnAttach()
	return s
}

// Close stops the trigger scheduler.
func (s *previewServer) Close() { s.sched.Close() }

// runPass executes one scheduled layout pass and stores its result.
func (s *previewServer) runPass(pass schedule.Pass) {
	opts := pipeline.FromConfig(s.cfg)
	opts.FocusedID = pass.Focused
	opts.ViewportWidth = pass.ViewportWidth
	opts.Logger = s.cli.Logger

	result, err := s.runner.Execute(context.Background(), opts)
	if err != nil {
		s.cli.Logger.Error("scheduled pass failed", "reason", pass.Reason, "err", err)
		return
	}

	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()
}

func (s *previewServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/layout", s.handleLayout)
	r.Get("/render.svg", s.handleRenderSVG)
	r.Post("/trigger", s.handleTrigger)

	return r
}

func (s *previewServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// passFromQuery runs an on-demand pass when the request overrides layout
// parameters, and otherwise serves the scheduler's latest result.
func (s *previewServer) passFromQuery(r *http.Request) (*pipeline.Result, pipeline.Options, error) {
	q := r.URL.Query()

	opts := pipeline.FromConfig(s.cfg)
	opts.FocusedID = q.Get("focus")
	opts.Logger = s.cli.Logger
	var gap, width float64
	fmt.Sscan(q.Get("gap"), &gap)
	fmt.Sscan(q.Get("width"), &width)
	if gap > 0 {
		opts.Gap = gap
	}
	opts.ViewportWidth = width

	if opts.FocusedID == "" && gap == 0 && width == 0 {
		s.mu.RLock()
		latest := s.latest
		s.mu.RUnlock()
		if latest != nil {
			return latest, opts, nil
		}
	}

	result, err := s.runner.Execute(r.Context(), opts)
	return result, opts, err
}

func (s *previewServer) handleLayout(w http.ResponseWriter, r *http.Request) {
	result, opts, err := s.passFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := sink.RenderJSON(result,
		sink.WithJSONGap(opts.Gap),
		sink.WithJSONFocused(opts.FocusedID),
		sink.WithJSONStats())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *previewServer) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	result, _, err := s.passFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(sink.RenderSVG(result))
}

// triggerRequest is the POST /trigger body.
type triggerRequest struct {
	Type    string  `json:"type"`
	Item    string  `json:"item,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Visible bool    `json:"visible,omitempty"`
}

func (s *previewServer) handleTrigger(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid trigger body: "+err.Error(), http.StatusBadRequest)
		return
	}

	switch req.Type {
	case schedule.TriggerReady:
		s.sched.OnContentReady()
	case schedule.TriggerResize:
		s.sched.OnResize(req.Width)
	case schedule.TriggerMutation:
		s.sched.OnMutation(req.Item)
	case schedule.TriggerHoverEnter:
		s.sched.OnHoverEnter(req.Item)
	case schedule.TriggerHoverLeave:
		s.sched.OnHoverLeave(req.Item)
	case schedule.TriggerVisibility:
		s.sched.OnVisibilityChange(req.Item, req.Visible)
	default:
		http.Error(w, fmt.Sprintf("unknown trigger type %q", req.Type), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(`{"status":"accepted"}`))
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/deal-engine/internal/config"
	"github.com/sells-group/deal-engine/internal/document"
	"github.com/sells-group/deal-engine/internal/export"
	"github.com/sells-group/deal-engine/internal/model"
	"github.com/sells-group/deal-engine/internal/monitoring"
	"github.com/sells-group/deal-engine/internal/scorer"
)

const maxBodyBytes = 1 << 20

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for scoring, documents and export",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := newServices(cfg)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(svc, cfg.Server),
			ReadHeaderTimeout: 10 * time.Second,
		}

		checker := monitoring.NewChecker(svc.metrics, svc.alerter, cfg.Monitoring)
		go checker.Run(ctx)

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// buildRouter wires the API routes and middleware.
func buildRouter(svc *services, sc config.ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: sc.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(rateLimit(rate.NewLimiter(rate.Limit(sc.RateLimitRPS), sc.RateLimitBurst)))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	h := &apiHandler{svc: svc}
	r.Route("/api", func(r chi.Router) {
		r.Post("/screening/suggestions", h.suggestions)
		r.Post("/documents/export", h.exportDocument)
		r.Post("/documents/{type}", h.generateDocument)
		r.Get("/export/templates", h.templates)
		r.Get("/metrics", h.metrics)
	})

	return r
}

// rateLimit rejects requests beyond the shared token bucket with 429.
func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type apiHandler struct {
	svc *services
}

type suggestionsRequest struct {
	Opportunity model.Opportunity       `json:"opportunity"`
	Template    model.ScreeningTemplate `json:"template"`
	CriterionID string                  `json:"criterion_id,omitempty"`
}

type suggestionsResponse struct {
	Suggestions map[string]model.Suggestion `json:"suggestions"`
	Screening   model.ScreeningResult       `json:"screening_result"`
}

// track records an operation outcome in the metrics collector.
func (h *apiHandler) track(op string, start time.Time, err error) {
	h.svc.metrics.Record(op, time.Since(start), err)
}

func (h *apiHandler) suggestions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req suggestionsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Template.Criteria) == 0 {
		writeError(w, http.StatusBadRequest, "template has no criteria")
		return
	}

	var out map[string]model.Suggestion
	if req.CriterionID != "" {
		c, ok := req.Template.Criterion(req.CriterionID)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("criterion %q not in template", req.CriterionID))
			return
		}
		s, err := h.svc.engine.GenerateSuggestion(req.Opportunity, c, req.Template)
		h.track(monitoring.OpSuggestions, start, err)
		if err != nil {
			writeFailure(w, err)
			return
		}
		out = map[string]model.Suggestion{c.ID: *s}
	} else {
		var err error
		out, err = h.svc.engine.GenerateBatchSuggestions(r.Context(), req.Opportunity, req.Template)
		h.track(monitoring.OpSuggestions, start, err)
		if err != nil {
			writeFailure(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{
		Suggestions: out,
		Screening:   scorer.ScreeningResultFrom(out, req.Template),
	})
}

type documentRequest struct {
	Opportunity model.Opportunity     `json:"opportunity"`
	Screening   model.ScreeningResult `json:"screening_result"`
	Workflow    *model.Workflow       `json:"workflow,omitempty"`
	Mode        string                `json:"mode"`
}

func (h *apiHandler) generateDocument(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	docType, err := model.ParseDocumentType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var req documentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	mode, err := model.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.assembler.Generate(r.Context(), docType, document.Request{
		Opportunity: req.Opportunity,
		Screening:   req.Screening,
		Workflow:    req.Workflow,
		Mode:        mode,
	})
	h.track(monitoring.OpDocument, start, err)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type exportRequest struct {
	Document   model.StructuralDocument `json:"document"`
	Format     string                   `json:"format,omitempty"`
	TemplateID string                   `json:"template_id,omitempty"`
	Overrides  *export.Overrides        `json:"overrides,omitempty"`
}

func (h *apiHandler) exportDocument(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req exportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var (
		res *export.Result
		err error
	)
	if req.TemplateID != "" {
		res, err = h.svc.optimizer.OptimizeWithTemplate(r.Context(), req.Document, req.TemplateID, req.Overrides)
	} else {
		format, perr := model.ParseExportFormat(req.Format)
		if perr != nil {
			h.track(monitoring.OpExport, start, perr)
			writeFailure(w, perr)
			return
		}
		res, err = h.svc.optimizer.Optimize(r.Context(), req.Document, format, req.Overrides)
	}
	h.track(monitoring.OpExport, start, err)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *apiHandler) templates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var format model.ExportFormat
	if v := q.Get("format"); v != "" {
		f, err := model.ParseExportFormat(v)
		if err != nil {
			writeFailure(w, err)
			return
		}
		format = f
	}
	list := h.svc.optimizer.Templates().Templates(format, q.Get("industry"))
	if list == nil {
		list = []export.Template{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": list})
}

type metricsResponse struct {
	Metrics *monitoring.MetricsSnapshot `json:"metrics"`
	Alerts  []monitoring.Alert          `json:"alerts"`
}

func (h *apiHandler) metrics(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.metrics.Collect()
	alerts := h.svc.alerter.Evaluate(snap)
	if alerts == nil {
		alerts = []monitoring.Alert{}
	}
	writeJSON(w, http.StatusOK, metricsResponse{Metrics: snap, Alerts: alerts})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// statusFor maps a generation error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrUnsupportedFormat):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

func writeFailure(w http.ResponseWriter, err error) {
	status := statusFor(err)
	zap.L().Warn("api request failed", zap.Int("status", status), zap.Error(err))
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

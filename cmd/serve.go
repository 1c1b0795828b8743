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

	"github.com/sells-group/fraud-cli/internal/metrics"
	"github.com/sells-group/fraud-cli/internal/model"
	"github.com/sells-group/fraud-cli/internal/monitoring"
	"github.com/sells-group/fraud-cli/internal/resilience"
	"github.com/sells-group/fraud-cli/internal/scoring"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		api := newAPI()
		h := &dashboard{
			checker:    scoring.NewChecker(api, cfg),
			aggregator: monitoring.NewAggregator(api, cfg.API.MonitoringTimeout()),
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           h.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.String("api_url", api.BaseURL()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// dashboard serves the scoring and monitoring operations as JSON.
type dashboard struct {
	checker    *scoring.Checker
	aggregator *monitoring.Aggregator
}

func (d *dashboard) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", d.handleCategories)
		r.Post("/score", d.handleScore)
		r.Get("/stats", d.handleStats)
	})
	return r
}

func (d *dashboard) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, d.checker.Categories.Resolve(r.Context()))
}

func (d *dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, d.aggregator.FetchSnapshot(r.Context(), 0))
}

// scoreResponse is the success payload of POST /api/score.
type scoreResponse struct {
	Result    *model.ScoringResult `json:"result"`
	Severity  model.SeverityTier   `json:"severity"`
	Models    []model.ModelScore   `json:"models"`
	Warnings  []string             `json:"warnings,omitempty"`
	RequestID string               `json:"request_id"`
}

func (d *dashboard) handleScore(w http.ResponseWriter, r *http.Request) {
	// Omitted fields keep the form defaults.
	in := model.DefaultFormInput()
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:       "invalid request body",
			Kind:        "validation",
			Remediation: "Send a JSON object with the transaction fields.",
		})
		return
	}

	known := d.checker.Categories.Resolve(r.Context())
	check, err := d.checker.Check(r.Context(), in, known)
	if err != nil {
		status, body := errorPayload(err)
		writeJSON(w, status, body)
		return
	}

	res := check.Scored.Result
	writeJSON(w, http.StatusOK, scoreResponse{
		Result:    res,
		Severity:  res.Severity(),
		Models:    res.ModelScores(),
		Warnings:  check.Warnings,
		RequestID: check.Scored.RequestID,
	})
}

// errorResponse is the failure payload of POST /api/score.
type errorResponse struct {
	Error          string                  `json:"error"`
	Kind           string                  `json:"kind"`
	Remediation    string                  `json:"remediation"`
	Fields         []resilience.FieldError `json:"fields,omitempty"`
	UpstreamStatus int                     `json:"upstream_status,omitempty"`
	UpstreamBody   string                  `json:"upstream_body,omitempty"`
}

// errorPayload maps a scoring failure to an HTTP status and body.
func errorPayload(err error) (int, errorResponse) {
	body := errorResponse{
		Error:       err.Error(),
		Kind:        resilience.Kind(err),
		Remediation: resilience.Remediation(err),
	}

	if verr, ok := resilience.AsValidationError(err); ok {
		body.Fields = verr.Fields
		return http.StatusBadRequest, body
	}
	if resilience.IsTimedOut(err) {
		return http.StatusGatewayTimeout, body
	}
	if be, ok := resilience.AsBackendError(err); ok {
		body.UpstreamStatus = be.StatusCode
		body.UpstreamBody = be.Body
		return http.StatusBadGateway, body
	}
	if resilience.IsUnreachable(err) {
		return http.StatusBadGateway, body
	}
	return http.StatusInternalServerError, body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

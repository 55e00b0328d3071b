package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vcinsight/dealpipe/internal/auth"
	"github.com/vcinsight/dealpipe/internal/model"
	"github.com/vcinsight/dealpipe/internal/pipeline"
)

// successEnvelope is the response body for completed analyses.
type successEnvelope struct {
	Success bool               `json:"success"`
	Result  any                `json:"result"`
	Meta    model.AnalysisMeta `json:"meta"`
}

// errorEnvelope is the response body for every fatal error. No partial
// result is ever returned alongside an error.
type errorEnvelope struct {
	Error string `json:"error"`
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// snapshotHandler serves the fast analysis flow. A bearer credential is
// always required.
func snapshotHandler(pipe *pipeline.Pipeline, authn auth.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authenticated(r, authn) {
			writeError(w, pipeline.NewUnauthenticated())
			return
		}

		var req pipeline.SnapshotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, pipeline.NewValidationError("Invalid request body"))
			return
		}

		start := time.Now()
		result, meta, err := pipe.Snapshot(r.Context(), req)
		logOutcome("snapshot", start, meta, err)
		if err != nil {
			writeAnalysisError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, successEnvelope{Success: true, Result: result, Meta: meta})
	}
}

// verdictHandler serves the deep analysis flow. Auth is required unless the
// deployment explicitly disables it for internal invocation.
func verdictHandler(pipe *pipeline.Pipeline, authn auth.Authenticator, requireAuth bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireAuth && !authenticated(r, authn) {
			writeError(w, pipeline.NewUnauthenticated())
			return
		}

		var req pipeline.VerdictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, pipeline.NewValidationError("Invalid request body"))
			return
		}

		start := time.Now()
		result, meta, err := pipe.Verdict(r.Context(), req)
		logOutcome("verdict", start, meta, err)
		if err != nil {
			writeAnalysisError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, successEnvelope{Success: true, Result: result, Meta: meta})
	}
}

func authenticated(r *http.Request, authn auth.Authenticator) bool {
	bearer := auth.BearerFromHeader(r.Header.Get("Authorization"))
	_, ok := authn.Authenticate(r.Context(), bearer)
	return ok
}

// writeAnalysisError maps any pipeline failure onto the closed status set.
// Unexpected error types get the generic upstream treatment: detail stays in
// the server log.
func writeAnalysisError(w http.ResponseWriter, err error) {
	if pe, ok := pipeline.AsPipelineError(err); ok {
		writeError(w, pe)
		return
	}
	zap.L().Error("handler: unexpected error type", zap.Error(err))
	writeError(w, &pipeline.Error{Kind: pipeline.KindUpstream, Message: "Analysis service unavailable"})
}

func writeError(w http.ResponseWriter, pe *pipeline.Error) {
	writeJSON(w, pe.HTTPStatus(), errorEnvelope{Error: pe.Message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func logOutcome(flow string, start time.Time, meta model.AnalysisMeta, err error) {
	fields := []zap.Field{
		zap.String("flow", flow),
		zap.Duration("duration", time.Since(start)),
		zap.String("stage", meta.Signals.Stage),
		zap.String("sector", meta.Signals.Sector),
		zap.Bool("fallback", meta.Fallback),
	}
	if err != nil {
		if pe, ok := pipeline.AsPipelineError(err); ok {
			fields = append(fields, zap.String("error_kind", string(pe.Kind)))
		}
		zap.L().Warn("analysis failed", fields...)
		return
	}
	zap.L().Info("analysis complete", fields...)
}

// requestIDMiddleware tags each request with a UUID for log correlation and
// echoes it back to the caller.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/stridelabs/coach-gateway/internal/auth"
	"github.com/stridelabs/coach-gateway/internal/store"
	"go.uber.org/zap"
)

// contextKey is an unexported type for context keys to avoid collisions.
type contextKey int

const athleteCtxKey contextKey = iota

// athleteFromContext extracts the authenticated athlete from the request context.
func athleteFromContext(ctx context.Context) *store.Athlete {
	v, _ := ctx.Value(athleteCtxKey).(*store.Athlete)
	return v
}

// authMiddleware validates the Bearer credential, resolves the athlete and
// injects it into the request context. The credential value is never logged.
func (d *Dependencies) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.ExtractBearerToken(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, ErrorResp{Error: "Missing or invalid credential"})
			return
		}

		identity, err := d.Verifier.Verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrAuthUnavailable) {
				writeJSON(w, http.StatusServiceUnavailable, ErrorResp{Error: "Authentication temporarily unavailable"})
				return
			}
			writeJSON(w, http.StatusUnauthorized, ErrorResp{Error: "Missing or invalid credential"})
			return
		}

		athlete, err := d.Athletes.AthleteBySubject(r.Context(), identity.Subject)
		if err != nil {
			d.Logger.Error("athlete lookup failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "internal server error"})
			return
		}
		if athlete == nil {
			writeJSON(w, http.StatusNotFound, ErrorResp{Error: "No athlete profile is linked to this account"})
			return
		}

		ctx := context.WithValue(r.Context(), athleteCtxKey, athlete)
		next(w, r.WithContext(ctx))
	}
}

// --- JSON helpers ---

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// readJSON decodes a JSON request body into the given pointer.
func readJSON(r *http.Request, v interface{}) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}

// --- Request logging ---

func requestLogging(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// --- CORS ---

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

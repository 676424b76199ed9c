// Package api is the gateway's HTTP surface: one authenticated tool
// endpoint plus health.
package api

import (
	"context"
	"net/http"

	"github.com/stridelabs/coach-gateway/internal/auth"
	"github.com/stridelabs/coach-gateway/internal/storage"
	"github.com/stridelabs/coach-gateway/internal/store"
	"github.com/stridelabs/coach-gateway/internal/tools"
	"go.uber.org/zap"
)

// AthleteResolver maps a verified identity subject to an athlete row.
// (nil, nil) means no athlete is linked to the identity.
type AthleteResolver interface {
	AthleteBySubject(ctx context.Context, subject string) (*store.Athlete, error)
}

// Dependencies holds shared state injected into all HTTP handlers.
type Dependencies struct {
	Athletes AthleteResolver
	Verifier auth.Verifier
	Registry *tools.Registry
	Writer   storage.EventWriter
	Logger   *zap.Logger
}

// NewRouter builds the HTTP mux with all routes wired up.
func NewRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	// Tool endpoint (auth required via Bearer token)
	mux.HandleFunc("POST /v1/tools", deps.authMiddleware(deps.handleInvoke))

	// Health check
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return corsMiddleware(requestLogging(mux, deps.Logger))
}

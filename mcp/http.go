package mcp

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// KeyValidator authorizes HTTP transport callers.
type KeyValidator interface {
	Validate(ctx context.Context, key string) bool
}

// StaticKeyValidator accepts a single configured bearer key.
type StaticKeyValidator struct {
	key string
}

// NewStaticKeyValidator creates a validator for the given key.
func NewStaticKeyValidator(key string) *StaticKeyValidator {
	return &StaticKeyValidator{key: key}
}

func (v *StaticKeyValidator) Validate(_ context.Context, key string) bool {
	if v.key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(v.key), []byte(key)) == 1
}

// HTTPTransport serves the same JSON-RPC dispatcher over local HTTP.
// It exists for debugging against a running adapter; stdio remains the
// primary transport and is always served.
type HTTPTransport struct {
	handler   *Handler
	router    *http.ServeMux
	logger    *slog.Logger
	validator KeyValidator
}

// NewHTTPTransport creates an HTTP transport guarded by the validator.
func NewHTTPTransport(server *Server, logger *slog.Logger, validator KeyValidator) *HTTPTransport {
	t := &HTTPTransport{
		handler:   NewHandler(server),
		router:    http.NewServeMux(),
		logger:    logger,
		validator: validator,
	}
	t.router.HandleFunc("/mcp", t.requireKey(t.handleMCP))
	t.router.HandleFunc("/healthz", t.handleHealth)
	return t
}

func (t *HTTPTransport) requireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var key string
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			key = strings.TrimPrefix(auth, "Bearer ")
		}
		if !t.validator.Validate(r.Context(), key) {
			t.logger.Warn("unauthorized MCP request", "has_key", key != "")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (t *HTTPTransport) handleMCP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed, use POST for JSON-RPC requests", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read request: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	resp := t.handler.HandleMessage(r.Context(), body)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		t.logger.Error("error writing response", "error", err)
	}
}

func (t *HTTPTransport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "healthy"})
}

// ServeHTTP implements http.Handler.
func (t *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.router.ServeHTTP(w, r)
}

// Start serves on addr until the context is cancelled, then shuts down
// gracefully.
func (t *HTTPTransport) Start(ctx context.Context, addr string) error {
	t.logger.Info("starting MCP HTTP transport", "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      t,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http transport: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http transport shutdown: %w", err)
		}
		t.logger.Info("http transport stopped")
		return nil
	}
}

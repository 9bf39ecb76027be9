package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/mshevtsov/dapconfig/internal/config"
	"github.com/mshevtsov/dapconfig/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// maxDocumentSize bounds the size of documents submitted for validation.
const maxDocumentSize = 1 << 20

// ReloadFunc re-reads the configuration source and swaps the active
// snapshot, returning any non-fatal warnings.
type ReloadFunc func() ([]config.Warning, error)

// Handler wires the configuration store into HTTP handlers.
type Handler struct {
	store  storage.Store
	reload ReloadFunc
	clock  func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithReload enables the reload endpoint. Without it the service reports
// that it was started without a reloadable source.
func WithReload(reload ReloadFunc) HandlerOption {
	return func(h *Handler) {
		h.reload = reload
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		store: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := configResponse{
		Config:    h.store.Current(),
		UpdatedAt: h.store.UpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleValidateConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to read request body")
		return
	}

	_, warnings, err := config.Load(body)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, validateResponse{
				Valid:      false,
				Violations: verr.Violations,
				Warnings:   warnings,
			})
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{
		Valid:    true,
		Warnings: warnings,
	})
}

func (h *Handler) handleReloadConfig(w http.ResponseWriter, r *http.Request) {
	_ = r
	if h.reload == nil {
		writeError(w, http.StatusConflict, "Reload unavailable", "service was started without a configuration file")
		return
	}

	warnings, err := h.reload()
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, validateResponse{
				Valid:      false,
				Violations: verr.Violations,
				Warnings:   warnings,
			})
			return
		}
		writeInternalError(w, err)
		return
	}

	resp := reloadResponse{
		Message:   "configuration reloaded",
		UpdatedAt: h.store.UpdatedAt(),
		Warnings:  warnings,
	}
	writeJSON(w, http.StatusOK, resp)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type configResponse struct {
	Config    *config.AppConfig `json:"config"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type validateResponse struct {
	Valid      bool               `json:"valid"`
	Violations []config.Violation `json:"violations,omitempty"`
	Warnings   []config.Warning   `json:"warnings,omitempty"`
}

type reloadResponse struct {
	Message   string           `json:"message"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Warnings  []config.Warning `json:"warnings,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}

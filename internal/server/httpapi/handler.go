// Package httpapi serves the dashboard payload as JSON over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/nuudash/internal/common"
	"github.com/dmitrijs2005/nuudash/internal/logging"
	"github.com/dmitrijs2005/nuudash/internal/server/models"
	"github.com/dmitrijs2005/nuudash/internal/server/view"
)

type dashboardService interface {
	Dashboard(ctx context.Context, accessToken string, filter models.HistoryFilter) (view.Payload, error)
	Ready(ctx context.Context) error
}

type Handler struct {
	dashboards dashboardService
	logger     logging.Logger
}

func NewHandler(svc dashboardService, l logging.Logger) *Handler {
	return &Handler{dashboards: svc, logger: l.With("module", "http_api")}
}

// Dashboard answers GET /api/dashboard. Repeatable kind and institution
// query parameters narrow the PREMIUM history list.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := models.ParseHistoryFilter(q["kind"], q["institution"])
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	p, err := h.dashboards.Dashboard(r.Context(), accessToken(r.Context()), filter)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	data, err := view.Encode(p)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error(r.Context(), "error writing dashboard", "error", err)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboards.Ready(r.Context()); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error(ctx, "request failed", "error", err)
	} else {
		h.logger.Info(ctx, "request refused", "error", err)
	}
	writeJSON(w, code, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps pipeline errors to an HTTP status and a message safe to
// show the caller.
func statusFor(err error) (int, string) {
	var ae *common.AuthError
	var ve *common.ValidationError

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, common.ErrTokenExpired.Error()
	case errors.As(err, &ae):
		return http.StatusUnauthorized, ae.Error()
	case errors.Is(err, common.ErrIdentityUnresolved):
		return http.StatusUnauthorized, common.ErrIdentityUnresolved.Error()
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, common.ErrUnauthorized.Error()
	case errors.Is(err, common.ErrClientNotFound):
		return http.StatusNotFound, common.ErrClientNotFound.Error()
	case errors.Is(err, common.ErrDatasetUnavailable):
		return http.StatusServiceUnavailable, common.ErrDatasetUnavailable.Error()
	case errors.Is(err, common.ErrAuthUnavailable):
		return http.StatusServiceUnavailable, common.ErrAuthUnavailable.Error()
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

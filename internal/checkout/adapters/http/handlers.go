package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/myseetara/checkout/internal/checkout/app"
	"github.com/myseetara/checkout/internal/checkout/domain"
)

// Handler exposes HTTP endpoints for the checkout pipeline.
type Handler struct {
	service *app.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Register binds the checkout handler to the provided ServeMux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/checkout", h.handleCheckout)
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	var input app.SubmitOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	input.UserAgent = r.UserAgent()
	input.Attribution = attributionFrom(r)
	if input.SessionID == "" {
		input.SessionID = sessionIDFrom(r)
	}

	// Once the pipeline starts it must finish: a closed browser tab must
	// not cancel SMS, ledger, or conversion calls mid-flight.
	ctx := context.WithoutCancel(r.Context())

	result, err := h.service.SubmitOrder(ctx, input)
	if err != nil {
		if code, ok := validationCode(err); ok {
			writeError(w, http.StatusUnprocessableEntity, code, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	writeJSON(w, http.StatusAccepted, newSubmitResponse(result))
}

// attributionFrom picks up the browser identifier cookie and the click
// identifier, preferring the cookie over the raw URL parameter.
func attributionFrom(r *http.Request) domain.Attribution {
	attribution := domain.Attribution{}
	if cookie, err := r.Cookie("_fbp"); err == nil {
		attribution.BrowserID = cookie.Value
	}
	if cookie, err := r.Cookie("_fbc"); err == nil {
		attribution.ClickID = cookie.Value
	} else if clickID := r.URL.Query().Get("fbclid"); clickID != "" {
		attribution.ClickID = clickID
	}
	return attribution
}

// sessionIDFrom scopes the conversion marker. Without a session cookie each
// request gets a fresh scope, which degrades to per-request dedup.
func sessionIDFrom(r *http.Request) string {
	if cookie, err := r.Cookie("sid"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return uuid.NewString()
}

func validationCode(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidPhone):
		return "invalid_phone", true
	case errors.Is(err, domain.ErrMissingName):
		return "missing_name", true
	case errors.Is(err, domain.ErrMissingProduct):
		return "missing_product", true
	case errors.Is(err, domain.ErrMissingDeliveryZone):
		return "missing_delivery_zone", true
	case errors.Is(err, domain.ErrUnknownDeliveryZone):
		return "unknown_delivery_zone", true
	case errors.Is(err, domain.ErrInvalidPrice):
		return "invalid_price", true
	case errors.Is(err, domain.ErrUnknownOrderType):
		return "unknown_order_type", true
	default:
		return "", false
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": strings.TrimSpace(message),
		},
	})
}

// Package handler exposes the registration stepper over HTTP. All routes are
// mounted behind the session middleware: a caller must hold the JWT issued at
// email verification, and may only touch registrations bound to that email.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sportsreg/internal/platform/middleware"
	"sportsreg/internal/registration"
	dErrors "sportsreg/pkg/domain-errors"
	"sportsreg/pkg/platform/httputil"
)

// Service defines the stepper operations the handler needs.
type Service interface {
	Start(ctx context.Context, userType registration.UserType, email string) (*registration.Record, error)
	Get(ctx context.Context, id string) (*registration.Record, error)
	CompleteStep(ctx context.Context, id string, stepIndex int, payload registration.StepPayload) (*registration.Record, error)
	GoBack(ctx context.Context, id string, target int) (*registration.Record, error)
	Fees(ctx context.Context, id string) (registration.FeeQuote, error)
}

// Handler wires registration endpoints to the stepper service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts registration endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/registrations", h.HandleStart)
	r.Get("/registrations/{registrationID}", h.HandleGet)
	r.Post("/registrations/{registrationID}/steps/{step}", h.HandleCompleteStep)
	r.Post("/registrations/{registrationID}/back", h.HandleGoBack)
	r.Get("/registrations/{registrationID}/fees", h.HandleFees)
}

type startRequest struct {
	UserType registration.UserType `json:"user_type"`
}

// HandleStart handles POST /registrations. The session's verified email owns
// the new record; the session role must match the requested flow.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := middleware.GetEmail(ctx)

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if role := middleware.GetRole(ctx); role != "" && role != string(req.UserType) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden,
			"session was verified for the "+role+" flow"))
		return
	}

	rec, err := h.service.Start(ctx, req.UserType, email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to start registration",
			"request_id", middleware.GetRequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rec)
}

// HandleGet handles GET /registrations/{registrationID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.ownedRecord(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

// HandleCompleteStep handles POST /registrations/{registrationID}/steps/{step}.
// The body is the step's tagged payload.
func (h *Handler) HandleCompleteStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, ok := h.ownedRecord(w, r)
	if !ok {
		return
	}

	stepIndex, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "step must be a number"))
		return
	}

	var payload registration.StepPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	updated, err := h.service.CompleteStep(ctx, rec.ID, stepIndex, payload)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

type goBackRequest struct {
	Step int `json:"step"`
}

// HandleGoBack handles POST /registrations/{registrationID}/back. Step 0
// targets the email verification gate.
func (h *Handler) HandleGoBack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, ok := h.ownedRecord(w, r)
	if !ok {
		return
	}

	var req goBackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	updated, err := h.service.GoBack(ctx, rec.ID, req.Step)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

// HandleFees handles GET /registrations/{registrationID}/fees.
func (h *Handler) HandleFees(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.ownedRecord(w, r)
	if !ok {
		return
	}

	quote, err := h.service.Fees(r.Context(), rec.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, quote)
}

// ownedRecord loads the addressed registration and enforces that it belongs
// to the session's email.
func (h *Handler) ownedRecord(w http.ResponseWriter, r *http.Request) (*registration.Record, bool) {
	ctx := r.Context()
	rec, err := h.service.Get(ctx, chi.URLParam(r, "registrationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	if rec.Email != middleware.GetEmail(ctx) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden,
			"registration belongs to a different account"))
		return nil, false
	}
	return rec, true
}

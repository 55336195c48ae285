// Package handler exposes the email verification gate over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sportsreg/internal/audit"
	"sportsreg/internal/platform/middleware"
	"sportsreg/internal/verification"
	dErrors "sportsreg/pkg/domain-errors"
	"sportsreg/pkg/platform/httputil"
)

// Service defines the verification operations the handler needs.
type Service interface {
	RequestCode(ctx context.Context, email, role string, client verification.ClientInfo) (string, error)
	VerifyCode(ctx context.Context, correlationID, code string) (verification.Session, error)
}

// AuditTrail receives verification activity events.
type AuditTrail interface {
	Emit(ctx context.Context, event audit.Event)
}

// Handler wires verification endpoints to the gate service.
type Handler struct {
	service Service
	trail   AuditTrail
	logger  *slog.Logger
}

func New(service Service, trail AuditTrail, logger *slog.Logger) *Handler {
	return &Handler{service: service, trail: trail, logger: logger}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verification/request", h.HandleRequestCode)
	r.Post("/verification/verify", h.HandleVerifyCode)
}

type requestCodeRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type requestCodeResponse struct {
	CorrelationID string `json:"correlation_id"`
}

// HandleRequestCode handles POST /verification/request.
func (h *Handler) HandleRequestCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req requestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		httputil.WriteError(w, dErrors.NewValidation("a valid email is required", "email"))
		return
	}
	if req.Role != "student" && req.Role != "institution" {
		httputil.WriteError(w, dErrors.NewValidation("role must be student or institution", "role"))
		return
	}

	client := verification.ClientInfo{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}
	correlationID, err := h.service.RequestCode(ctx, req.Email, req.Role, client)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to request verification code",
			"request_id", middleware.GetRequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}

	h.trail.Emit(ctx, audit.Event{
		Action:    audit.ActionVerificationRequested,
		Email:     req.Email,
		Role:      req.Role,
		RequestID: middleware.GetRequestID(ctx),
	})
	httputil.WriteJSON(w, http.StatusAccepted, requestCodeResponse{CorrelationID: correlationID})
}

type verifyCodeRequest struct {
	CorrelationID string `json:"correlation_id"`
	Code          string `json:"code"`
}

type verifyCodeResponse struct {
	Verified  bool   `json:"verified"`
	Token     string `json:"token"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
}

// HandleVerifyCode handles POST /verification/verify.
func (h *Handler) HandleVerifyCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	var missing []string
	if req.CorrelationID == "" {
		missing = append(missing, "correlation_id")
	}
	if req.Code == "" {
		missing = append(missing, "code")
	}
	if len(missing) > 0 {
		httputil.WriteError(w, dErrors.NewValidation("incomplete verification attempt", missing...))
		return
	}

	session, err := h.service.VerifyCode(ctx, req.CorrelationID, req.Code)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.trail.Emit(ctx, audit.Event{
		Action:    audit.ActionVerificationVerified,
		Email:     session.Email,
		Role:      session.Role,
		RequestID: middleware.GetRequestID(ctx),
	})
	httputil.WriteJSON(w, http.StatusOK, verifyCodeResponse{
		Verified:  true,
		Token:     session.Token,
		Email:     session.Email,
		Role:      session.Role,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// clientIP strips the port so challenges record the address alone.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

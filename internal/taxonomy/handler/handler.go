// Package handler exposes the sports catalog over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sportsreg/internal/platform/middleware"
	"sportsreg/internal/taxonomy"
	dErrors "sportsreg/pkg/domain-errors"
	"sportsreg/pkg/platform/httputil"
)

// Service defines the catalog operations the handler needs.
type Service interface {
	ListSports(ctx context.Context) ([]taxonomy.Sport, error)
	Categories(ctx context.Context, sportID string) ([]taxonomy.Category, error)
	SubCategories(ctx context.Context, sportID, categoryID string) ([]taxonomy.SubCategory, error)
	ResolveFee(ctx context.Context, sportID, categoryID, subCategoryID string) (int64, error)
}

// Handler wires catalog endpoints to the taxonomy service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/sports", h.HandleListSports)
	r.Get("/sports/fee", h.HandleResolveFee)
	r.Get("/sports/{sportID}/categories", h.HandleListCategories)
	r.Get("/sports/{sportID}/categories/{categoryID}/subcategories", h.HandleListSubCategories)
}

// HandleListSports handles GET /sports.
func (h *Handler) HandleListSports(w http.ResponseWriter, r *http.Request) {
	sports, err := h.service.ListSports(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list sports",
			"request_id", middleware.GetRequestID(r.Context()), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"sports": sports})
}

// HandleListCategories handles GET /sports/{sportID}/categories.
func (h *Handler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	sportID := chi.URLParam(r, "sportID")
	categories, err := h.service.Categories(r.Context(), sportID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// HandleListSubCategories handles GET /sports/{sportID}/categories/{categoryID}/subcategories.
func (h *Handler) HandleListSubCategories(w http.ResponseWriter, r *http.Request) {
	sportID := chi.URLParam(r, "sportID")
	categoryID := chi.URLParam(r, "categoryID")
	subs, err := h.service.SubCategories(r.Context(), sportID, categoryID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"subcategories": subs})
}

// HandleResolveFee handles GET /sports/fee. Category and subcategory are
// optional; the most specific fee present wins.
func (h *Handler) HandleResolveFee(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sportID := query.Get("sport_id")
	if sportID == "" {
		httputil.WriteError(w, dErrors.NewValidation("sport_id is required", "sport_id"))
		return
	}

	fee, err := h.service.ResolveFee(r.Context(),
		sportID, query.Get("category_id"), query.Get("sub_category_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"fee": fee})
}

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/pricing"
	"github.com/supermall/supermall-api/internal/repository"
	"github.com/supermall/supermall-api/internal/service"
)

// --- Helpers ---

type pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
}

type listResponse struct {
	Data       any         `json:"data"`
	Pagination *pagination `json:"pagination,omitempty"`
}

func newPagination(page repository.Page, total int) *pagination {
	limit := page.Limit
	if limit < 1 {
		limit = 20
	}
	current := page.Number
	if current < 1 {
		current = 1
	}
	pages := int(math.Ceil(float64(total) / float64(limit)))
	if pages < 1 {
		pages = 1
	}
	return &pagination{Current: current, Pages: pages, Total: total}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto HTTP status codes. Anything not
// recognized is a 500 and gets logged.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, pricing.ErrUsageCapExceeded):
		writeError(w, http.StatusConflict, "offer usage limit reached")
	case errors.Is(err, service.ErrOfferNotActive):
		writeError(w, http.StatusUnprocessableEntity, "offer is not active")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrCategoryInUse):
		writeError(w, http.StatusConflict, "category still has active shops")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrAccountDisabled):
		writeError(w, http.StatusUnauthorized, "account disabled")
	case errors.Is(err, service.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "not allowed")
	case errors.Is(err, pricing.ErrInvalidDiscountKind),
		errors.Is(err, pricing.ErrNegativeValue),
		errors.Is(err, service.ErrNegativePrice),
		errors.Is(err, service.ErrEndBeforeStart),
		errors.Is(err, service.ErrEndDateInPast),
		errors.Is(err, service.ErrInvalidFloor),
		errors.Is(err, service.ErrInvalidPriority),
		errors.Is(err, service.ErrInvalidCategoryRef),
		errors.Is(err, service.ErrInvalidShopRef),
		errors.Is(err, service.ErrInvalidProductRef):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

func parsePage(r *http.Request) repository.Page {
	q := r.URL.Query()
	page := repository.Page{}
	if n, err := strconv.Atoi(q.Get("page")); err == nil {
		page.Number = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil {
		page.Limit = n
	}
	return page
}

func parseTimeOrEmpty(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

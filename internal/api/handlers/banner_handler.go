package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/api/middleware"
	"github.com/supermall/supermall-api/internal/service"
)

type BannerRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl"`
	LinkURL     string    `json:"linkUrl,omitempty"`
	ShopID      uuid.UUID `json:"shop"`
	Priority    int       `json:"priority"`
	StartDate   string    `json:"startDate,omitempty"` // RFC3339, defaults to now
	EndDate     string    `json:"endDate"`             // RFC3339
}

type UpdateBannerRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	LinkURL     *string    `json:"linkUrl,omitempty"`
	ShopID      *uuid.UUID `json:"shop,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	StartDate   string     `json:"startDate,omitempty"`
	EndDate     string     `json:"endDate,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
}

type BannerHandler struct {
	banners *service.BannerService
}

func NewBannerHandler(banners *service.BannerService) *BannerHandler {
	return &BannerHandler{banners: banners}
}

// Active handles GET /banners — the public carousel. Every call counts one
// impression per returned banner.
func (h *BannerHandler) Active(w http.ResponseWriter, r *http.Request) {
	banners, err := h.banners.ActiveBanners(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: banners})
}

// ListAll handles GET /banners/admin — the admin view, windowed or not.
func (h *BannerHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	banners, total, err := h.banners.ListAll(r.Context(), page)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: banners, Pagination: newPagination(page, total)})
}

// Get handles GET /banners/{id}
func (h *BannerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid banner id")
		return
	}
	banner, err := h.banners.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, banner)
}

// Create handles POST /banners
func (h *BannerHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	var req BannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "title and imageUrl are required")
		return
	}
	start, err := parseTimeOrEmpty(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate; use RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate; use RFC3339")
		return
	}

	in := service.BannerInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		LinkURL:     req.LinkURL,
		ShopID:      req.ShopID,
		Priority:    req.Priority,
		EndDate:     end,
	}
	if start != nil {
		in.StartDate = *start
	}

	banner, err := h.banners.Create(r.Context(), claims.UserID, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, banner)
}

// Update handles PUT /banners/{id}
func (h *BannerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid banner id")
		return
	}
	var req UpdateBannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start, err := parseTimeOrEmpty(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate; use RFC3339")
		return
	}
	end, err := parseTimeOrEmpty(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate; use RFC3339")
		return
	}

	banner, err := h.banners.Update(r.Context(), id, service.UpdateBannerInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		LinkURL:     req.LinkURL,
		ShopID:      req.ShopID,
		Priority:    req.Priority,
		StartDate:   start,
		EndDate:     end,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, banner)
}

// Delete handles DELETE /banners/{id}
func (h *BannerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid banner id")
		return
	}
	if err := h.banners.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "banner deleted"})
}

// Click handles POST /banners/{id}/click. Clicks count even for banners
// whose window already closed.
func (h *BannerHandler) Click(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid banner id")
		return
	}
	if err := h.banners.Click(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "click recorded"})
}

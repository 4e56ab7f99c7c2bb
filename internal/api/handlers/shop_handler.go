package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/api/middleware"
	"github.com/supermall/supermall-api/internal/repository"
	"github.com/supermall/supermall-api/internal/service"
)

type ShopRequest struct {
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	CategoryID    uuid.UUID `json:"category"`
	Location      string    `json:"location"`
	Floor         int       `json:"floor"`
	ContactNumber string    `json:"contactNumber,omitempty"`
	Email         string    `json:"email,omitempty"`
	ImageURL      string    `json:"image,omitempty"`
	OpenTime      string    `json:"openTime,omitempty"`
	CloseTime     string    `json:"closeTime,omitempty"`
}

type UpdateShopRequest struct {
	Name          *string    `json:"name,omitempty"`
	Description   *string    `json:"description,omitempty"`
	CategoryID    *uuid.UUID `json:"category,omitempty"`
	Location      *string    `json:"location,omitempty"`
	Floor         *int       `json:"floor,omitempty"`
	ContactNumber *string    `json:"contactNumber,omitempty"`
	Email         *string    `json:"email,omitempty"`
	ImageURL      *string    `json:"image,omitempty"`
	OpenTime      *string    `json:"openTime,omitempty"`
	CloseTime     *string    `json:"closeTime,omitempty"`
	IsActive      *bool      `json:"isActive,omitempty"`
}

type ShopHandler struct {
	shops *service.ShopService
}

func NewShopHandler(shops *service.ShopService) *ShopHandler {
	return &ShopHandler{shops: shops}
}

// List handles GET /shops with optional category, floor, search, page and
// limit query parameters.
func (h *ShopHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ShopFilter{
		Search: q.Get("search"),
		Page:   parsePage(r),
	}
	if raw := q.Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		filter.CategoryID = &id
	}
	if raw := q.Get("floor"); raw != "" {
		floor, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid floor")
			return
		}
		filter.Floor = &floor
	}

	shops, total, err := h.shops.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: shops, Pagination: newPagination(filter.Page, total)})
}

// Get handles GET /shops/{id}
func (h *ShopHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid shop id")
		return
	}
	shop, err := h.shops.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shop)
}

// ByCategory handles GET /shops/category/{categoryID}
func (h *ShopHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	shops, err := h.shops.ListByCategory(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: shops})
}

// ByFloor handles GET /shops/floor/{floor}
func (h *ShopHandler) ByFloor(w http.ResponseWriter, r *http.Request) {
	floor, err := strconv.Atoi(chi.URLParam(r, "floor"))
	if err != nil || floor < 1 {
		writeError(w, http.StatusBadRequest, "invalid floor")
		return
	}
	shops, err := h.shops.ListByFloor(r.Context(), floor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: shops})
}

// Create handles POST /shops
func (h *ShopHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	var req ShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Location == "" {
		writeError(w, http.StatusBadRequest, "name and location are required")
		return
	}
	shop, err := h.shops.Create(r.Context(), claims.UserID, service.ShopInput{
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		Location:      req.Location,
		Floor:         req.Floor,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		ImageURL:      req.ImageURL,
		OpenTime:      req.OpenTime,
		CloseTime:     req.CloseTime,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, shop)
}

// Update handles PUT /shops/{id}; allowed for admins and the shop owner.
func (h *ShopHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid shop id")
		return
	}
	var req UpdateShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	shop, err := h.shops.Update(r.Context(), claims, id, service.UpdateShopInput{
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		Location:      req.Location,
		Floor:         req.Floor,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		ImageURL:      req.ImageURL,
		OpenTime:      req.OpenTime,
		CloseTime:     req.CloseTime,
		IsActive:      req.IsActive,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shop)
}

// Delete handles DELETE /shops/{id}
func (h *ShopHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid shop id")
		return
	}
	if err := h.shops.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "shop deleted"})
}

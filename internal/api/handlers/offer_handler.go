package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/repository"
	"github.com/supermall/supermall-api/internal/service"
)

type OfferRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	ShopID        uuid.UUID `json:"shop"`
	ProductID     uuid.UUID `json:"product"`
	DiscountType  string    `json:"discountType"`
	DiscountValue float64   `json:"discountValue"`
	OriginalPrice float64   `json:"originalPrice"`
	StartDate     string    `json:"startDate"` // RFC3339
	EndDate       string    `json:"endDate"`   // RFC3339
	ImageURL      string    `json:"image,omitempty"`
	MaxUsage      *int64    `json:"maxUsage,omitempty"`
	Terms         string    `json:"terms,omitempty"`
}

type UpdateOfferRequest struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	ShopID        *uuid.UUID `json:"shop,omitempty"`
	ProductID     *uuid.UUID `json:"product,omitempty"`
	DiscountType  *string    `json:"discountType,omitempty"`
	DiscountValue *float64   `json:"discountValue,omitempty"`
	OriginalPrice *float64   `json:"originalPrice,omitempty"`
	StartDate     string     `json:"startDate,omitempty"`
	EndDate       string     `json:"endDate,omitempty"`
	ImageURL      *string    `json:"image,omitempty"`
	MaxUsage      *int64     `json:"maxUsage,omitempty"`
	ClearMaxUsage bool       `json:"clearMaxUsage,omitempty"`
	Terms         *string    `json:"terms,omitempty"`
	IsActive      *bool      `json:"isActive,omitempty"`
}

type ClaimResponse struct {
	Message      string `json:"message"`
	CurrentUsage int64  `json:"currentUsage"`
	UsageLeft    *int64 `json:"usageLeft,omitempty"`
}

type OfferHandler struct {
	offers *service.OfferService
}

func NewOfferHandler(offers *service.OfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

// List handles GET /offers. With active=true only offers whose window
// covers the current instant are returned.
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.OfferFilter{Page: parsePage(r)}
	if raw := q.Get("shop"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid shop id")
			return
		}
		filter.ShopID = &id
	}
	if q.Get("active") == "true" {
		now := time.Now()
		filter.ActiveAt = &now
	}

	offers, total, err := h.offers.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: offers, Pagination: newPagination(filter.Page, total)})
}

// Get handles GET /offers/{id}
func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offer id")
		return
	}
	offer, err := h.offers.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// ByShop handles GET /offers/shop/{shopID}
func (h *OfferHandler) ByShop(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "shopID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid shop id")
		return
	}
	offers, err := h.offers.ListByShop(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: offers})
}

// Create handles POST /offers
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req OfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate; use RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate; use RFC3339")
		return
	}

	offer, err := h.offers.Create(r.Context(), service.OfferInput{
		Title:         req.Title,
		Description:   req.Description,
		ShopID:        req.ShopID,
		ProductID:     req.ProductID,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		OriginalPrice: req.OriginalPrice,
		StartDate:     start,
		EndDate:       end,
		ImageURL:      req.ImageURL,
		MaxUsage:      req.MaxUsage,
		Terms:         req.Terms,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

// Update handles PUT /offers/{id}
func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offer id")
		return
	}
	var req UpdateOfferRequest
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

	offer, err := h.offers.Update(r.Context(), id, service.UpdateOfferInput{
		Title:         req.Title,
		Description:   req.Description,
		ShopID:        req.ShopID,
		ProductID:     req.ProductID,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		OriginalPrice: req.OriginalPrice,
		StartDate:     start,
		EndDate:       end,
		ImageURL:      req.ImageURL,
		MaxUsage:      req.MaxUsage,
		ClearMaxUsage: req.ClearMaxUsage,
		Terms:         req.Terms,
		IsActive:      req.IsActive,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// Delete handles DELETE /offers/{id}
func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offer id")
		return
	}
	if err := h.offers.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "offer deleted"})
}

// Claim handles POST /offers/{id}/claim. A cap that is already exhausted
// yields 409; an offer outside its window yields 422.
func (h *OfferHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offer id")
		return
	}
	offer, err := h.offers.Claim(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := ClaimResponse{Message: "offer claimed", CurrentUsage: offer.CurrentUsage}
	if offer.MaxUsage != nil {
		left := *offer.MaxUsage - offer.CurrentUsage
		resp.UsageLeft = &left
	}
	writeJSON(w, http.StatusOK, resp)
}

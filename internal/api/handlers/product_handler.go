package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/models"
	"github.com/supermall/supermall-api/internal/repository"
	"github.com/supermall/supermall-api/internal/service"
)

type ProductRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Price         float64          `json:"price"`
	OriginalPrice float64          `json:"originalPrice,omitempty"`
	ShopID        uuid.UUID        `json:"shop"`
	CategoryID    uuid.UUID        `json:"category"`
	Images        []string         `json:"images,omitempty"`
	Features      []models.Feature `json:"features,omitempty"`
	Stock         int              `json:"stock"`
	Tags          []string         `json:"tags,omitempty"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *float64         `json:"price,omitempty"`
	OriginalPrice *float64         `json:"originalPrice,omitempty"`
	ShopID        *uuid.UUID       `json:"shop,omitempty"`
	CategoryID    *uuid.UUID       `json:"category,omitempty"`
	Images        []string         `json:"images,omitempty"`
	Features      []models.Feature `json:"features,omitempty"`
	Stock         *int             `json:"stock,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	IsActive      *bool            `json:"isActive,omitempty"`
}

type CompareRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /products with shop, category, search, minPrice,
// maxPrice, onOffer, page and limit query parameters.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ProductFilter{
		Search:  q.Get("search"),
		OnOffer: q.Get("onOffer") == "true",
		Page:    parsePage(r),
	}
	if raw := q.Get("shop"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid shop id")
			return
		}
		filter.ShopID = &id
	}
	if raw := q.Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		filter.CategoryID = &id
	}
	if raw := q.Get("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid minPrice")
			return
		}
		filter.MinPrice = &v
	}
	if raw := q.Get("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid maxPrice")
			return
		}
		filter.MaxPrice = &v
	}

	products, total, err := h.products.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: products, Pagination: newPagination(filter.Page, total)})
}

// Get handles GET /products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// ByShop handles GET /products/shop/{shopID}
func (h *ProductHandler) ByShop(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "shopID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid shop id")
		return
	}
	products, err := h.products.ListByShop(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: products})
}

// ByCategory handles GET /products/category/{categoryID}
func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	products, err := h.products.ListByCategory(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: products})
}

// Compare handles POST /products/compare — up to ten products, returned
// in request order; unknown ids are skipped.
func (h *ProductHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ids := req.IDs
	if len(ids) < 2 {
		writeError(w, http.StatusBadRequest, "at least two product ids are required")
		return
	}
	if len(ids) > 10 {
		writeError(w, http.StatusBadRequest, "at most ten products can be compared")
		return
	}

	products, err := h.products.Compare(r.Context(), ids)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: products})
}

// Create handles POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	product, err := h.products.Create(r.Context(), service.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		ShopID:        req.ShopID,
		CategoryID:    req.CategoryID,
		Images:        req.Images,
		Features:      req.Features,
		Stock:         req.Stock,
		Tags:          req.Tags,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product, err := h.products.Update(r.Context(), id, service.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		ShopID:        req.ShopID,
		CategoryID:    req.CategoryID,
		Images:        req.Images,
		Features:      req.Features,
		Stock:         req.Stock,
		Tags:          req.Tags,
		IsActive:      req.IsActive,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

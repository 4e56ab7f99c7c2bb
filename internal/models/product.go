package models

import (
	"time"

	"github.com/google/uuid"
)

// Feature is a single name/value attribute used for product comparison.
type Feature struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Product struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice,omitempty"`
	ShopID        uuid.UUID `json:"-"`
	CategoryID    uuid.UUID `json:"-"`
	Images        []string  `json:"images"`
	Features      []Feature `json:"features"`
	Stock         int       `json:"stock"`
	IsActive      bool      `json:"isActive"`
	IsOnOffer     bool      `json:"isOnOffer"`
	Tags          []string  `json:"tags"`
	Rating        float64   `json:"rating"`
	TotalRatings  int       `json:"totalRatings"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Shop     *ShopRef     `json:"shop,omitempty"`
	Category *CategoryRef `json:"category,omitempty"`
}

// DiscountPercentage derives the displayed markdown from the list price.
func (p *Product) DiscountPercentage() int {
	if p.OriginalPrice > p.Price && p.OriginalPrice > 0 {
		return int((p.OriginalPrice-p.Price)/p.OriginalPrice*100 + 0.5)
	}
	return 0
}

type ProductRef struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Images []string  `json:"images,omitempty"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/pricing"
)

type Offer struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ShopID        uuid.UUID `json:"-"`
	ProductID     uuid.UUID `json:"-"`
	DiscountType  string    `json:"discountType"`
	DiscountValue float64   `json:"discountValue"`
	OriginalPrice float64   `json:"originalPrice"`
	// OfferPrice is derived by pricing.Discount.Apply on every write that
	// touches the discount or the original price, never edited directly.
	OfferPrice   float64   `json:"offerPrice"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	ImageURL     string    `json:"image"`
	IsActive     bool      `json:"isActive"`
	MaxUsage     *int64    `json:"maxUsage"`
	CurrentUsage int64     `json:"currentUsage"`
	Terms        string    `json:"terms"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Shop    *ShopRef    `json:"shop,omitempty"`
	Product *ProductRef `json:"product,omitempty"`
}

// Schedule exposes the offer's activity window to the pricing core.
func (o *Offer) Schedule() pricing.Schedule {
	return pricing.Schedule{
		Enabled:  o.IsActive,
		Start:    o.StartDate,
		End:      o.EndDate,
		MaxUsage: o.MaxUsage,
		Usage:    o.CurrentUsage,
	}
}

// CurrentlyActive reports whether the offer may be displayed and claimed at
// the given instant.
func (o *Offer) CurrentlyActive(now time.Time) bool {
	return o.Schedule().Active(now)
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/pricing"
)

type Banner struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	LinkURL     string    `json:"linkUrl,omitempty"`
	ShopID      uuid.UUID `json:"-"`
	IsActive    bool      `json:"isActive"`
	Priority    int       `json:"priority"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	// Both counters only ever move up, via atomic increments in storage.
	ClickCount      int64     `json:"clickCount"`
	ImpressionCount int64     `json:"impressionCount"`
	CreatedByID     uuid.UUID `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Shop      *ShopRef `json:"shop,omitempty"`
	CreatedBy *UserRef `json:"createdBy,omitempty"`
}

// Schedule exposes the banner's activity window. Banners have no usage cap.
func (b *Banner) Schedule() pricing.Schedule {
	return pricing.Schedule{
		Enabled: b.IsActive,
		Start:   b.StartDate,
		End:     b.EndDate,
	}
}

func (b *Banner) CurrentlyActive(now time.Time) bool {
	return b.Schedule().Active(now)
}

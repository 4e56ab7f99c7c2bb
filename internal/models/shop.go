package models

import (
	"time"

	"github.com/google/uuid"
)

type OperatingHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type Shop struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	OwnerID       uuid.UUID      `json:"-"`
	CategoryID    uuid.UUID      `json:"-"`
	Location      string         `json:"location"`
	Floor         int            `json:"floor"`
	ContactNumber string         `json:"contactNumber"`
	Email         string         `json:"email"`
	ImageURL      string         `json:"image"`
	Hours         OperatingHours `json:"operatingHours"`
	IsActive      bool           `json:"isActive"`
	Rating        float64        `json:"rating"`
	TotalRatings  int            `json:"totalRatings"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`

	// Filled by list/get queries, mirroring the joined columns.
	Category *CategoryRef `json:"category,omitempty"`
	Owner    *UserRef     `json:"owner,omitempty"`
}

// ShopRef is the abbreviated form embedded in offers and banners.
type ShopRef struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Location string    `json:"location"`
	Floor    int       `json:"floor"`
}

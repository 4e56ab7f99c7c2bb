package events

import "time"

type OfferClaimedEvent struct {
	OfferID      string    `json:"offer_id"`
	ShopID       string    `json:"shop_id"`
	ProductID    string    `json:"product_id"`
	OfferPrice   float64   `json:"offer_price"`
	CurrentUsage int64     `json:"current_usage"`
	ClaimedAt    time.Time `json:"claimed_at"`
}

type BannerClickedEvent struct {
	BannerID  string    `json:"banner_id"`
	ShopID    string    `json:"shop_id"`
	LinkURL   string    `json:"link_url,omitempty"`
	ClickedAt time.Time `json:"clicked_at"`
}

// Publisher fans promotion activity out to downstream consumers
// (analytics, notification pipelines).
type Publisher interface {
	PublishOfferClaimed(event OfferClaimedEvent) error
	PublishBannerClicked(event BannerClickedEvent) error
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOfferClaimed(OfferClaimedEvent) error   { return nil }
func (NopPublisher) PublishBannerClicked(BannerClickedEvent) error { return nil }

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/events"
	"github.com/supermall/supermall-api/internal/metrics"
	"github.com/supermall/supermall-api/internal/models"
	"github.com/supermall/supermall-api/internal/pricing"
	"github.com/supermall/supermall-api/internal/repository"
)

type OfferRepo interface {
	Create(ctx context.Context, o *models.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	List(ctx context.Context, f repository.OfferFilter) ([]*models.Offer, int, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*models.Offer, error)
	Update(ctx context.Context, o *models.Offer) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ClaimUsage(ctx context.Context, id uuid.UUID) (int64, error)
}

type OfferService struct {
	offers   OfferRepo
	shops    ShopRepo
	products ProductRepo
	metrics  *metrics.PromoMetrics
	events   events.Publisher

	now func() time.Time
}

func NewOfferService(offers OfferRepo, shops ShopRepo, products ProductRepo, m *metrics.PromoMetrics, pub events.Publisher) *OfferService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &OfferService{
		offers:   offers,
		shops:    shops,
		products: products,
		metrics:  m,
		events:   pub,
		now:      time.Now,
	}
}

type OfferInput struct {
	Title         string
	Description   string
	ShopID        uuid.UUID
	ProductID     uuid.UUID
	DiscountType  string
	DiscountValue float64
	OriginalPrice float64
	StartDate     time.Time
	EndDate       time.Time
	ImageURL      string
	MaxUsage      *int64
	Terms         string
}

func (s *OfferService) Create(ctx context.Context, in OfferInput) (*models.Offer, error) {
	discount, err := pricing.New(in.DiscountType, in.DiscountValue)
	if err != nil {
		return nil, err
	}
	if in.OriginalPrice < 0 {
		return nil, ErrNegativePrice
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, ErrEndBeforeStart
	}
	if ok, err := s.shops.Exists(ctx, in.ShopID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidShopRef
	}
	if ok, err := s.products.Exists(ctx, in.ProductID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidProductRef
	}

	offer := &models.Offer{
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		ShopID:        in.ShopID,
		ProductID:     in.ProductID,
		DiscountType:  string(discount.Kind()),
		DiscountValue: discount.Value(),
		OriginalPrice: in.OriginalPrice,
		OfferPrice:    discount.Apply(in.OriginalPrice),
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		ImageURL:      in.ImageURL,
		IsActive:      true,
		MaxUsage:      in.MaxUsage,
		Terms:         strings.TrimSpace(in.Terms),
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, err
	}
	if err := s.products.SetOnOffer(ctx, offer.ProductID, true); err != nil {
		slog.Warn("failed to flag product as on offer", "product_id", offer.ProductID, "error", err)
	}
	return s.offers.GetByID(ctx, offer.ID)
}

func (s *OfferService) Get(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	return s.offers.GetByID(ctx, id)
}

func (s *OfferService) List(ctx context.Context, f repository.OfferFilter) ([]*models.Offer, int, error) {
	return s.offers.List(ctx, f)
}

func (s *OfferService) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*models.Offer, error) {
	return s.offers.ListByShop(ctx, shopID)
}

type UpdateOfferInput struct {
	Title         *string
	Description   *string
	ShopID        *uuid.UUID
	ProductID     *uuid.UUID
	DiscountType  *string
	DiscountValue *float64
	OriginalPrice *float64
	StartDate     *time.Time
	EndDate       *time.Time
	ImageURL      *string
	MaxUsage      *int64
	ClearMaxUsage bool
	Terms         *string
	IsActive      *bool
}

func (s *OfferService) Update(ctx context.Context, id uuid.UUID, in UpdateOfferInput) (*models.Offer, error) {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.ShopID != nil {
		if ok, err := s.shops.Exists(ctx, *in.ShopID); err != nil {
			return nil, err
		} else if !ok {
			return nil, ErrInvalidShopRef
		}
		offer.ShopID = *in.ShopID
	}
	if in.ProductID != nil {
		if ok, err := s.products.Exists(ctx, *in.ProductID); err != nil {
			return nil, err
		} else if !ok {
			return nil, ErrInvalidProductRef
		}
		offer.ProductID = *in.ProductID
	}
	if in.Title != nil {
		offer.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		offer.Description = strings.TrimSpace(*in.Description)
	}
	if in.DiscountType != nil {
		offer.DiscountType = *in.DiscountType
	}
	if in.DiscountValue != nil {
		offer.DiscountValue = *in.DiscountValue
	}
	if in.OriginalPrice != nil {
		if *in.OriginalPrice < 0 {
			return nil, ErrNegativePrice
		}
		offer.OriginalPrice = *in.OriginalPrice
	}
	if in.StartDate != nil {
		offer.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		offer.EndDate = *in.EndDate
	}
	if !offer.EndDate.After(offer.StartDate) {
		return nil, ErrEndBeforeStart
	}
	if in.ImageURL != nil {
		offer.ImageURL = *in.ImageURL
	}
	if in.ClearMaxUsage {
		offer.MaxUsage = nil
	} else if in.MaxUsage != nil {
		offer.MaxUsage = in.MaxUsage
	}
	if in.Terms != nil {
		offer.Terms = strings.TrimSpace(*in.Terms)
	}
	if in.IsActive != nil {
		offer.IsActive = *in.IsActive
	}

	// The stored price is never trusted across a write: re-derive it from
	// the rule every time, even when only the original price moved.
	discount, err := pricing.New(offer.DiscountType, offer.DiscountValue)
	if err != nil {
		return nil, err
	}
	offer.OfferPrice = discount.Apply(offer.OriginalPrice)

	if err := s.offers.Update(ctx, offer); err != nil {
		return nil, err
	}
	return s.offers.GetByID(ctx, offer.ID)
}

func (s *OfferService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.offers.SoftDelete(ctx, id)
}

// Claim redeems one use of the offer. The window check gates the attempt;
// the cap itself is enforced by the repository's conditional increment, so
// concurrent claims can never overshoot max_usage.
func (s *OfferService) Claim(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	started := s.now()

	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	shopID := offer.ShopID.String()

	if !offer.CurrentlyActive(s.now()) {
		if s.metrics != nil {
			reason := "inactive"
			if !offer.Schedule().UsageLeft() {
				reason = "cap_exhausted"
			}
			s.metrics.RecordClaimRejected(shopID, reason, s.now().Sub(started).Seconds())
		}
		if !offer.Schedule().UsageLeft() {
			return nil, pricing.ErrUsageCapExceeded
		}
		return nil, ErrOfferNotActive
	}

	usage, err := s.offers.ClaimUsage(ctx, id)
	if err != nil {
		if s.metrics != nil && errors.Is(err, pricing.ErrUsageCapExceeded) {
			s.metrics.RecordClaimRejected(shopID, "cap_exhausted", s.now().Sub(started).Seconds())
		}
		return nil, err
	}
	offer.CurrentUsage = usage

	if s.metrics != nil {
		s.metrics.RecordClaim(shopID, s.now().Sub(started).Seconds())
	}
	if err := s.events.PublishOfferClaimed(events.OfferClaimedEvent{
		OfferID:      offer.ID.String(),
		ShopID:       shopID,
		ProductID:    offer.ProductID.String(),
		OfferPrice:   offer.OfferPrice,
		CurrentUsage: usage,
		ClaimedAt:    s.now().UTC(),
	}); err != nil {
		slog.Warn("failed to publish offer claimed event", "offer_id", offer.ID, "error", err)
	}
	return offer, nil
}

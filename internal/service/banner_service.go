package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/cache"
	"github.com/supermall/supermall-api/internal/events"
	"github.com/supermall/supermall-api/internal/metrics"
	"github.com/supermall/supermall-api/internal/models"
	"github.com/supermall/supermall-api/internal/repository"
)

// activeBannerLimit matches the landing-page carousel size.
const activeBannerLimit = 10

const activeBannersKey = "banners:active"

type BannerRepo interface {
	Create(ctx context.Context, b *models.Banner) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Banner, error)
	ListActive(ctx context.Context, now time.Time, limit int) ([]*models.Banner, error)
	ListAll(ctx context.Context, page repository.Page) ([]*models.Banner, int, error)
	Update(ctx context.Context, b *models.Banner) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	RecordImpressions(ctx context.Context, ids []uuid.UUID) error
	RecordClick(ctx context.Context, id uuid.UUID) error
}

type BannerService struct {
	banners BannerRepo
	shops   ShopRepo
	cache   *cache.Cache
	metrics *metrics.PromoMetrics
	events  events.Publisher

	now func() time.Time
}

func NewBannerService(banners BannerRepo, shops ShopRepo, c *cache.Cache, m *metrics.PromoMetrics, pub events.Publisher) *BannerService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &BannerService{
		banners: banners,
		shops:   shops,
		cache:   c,
		metrics: m,
		events:  pub,
		now:     time.Now,
	}
}

// ActiveBanners returns the current carousel and records one impression per
// returned banner. Impressions are counted on every listing, cached or not;
// only the banner rows themselves are served from cache.
func (s *BannerService) ActiveBanners(ctx context.Context) ([]*models.Banner, error) {
	banners, err := s.loadActive(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(banners))
	shopIDs := make([]string, len(banners))
	for i, b := range banners {
		ids[i] = b.ID
		shopIDs[i] = b.ShopID.String()
	}
	if err := s.banners.RecordImpressions(ctx, ids); err != nil {
		// The listing is still served; a lost impression batch is tolerable.
		slog.Warn("failed to record banner impressions", "count", len(ids), "error", err)
	} else if s.metrics != nil {
		s.metrics.RecordImpressions(shopIDs)
	}
	return banners, nil
}

func (s *BannerService) loadActive(ctx context.Context) ([]*models.Banner, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(activeBannersKey); ok {
			return v.([]*models.Banner), nil
		}
	}
	banners, err := s.banners.ListActive(ctx, s.now(), activeBannerLimit)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(activeBannersKey, banners)
	}
	return banners, nil
}

func (s *BannerService) Get(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	return s.banners.GetByID(ctx, id)
}

func (s *BannerService) ListAll(ctx context.Context, page repository.Page) ([]*models.Banner, int, error) {
	return s.banners.ListAll(ctx, page)
}

type BannerInput struct {
	Title       string
	Description string
	ImageURL    string
	LinkURL     string
	ShopID      uuid.UUID
	Priority    int
	StartDate   time.Time
	EndDate     time.Time
}

func (s *BannerService) Create(ctx context.Context, createdBy uuid.UUID, in BannerInput) (*models.Banner, error) {
	if in.Priority < 0 || in.Priority > 10 {
		return nil, ErrInvalidPriority
	}
	if ok, err := s.shops.Exists(ctx, in.ShopID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidShopRef
	}

	start := in.StartDate
	if start.IsZero() {
		start = s.now().UTC()
	}
	if !in.EndDate.After(s.now()) {
		return nil, ErrEndDateInPast
	}
	if !in.EndDate.After(start) {
		return nil, ErrEndBeforeStart
	}

	banner := &models.Banner{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    in.ImageURL,
		LinkURL:     in.LinkURL,
		ShopID:      in.ShopID,
		IsActive:    true,
		Priority:    in.Priority,
		StartDate:   start,
		EndDate:     in.EndDate,
		CreatedByID: createdBy,
	}
	if err := s.banners.Create(ctx, banner); err != nil {
		return nil, err
	}
	s.invalidate()
	return s.banners.GetByID(ctx, banner.ID)
}

type UpdateBannerInput struct {
	Title       *string
	Description *string
	ImageURL    *string
	LinkURL     *string
	ShopID      *uuid.UUID
	Priority    *int
	StartDate   *time.Time
	EndDate     *time.Time
	IsActive    *bool
}

func (s *BannerService) Update(ctx context.Context, id uuid.UUID, in UpdateBannerInput) (*models.Banner, error) {
	banner, err := s.banners.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.ShopID != nil {
		if ok, err := s.shops.Exists(ctx, *in.ShopID); err != nil {
			return nil, err
		} else if !ok {
			return nil, ErrInvalidShopRef
		}
		banner.ShopID = *in.ShopID
	}
	if in.Priority != nil {
		if *in.Priority < 0 || *in.Priority > 10 {
			return nil, ErrInvalidPriority
		}
		banner.Priority = *in.Priority
	}
	if in.EndDate != nil {
		if !in.EndDate.After(s.now()) {
			return nil, ErrEndDateInPast
		}
		banner.EndDate = *in.EndDate
	}
	if in.StartDate != nil {
		banner.StartDate = *in.StartDate
	}
	if in.Title != nil {
		banner.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		banner.Description = strings.TrimSpace(*in.Description)
	}
	if in.ImageURL != nil {
		banner.ImageURL = *in.ImageURL
	}
	if in.LinkURL != nil {
		banner.LinkURL = *in.LinkURL
	}
	if in.IsActive != nil {
		banner.IsActive = *in.IsActive
	}

	if err := s.banners.Update(ctx, banner); err != nil {
		return nil, err
	}
	s.invalidate()
	return s.banners.GetByID(ctx, banner.ID)
}

func (s *BannerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.banners.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Click tracks a banner click. Click tracking deliberately ignores the
// activity window: an expired banner that still renders somewhere keeps
// counting.
func (s *BannerService) Click(ctx context.Context, id uuid.UUID) error {
	banner, err := s.banners.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.banners.RecordClick(ctx, id); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordClick(banner.ShopID.String())
	}
	if err := s.events.PublishBannerClicked(events.BannerClickedEvent{
		BannerID:  banner.ID.String(),
		ShopID:    banner.ShopID.String(),
		LinkURL:   banner.LinkURL,
		ClickedAt: s.now().UTC(),
	}); err != nil {
		slog.Warn("failed to publish banner clicked event", "banner_id", banner.ID, "error", err)
	}
	return nil
}

func (s *BannerService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate(activeBannersKey)
	}
}

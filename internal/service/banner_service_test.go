package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/cache"
	"github.com/supermall/supermall-api/internal/models"
	"github.com/supermall/supermall-api/internal/testutil"
)

type bannerFixture struct {
	svc     *BannerService
	banners *testutil.MemBannerRepo
	shopID  uuid.UUID
	adminID uuid.UUID
}

func newBannerFixture(t *testing.T, now time.Time) *bannerFixture {
	t.Helper()
	ctx := context.Background()

	shops := testutil.NewMemShopRepo()
	shop := &models.Shop{Name: "Food Court", Floor: 3, IsActive: true}
	if err := shops.Create(ctx, shop); err != nil {
		t.Fatalf("seed shop: %v", err)
	}

	banners := testutil.NewMemBannerRepo()
	svc := NewBannerService(banners, shops, cache.New(time.Minute), nil, nil)
	svc.now = func() time.Time { return now }

	return &bannerFixture{svc: svc, banners: banners, shopID: shop.ID, adminID: uuid.New()}
}

func seedBanner(t *testing.T, f *bannerFixture, title string, priority int, start, end time.Time, enabled bool) *models.Banner {
	t.Helper()
	b := &models.Banner{
		Title:     title,
		ImageURL:  "https://cdn.example.com/" + title + ".png",
		ShopID:    f.shopID,
		IsActive:  enabled,
		Priority:  priority,
		StartDate: start,
		EndDate:   end,
	}
	if err := f.banners.Create(context.Background(), b); err != nil {
		t.Fatalf("seed banner: %v", err)
	}
	return b
}

func TestActiveBannersRecordsImpressions(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newBannerFixture(t, now)
	ctx := context.Background()

	low := seedBanner(t, f, "summer-sale", 2, now.Add(-time.Hour), now.Add(time.Hour), true)
	high := seedBanner(t, f, "grand-opening", 8, now.Add(-time.Hour), now.Add(time.Hour), true)
	expired := seedBanner(t, f, "last-season", 9, now.Add(-48*time.Hour), now.Add(-24*time.Hour), true)
	seedBanner(t, f, "disabled", 9, now.Add(-time.Hour), now.Add(time.Hour), false)

	got, err := f.svc.ActiveBanners(ctx)
	if err != nil {
		t.Fatalf("ActiveBanners: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d banners, want 2", len(got))
	}
	if got[0].ID != high.ID || got[1].ID != low.ID {
		t.Errorf("banners not ordered by priority: %s, %s", got[0].Title, got[1].Title)
	}

	// A second listing is served from cache but still counts impressions.
	if _, err := f.svc.ActiveBanners(ctx); err != nil {
		t.Fatalf("ActiveBanners (cached): %v", err)
	}

	for _, b := range []*models.Banner{high, low} {
		stored, err := f.banners.GetByID(ctx, b.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if stored.ImpressionCount != 2 {
			t.Errorf("%s impressions = %d, want 2", b.Title, stored.ImpressionCount)
		}
	}
	stored, err := f.banners.GetByID(ctx, expired.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.ImpressionCount != 0 {
		t.Errorf("expired banner impressions = %d, want 0", stored.ImpressionCount)
	}
}

func TestBannerClickIgnoresWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newBannerFixture(t, now)
	ctx := context.Background()

	expired := seedBanner(t, f, "flash-sale", 5, now.Add(-48*time.Hour), now.Add(-24*time.Hour), true)

	if err := f.svc.Click(ctx, expired.ID); err != nil {
		t.Fatalf("Click on expired banner: %v", err)
	}
	stored, err := f.banners.GetByID(ctx, expired.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.ClickCount != 1 {
		t.Errorf("click count = %d, want 1", stored.ClickCount)
	}
}

func TestBannerCreateValidation(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newBannerFixture(t, now)
	ctx := context.Background()

	valid := BannerInput{
		Title:    "new wing",
		ImageURL: "https://cdn.example.com/wing.png",
		ShopID:   f.shopID,
		Priority: 5,
		EndDate:  now.Add(72 * time.Hour),
	}

	tests := []struct {
		name    string
		mutate  func(*BannerInput)
		wantErr error
	}{
		{
			name:    "priority above range",
			mutate:  func(in *BannerInput) { in.Priority = 11 },
			wantErr: ErrInvalidPriority,
		},
		{
			name:    "negative priority",
			mutate:  func(in *BannerInput) { in.Priority = -1 },
			wantErr: ErrInvalidPriority,
		},
		{
			name:    "end date in the past",
			mutate:  func(in *BannerInput) { in.EndDate = now.Add(-time.Hour) },
			wantErr: ErrEndDateInPast,
		},
		{
			name:    "unknown shop",
			mutate:  func(in *BannerInput) { in.ShopID = uuid.New() },
			wantErr: ErrInvalidShopRef,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if _, err := f.svc.Create(ctx, f.adminID, in); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// A zero start date defaults to now, so the banner shows immediately.
	banner, err := f.svc.Create(ctx, f.adminID, valid)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !banner.StartDate.Equal(now) {
		t.Errorf("default start date = %v, want %v", banner.StartDate, now)
	}
	if !banner.CurrentlyActive(now) {
		t.Error("new banner should be active immediately")
	}
}

func TestBannerUpdateInvalidatesCache(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newBannerFixture(t, now)
	ctx := context.Background()

	banner := seedBanner(t, f, "clearance", 3, now.Add(-time.Hour), now.Add(time.Hour), true)

	// Prime the cache.
	if _, err := f.svc.ActiveBanners(ctx); err != nil {
		t.Fatalf("ActiveBanners: %v", err)
	}

	enabled := false
	if _, err := f.svc.Update(ctx, banner.ID, UpdateBannerInput{IsActive: &enabled}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := f.svc.ActiveBanners(ctx)
	if err != nil {
		t.Fatalf("ActiveBanners after update: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d banners after disable, want 0", len(got))
	}
}

func TestBannerDelete(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newBannerFixture(t, now)
	ctx := context.Background()

	banner := seedBanner(t, f, "midnight-madness", 6, now.Add(-time.Hour), now.Add(time.Hour), true)

	if err := f.svc.Delete(ctx, banner.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := f.svc.ActiveBanners(ctx)
	if err != nil {
		t.Fatalf("ActiveBanners: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d banners after delete, want 0", len(got))
	}
}

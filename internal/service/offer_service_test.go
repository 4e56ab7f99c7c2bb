package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/models"
	"github.com/supermall/supermall-api/internal/pricing"
	"github.com/supermall/supermall-api/internal/repository"
	"github.com/supermall/supermall-api/internal/testutil"
)

type offerFixture struct {
	svc      *OfferService
	offers   *testutil.MemOfferRepo
	products *testutil.MemProductRepo
	shopID   uuid.UUID
	product  *models.Product
}

func newOfferFixture(t *testing.T, now time.Time) *offerFixture {
	t.Helper()
	ctx := context.Background()

	shops := testutil.NewMemShopRepo()
	shop := &models.Shop{Name: "Tech Store", Floor: 2, IsActive: true}
	if err := shops.Create(ctx, shop); err != nil {
		t.Fatalf("seed shop: %v", err)
	}

	products := testutil.NewMemProductRepo()
	product := &models.Product{Name: "Headphones", ShopID: shop.ID, Price: 100, IsActive: true}
	if err := products.Create(ctx, product); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	offers := testutil.NewMemOfferRepo()
	svc := NewOfferService(offers, shops, products, nil, nil)
	svc.now = func() time.Time { return now }

	return &offerFixture{svc: svc, offers: offers, products: products, shopID: shop.ID, product: product}
}

func validOfferInput(f *offerFixture, now time.Time) OfferInput {
	return OfferInput{
		Title:         "20% off headphones",
		ShopID:        f.shopID,
		ProductID:     f.product.ID,
		DiscountType:  "percentage",
		DiscountValue: 20,
		OriginalPrice: 100,
		StartDate:     now.Add(-time.Hour),
		EndDate:       now.Add(24 * time.Hour),
	}
}

func TestOfferCreateDerivesPrice(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newOfferFixture(t, now)
	ctx := context.Background()

	offer, err := f.svc.Create(ctx, validOfferInput(f, now))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if offer.OfferPrice != 80 {
		t.Errorf("offer price = %v, want 80", offer.OfferPrice)
	}
	if !offer.IsActive {
		t.Error("new offer should be active")
	}

	p, err := f.products.GetByID(ctx, f.product.ID)
	if err != nil {
		t.Fatalf("GetByID product: %v", err)
	}
	if !p.IsOnOffer {
		t.Error("product should be flagged as on offer")
	}
}

func TestOfferCreateValidation(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newOfferFixture(t, now)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*OfferInput)
		wantErr error
	}{
		{
			name:    "unknown discount kind",
			mutate:  func(in *OfferInput) { in.DiscountType = "bogo" },
			wantErr: pricing.ErrInvalidDiscountKind,
		},
		{
			name:    "negative discount value",
			mutate:  func(in *OfferInput) { in.DiscountValue = -5 },
			wantErr: pricing.ErrNegativeValue,
		},
		{
			name:    "negative original price",
			mutate:  func(in *OfferInput) { in.OriginalPrice = -1 },
			wantErr: ErrNegativePrice,
		},
		{
			name:    "end before start",
			mutate:  func(in *OfferInput) { in.EndDate = in.StartDate.Add(-time.Minute) },
			wantErr: ErrEndBeforeStart,
		},
		{
			name:    "unknown shop",
			mutate:  func(in *OfferInput) { in.ShopID = uuid.New() },
			wantErr: ErrInvalidShopRef,
		},
		{
			name:    "unknown product",
			mutate:  func(in *OfferInput) { in.ProductID = uuid.New() },
			wantErr: ErrInvalidProductRef,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validOfferInput(f, now)
			tt.mutate(&in)
			if _, err := f.svc.Create(ctx, in); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOfferUpdateRecomputesPrice(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newOfferFixture(t, now)
	ctx := context.Background()

	offer, err := f.svc.Create(ctx, validOfferInput(f, now))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Changing only the original price must still refresh the derived price.
	newPrice := 200.0
	updated, err := f.svc.Update(ctx, offer.ID, UpdateOfferInput{OriginalPrice: &newPrice})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.OfferPrice != 160 {
		t.Errorf("offer price after price change = %v, want 160", updated.OfferPrice)
	}

	// Switching to a fixed discount re-derives with the clamp at zero.
	kind := "fixed"
	value := 500.0
	updated, err = f.svc.Update(ctx, offer.ID, UpdateOfferInput{DiscountType: &kind, DiscountValue: &value})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.OfferPrice != 0 {
		t.Errorf("offer price after fixed discount = %v, want 0", updated.OfferPrice)
	}

	// A bad kind is rejected before anything is stored.
	bad := "bogus"
	if _, err := f.svc.Update(ctx, offer.ID, UpdateOfferInput{DiscountType: &bad}); !errors.Is(err, pricing.ErrInvalidDiscountKind) {
		t.Errorf("Update error = %v, want %v", err, pricing.ErrInvalidDiscountKind)
	}
}

func TestOfferClaim(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newOfferFixture(t, now)
	ctx := context.Background()

	in := validOfferInput(f, now)
	cap := int64(2)
	in.MaxUsage = &cap
	offer, err := f.svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := int64(1); i <= cap; i++ {
		claimed, err := f.svc.Claim(ctx, offer.ID)
		if err != nil {
			t.Fatalf("Claim %d: %v", i, err)
		}
		if claimed.CurrentUsage != i {
			t.Errorf("usage after claim %d = %d", i, claimed.CurrentUsage)
		}
	}

	if _, err := f.svc.Claim(ctx, offer.ID); !errors.Is(err, pricing.ErrUsageCapExceeded) {
		t.Errorf("claim at cap error = %v, want %v", err, pricing.ErrUsageCapExceeded)
	}
}

func TestOfferClaimConcurrent(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newOfferFixture(t, now)
	ctx := context.Background()

	in := validOfferInput(f, now)
	cap := int64(5)
	in.MaxUsage = &cap
	offer, err := f.svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	const attempts = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int64
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Claim(ctx, offer.ID); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != cap {
		t.Errorf("granted %d claims, want exactly %d", granted, cap)
	}
	stored, err := f.offers.GetByID(ctx, offer.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.CurrentUsage != cap {
		t.Errorf("stored usage = %d, want %d", stored.CurrentUsage, cap)
	}
}

func TestOfferClaimOutsideWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newOfferFixture(t, now)
	ctx := context.Background()

	offer, err := f.svc.Create(ctx, validOfferInput(f, now))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	f.svc.now = func() time.Time { return offer.EndDate.Add(time.Second) }
	if _, err := f.svc.Claim(ctx, offer.ID); !errors.Is(err, ErrOfferNotActive) {
		t.Errorf("expired claim error = %v, want %v", err, ErrOfferNotActive)
	}

	// The very last second of the window still counts.
	f.svc.now = func() time.Time { return offer.EndDate }
	if _, err := f.svc.Claim(ctx, offer.ID); err != nil {
		t.Errorf("claim at window end: %v", err)
	}
}

func TestOfferClaimUnknown(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newOfferFixture(t, now)

	if _, err := f.svc.Claim(context.Background(), uuid.New()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("claim unknown error = %v, want %v", err, repository.ErrNotFound)
	}
}

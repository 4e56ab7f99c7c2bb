package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/models"
	"github.com/supermall/supermall-api/internal/testutil"
)

type productFixture struct {
	svc        *ProductService
	products   *testutil.MemProductRepo
	shopID     uuid.UUID
	categoryID uuid.UUID
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	ctx := context.Background()

	shops := testutil.NewMemShopRepo()
	shop := &models.Shop{Name: "Bookstore", Floor: 1, IsActive: true}
	if err := shops.Create(ctx, shop); err != nil {
		t.Fatalf("seed shop: %v", err)
	}

	categories := testutil.NewMemCategoryRepo()
	category := &models.Category{Name: "Books", IsActive: true}
	if err := categories.Create(ctx, category); err != nil {
		t.Fatalf("seed category: %v", err)
	}

	products := testutil.NewMemProductRepo()
	return &productFixture{
		svc:        NewProductService(products, shops, categories),
		products:   products,
		shopID:     shop.ID,
		categoryID: category.ID,
	}
}

func (f *productFixture) seed(t *testing.T, name string, price float64) *models.Product {
	t.Helper()
	p, err := f.svc.Create(context.Background(), ProductInput{
		Name:       name,
		Price:      price,
		ShopID:     f.shopID,
		CategoryID: f.categoryID,
	})
	if err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return p
}

func TestProductCreateValidation(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, ProductInput{Name: "x", Price: -1, ShopID: f.shopID, CategoryID: f.categoryID}); !errors.Is(err, ErrNegativePrice) {
		t.Errorf("negative price error = %v, want %v", err, ErrNegativePrice)
	}
	if _, err := f.svc.Create(ctx, ProductInput{Name: "x", Price: 1, ShopID: uuid.New(), CategoryID: f.categoryID}); !errors.Is(err, ErrInvalidShopRef) {
		t.Errorf("unknown shop error = %v, want %v", err, ErrInvalidShopRef)
	}
	if _, err := f.svc.Create(ctx, ProductInput{Name: "x", Price: 1, ShopID: f.shopID, CategoryID: uuid.New()}); !errors.Is(err, ErrInvalidCategoryRef) {
		t.Errorf("unknown category error = %v, want %v", err, ErrInvalidCategoryRef)
	}
}

func TestProductCompare(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	a := f.seed(t, "Novel", 12)
	b := f.seed(t, "Atlas", 45)
	c := f.seed(t, "Cookbook", 30)

	// One deleted and one unknown id are simply skipped.
	if err := f.svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := f.svc.Compare(ctx, []uuid.UUID{b.ID, uuid.New(), a.ID, c.ID})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	// Request order is preserved.
	if got[0].ID != b.ID || got[1].ID != a.ID {
		t.Errorf("compare order = %s, %s; want %s, %s", got[0].Name, got[1].Name, b.Name, a.Name)
	}
}

func TestProductCompareEmpty(t *testing.T) {
	f := newProductFixture(t)

	got, err := f.svc.Compare(context.Background(), nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d products, want 0", len(got))
	}
}

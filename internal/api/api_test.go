package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/api"
	"github.com/supermall/supermall-api/internal/auth"
	"github.com/supermall/supermall-api/internal/cache"
	"github.com/supermall/supermall-api/internal/models"
	"github.com/supermall/supermall-api/internal/service"
	"github.com/supermall/supermall-api/internal/testutil"
)

type testEnv struct {
	router     http.Handler
	adminToken string
	userToken  string

	shops    *testutil.MemShopRepo
	products *testutil.MemProductRepo
	offers   *testutil.MemOfferRepo
	banners  *testutil.MemBannerRepo

	shopID     uuid.UUID
	categoryID uuid.UUID
	productID  uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	users := testutil.NewMemUserRepo()
	categories := testutil.NewMemCategoryRepo()
	shops := testutil.NewMemShopRepo()
	products := testutil.NewMemProductRepo()
	offers := testutil.NewMemOfferRepo()
	banners := testutil.NewMemBannerRepo()

	category := &models.Category{Name: "Electronics", IsActive: true}
	if err := categories.Create(ctx, category); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	shop := &models.Shop{Name: "Gadget Hub", CategoryID: category.ID, Floor: 2, Location: "B-21", IsActive: true}
	if err := shops.Create(ctx, shop); err != nil {
		t.Fatalf("seed shop: %v", err)
	}
	product := &models.Product{Name: "Smartwatch", ShopID: shop.ID, CategoryID: category.ID, Price: 199, IsActive: true}
	if err := products.Create(ctx, product); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour)

	admin := &models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true}
	if err := users.Create(ctx, admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	adminToken, err := tokens.Generate(admin.ID, admin.Role)
	if err != nil {
		t.Fatalf("generate admin token: %v", err)
	}
	user := &models.User{Name: "Visitor", Email: "visitor@example.com", Role: models.RoleUser, IsActive: true}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	userToken, err := tokens.Generate(user.ID, user.Role)
	if err != nil {
		t.Fatalf("generate user token: %v", err)
	}

	router := api.NewRouter(api.Deps{
		Tokens:     tokens,
		Auth:       service.NewAuthService(users, tokens),
		Categories: service.NewCategoryService(categories),
		Shops:      service.NewShopService(shops, categories),
		Products:   service.NewProductService(products, shops, categories),
		Offers:     service.NewOfferService(offers, shops, products, nil, nil),
		Banners:    service.NewBannerService(banners, shops, cache.New(time.Minute), nil, nil),
	})

	return &testEnv{
		router:     router,
		adminToken: adminToken,
		userToken:  userToken,
		shops:      shops,
		products:   products,
		offers:     offers,
		banners:    banners,
		shopID:     shop.ID,
		categoryID: category.ID,
		productID:  product.ID,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}

func TestAuthFlow(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Sam",
		"email":    "sam@example.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body)
	}
	reg := decode[map[string]json.RawMessage](t, rec)
	var token string
	if err := json.Unmarshal(reg["token"], &token); err != nil || token == "" {
		t.Fatal("register did not return a token")
	}

	rec = e.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d", rec.Code)
	}

	rec = e.do(t, http.MethodGet, "/api/auth/profile", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("profile without token status = %d, want 401", rec.Code)
	}

	rec = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "sam@example.com",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", rec.Code)
	}
}

func TestAdminGuard(t *testing.T) {
	e := newTestEnv(t)
	body := map[string]string{"name": "Fashion"}

	rec := e.do(t, http.MethodPost, "/api/categories/", "", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create status = %d, want 401", rec.Code)
	}
	rec = e.do(t, http.MethodPost, "/api/categories/", e.userToken, body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin create status = %d, want 403", rec.Code)
	}
	rec = e.do(t, http.MethodPost, "/api/categories/", e.adminToken, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin create status = %d, body = %s", rec.Code, rec.Body)
	}
}

func (e *testEnv) createOffer(t *testing.T, maxUsage *int64, start, end time.Time) models.Offer {
	t.Helper()
	body := map[string]any{
		"title":         "launch deal",
		"shop":          e.shopID,
		"product":       e.productID,
		"discountType":  "percentage",
		"discountValue": 25,
		"originalPrice": 200,
		"startDate":     start.Format(time.RFC3339),
		"endDate":       end.Format(time.RFC3339),
	}
	if maxUsage != nil {
		body["maxUsage"] = *maxUsage
	}
	rec := e.do(t, http.MethodPost, "/api/offers/", e.adminToken, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create offer status = %d, body = %s", rec.Code, rec.Body)
	}
	return decode[models.Offer](t, rec)
}

func TestOfferCreateAndClaim(t *testing.T) {
	e := newTestEnv(t)
	now := time.Now()

	limit := int64(2)
	offer := e.createOffer(t, &limit, now.Add(-time.Hour), now.Add(24*time.Hour))
	if offer.OfferPrice != 150 {
		t.Errorf("offer price = %v, want 150", offer.OfferPrice)
	}

	claimPath := fmt.Sprintf("/api/offers/%s/claim", offer.ID)
	for i := 0; i < 2; i++ {
		rec := e.do(t, http.MethodPost, claimPath, "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("claim %d status = %d, body = %s", i+1, rec.Code, rec.Body)
		}
	}

	rec := e.do(t, http.MethodPost, claimPath, "", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("claim over cap status = %d, want 409", rec.Code)
	}
}

func TestOfferClaimExpired(t *testing.T) {
	e := newTestEnv(t)
	now := time.Now()

	offer := e.createOffer(t, nil, now.Add(-48*time.Hour), now.Add(24*time.Hour))

	// Push the window into the past after creation.
	rec := e.do(t, http.MethodPut, fmt.Sprintf("/api/offers/%s", offer.ID), e.adminToken, map[string]any{
		"endDate": now.Add(-24 * time.Hour).Format(time.RFC3339),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update offer status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = e.do(t, http.MethodPost, fmt.Sprintf("/api/offers/%s/claim", offer.ID), "", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expired claim status = %d, want 422", rec.Code)
	}
}

func TestOfferClaimUnknown(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, fmt.Sprintf("/api/offers/%s/claim", uuid.New()), "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown claim status = %d, want 404", rec.Code)
	}
}

func TestOfferRejectsBadDiscount(t *testing.T) {
	e := newTestEnv(t)
	now := time.Now()

	rec := e.do(t, http.MethodPost, "/api/offers/", e.adminToken, map[string]any{
		"title":         "bad deal",
		"shop":          e.shopID,
		"product":       e.productID,
		"discountType":  "bogo",
		"discountValue": 10,
		"originalPrice": 50,
		"startDate":     now.Format(time.RFC3339),
		"endDate":       now.Add(time.Hour).Format(time.RFC3339),
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad discount status = %d, want 400", rec.Code)
	}
}

func TestBannerLifecycle(t *testing.T) {
	e := newTestEnv(t)
	now := time.Now()

	rec := e.do(t, http.MethodPost, "/api/banners/", e.adminToken, map[string]any{
		"title":    "grand opening",
		"imageUrl": "https://cdn.example.com/opening.png",
		"shop":     e.shopID,
		"priority": 7,
		"endDate":  now.Add(72 * time.Hour).Format(time.RFC3339),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create banner status = %d, body = %s", rec.Code, rec.Body)
	}
	banner := decode[models.Banner](t, rec)

	// Public listing counts one impression per banner.
	rec = e.do(t, http.MethodGet, "/api/banners/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("active banners status = %d", rec.Code)
	}
	listed := decode[struct {
		Data []models.Banner `json:"data"`
	}](t, rec)
	if len(listed.Data) != 1 {
		t.Fatalf("got %d banners, want 1", len(listed.Data))
	}

	rec = e.do(t, http.MethodPost, fmt.Sprintf("/api/banners/%s/click", banner.ID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("click status = %d", rec.Code)
	}

	stored, err := e.banners.GetByID(context.Background(), banner.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.ImpressionCount != 1 {
		t.Errorf("impressions = %d, want 1", stored.ImpressionCount)
	}
	if stored.ClickCount != 1 {
		t.Errorf("clicks = %d, want 1", stored.ClickCount)
	}
}

func TestProductCompareEndpoint(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	other := &models.Product{Name: "Fitness Band", ShopID: e.shopID, CategoryID: e.categoryID, Price: 59, IsActive: true}
	if err := e.products.Create(ctx, other); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	rec := e.do(t, http.MethodPost, "/api/products/compare", "", map[string]any{
		"ids": []uuid.UUID{e.productID, other.ID},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("compare status = %d, body = %s", rec.Code, rec.Body)
	}
	got := decode[struct {
		Data []models.Product `json:"data"`
	}](t, rec)
	if len(got.Data) != 2 {
		t.Fatalf("got %d products, want 2", len(got.Data))
	}

	rec = e.do(t, http.MethodPost, "/api/products/compare", "", map[string]any{
		"ids": []uuid.UUID{e.productID},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("single-id compare status = %d, want 400", rec.Code)
	}
}

func TestShopFilters(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	second := &models.Shop{Name: "Cafe Corner", CategoryID: e.categoryID, Floor: 4, Location: "D-02", IsActive: true}
	if err := e.shops.Create(ctx, second); err != nil {
		t.Fatalf("seed shop: %v", err)
	}

	rec := e.do(t, http.MethodGet, "/api/shops/?floor=4", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("shops status = %d", rec.Code)
	}
	got := decode[struct {
		Data []models.Shop `json:"data"`
	}](t, rec)
	if len(got.Data) != 1 || got.Data[0].Name != "Cafe Corner" {
		t.Fatalf("floor filter returned %d shops", len(got.Data))
	}

	rec = e.do(t, http.MethodGet, "/api/shops/floor/4", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("shops by floor status = %d", rec.Code)
	}
}

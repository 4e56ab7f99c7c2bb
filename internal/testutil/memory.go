// Package testutil provides in-memory repository implementations used by
// service and handler tests in place of Postgres.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/models"
	"github.com/supermall/supermall-api/internal/pricing"
	"github.com/supermall/supermall-api/internal/repository"
)

type MemUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func NewMemUserRepo() *MemUserRepo {
	return &MemUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *MemUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *MemUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *MemUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == repository.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

type MemCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*models.Category
	// ShopCounts lets tests simulate categories still referenced by shops.
	ShopCounts map[uuid.UUID]int
}

func NewMemCategoryRepo() *MemCategoryRepo {
	return &MemCategoryRepo{
		categories: make(map[uuid.UUID]*models.Category),
		ShopCounts: make(map[uuid.UUID]int),
	}
}

func (r *MemCategoryRepo) Create(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *MemCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *MemCategoryRepo) List(_ context.Context, includeInactive bool) ([]*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Category
	for _, c := range r.categories {
		if !includeInactive && !c.IsActive {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemCategoryRepo) Update(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *MemCategoryRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.IsActive = false
	return nil
}

func (r *MemCategoryRepo) ActiveShopCount(_ context.Context, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ShopCounts[id], nil
}

type MemShopRepo struct {
	mu    sync.Mutex
	shops map[uuid.UUID]*models.Shop
}

func NewMemShopRepo() *MemShopRepo {
	return &MemShopRepo{shops: make(map[uuid.UUID]*models.Shop)}
}

func (r *MemShopRepo) Create(_ context.Context, s *models.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now().UTC()
	cp := *s
	r.shops[s.ID] = &cp
	return nil
}

func (r *MemShopRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shops[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *MemShopRepo) List(_ context.Context, f repository.ShopFilter) ([]*models.Shop, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Shop
	for _, s := range r.shops {
		if !s.IsActive {
			continue
		}
		if f.CategoryID != nil && s.CategoryID != *f.CategoryID {
			continue
		}
		if f.Floor != nil && s.Floor != *f.Floor {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(s.Name), needle) &&
				!strings.Contains(strings.ToLower(s.Description), needle) &&
				!strings.Contains(strings.ToLower(s.Location), needle) {
				continue
			}
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (r *MemShopRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Shop, error) {
	out, _, err := r.List(ctx, repository.ShopFilter{CategoryID: &categoryID})
	return out, err
}

func (r *MemShopRepo) ListByFloor(ctx context.Context, floor int) ([]*models.Shop, error) {
	out, _, err := r.List(ctx, repository.ShopFilter{Floor: &floor})
	return out, err
}

func (r *MemShopRepo) Update(_ context.Context, s *models.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shops[s.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *s
	r.shops[s.ID] = &cp
	return nil
}

func (r *MemShopRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shops[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.IsActive = false
	return nil
}

func (r *MemShopRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.shops[id]
	return ok, nil
}

type MemProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
}

func NewMemProductRepo() *MemProductRepo {
	return &MemProductRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (r *MemProductRepo) Create(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now().UTC()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *MemProductRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || !p.IsActive {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemProductRepo) GetAnyByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*models.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Product
	for _, p := range r.products {
		if !p.IsActive {
			continue
		}
		if f.ShopID != nil && p.ShopID != *f.ShopID {
			continue
		}
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.OnOffer && !p.IsOnOffer {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (r *MemProductRepo) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*models.Product, error) {
	out, _, err := r.List(ctx, repository.ProductFilter{ShopID: &shopID})
	return out, err
}

func (r *MemProductRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Product, error) {
	out, _, err := r.List(ctx, repository.ProductFilter{CategoryID: &categoryID})
	return out, err
}

func (r *MemProductRepo) Update(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *MemProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsActive = false
	return nil
}

func (r *MemProductRepo) SetOnOffer(_ context.Context, id uuid.UUID, onOffer bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsOnOffer = onOffer
	return nil
}

func (r *MemProductRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.products[id]
	return ok, nil
}

type MemOfferRepo struct {
	mu     sync.Mutex
	offers map[uuid.UUID]*models.Offer
}

func NewMemOfferRepo() *MemOfferRepo {
	return &MemOfferRepo{offers: make(map[uuid.UUID]*models.Offer)}
}

func (r *MemOfferRepo) Create(_ context.Context, o *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now().UTC()
	cp := *o
	r.offers[o.ID] = &cp
	return nil
}

func (r *MemOfferRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *MemOfferRepo) List(_ context.Context, f repository.OfferFilter) ([]*models.Offer, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Offer
	for _, o := range r.offers {
		if f.ShopID != nil && o.ShopID != *f.ShopID {
			continue
		}
		if f.ActiveAt != nil {
			if !o.IsActive || f.ActiveAt.Before(o.StartDate) || f.ActiveAt.After(o.EndDate) {
				continue
			}
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (r *MemOfferRepo) ListByShop(_ context.Context, shopID uuid.UUID) ([]*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Offer
	for _, o := range r.offers {
		if o.ShopID == shopID && o.IsActive {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemOfferRepo) Update(_ context.Context, o *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[o.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *o
	r.offers[o.ID] = &cp
	return nil
}

func (r *MemOfferRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.IsActive = false
	return nil
}

// ClaimUsage mirrors the SQL conditional increment: check and bump under one
// lock.
func (r *MemOfferRepo) ClaimUsage(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if o.MaxUsage != nil && o.CurrentUsage >= *o.MaxUsage {
		return 0, pricing.ErrUsageCapExceeded
	}
	o.CurrentUsage++
	return o.CurrentUsage, nil
}

type MemBannerRepo struct {
	mu      sync.Mutex
	banners map[uuid.UUID]*models.Banner
}

func NewMemBannerRepo() *MemBannerRepo {
	return &MemBannerRepo{banners: make(map[uuid.UUID]*models.Banner)}
}

func (r *MemBannerRepo) Create(_ context.Context, b *models.Banner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now().UTC()
	cp := *b
	r.banners[b.ID] = &cp
	return nil
}

func (r *MemBannerRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Banner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.banners[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *MemBannerRepo) ListActive(_ context.Context, now time.Time, limit int) ([]*models.Banner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Banner
	for _, b := range r.banners {
		if b.CurrentlyActive(now) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemBannerRepo) ListAll(_ context.Context, _ repository.Page) ([]*models.Banner, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Banner
	for _, b := range r.banners {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (r *MemBannerRepo) Update(_ context.Context, b *models.Banner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.banners[b.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *b
	r.banners[b.ID] = &cp
	return nil
}

func (r *MemBannerRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.banners[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.IsActive = false
	return nil
}

func (r *MemBannerRepo) RecordImpressions(_ context.Context, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if b, ok := r.banners[id]; ok {
			b.ImpressionCount++
		}
	}
	return nil
}

func (r *MemBannerRepo) RecordClick(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.banners[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.ClickCount++
	return nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/concurrency"
	"github.com/supermall/supermall-api/internal/models"
	"github.com/supermall/supermall-api/internal/repository"
)

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetAnyByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, f repository.ProductFilter) ([]*models.Product, int, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*models.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SetOnOffer(ctx context.Context, id uuid.UUID, onOffer bool) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type ProductService struct {
	products   ProductRepo
	shops      ShopRepo
	categories CategoryRepo
}

func NewProductService(products ProductRepo, shops ShopRepo, categories CategoryRepo) *ProductService {
	return &ProductService{products: products, shops: shops, categories: categories}
}

type ProductInput struct {
	Name          string
	Description   string
	Price         float64
	OriginalPrice float64
	ShopID        uuid.UUID
	CategoryID    uuid.UUID
	Images        []string
	Features      []models.Feature
	Stock         int
	Tags          []string
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Price < 0 || in.OriginalPrice < 0 {
		return nil, ErrNegativePrice
	}
	if ok, err := s.shops.Exists(ctx, in.ShopID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidShopRef
	}
	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCategoryRef
		}
		return nil, err
	}

	p := &models.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		ShopID:        in.ShopID,
		CategoryID:    in.CategoryID,
		Images:        in.Images,
		Features:      in.Features,
		Stock:         in.Stock,
		Tags:          in.Tags,
		IsActive:      true,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, p.ID)
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]*models.Product, int, error) {
	return s.products.List(ctx, f)
}

func (s *ProductService) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*models.Product, error) {
	return s.products.ListByShop(ctx, shopID)
}

func (s *ProductService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Product, error) {
	return s.products.ListByCategory(ctx, categoryID)
}

// Compare fetches the requested products concurrently and returns them in
// request order, skipping ids that are missing or inactive.
func (s *ProductService) Compare(ctx context.Context, ids []uuid.UUID) ([]*models.Product, error) {
	results := make([]*models.Product, len(ids))
	var firstErr error
	var mu sync.Mutex

	concurrency.ForEach(ctx, 4, len(ids), func(ctx context.Context, i int) {
		p, err := s.products.GetByID(ctx, ids[i])
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
			return
		}
		results[i] = p
	})
	if firstErr != nil {
		return nil, firstErr
	}

	products := make([]*models.Product, 0, len(ids))
	for _, p := range results {
		if p != nil {
			products = append(products, p)
		}
	}
	return products, nil
}

type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *float64
	OriginalPrice *float64
	ShopID        *uuid.UUID
	CategoryID    *uuid.UUID
	Images        []string
	Features      []models.Feature
	Stock         *int
	Tags          []string
	IsActive      *bool
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*models.Product, error) {
	p, err := s.products.GetAnyByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.ShopID != nil {
		if ok, err := s.shops.Exists(ctx, *in.ShopID); err != nil {
			return nil, err
		} else if !ok {
			return nil, ErrInvalidShopRef
		}
		p.ShopID = *in.ShopID
	}
	if in.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvalidCategoryRef
			}
			return nil, err
		}
		p.CategoryID = *in.CategoryID
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, ErrNegativePrice
		}
		p.Price = *in.Price
	}
	if in.OriginalPrice != nil {
		if *in.OriginalPrice < 0 {
			return nil, ErrNegativePrice
		}
		p.OriginalPrice = *in.OriginalPrice
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.Features != nil {
		p.Features = in.Features
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.products.GetAnyByID(ctx, p.ID)
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.products.SoftDelete(ctx, id)
}

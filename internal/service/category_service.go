package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/models"
)

type CategoryRepo interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context, includeInactive bool) ([]*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ActiveShopCount(ctx context.Context, id uuid.UUID) (int, error)
}

type CategoryService struct {
	categories CategoryRepo
}

func NewCategoryService(categories CategoryRepo) *CategoryService {
	return &CategoryService{categories: categories}
}

type CategoryInput struct {
	Name        string
	Description string
	ImageURL    string
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	c := &models.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    in.ImageURL,
		IsActive:    true,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context, includeInactive bool) ([]*models.Category, error) {
	return s.categories.List(ctx, includeInactive)
}

type UpdateCategoryInput struct {
	Name        *string
	Description *string
	ImageURL    *string
	IsActive    *bool
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in UpdateCategoryInput) (*models.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.ImageURL != nil {
		c.ImageURL = *in.ImageURL
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete soft-deletes; rejected while active shops still reference the
// category.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.categories.ActiveShopCount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryInUse
	}
	return s.categories.SoftDelete(ctx, id)
}

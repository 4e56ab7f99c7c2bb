package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/auth"
	"github.com/supermall/supermall-api/internal/models"
	"github.com/supermall/supermall-api/internal/repository"
)

type ShopRepo interface {
	Create(ctx context.Context, s *models.Shop) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	List(ctx context.Context, f repository.ShopFilter) ([]*models.Shop, int, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Shop, error)
	ListByFloor(ctx context.Context, floor int) ([]*models.Shop, error)
	Update(ctx context.Context, s *models.Shop) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type ShopService struct {
	shops      ShopRepo
	categories CategoryRepo
}

func NewShopService(shops ShopRepo, categories CategoryRepo) *ShopService {
	return &ShopService{shops: shops, categories: categories}
}

type ShopInput struct {
	Name          string
	Description   string
	CategoryID    uuid.UUID
	Location      string
	Floor         int
	ContactNumber string
	Email         string
	ImageURL      string
	OpenTime      string
	CloseTime     string
}

func (s *ShopService) Create(ctx context.Context, ownerID uuid.UUID, in ShopInput) (*models.Shop, error) {
	if in.Floor < 1 {
		return nil, ErrInvalidFloor
	}
	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCategoryRef
		}
		return nil, err
	}

	hours := models.OperatingHours{Open: in.OpenTime, Close: in.CloseTime}
	if hours.Open == "" {
		hours.Open = "09:00"
	}
	if hours.Close == "" {
		hours.Close = "21:00"
	}

	shop := &models.Shop{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		OwnerID:       ownerID,
		CategoryID:    in.CategoryID,
		Location:      strings.TrimSpace(in.Location),
		Floor:         in.Floor,
		ContactNumber: in.ContactNumber,
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		ImageURL:      in.ImageURL,
		Hours:         hours,
		IsActive:      true,
	}
	if err := s.shops.Create(ctx, shop); err != nil {
		return nil, err
	}
	return s.shops.GetByID(ctx, shop.ID)
}

// Get returns an active shop only; soft-deleted shops are invisible to the
// public endpoints.
func (s *ShopService) Get(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	shop, err := s.shops.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !shop.IsActive {
		return nil, repository.ErrNotFound
	}
	return shop, nil
}

func (s *ShopService) List(ctx context.Context, f repository.ShopFilter) ([]*models.Shop, int, error) {
	return s.shops.List(ctx, f)
}

func (s *ShopService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Shop, error) {
	return s.shops.ListByCategory(ctx, categoryID)
}

func (s *ShopService) ListByFloor(ctx context.Context, floor int) ([]*models.Shop, error) {
	return s.shops.ListByFloor(ctx, floor)
}

type UpdateShopInput struct {
	Name          *string
	Description   *string
	CategoryID    *uuid.UUID
	Location      *string
	Floor         *int
	ContactNumber *string
	Email         *string
	ImageURL      *string
	OpenTime      *string
	CloseTime     *string
	IsActive      *bool
}

// Update is allowed for admins and for the shop's owner.
func (s *ShopService) Update(ctx context.Context, actor auth.Claims, id uuid.UUID, in UpdateShopInput) (*models.Shop, error) {
	shop, err := s.shops.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && shop.OwnerID != actor.UserID {
		return nil, ErrNotAuthorized
	}

	if in.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvalidCategoryRef
			}
			return nil, err
		}
		shop.CategoryID = *in.CategoryID
	}
	if in.Floor != nil {
		if *in.Floor < 1 {
			return nil, ErrInvalidFloor
		}
		shop.Floor = *in.Floor
	}
	if in.Name != nil {
		shop.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		shop.Description = strings.TrimSpace(*in.Description)
	}
	if in.Location != nil {
		shop.Location = strings.TrimSpace(*in.Location)
	}
	if in.ContactNumber != nil {
		shop.ContactNumber = *in.ContactNumber
	}
	if in.Email != nil {
		shop.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.ImageURL != nil {
		shop.ImageURL = *in.ImageURL
	}
	if in.OpenTime != nil {
		shop.Hours.Open = *in.OpenTime
	}
	if in.CloseTime != nil {
		shop.Hours.Close = *in.CloseTime
	}
	if in.IsActive != nil {
		shop.IsActive = *in.IsActive
	}

	if err := s.shops.Update(ctx, shop); err != nil {
		return nil, err
	}
	return s.shops.GetByID(ctx, shop.ID)
}

func (s *ShopService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.shops.SoftDelete(ctx, id)
}

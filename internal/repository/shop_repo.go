package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/models"
)

type ShopRepo struct {
	db *sql.DB
}

func NewShopRepo(db *sql.DB) *ShopRepo {
	return &ShopRepo{db: db}
}

// ShopFilter narrows the public shop listing.
type ShopFilter struct {
	CategoryID *uuid.UUID
	Floor      *int
	Search     string
	Page       Page
}

const shopSelect = `
	SELECT s.id, s.name, s.description, s.owner_id, s.category_id, s.location, s.floor,
	       s.contact_number, s.email, s.image_url, s.open_time, s.close_time,
	       s.is_active, s.rating, s.total_ratings, s.created_at, s.updated_at,
	       c.name, u.name, u.email
	FROM shops s
	JOIN categories c ON c.id = s.category_id
	JOIN users u ON u.id = s.owner_id
`

func scanShop(sc interface{ Scan(...any) error }) (*models.Shop, error) {
	var (
		s                     models.Shop
		categoryName          string
		ownerName, ownerEmail string
	)
	err := sc.Scan(
		&s.ID, &s.Name, &s.Description, &s.OwnerID, &s.CategoryID, &s.Location, &s.Floor,
		&s.ContactNumber, &s.Email, &s.ImageURL, &s.Hours.Open, &s.Hours.Close,
		&s.IsActive, &s.Rating, &s.TotalRatings, &s.CreatedAt, &s.UpdatedAt,
		&categoryName, &ownerName, &ownerEmail,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.Category = &models.CategoryRef{ID: s.CategoryID, Name: categoryName}
	s.Owner = &models.UserRef{ID: s.OwnerID, Name: ownerName, Email: ownerEmail}
	return &s, nil
}

func (r *ShopRepo) Create(ctx context.Context, s *models.Shop) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now

	query := `
		INSERT INTO shops
		(id, name, description, owner_id, category_id, location, floor, contact_number,
		 email, image_url, open_time, close_time, is_active, rating, total_ratings, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Description, s.OwnerID, s.CategoryID, s.Location, s.Floor, s.ContactNumber,
		s.Email, s.ImageURL, s.Hours.Open, s.Hours.Close, s.IsActive, s.Rating, s.TotalRatings,
		s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// GetByID returns the shop regardless of its visibility flag; callers that
// serve public traffic filter on IsActive themselves.
func (r *ShopRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	query := shopSelect + ` WHERE s.id = $1`
	return scanShop(r.db.QueryRowContext(ctx, query, id))
}

func (r *ShopRepo) List(ctx context.Context, f ShopFilter) ([]*models.Shop, int, error) {
	where := `WHERE s.is_active`
	args := []any{}

	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where += fmt.Sprintf(` AND s.category_id = $%d`, len(args))
	}
	if f.Floor != nil {
		args = append(args, *f.Floor)
		where += fmt.Sprintf(` AND s.floor = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (s.name ILIKE $%d OR s.description ILIKE $%d OR s.location ILIKE $%d)`, n, n, n)
	}

	var total int
	countQ := `SELECT COUNT(*) FROM shops s ` + where
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := f.Page.normalized()
	args = append(args, page.Limit, page.offset())
	listQ := fmt.Sprintf(`%s %s ORDER BY s.created_at DESC LIMIT $%d OFFSET $%d`,
		shopSelect, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, listQ, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var shops []*models.Shop
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, 0, err
		}
		shops = append(shops, s)
	}
	return shops, total, rows.Err()
}

func (r *ShopRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Shop, error) {
	return r.listWhere(ctx, ` WHERE s.category_id = $1 AND s.is_active ORDER BY s.created_at DESC`, categoryID)
}

func (r *ShopRepo) ListByFloor(ctx context.Context, floor int) ([]*models.Shop, error) {
	return r.listWhere(ctx, ` WHERE s.floor = $1 AND s.is_active ORDER BY s.created_at DESC`, floor)
}

func (r *ShopRepo) listWhere(ctx context.Context, clause string, args ...any) ([]*models.Shop, error) {
	rows, err := r.db.QueryContext(ctx, shopSelect+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shops []*models.Shop
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		shops = append(shops, s)
	}
	return shops, rows.Err()
}

func (r *ShopRepo) Update(ctx context.Context, s *models.Shop) error {
	s.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE shops
		SET name = $2, description = $3, category_id = $4, location = $5, floor = $6,
		    contact_number = $7, email = $8, image_url = $9, open_time = $10, close_time = $11,
		    is_active = $12, updated_at = $13
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Description, s.CategoryID, s.Location, s.Floor,
		s.ContactNumber, s.Email, s.ImageURL, s.Hours.Open, s.Hours.Close,
		s.IsActive, s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *ShopRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shops SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *ShopRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM shops WHERE id = $1)`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

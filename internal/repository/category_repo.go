package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/supermall/supermall-api/internal/models"
)

type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

const categoryColumns = `id, name, description, image_url, is_active, created_at, updated_at`

func scanCategory(sc interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := sc.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.ImageURL,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *models.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	query := `
		INSERT INTO categories (id, name, description, image_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Description, c.ImageURL, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *CategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return scanCategory(r.db.QueryRowContext(ctx, query, id))
}

func (r *CategoryRepo) List(ctx context.Context, includeInactive bool) ([]*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepo) Update(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE categories
		SET name = $2, description = $3, image_url = $4, is_active = $5, updated_at = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Description, c.ImageURL, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SoftDelete hides the category; the row is never physically removed.
func (r *CategoryRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE categories SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ActiveShopCount counts active shops still referencing the category.
func (r *CategoryRepo) ActiveShopCount(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM shops WHERE category_id = $1 AND is_active`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

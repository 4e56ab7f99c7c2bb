package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/supermall/supermall-api/internal/models"
)

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// ProductFilter narrows the public product listing.
type ProductFilter struct {
	ShopID     *uuid.UUID
	CategoryID *uuid.UUID
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	OnOffer    bool
	Page       Page
}

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.original_price, p.shop_id, p.category_id,
	       p.images, p.features, p.stock, p.is_active, p.is_on_offer, p.tags,
	       p.rating, p.total_ratings, p.created_at, p.updated_at,
	       s.name, s.location, s.floor, c.name
	FROM products p
	JOIN shops s ON s.id = p.shop_id
	JOIN categories c ON c.id = p.category_id
`

func scanProduct(sc interface{ Scan(...any) error }) (*models.Product, error) {
	var (
		p            models.Product
		featuresRaw  []byte
		shopName     string
		shopLocation string
		shopFloor    int
		categoryName string
	)
	err := sc.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.ShopID, &p.CategoryID,
		pq.Array(&p.Images), &featuresRaw, &p.Stock, &p.IsActive, &p.IsOnOffer, pq.Array(&p.Tags),
		&p.Rating, &p.TotalRatings, &p.CreatedAt, &p.UpdatedAt,
		&shopName, &shopLocation, &shopFloor, &categoryName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(featuresRaw) > 0 {
		if err := json.Unmarshal(featuresRaw, &p.Features); err != nil {
			return nil, fmt.Errorf("decode product features: %w", err)
		}
	}
	p.Shop = &models.ShopRef{ID: p.ShopID, Name: shopName, Location: shopLocation, Floor: shopFloor}
	p.Category = &models.CategoryRef{ID: p.CategoryID, Name: categoryName}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	features, err := json.Marshal(p.Features)
	if err != nil {
		return fmt.Errorf("encode product features: %w", err)
	}

	query := `
		INSERT INTO products
		(id, name, description, price, original_price, shop_id, category_id, images, features,
		 stock, is_active, is_on_offer, tags, rating, total_ratings, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.ShopID, p.CategoryID,
		pq.Array(p.Images), features, p.Stock, p.IsActive, p.IsOnOffer, pq.Array(p.Tags),
		p.Rating, p.TotalRatings, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := productSelect + ` WHERE p.id = $1 AND p.is_active`
	return scanProduct(r.db.QueryRowContext(ctx, query, id))
}

// GetAnyByID ignores the visibility flag; used by admin edits.
func (r *ProductRepo) GetAnyByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := productSelect + ` WHERE p.id = $1`
	return scanProduct(r.db.QueryRowContext(ctx, query, id))
}

func (r *ProductRepo) List(ctx context.Context, f ProductFilter) ([]*models.Product, int, error) {
	where := `WHERE p.is_active`
	args := []any{}

	if f.ShopID != nil {
		args = append(args, *f.ShopID)
		where += fmt.Sprintf(` AND p.shop_id = $%d`, len(args))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where += fmt.Sprintf(` AND p.category_id = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where += fmt.Sprintf(
			` AND (p.name ILIKE $%d OR p.description ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(p.tags) t WHERE t ILIKE $%d))`,
			n, n, n)
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		where += fmt.Sprintf(` AND p.price >= $%d`, len(args))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		where += fmt.Sprintf(` AND p.price <= $%d`, len(args))
	}
	if f.OnOffer {
		where += ` AND p.is_on_offer`
	}

	var total int
	countQ := `SELECT COUNT(*) FROM products p ` + where
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := f.Page.normalized()
	args = append(args, page.Limit, page.offset())
	listQ := fmt.Sprintf(`%s %s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`,
		productSelect, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, listQ, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *ProductRepo) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*models.Product, error) {
	return r.listWhere(ctx, ` WHERE p.shop_id = $1 AND p.is_active ORDER BY p.created_at DESC`, shopID)
}

func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Product, error) {
	return r.listWhere(ctx, ` WHERE p.category_id = $1 AND p.is_active ORDER BY p.created_at DESC`, categoryID)
}

func (r *ProductRepo) listWhere(ctx context.Context, clause string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, productSelect+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepo) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now().UTC()

	features, err := json.Marshal(p.Features)
	if err != nil {
		return fmt.Errorf("encode product features: %w", err)
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, original_price = $5, shop_id = $6,
		    category_id = $7, images = $8, features = $9, stock = $10, is_active = $11,
		    is_on_offer = $12, tags = $13, updated_at = $14
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.ShopID,
		p.CategoryID, pq.Array(p.Images), features, p.Stock, p.IsActive,
		p.IsOnOffer, pq.Array(p.Tags), p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *ProductRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SetOnOffer flips the catalog flag that marks the product as discounted.
func (r *ProductRepo) SetOnOffer(ctx context.Context, id uuid.UUID, onOffer bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_on_offer = $2, updated_at = NOW() WHERE id = $1`, id, onOffer)
	return err
}

func (r *ProductRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/supermall/supermall-api/internal/models"
	"github.com/supermall/supermall-api/internal/pricing"
)

type OfferRepo struct {
	db *sql.DB
}

func NewOfferRepo(db *sql.DB) *OfferRepo {
	return &OfferRepo{db: db}
}

// OfferFilter narrows the public offer listing. ActiveAt, when set, keeps
// only offers whose window admits that instant.
type OfferFilter struct {
	ShopID   *uuid.UUID
	ActiveAt *time.Time
	Page     Page
}

const offerSelect = `
	SELECT o.id, o.title, o.description, o.shop_id, o.product_id,
	       o.discount_type, o.discount_value, o.original_price, o.offer_price,
	       o.start_date, o.end_date, o.image_url, o.is_active,
	       o.max_usage, o.current_usage, o.terms, o.created_at, o.updated_at,
	       s.name, s.location, s.floor, p.name, p.images
	FROM offers o
	JOIN shops s ON s.id = o.shop_id
	JOIN products p ON p.id = o.product_id
`

func scanOffer(sc interface{ Scan(...any) error }) (*models.Offer, error) {
	var (
		o             models.Offer
		maxUsage      sql.NullInt64
		shopName      string
		shopLocation  string
		shopFloor     int
		productName   string
		productImages []string
	)
	err := sc.Scan(
		&o.ID, &o.Title, &o.Description, &o.ShopID, &o.ProductID,
		&o.DiscountType, &o.DiscountValue, &o.OriginalPrice, &o.OfferPrice,
		&o.StartDate, &o.EndDate, &o.ImageURL, &o.IsActive,
		&maxUsage, &o.CurrentUsage, &o.Terms, &o.CreatedAt, &o.UpdatedAt,
		&shopName, &shopLocation, &shopFloor, &productName, pq.Array(&productImages),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if maxUsage.Valid {
		o.MaxUsage = &maxUsage.Int64
	}
	o.Shop = &models.ShopRef{ID: o.ShopID, Name: shopName, Location: shopLocation, Floor: shopFloor}
	o.Product = &models.ProductRef{ID: o.ProductID, Name: productName, Images: productImages}
	return &o, nil
}

func (r *OfferRepo) Create(ctx context.Context, o *models.Offer) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now

	query := `
		INSERT INTO offers
		(id, title, description, shop_id, product_id, discount_type, discount_value,
		 original_price, offer_price, start_date, end_date, image_url, is_active,
		 max_usage, current_usage, terms, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`
	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.Title, o.Description, o.ShopID, o.ProductID, o.DiscountType, o.DiscountValue,
		o.OriginalPrice, o.OfferPrice, o.StartDate, o.EndDate, o.ImageURL, o.IsActive,
		o.MaxUsage, o.CurrentUsage, o.Terms, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func (r *OfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	query := offerSelect + ` WHERE o.id = $1`
	return scanOffer(r.db.QueryRowContext(ctx, query, id))
}

func (r *OfferRepo) List(ctx context.Context, f OfferFilter) ([]*models.Offer, int, error) {
	where := `WHERE TRUE`
	args := []any{}

	if f.ShopID != nil {
		args = append(args, *f.ShopID)
		where += fmt.Sprintf(` AND o.shop_id = $%d`, len(args))
	}
	if f.ActiveAt != nil {
		args = append(args, *f.ActiveAt)
		n := len(args)
		where += fmt.Sprintf(` AND o.is_active AND o.start_date <= $%d AND o.end_date >= $%d`, n, n)
	}

	var total int
	countQ := `SELECT COUNT(*) FROM offers o ` + where
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := f.Page.normalized()
	args = append(args, page.Limit, page.offset())
	listQ := fmt.Sprintf(`%s %s ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d`,
		offerSelect, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, listQ, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var offers []*models.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, 0, err
		}
		offers = append(offers, o)
	}
	return offers, total, rows.Err()
}

func (r *OfferRepo) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*models.Offer, error) {
	query := offerSelect + ` WHERE o.shop_id = $1 AND o.is_active ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []*models.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *OfferRepo) Update(ctx context.Context, o *models.Offer) error {
	o.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE offers
		SET title = $2, description = $3, shop_id = $4, product_id = $5, discount_type = $6,
		    discount_value = $7, original_price = $8, offer_price = $9, start_date = $10,
		    end_date = $11, image_url = $12, is_active = $13, max_usage = $14, terms = $15,
		    updated_at = $16
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		o.ID, o.Title, o.Description, o.ShopID, o.ProductID, o.DiscountType,
		o.DiscountValue, o.OriginalPrice, o.OfferPrice, o.StartDate,
		o.EndDate, o.ImageURL, o.IsActive, o.MaxUsage, o.Terms, o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *OfferRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE offers SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ClaimUsage consumes one redemption. The cap check and the increment are a
// single conditional UPDATE, so two racing claims can never push the counter
// past the cap. Returns the usage count after the claim.
func (r *OfferRepo) ClaimUsage(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE offers
		SET current_usage = current_usage + 1, updated_at = NOW()
		WHERE id = $1 AND (max_usage IS NULL OR current_usage < max_usage)
		RETURNING current_usage
	`
	var usage int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&usage)
	if err == nil {
		return usage, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// No row matched: either the offer is gone or the cap is exhausted.
	var exists bool
	existsQ := `SELECT EXISTS (SELECT 1 FROM offers WHERE id = $1)`
	if err := r.db.QueryRowContext(ctx, existsQ, id).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrNotFound
	}
	return 0, pricing.ErrUsageCapExceeded
}

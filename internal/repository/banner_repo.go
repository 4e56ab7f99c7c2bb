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
)

type BannerRepo struct {
	db *sql.DB
}

func NewBannerRepo(db *sql.DB) *BannerRepo {
	return &BannerRepo{db: db}
}

const bannerSelect = `
	SELECT b.id, b.title, b.description, b.image_url, b.link_url, b.shop_id,
	       b.is_active, b.priority, b.start_date, b.end_date,
	       b.click_count, b.impression_count, b.created_by, b.created_at, b.updated_at,
	       s.name, s.location, s.floor, u.name, u.email
	FROM banners b
	JOIN shops s ON s.id = b.shop_id
	JOIN users u ON u.id = b.created_by
`

func scanBanner(sc interface{ Scan(...any) error }) (*models.Banner, error) {
	var (
		b                       models.Banner
		shopName, shopLocation  string
		shopFloor               int
		creatorName, creatorEml string
	)
	err := sc.Scan(
		&b.ID, &b.Title, &b.Description, &b.ImageURL, &b.LinkURL, &b.ShopID,
		&b.IsActive, &b.Priority, &b.StartDate, &b.EndDate,
		&b.ClickCount, &b.ImpressionCount, &b.CreatedByID, &b.CreatedAt, &b.UpdatedAt,
		&shopName, &shopLocation, &shopFloor, &creatorName, &creatorEml,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b.Shop = &models.ShopRef{ID: b.ShopID, Name: shopName, Location: shopLocation, Floor: shopFloor}
	b.CreatedBy = &models.UserRef{ID: b.CreatedByID, Name: creatorName, Email: creatorEml}
	return &b, nil
}

func (r *BannerRepo) Create(ctx context.Context, b *models.Banner) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now

	query := `
		INSERT INTO banners
		(id, title, description, image_url, link_url, shop_id, is_active, priority,
		 start_date, end_date, click_count, impression_count, created_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.Title, b.Description, b.ImageURL, b.LinkURL, b.ShopID, b.IsActive, b.Priority,
		b.StartDate, b.EndDate, b.ClickCount, b.ImpressionCount, b.CreatedByID, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func (r *BannerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	query := bannerSelect + ` WHERE b.id = $1`
	return scanBanner(r.db.QueryRowContext(ctx, query, id))
}

// ListActive returns banners whose window admits now, best priority first.
func (r *BannerRepo) ListActive(ctx context.Context, now time.Time, limit int) ([]*models.Banner, error) {
	query := bannerSelect + `
		WHERE b.is_active AND b.start_date <= $1 AND b.end_date >= $1
		ORDER BY b.priority DESC, b.created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banners []*models.Banner
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

func (r *BannerRepo) ListAll(ctx context.Context, page Page) ([]*models.Banner, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM banners`).Scan(&total); err != nil {
		return nil, 0, err
	}

	p := page.normalized()
	query := fmt.Sprintf(`%s ORDER BY b.created_at DESC LIMIT $1 OFFSET $2`, bannerSelect)
	rows, err := r.db.QueryContext(ctx, query, p.Limit, p.offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var banners []*models.Banner
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, 0, err
		}
		banners = append(banners, b)
	}
	return banners, total, rows.Err()
}

func (r *BannerRepo) Update(ctx context.Context, b *models.Banner) error {
	b.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE banners
		SET title = $2, description = $3, image_url = $4, link_url = $5, shop_id = $6,
		    is_active = $7, priority = $8, start_date = $9, end_date = $10, updated_at = $11
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		b.ID, b.Title, b.Description, b.ImageURL, b.LinkURL, b.ShopID,
		b.IsActive, b.Priority, b.StartDate, b.EndDate, b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *BannerRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE banners SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// RecordImpressions adds one impression to every listed banner in a single
// atomic statement; no read-modify-write, so racing listings never lose an
// increment.
func (r *BannerRepo) RecordImpressions(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	query := `UPDATE banners SET impression_count = impression_count + 1 WHERE id = ANY($1::uuid[])`
	_, err := r.db.ExecContext(ctx, query, pq.Array(raw))
	return err
}

// RecordClick adds one click regardless of the banner's activity state;
// expired banners still track clicks.
func (r *BannerRepo) RecordClick(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE banners SET click_count = click_count + 1 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/model"
	"github.com/tekashi/storefront/internal/platform"
)

const productColumns = `id, name, description, price, stock, product_type_id, brand, model, sizes, colors,
	material, gender, age_group, season, active, featured, offer_active, offer_discount, offer_price,
	offer_starts_at, offer_ends_at, slug, meta_description, keywords, views, sales, rating_avg,
	rating_count, created_at, updated_at`

var qualifiedProductColumns = qualify("p", productColumns)

// ProductFilter narrows product listings. Zero values do not filter.
type ProductFilter struct {
	ProductTypeID string
	Brand         string
	Gender        string
	Featured      *bool
	MinPrice      *float64
	MaxPrice      *float64
	InStock       bool
	OnOffer       bool
	// IncludeInactive lists soft-deleted products too (admin views).
	IncludeInactive bool
}

type ProductService struct {
	db DB
}

func NewProductService(db DB) *ProductService {
	return &ProductService{db: db}
}

func scanProduct(row scanner, p *model.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ProductTypeID,
		&p.Brand, &p.Model, &p.Sizes, &p.Colors, &p.Material, &p.Gender, &p.AgeGroup,
		&p.Season, &p.Active, &p.Featured, &p.Offer.Active, &p.Offer.Discount,
		&p.Offer.OfferPrice, &p.Offer.StartsAt, &p.Offer.EndsAt, &p.Slug,
		&p.MetaDescription, &p.Keywords, &p.Views, &p.Sales, &p.RatingAvg,
		&p.RatingCount, &p.CreatedAt, &p.UpdatedAt)
}

func normalizeProduct(p *model.Product) {
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	if p.Gender == "" {
		p.Gender = "unisex"
	}
	p.Slug = Slugify(p.Name)
}

func (s *ProductService) Create(ctx context.Context, p *model.Product) error {
	if p.Stock < 0 || p.Price <= 0 {
		return fmt.Errorf("create product: %w", ErrInvalidInput)
	}
	if p.ID == "" {
		p.ID = platform.NewID()
	}
	normalizeProduct(p)
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := s.db.Exec(ctx,
		`INSERT INTO products (id, name, description, price, stock, product_type_id, brand, model,
		 sizes, colors, material, gender, age_group, season, active, featured, slug,
		 meta_description, keywords, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.ProductTypeID, p.Brand, p.Model,
		p.Sizes, p.Colors, p.Material, p.Gender, p.AgeGroup, p.Season, p.Active, p.Featured,
		p.Slug, p.MetaDescription, p.Keywords, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return conflict(err, "create product %s", p.Name)
	}
	return nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := scanProduct(s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id), &p)
	if err != nil {
		return nil, notFound(err, "get product %s", id)
	}
	return &p, nil
}

// RecordView increments the view counter of an active product.
func (s *ProductService) RecordView(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `UPDATE products SET views = views + 1 WHERE id = $1 AND active`, id)
	if err != nil {
		return fmt.Errorf("record product view %s: %w", id, err)
	}
	return nil
}

// List returns products matching the filter. params.Search matches name,
// brand, model and description.
func (s *ProductService) List(ctx context.Context, pf ProductFilter, params request.ListParams) ([]model.Product, bool, error) {
	var f filter
	if !pf.IncludeInactive {
		f.addRaw(`active`)
	}
	if params.Search != "" {
		f.add(`(name ILIKE ? OR brand ILIKE ? OR model ILIKE ? OR description ILIKE ?)`, "%"+params.Search+"%")
	}
	if pf.ProductTypeID != "" {
		f.add(`product_type_id = ?`, pf.ProductTypeID)
	}
	if pf.Brand != "" {
		f.add(`brand ILIKE ?`, pf.Brand)
	}
	if pf.Gender != "" {
		f.add(`gender = ?`, pf.Gender)
	}
	if pf.Featured != nil {
		f.add(`featured = ?`, *pf.Featured)
	}
	if pf.MinPrice != nil {
		f.add(`price >= ?`, *pf.MinPrice)
	}
	if pf.MaxPrice != nil {
		f.add(`price <= ?`, *pf.MaxPrice)
	}
	if pf.InStock {
		f.addRaw(`stock > 0`)
	}
	if pf.OnOffer {
		f.addRaw(`offer_active AND (offer_starts_at IS NULL OR offer_starts_at <= now()) AND (offer_ends_at IS NULL OR offer_ends_at >= now())`)
	}
	query := `SELECT ` + productColumns + ` FROM products` + f.where() +
		f.page(params, "created_at", "name", "price", "views", "sales", "rating_avg")

	rows, err := s.db.Query(ctx, query, f.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list products: %w", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, false, err
	}

	products, hasMore := trimPage(products, params.Limit)
	return products, hasMore, nil
}

// collectProducts scans and closes rows of productColumns.
func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// Update persists the catalog fields of p. Stock, offer and counters have
// dedicated setters.
func (s *ProductService) Update(ctx context.Context, p *model.Product) error {
	normalizeProduct(p)
	tag, err := s.db.Exec(ctx,
		`UPDATE products SET name = $1, description = $2, price = $3, product_type_id = $4,
		 brand = $5, model = $6, sizes = $7, colors = $8, material = $9, gender = $10,
		 age_group = $11, season = $12, active = $13, slug = $14, meta_description = $15,
		 keywords = $16, updated_at = now() WHERE id = $17`,
		p.Name, p.Description, p.Price, p.ProductTypeID, p.Brand, p.Model, p.Sizes, p.Colors,
		p.Material, p.Gender, p.AgeGroup, p.Season, p.Active, p.Slug, p.MetaDescription,
		p.Keywords, p.ID,
	)
	if err != nil {
		return conflict(err, "update product %s", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update product %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// Delete soft-deletes a product.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `UPDATE products SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete product %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *ProductService) SetFeatured(ctx context.Context, id string, featured bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE products SET featured = $1, updated_at = now() WHERE id = $2`, featured, id)
	if err != nil {
		return fmt.Errorf("set product featured %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set product featured %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetOffer replaces the offer of a product. The offer price is derived from
// the discount when not given.
func (s *ProductService) SetOffer(ctx context.Context, id string, offer model.Offer) (*model.Product, error) {
	if offer.Discount < 0 || offer.Discount > 100 {
		return nil, fmt.Errorf("set offer: discount %v: %w", offer.Discount, ErrInvalidInput)
	}
	if offer.StartsAt != nil && offer.EndsAt != nil && offer.EndsAt.Before(*offer.StartsAt) {
		return nil, fmt.Errorf("set offer: window ends before it starts: %w", ErrInvalidInput)
	}

	var p model.Product
	err := scanProduct(s.db.QueryRow(ctx,
		`UPDATE products SET offer_active = $1, offer_discount = $2,
		 offer_price = COALESCE($3, CASE WHEN $1 AND $2 > 0 THEN round(price * (1 - $2 / 100.0), 2) END),
		 offer_starts_at = $4, offer_ends_at = $5, updated_at = now()
		 WHERE id = $6 RETURNING `+productColumns,
		offer.Active, offer.Discount, offer.OfferPrice, offer.StartsAt, offer.EndsAt, id,
	), &p)
	if err != nil {
		return nil, notFound(err, "set product offer %s", id)
	}
	return &p, nil
}

// SetStock sets the absolute stock level.
func (s *ProductService) SetStock(ctx context.Context, id string, stock int) error {
	if stock < 0 {
		return fmt.Errorf("set stock %d: %w", stock, ErrInvalidInput)
	}
	tag, err := s.db.Exec(ctx, `UPDATE products SET stock = $1, updated_at = now() WHERE id = $2`, stock, id)
	if err != nil {
		return fmt.Errorf("set product stock %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set product stock %s: %w", id, ErrNotFound)
	}
	return nil
}

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tekashi/storefront/internal/model"
	"github.com/tekashi/storefront/internal/platform"
)

const productTypeColumns = `id, name, description, active, sort_order, slug, meta_description,
	keywords, product_count, created_at, updated_at`

type ProductTypeService struct {
	db DB
}

func NewProductTypeService(db DB) *ProductTypeService {
	return &ProductTypeService{db: db}
}

func scanProductType(row scanner, t *model.ProductType) error {
	return row.Scan(&t.ID, &t.Name, &t.Description, &t.Active, &t.SortOrder, &t.Slug,
		&t.MetaDescription, &t.Keywords, &t.ProductCount, &t.CreatedAt, &t.UpdatedAt)
}

func (s *ProductTypeService) Create(ctx context.Context, pt *model.ProductType) error {
	now := time.Now()
	if pt.ID == "" {
		pt.ID = platform.NewID()
	}
	pt.Slug = Slugify(pt.Name)
	if pt.Slug == "" {
		return fmt.Errorf("create product type: empty slug: %w", ErrInvalidInput)
	}
	if pt.Keywords == nil {
		pt.Keywords = []string{}
	}
	pt.CreatedAt, pt.UpdatedAt = now, now

	_, err := s.db.Exec(ctx,
		`INSERT INTO product_types (id, name, description, active, sort_order, slug, meta_description, keywords, product_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10)`,
		pt.ID, pt.Name, pt.Description, pt.Active, pt.SortOrder, pt.Slug,
		pt.MetaDescription, pt.Keywords, pt.CreatedAt, pt.UpdatedAt,
	)
	if err != nil {
		return conflict(err, "create product type %s", pt.Name)
	}
	return nil
}

func (s *ProductTypeService) GetByID(ctx context.Context, id string) (*model.ProductType, error) {
	var t model.ProductType
	err := scanProductType(s.db.QueryRow(ctx, `SELECT `+productTypeColumns+` FROM product_types WHERE id = $1`, id), &t)
	if err != nil {
		return nil, notFound(err, "get product type %s", id)
	}
	return &t, nil
}

func (s *ProductTypeService) GetBySlug(ctx context.Context, slug string) (*model.ProductType, error) {
	var t model.ProductType
	err := scanProductType(s.db.QueryRow(ctx,
		`SELECT `+productTypeColumns+` FROM product_types WHERE slug = $1 AND active`, slug), &t)
	if err != nil {
		return nil, notFound(err, "get product type by slug %s", slug)
	}
	return &t, nil
}

// List returns product types ordered for display. activeOnly hides inactive types.
func (s *ProductTypeService) List(ctx context.Context, activeOnly bool) ([]model.ProductType, error) {
	query := `SELECT ` + productTypeColumns + ` FROM product_types`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY sort_order, name`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list product types: %w", err)
	}
	defer rows.Close()

	types := []model.ProductType{}
	for rows.Next() {
		var t model.ProductType
		if err := scanProductType(rows, &t); err != nil {
			return nil, fmt.Errorf("scan product type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product types: %w", err)
	}
	return types, nil
}

// Update persists editable fields and re-derives the slug from the name.
func (s *ProductTypeService) Update(ctx context.Context, pt *model.ProductType) error {
	pt.Slug = Slugify(pt.Name)
	if pt.Keywords == nil {
		pt.Keywords = []string{}
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE product_types SET name = $1, description = $2, active = $3, slug = $4,
		 meta_description = $5, keywords = $6, updated_at = now() WHERE id = $7`,
		pt.Name, pt.Description, pt.Active, pt.Slug, pt.MetaDescription, pt.Keywords, pt.ID,
	)
	if err != nil {
		return conflict(err, "update product type %s", pt.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update product type %s: %w", pt.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a product type. Types still referenced by active products
// cannot be deleted.
func (s *ProductTypeService) Delete(ctx context.Context, id string) error {
	return inTx(ctx, s.db, func(tx pgx.Tx) error {
		var active int
		if err := tx.QueryRow(ctx,
			`SELECT count(*) FROM products WHERE product_type_id = $1 AND active`, id,
		).Scan(&active); err != nil {
			return fmt.Errorf("count products of type %s: %w", id, err)
		}
		if active > 0 {
			return fmt.Errorf("delete product type %s: %d active products: %w", id, active, ErrConflict)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM product_types WHERE id = $1`, id)
		if err != nil {
			return conflict(err, "delete product type %s", id)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("delete product type %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (s *ProductTypeService) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE product_types SET active = $1, updated_at = now() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("set product type active %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set product type active %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *ProductTypeService) SetSortOrder(ctx context.Context, id string, order int) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE product_types SET sort_order = $1, updated_at = now() WHERE id = $2`, order, id)
	if err != nil {
		return fmt.Errorf("set product type order %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set product type order %s: %w", id, ErrNotFound)
	}
	return nil
}

// Recount sets product_count to the number of active products of the type
// and returns the new count.
func (s *ProductTypeService) Recount(ctx context.Context, id string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`UPDATE product_types SET product_count = (
			SELECT count(*) FROM products WHERE product_type_id = $1 AND active
		 ), updated_at = now() WHERE id = $1 RETURNING product_count`, id,
	).Scan(&count)
	if err != nil {
		return 0, notFound(err, "recount product type %s", id)
	}
	return count, nil
}

package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tekashi/storefront/internal/model"
	"github.com/tekashi/storefront/internal/platform"
)

// Catalog is the import and export document of product types and products.
type Catalog struct {
	ProductTypes []CatalogProductType `json:"product_types" yaml:"product_types"`
	Products     []CatalogProduct     `json:"products" yaml:"products"`
}

type CatalogProductType struct {
	Name            string   `json:"name" yaml:"name"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	SortOrder       int      `json:"sort_order,omitempty" yaml:"sort_order,omitempty"`
	MetaDescription string   `json:"meta_description,omitempty" yaml:"meta_description,omitempty"`
	Keywords        []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

type CatalogProduct struct {
	Name            string   `json:"name" yaml:"name"`
	ProductType     string   `json:"product_type" yaml:"product_type"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	Price           float64  `json:"price" yaml:"price"`
	Stock           int      `json:"stock" yaml:"stock"`
	Brand           string   `json:"brand,omitempty" yaml:"brand,omitempty"`
	Model           string   `json:"model,omitempty" yaml:"model,omitempty"`
	Sizes           []string `json:"sizes,omitempty" yaml:"sizes,omitempty"`
	Colors          []string `json:"colors,omitempty" yaml:"colors,omitempty"`
	Material        string   `json:"material,omitempty" yaml:"material,omitempty"`
	Gender          string   `json:"gender,omitempty" yaml:"gender,omitempty"`
	AgeGroup        string   `json:"age_group,omitempty" yaml:"age_group,omitempty"`
	Season          string   `json:"season,omitempty" yaml:"season,omitempty"`
	Featured        bool     `json:"featured,omitempty" yaml:"featured,omitempty"`
	MetaDescription string   `json:"meta_description,omitempty" yaml:"meta_description,omitempty"`
	Keywords        []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// ImportError describes one catalog entry that could not be stored.
type ImportError struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ImportReport summarises a catalog import.
type ImportReport struct {
	ProductTypes int           `json:"product_types"`
	Products     int           `json:"products"`
	Errors       []ImportError `json:"errors"`
}

var validGenders = map[string]bool{"men": true, "women": true, "unisex": true, "kids": true}

// CatalogService imports and exports the catalog in bulk.
type CatalogService struct {
	db DB
}

func NewCatalogService(db DB) *CatalogService {
	return &CatalogService{db: db}
}

// ParseCatalog decodes a JSON or YAML catalog document.
func ParseCatalog(data []byte, contentType string) (*Catalog, error) {
	var c Catalog
	var err error
	if strings.Contains(contentType, "json") {
		err = json.Unmarshal(data, &c)
	} else {
		err = yaml.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %v: %w", err, ErrInvalidInput)
	}
	return &c, nil
}

// Import upserts product types and products by slug. A failing entry is
// reported and does not stop the rest of the batch.
func (s *CatalogService) Import(ctx context.Context, c *Catalog) (*ImportReport, error) {
	report := &ImportReport{Errors: []ImportError{}}
	typeIDs := make(map[string]string, len(c.ProductTypes))

	for _, t := range c.ProductTypes {
		slug := Slugify(t.Name)
		if slug == "" {
			report.Errors = append(report.Errors, ImportError{Kind: "product_type", Name: t.Name, Error: "name is required"})
			continue
		}
		keywords := t.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		var id string
		err := s.db.QueryRow(ctx,
			`INSERT INTO product_types (id, name, description, active, sort_order, slug, meta_description,
			 keywords, product_count, created_at, updated_at)
			 VALUES ($1, $2, $3, true, $4, $5, $6, $7, 0, now(), now())
			 ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
			 sort_order = EXCLUDED.sort_order, meta_description = EXCLUDED.meta_description,
			 keywords = EXCLUDED.keywords, active = true, updated_at = now()
			 RETURNING id`,
			platform.NewID(), t.Name, t.Description, t.SortOrder, slug, t.MetaDescription, keywords,
		).Scan(&id)
		if err != nil {
			report.Errors = append(report.Errors, ImportError{Kind: "product_type", Name: t.Name, Error: err.Error()})
			continue
		}
		typeIDs[slug] = id
		report.ProductTypes++
	}

	for _, p := range c.Products {
		if err := s.importProduct(ctx, p, typeIDs); err != nil {
			report.Errors = append(report.Errors, ImportError{Kind: "product", Name: p.Name, Error: err.Error()})
			continue
		}
		report.Products++
	}
	return report, nil
}

func (s *CatalogService) importProduct(ctx context.Context, cp CatalogProduct, typeIDs map[string]string) error {
	if cp.Price <= 0 {
		return fmt.Errorf("price must be positive")
	}
	if cp.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	if cp.Gender != "" && !validGenders[cp.Gender] {
		return fmt.Errorf("unknown gender %q", cp.Gender)
	}

	typeSlug := Slugify(cp.ProductType)
	typeID, ok := typeIDs[typeSlug]
	if !ok {
		if err := s.db.QueryRow(ctx,
			`SELECT id FROM product_types WHERE slug = $1`, typeSlug).Scan(&typeID); err != nil {
			if isNoRows(err) {
				return fmt.Errorf("unknown product type %q", cp.ProductType)
			}
			return err
		}
		typeIDs[typeSlug] = typeID
	}

	p := model.Product{
		Name: cp.Name, Description: cp.Description, Price: cp.Price, Stock: cp.Stock,
		ProductTypeID: typeID, Brand: cp.Brand, Model: cp.Model, Sizes: cp.Sizes, Colors: cp.Colors,
		Material: cp.Material, Gender: cp.Gender, AgeGroup: cp.AgeGroup, Season: cp.Season,
		Featured: cp.Featured, MetaDescription: cp.MetaDescription, Keywords: cp.Keywords,
	}
	normalizeProduct(&p)
	if p.Slug == "" {
		return fmt.Errorf("name is required")
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO products (id, name, description, price, stock, product_type_id, brand, model,
		 sizes, colors, material, gender, age_group, season, active, featured, slug,
		 meta_description, keywords, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, true, $15, $16, $17, $18, now(), now())
		 ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
		 price = EXCLUDED.price, stock = EXCLUDED.stock, product_type_id = EXCLUDED.product_type_id,
		 brand = EXCLUDED.brand, model = EXCLUDED.model, sizes = EXCLUDED.sizes, colors = EXCLUDED.colors,
		 material = EXCLUDED.material, gender = EXCLUDED.gender, age_group = EXCLUDED.age_group,
		 season = EXCLUDED.season, featured = EXCLUDED.featured, meta_description = EXCLUDED.meta_description,
		 keywords = EXCLUDED.keywords, active = true, updated_at = now()`,
		platform.NewID(), p.Name, p.Description, p.Price, p.Stock, p.ProductTypeID, p.Brand, p.Model,
		p.Sizes, p.Colors, p.Material, p.Gender, p.AgeGroup, p.Season, p.Featured, p.Slug,
		p.MetaDescription, p.Keywords,
	)
	return err
}

// Export renders the active catalog as YAML.
func (s *CatalogService) Export(ctx context.Context) ([]byte, error) {
	c := Catalog{ProductTypes: []CatalogProductType{}, Products: []CatalogProduct{}}

	rows, err := s.db.Query(ctx,
		`SELECT name, description, sort_order, meta_description, keywords
		 FROM product_types WHERE active ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("export product types: %w", err)
	}
	for rows.Next() {
		var t CatalogProductType
		if err := rows.Scan(&t.Name, &t.Description, &t.SortOrder, &t.MetaDescription, &t.Keywords); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan product type: %w", err)
		}
		c.ProductTypes = append(c.ProductTypes, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product types: %w", err)
	}

	rows, err = s.db.Query(ctx,
		`SELECT p.name, t.name, p.description, p.price, p.stock, p.brand, p.model, p.sizes, p.colors,
		 p.material, p.gender, p.age_group, p.season, p.featured, p.meta_description, p.keywords
		 FROM products p JOIN product_types t ON t.id = p.product_type_id
		 WHERE p.active ORDER BY t.sort_order, p.name`)
	if err != nil {
		return nil, fmt.Errorf("export products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p CatalogProduct
		if err := rows.Scan(&p.Name, &p.ProductType, &p.Description, &p.Price, &p.Stock, &p.Brand,
			&p.Model, &p.Sizes, &p.Colors, &p.Material, &p.Gender, &p.AgeGroup, &p.Season,
			&p.Featured, &p.MetaDescription, &p.Keywords); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		c.Products = append(c.Products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	out, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return out, nil
}

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

const favoriteColumns = `f.id, f.user_id, f.product_id, f.active, f.notes, f.priority, f.notify_offer,
	f.notify_stock, f.view_count, f.last_viewed_at, f.created_at, f.updated_at`

const productSummaryColumns = `p.id, p.name, p.brand, p.price, p.stock, p.active, p.offer_active, p.offer_discount`

// DefaultLowStockLimit is the stock level at or below which a favorite is
// reported as running out.
const DefaultLowStockLimit = 5

// FavoriteInput holds the editable fields of a favorite.
type FavoriteInput struct {
	Notes       string
	Priority    int
	NotifyOffer bool
	NotifyStock bool
}

// FavoritePatch holds optional favorite changes. Nil fields are left as is.
type FavoritePatch struct {
	Notes       *string
	Priority    *int
	NotifyOffer *bool
	NotifyStock *bool
}

type FavoriteService struct {
	db DB
}

func NewFavoriteService(db DB) *FavoriteService {
	return &FavoriteService{db: db}
}

func scanFavorite(row scanner, f *model.Favorite) error {
	return row.Scan(&f.ID, &f.UserID, &f.ProductID, &f.Active, &f.Notes, &f.Priority,
		&f.NotifyOffer, &f.NotifyStock, &f.ViewCount, &f.LastViewedAt, &f.CreatedAt, &f.UpdatedAt)
}

// summaryRow receives productSummaryColumns.
type summaryRow struct {
	ps          model.ProductSummary
	offerActive bool
	discount    float64
}

func (r *summaryRow) targets() []any {
	return []any{&r.ps.ID, &r.ps.Name, &r.ps.Brand, &r.ps.Price, &r.ps.Stock, &r.ps.Active,
		&r.offerActive, &r.discount}
}

func (r *summaryRow) summary() *model.ProductSummary {
	p := model.Product{Price: r.ps.Price, Offer: model.Offer{Active: r.offerActive, Discount: r.discount}}
	ps := r.ps
	ps.FinalPrice = p.FinalPrice()
	return &ps
}

func normalizePriority(p int) int {
	if p < 1 || p > 5 {
		return 3
	}
	return p
}

// ListMine returns the active favorites of a user with a summary of each product.
func (s *FavoriteService) ListMine(ctx context.Context, userID string, params request.ListParams) ([]model.Favorite, bool, error) {
	var f filter
	f.add(`f.user_id = ?`, userID)
	f.addRaw(`f.active`)
	params.Sort = "f." + sortOr(params.Sort, "created_at", "created_at", "priority", "view_count")
	query := `SELECT ` + favoriteColumns + `, ` + productSummaryColumns + `
		FROM favorites f JOIN products p ON p.id = f.product_id` + f.where() +
		f.page(params, params.Sort)

	rows, err := s.db.Query(ctx, query, f.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list favorites: %w", err)
	}
	favs, err := collectFavorites(rows)
	if err != nil {
		return nil, false, err
	}

	favs, hasMore := trimPage(favs, params.Limit)
	return favs, hasMore, nil
}

// collectFavorites scans rows of favoriteColumns followed by
// productSummaryColumns and closes rows.
func collectFavorites(rows pgx.Rows) ([]model.Favorite, error) {
	defer rows.Close()

	var favs []model.Favorite
	for rows.Next() {
		var fav model.Favorite
		var sr summaryRow
		targets := append([]any{&fav.ID, &fav.UserID, &fav.ProductID, &fav.Active, &fav.Notes,
			&fav.Priority, &fav.NotifyOffer, &fav.NotifyStock, &fav.ViewCount, &fav.LastViewedAt,
			&fav.CreatedAt, &fav.UpdatedAt}, sr.targets()...)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		fav.Product = sr.summary()
		favs = append(favs, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return favs, nil
}

// OnOffer returns the active favorites that asked for offer alerts and whose
// product currently has a running offer.
func (s *FavoriteService) OnOffer(ctx context.Context, userID string) ([]model.Favorite, error) {
	return s.alerts(ctx, "favorites on offer",
		`f.notify_offer AND p.offer_active
		 AND (p.offer_starts_at IS NULL OR p.offer_starts_at <= now())
		 AND (p.offer_ends_at IS NULL OR p.offer_ends_at >= now())`, userID)
}

// LowStock returns the active favorites that asked for stock alerts and whose
// product has at most limit units left.
func (s *FavoriteService) LowStock(ctx context.Context, userID string, limit int) ([]model.Favorite, error) {
	if limit < 0 {
		return nil, fmt.Errorf("stock limit cannot be negative: %w", ErrInvalidInput)
	}
	return s.alerts(ctx, "low stock favorites", `f.notify_stock AND p.stock <= $2`, userID, limit)
}

func (s *FavoriteService) alerts(ctx context.Context, what, cond string, args ...any) ([]model.Favorite, error) {
	rows, err := s.db.Query(ctx, `SELECT `+favoriteColumns+`, `+productSummaryColumns+`
		FROM favorites f JOIN products p ON p.id = f.product_id
		WHERE f.user_id = $1 AND f.active AND p.active AND `+cond+`
		ORDER BY f.priority DESC, f.created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	favs, err := collectFavorites(rows)
	if err != nil {
		return nil, err
	}
	if favs == nil {
		favs = []model.Favorite{}
	}
	return favs, nil
}

// Add marks a product as a favorite. A previously removed favorite is
// reactivated; an active one is a conflict.
func (s *FavoriteService) Add(ctx context.Context, userID, productID string, in FavoriteInput) (*model.Favorite, error) {
	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND active)`, productID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check product %s: %w", productID, err)
	}
	if !exists {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}

	now := time.Now()
	fav := model.Favorite{
		ID:          platform.NewID(),
		UserID:      userID,
		ProductID:   productID,
		Active:      true,
		Notes:       in.Notes,
		Priority:    normalizePriority(in.Priority),
		NotifyOffer: in.NotifyOffer,
		NotifyStock: in.NotifyStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Upsert only touches soft-deleted rows; no row back means an active duplicate.
	err := scanFavorite(s.db.QueryRow(ctx,
		`INSERT INTO favorites AS f (id, user_id, product_id, active, notes, priority, notify_offer,
		 notify_stock, view_count, created_at, updated_at)
		 VALUES ($1, $2, $3, true, $4, $5, $6, $7, 0, $8, $8)
		 ON CONFLICT (user_id, product_id) DO UPDATE SET active = true, notes = EXCLUDED.notes,
		 priority = EXCLUDED.priority, notify_offer = EXCLUDED.notify_offer,
		 notify_stock = EXCLUDED.notify_stock, updated_at = EXCLUDED.updated_at
		 WHERE NOT f.active
		 RETURNING `+favoriteColumns,
		fav.ID, userID, productID, fav.Notes, fav.Priority, fav.NotifyOffer, fav.NotifyStock, now,
	), &fav)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("favorite for product %s: %w", productID, ErrConflict)
		}
		return nil, fmt.Errorf("add favorite: %w", err)
	}
	return &fav, nil
}

// Update edits the notes, priority and notification flags of a favorite.
func (s *FavoriteService) Update(ctx context.Context, userID, id string, in FavoritePatch) (*model.Favorite, error) {
	if in.Priority != nil && (*in.Priority < 1 || *in.Priority > 5) {
		return nil, fmt.Errorf("priority must be between 1 and 5: %w", ErrInvalidInput)
	}
	var fav model.Favorite
	err := scanFavorite(s.db.QueryRow(ctx,
		`UPDATE favorites AS f SET notes = COALESCE($1, f.notes), priority = COALESCE($2, f.priority),
		 notify_offer = COALESCE($3, f.notify_offer), notify_stock = COALESCE($4, f.notify_stock),
		 updated_at = now() WHERE f.id = $5 AND f.user_id = $6 AND f.active
		 RETURNING `+favoriteColumns,
		in.Notes, in.Priority, in.NotifyOffer, in.NotifyStock, id, userID,
	), &fav)
	if err != nil {
		return nil, notFound(err, "update favorite %s", id)
	}
	return &fav, nil
}

// Remove soft-deletes the favorite of a product.
func (s *FavoriteService) Remove(ctx context.Context, userID, productID string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE favorites SET active = false, updated_at = now()
		 WHERE user_id = $1 AND product_id = $2 AND active`, userID, productID)
	if err != nil {
		return fmt.Errorf("remove favorite %s: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("remove favorite %s: %w", productID, ErrNotFound)
	}
	return nil
}

// Check reports whether the product is an active favorite of the user.
func (s *FavoriteService) Check(ctx context.Context, userID, productID string) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2 AND active)`,
		userID, productID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check favorite %s: %w", productID, err)
	}
	return ok, nil
}

func (s *FavoriteService) RecordView(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE favorites SET view_count = view_count + 1, last_viewed_at = now()
		 WHERE id = $1 AND user_id = $2 AND active`, id, userID)
	if err != nil {
		return fmt.Errorf("record favorite view %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record favorite view %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *FavoriteService) Stats(ctx context.Context) (*model.FavoriteStats, error) {
	var st model.FavoriteStats
	err := s.db.QueryRow(ctx,
		`SELECT count(*), count(DISTINCT product_id), count(DISTINCT user_id)
		 FROM favorites WHERE active`).Scan(&st.Total, &st.UniqueProducts, &st.UniqueUsers)
	if err != nil {
		return nil, fmt.Errorf("favorite stats: %w", err)
	}
	return &st, nil
}

// sortOr returns sort when it is one of allowed, otherwise fallback.
func sortOr(sort, fallback string, allowed ...string) string {
	for _, a := range allowed {
		if sort == a {
			return sort
		}
	}
	return fallback
}

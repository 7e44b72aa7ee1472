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

const wishlistColumns = `id, user_id, name, description, active, public, share_code, share_expires_at,
	share_max_uses, share_uses, notify_offers, notify_stock, notify_new_products, views,
	last_viewed_at, created_at, updated_at`

// WishlistInput holds the fields of a new wishlist.
type WishlistInput struct {
	Name        string
	Description string
	Public      bool
	ExpiresAt   *time.Time
	MaxUses     int
	Notify      model.WishlistNotify
}

// WishlistPatch holds optional wishlist changes. Nil fields are left as is.
type WishlistPatch struct {
	Name        *string
	Description *string
	Public      *bool
	ExpiresAt   *time.Time
	MaxUses     *int
	Notify      *model.WishlistNotify
}

// WishlistItemPatch holds optional item changes.
type WishlistItemPatch struct {
	Notes    *string
	Priority *int
	Quantity *int
}

type WishlistService struct {
	db DB
}

func NewWishlistService(db DB) *WishlistService {
	return &WishlistService{db: db}
}

func scanWishlist(row scanner, w *model.Wishlist) error {
	return row.Scan(&w.ID, &w.UserID, &w.Name, &w.Description, &w.Active, &w.Public,
		&w.Share.Code, &w.Share.ExpiresAt, &w.Share.MaxUses, &w.Share.Uses, &w.Notify.Offers,
		&w.Notify.Stock, &w.Notify.NewProducts, &w.Views, &w.LastViewedAt, &w.CreatedAt, &w.UpdatedAt)
}

func (s *WishlistService) Create(ctx context.Context, userID string, in WishlistInput) (*model.Wishlist, error) {
	if in.MaxUses < 0 {
		return nil, fmt.Errorf("max uses cannot be negative: %w", ErrInvalidInput)
	}
	now := time.Now()
	w := &model.Wishlist{
		ID:          platform.NewID(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Active:      true,
		Public:      in.Public,
		Notify:      in.Notify,
		Items:       []model.WishlistItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	w.Share = model.WishlistShare{Code: platform.ShareCode(w.ID), ExpiresAt: in.ExpiresAt, MaxUses: in.MaxUses}

	_, err := s.db.Exec(ctx,
		`INSERT INTO wishlists (id, user_id, name, description, active, public, share_code,
		 share_expires_at, share_max_uses, share_uses, notify_offers, notify_stock, notify_new_products,
		 views, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11, $12, 0, $13, $14)`,
		w.ID, w.UserID, w.Name, w.Description, w.Active, w.Public, w.Share.Code, w.Share.ExpiresAt,
		w.Share.MaxUses, w.Notify.Offers, w.Notify.Stock, w.Notify.NewProducts, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return nil, conflict(err, "create wishlist")
	}
	return w, nil
}

// Get returns a wishlist of the user with its items.
func (s *WishlistService) Get(ctx context.Context, userID, id string) (*model.Wishlist, error) {
	var w model.Wishlist
	err := scanWishlist(s.db.QueryRow(ctx,
		`SELECT `+wishlistColumns+` FROM wishlists WHERE id = $1 AND user_id = $2`, id, userID), &w)
	if err != nil {
		return nil, notFound(err, "get wishlist %s", id)
	}
	if err := s.loadItems(ctx, []*model.Wishlist{&w}); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *WishlistService) ListMine(ctx context.Context, userID string, params request.ListParams) ([]model.Wishlist, bool, error) {
	var f filter
	f.add(`user_id = ?`, userID)
	if params.Search != "" {
		f.add(`name ILIKE ?`, "%"+params.Search+"%")
	}
	query := `SELECT ` + wishlistColumns + ` FROM wishlists` + f.where() + f.page(params, "created_at", "name", "views")

	rows, err := s.db.Query(ctx, query, f.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list wishlists: %w", err)
	}
	defer rows.Close()

	var lists []model.Wishlist
	for rows.Next() {
		var w model.Wishlist
		if err := scanWishlist(rows, &w); err != nil {
			return nil, false, fmt.Errorf("scan wishlist: %w", err)
		}
		lists = append(lists, w)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate wishlists: %w", err)
	}

	lists, hasMore := trimPage(lists, params.Limit)
	ptrs := make([]*model.Wishlist, len(lists))
	for i := range lists {
		ptrs[i] = &lists[i]
	}
	if err := s.loadItems(ctx, ptrs); err != nil {
		return nil, false, err
	}
	return lists, hasMore, nil
}

func (s *WishlistService) Update(ctx context.Context, userID, id string, in WishlistPatch) (*model.Wishlist, error) {
	if in.MaxUses != nil && *in.MaxUses < 0 {
		return nil, fmt.Errorf("max uses cannot be negative: %w", ErrInvalidInput)
	}
	var offers, stock, newProducts *bool
	if in.Notify != nil {
		offers, stock, newProducts = &in.Notify.Offers, &in.Notify.Stock, &in.Notify.NewProducts
	}

	var w model.Wishlist
	err := scanWishlist(s.db.QueryRow(ctx,
		`UPDATE wishlists SET name = COALESCE($1, name), description = COALESCE($2, description),
		 public = COALESCE($3, public), share_expires_at = COALESCE($4, share_expires_at),
		 share_max_uses = COALESCE($5, share_max_uses), notify_offers = COALESCE($6, notify_offers),
		 notify_stock = COALESCE($7, notify_stock), notify_new_products = COALESCE($8, notify_new_products),
		 updated_at = now()
		 WHERE id = $9 AND user_id = $10
		 RETURNING `+wishlistColumns,
		in.Name, in.Description, in.Public, in.ExpiresAt, in.MaxUses, offers, stock, newProducts, id, userID,
	), &w)
	if err != nil {
		return nil, notFound(err, "update wishlist %s", id)
	}
	if err := s.loadItems(ctx, []*model.Wishlist{&w}); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *WishlistService) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM wishlists WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete wishlist %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete wishlist %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *WishlistService) owned(ctx context.Context, userID, id string) error {
	var ok bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM wishlists WHERE id = $1 AND user_id = $2)`, id, userID).Scan(&ok)
	if err != nil {
		return fmt.Errorf("check wishlist %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("wishlist %s: %w", id, ErrNotFound)
	}
	return nil
}

// AddItem adds a product to a wishlist. A product already on the list is a
// conflict.
func (s *WishlistService) AddItem(ctx context.Context, userID, id string, item model.WishlistItem) (*model.WishlistItem, error) {
	if err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, item.ProductID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check product %s: %w", item.ProductID, err)
	}
	if !exists {
		return nil, fmt.Errorf("product %s: %w", item.ProductID, ErrNotFound)
	}

	item.Priority = normalizePriority(item.Priority)
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	item.AddedAt = time.Now()

	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO wishlist_items (wishlist_id, product_id, added_at, notes, priority, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, item.ProductID, item.AddedAt, item.Notes, item.Priority, item.Quantity); err != nil {
			return conflict(err, "add %s to wishlist %s", item.ProductID, id)
		}
		if _, err := tx.Exec(ctx, `UPDATE wishlists SET updated_at = now() WHERE id = $1`, id); err != nil {
			return fmt.Errorf("touch wishlist %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *WishlistService) UpdateItem(ctx context.Context, userID, id, productID string, in WishlistItemPatch) error {
	if in.Priority != nil && (*in.Priority < 1 || *in.Priority > 5) {
		return fmt.Errorf("priority must be between 1 and 5: %w", ErrInvalidInput)
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrInvalidInput)
	}
	if err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE wishlist_items SET notes = COALESCE($1, notes), priority = COALESCE($2, priority),
		 quantity = COALESCE($3, quantity) WHERE wishlist_id = $4 AND product_id = $5`,
		in.Notes, in.Priority, in.Quantity, id, productID)
	if err != nil {
		return fmt.Errorf("update wishlist item %s: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wishlist item %s: %w", productID, ErrNotFound)
	}
	return nil
}

func (s *WishlistService) RemoveItem(ctx context.Context, userID, id, productID string) error {
	if err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx,
		`DELETE FROM wishlist_items WHERE wishlist_id = $1 AND product_id = $2`, id, productID)
	if err != nil {
		return fmt.Errorf("remove wishlist item %s: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wishlist item %s: %w", productID, ErrNotFound)
	}
	return nil
}

// RegenerateCode issues a new share code and resets its use count.
func (s *WishlistService) RegenerateCode(ctx context.Context, userID, id string) (string, error) {
	code := platform.ShareCode(platform.NewID())
	tag, err := s.db.Exec(ctx,
		`UPDATE wishlists SET share_code = $1, share_uses = 0, updated_at = now()
		 WHERE id = $2 AND user_id = $3`, code, id, userID)
	if err != nil {
		return "", conflict(err, "regenerate share code for %s", id)
	}
	if tag.RowsAffected() == 0 {
		return "", fmt.Errorf("wishlist %s: %w", id, ErrNotFound)
	}
	return code, nil
}

// TotalValue sums final price times quantity over the active products of a
// wishlist.
func (s *WishlistService) TotalValue(ctx context.Context, userID, id string) (float64, error) {
	w, err := s.Get(ctx, userID, id)
	if err != nil {
		return 0, err
	}
	return wishlistValue(w.Items), nil
}

func wishlistValue(items []model.WishlistItem) float64 {
	var total float64
	for _, it := range items {
		if it.Product == nil || !it.Product.Active {
			continue
		}
		total += it.Product.FinalPrice * float64(it.Quantity)
	}
	return model.RoundMoney(total)
}

// OnOfferItems returns the items whose product currently has an offer running.
func (s *WishlistService) OnOfferItems(ctx context.Context, userID, id string) ([]model.WishlistItem, error) {
	if err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx,
		`SELECT i.product_id, i.added_at, i.notes, i.priority, i.quantity, `+productSummaryColumns+`
		 FROM wishlist_items i JOIN products p ON p.id = i.product_id
		 WHERE i.wishlist_id = $1 AND p.active AND p.offer_active
		   AND (p.offer_starts_at IS NULL OR p.offer_starts_at <= now())
		   AND (p.offer_ends_at IS NULL OR p.offer_ends_at >= now())
		 ORDER BY i.priority DESC, i.added_at`, id)
	if err != nil {
		return nil, fmt.Errorf("list offer items of %s: %w", id, err)
	}
	defer rows.Close()

	items := []model.WishlistItem{}
	for rows.Next() {
		it, err := scanWishlistItem(rows, nil)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetShared opens a wishlist through its share code, counting the visit.
func (s *WishlistService) GetShared(ctx context.Context, code string) (*model.Wishlist, error) {
	var w model.Wishlist
	err := scanWishlist(s.db.QueryRow(ctx,
		`SELECT `+wishlistColumns+` FROM wishlists WHERE share_code = $1`, code), &w)
	if err != nil {
		return nil, notFound(err, "get shared wishlist %s", code)
	}
	now := time.Now()
	if !w.CanShare(now) {
		return nil, fmt.Errorf("shared wishlist %s: %w", code, ErrForbidden)
	}

	// The use limit is enforced by the update itself so concurrent opens
	// cannot go past share_max_uses.
	err = s.db.QueryRow(ctx,
		`UPDATE wishlists SET views = views + 1, share_uses = share_uses + 1, last_viewed_at = $1
		 WHERE id = $2 AND active AND public
		 AND (share_expires_at IS NULL OR share_expires_at > $1)
		 AND (share_max_uses = 0 OR share_uses < share_max_uses)
		 RETURNING views, share_uses`, now, w.ID).Scan(&w.Views, &w.Share.Uses)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("shared wishlist %s: %w", code, ErrForbidden)
		}
		return nil, fmt.Errorf("record shared view of %s: %w", w.ID, err)
	}
	w.LastViewedAt = &now

	if err := s.loadItems(ctx, []*model.Wishlist{&w}); err != nil {
		return nil, err
	}
	return &w, nil
}

func scanWishlistItem(row scanner, wishlistID *string) (model.WishlistItem, error) {
	var it model.WishlistItem
	var sr summaryRow
	targets := []any{&it.ProductID, &it.AddedAt, &it.Notes, &it.Priority, &it.Quantity}
	if wishlistID != nil {
		targets = append([]any{wishlistID}, targets...)
	}
	if err := row.Scan(append(targets, sr.targets()...)...); err != nil {
		return it, fmt.Errorf("scan wishlist item: %w", err)
	}
	it.Product = sr.summary()
	return it, nil
}

// loadItems fills the Items of every wishlist with a single query.
func (s *WishlistService) loadItems(ctx context.Context, lists []*model.Wishlist) error {
	if len(lists) == 0 {
		return nil
	}
	byID := make(map[string]*model.Wishlist, len(lists))
	ids := make([]string, len(lists))
	for i, w := range lists {
		w.Items = []model.WishlistItem{}
		byID[w.ID] = w
		ids[i] = w.ID
	}

	rows, err := s.db.Query(ctx,
		`SELECT i.wishlist_id, i.product_id, i.added_at, i.notes, i.priority, i.quantity, `+productSummaryColumns+`
		 FROM wishlist_items i JOIN products p ON p.id = i.product_id
		 WHERE i.wishlist_id = ANY($1) ORDER BY i.priority DESC, i.added_at`, ids)
	if err != nil {
		return fmt.Errorf("list wishlist items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var wishlistID string
		it, err := scanWishlistItem(rows, &wishlistID)
		if err != nil {
			return err
		}
		if w, ok := byID[wishlistID]; ok {
			w.Items = append(w.Items, it)
		}
	}
	return rows.Err()
}

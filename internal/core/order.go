package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/metrics"
	"github.com/tekashi/storefront/internal/model"
	"github.com/tekashi/storefront/internal/platform"
)

const orderColumns = `id, order_number, user_id, shipping, payment, subtotal, tax, shipping_cost,
	discount, total, status, tracking_number, shipping_method, notes, points_used, points_earned,
	idempotency_key, estimated_delivery_at, delivered_at, placed_at, created_at, updated_at`

const (
	defaultCountry    = "Colombia"
	estimatedDelivery = 3 * 24 * time.Hour
)

var shippingCosts = map[string]float64{
	model.ShippingStandard:  0,
	model.ShippingExpress:   15000,
	model.ShippingOvernight: 30000,
}

// OrderLine is a requested product quantity.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// PlaceOrderInput carries everything needed to place an order. UserID is nil
// for guest checkouts.
type PlaceOrderInput struct {
	UserID         *string
	Lines          []OrderLine
	Shipping       model.ShippingAddress
	PaymentMethod  string
	CardNumber     string
	Holder         string
	TransactionID  string
	ShippingMethod string
	PointsUsed     int
	Notes          string
	IdempotencyKey string
}

// notificationCreator stores a single notification.
type notificationCreator interface {
	Create(ctx context.Context, n *model.Notification) error
}

type OrderService struct {
	db      DB
	taxRate float64
	notify  notificationCreator
}

// NewOrderService creates an OrderService. notify may be nil.
func NewOrderService(db DB, taxRate float64, notify notificationCreator) *OrderService {
	return &OrderService{db: db, taxRate: taxRate, notify: notify}
}

func scanOrder(row scanner, o *model.Order) error {
	return row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Shipping, &o.Payment, &o.Subtotal,
		&o.Tax, &o.ShippingCost, &o.Discount, &o.Total, &o.Status, &o.TrackingNumber,
		&o.ShippingMethod, &o.Notes, &o.PointsUsed, &o.PointsEarned, &o.IdempotencyKey,
		&o.EstimatedDeliveryAt, &o.DeliveredAt, &o.PlacedAt, &o.CreatedAt, &o.UpdatedAt)
}

// orderTotals are the monetary figures of an order.
type orderTotals struct {
	Subtotal     float64
	Tax          float64
	ShippingCost float64
	Discount     float64
	Total        float64
	PointsUsed   int
	PointsEarned int
}

// priceOrder computes order totals. Points are worth one currency unit each
// and are capped so the total never goes negative.
func priceOrder(items []model.OrderItem, taxRate float64, shippingMethod string, points int) orderTotals {
	var t orderTotals
	for _, it := range items {
		t.Subtotal += it.Subtotal
	}
	t.Subtotal = model.RoundMoney(t.Subtotal)
	t.Tax = model.RoundMoney(t.Subtotal * taxRate)
	t.ShippingCost = shippingCosts[shippingMethod]

	gross := t.Subtotal + t.Tax + t.ShippingCost
	t.PointsUsed = points
	if float64(points) > gross {
		t.PointsUsed = int(math.Floor(gross))
	}
	t.Discount = float64(t.PointsUsed)
	t.Total = model.RoundMoney(gross - t.Discount)
	t.PointsEarned = int(math.Floor(t.Total / 100))
	return t
}

// mergeLines sums quantities of repeated products and sorts the result by
// product id so row locks are always taken in the same order.
func mergeLines(lines []OrderLine) []OrderLine {
	qty := make(map[string]int, len(lines))
	for _, l := range lines {
		qty[l.ProductID] += l.Quantity
	}
	merged := make([]OrderLine, 0, len(qty))
	for id, q := range qty {
		merged = append(merged, OrderLine{ProductID: id, Quantity: q})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged
}

func cardLast4(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}

func (in *PlaceOrderInput) validate() error {
	if len(in.Lines) == 0 {
		return fmt.Errorf("order needs at least one item: %w", ErrInvalidInput)
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || l.Quantity < 1 {
			return fmt.Errorf("invalid order line for product %q: %w", l.ProductID, ErrInvalidInput)
		}
	}
	if model.IsCardPayment(in.PaymentMethod) && in.CardNumber == "" {
		return fmt.Errorf("card number is required for %s: %w", in.PaymentMethod, ErrInvalidInput)
	}
	if in.PointsUsed < 0 {
		return fmt.Errorf("points used cannot be negative: %w", ErrInvalidInput)
	}
	if in.PointsUsed > 0 && in.UserID == nil {
		return fmt.Errorf("points require a signed-in customer: %w", ErrInvalidInput)
	}
	if in.ShippingMethod == "" {
		in.ShippingMethod = model.ShippingStandard
	}
	if _, ok := shippingCosts[in.ShippingMethod]; !ok {
		return fmt.Errorf("unknown shipping method %q: %w", in.ShippingMethod, ErrInvalidInput)
	}
	if in.Shipping.Country == "" {
		in.Shipping.Country = defaultCountry
	}
	return nil
}

// idempotencyScope identifies who submitted an order: the signed-in user, or
// the shipping email for guests.
func (in *PlaceOrderInput) idempotencyScope() string {
	if in.UserID != nil {
		return "user:" + *in.UserID
	}
	return "guest:" + strings.ToLower(strings.TrimSpace(in.Shipping.Email))
}

// PlaceOrder prices and stores an order, reserving stock and debiting points
// in one transaction. When the idempotency key matches an existing order
// that order is returned with created set to false.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (order *model.Order, created bool, err error) {
	if err := in.validate(); err != nil {
		return nil, false, err
	}

	scope := in.idempotencyScope()
	if in.IdempotencyKey != "" {
		existing, err := s.getByIdempotencyKey(ctx, in.IdempotencyKey, scope)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, false, err
		}
	}

	now := time.Now()
	o := &model.Order{
		ID:             platform.NewID(),
		OrderNumber:    platform.NewOrderNumber(now),
		UserID:         in.UserID,
		Shipping:       in.Shipping,
		Status:         model.OrderPending,
		ShippingMethod: in.ShippingMethod,
		Notes:          in.Notes,
		PlacedAt:       now,
		CreatedAt:      now,
		UpdatedAt:      now,
		Payment: model.PaymentInfo{
			Method:        in.PaymentMethod,
			Holder:        in.Holder,
			TransactionID: in.TransactionID,
		},
	}
	if in.CardNumber != "" {
		o.Payment.CardLast4 = cardLast4(in.CardNumber)
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		o.IdempotencyKey = &key
	}

	lines := mergeLines(in.Lines)
	err = inTx(ctx, s.db, func(tx pgx.Tx) error {
		items, err := reserveStock(ctx, tx, lines)
		if err != nil {
			return err
		}
		o.Items = items

		t := priceOrder(items, s.taxRate, o.ShippingMethod, in.PointsUsed)
		o.Subtotal, o.Tax, o.ShippingCost = t.Subtotal, t.Tax, t.ShippingCost
		o.Discount, o.Total = t.Discount, t.Total
		o.PointsUsed, o.PointsEarned = t.PointsUsed, t.PointsEarned

		if _, err := tx.Exec(ctx,
			`INSERT INTO orders (id, order_number, user_id, shipping, payment, subtotal, tax, shipping_cost,
			 discount, total, status, shipping_method, notes, points_used, points_earned, idempotency_key,
			 idempotency_scope, placed_at, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
			o.ID, o.OrderNumber, o.UserID, o.Shipping, o.Payment, o.Subtotal, o.Tax, o.ShippingCost,
			o.Discount, o.Total, o.Status, o.ShippingMethod, o.Notes, o.PointsUsed, o.PointsEarned,
			o.IdempotencyKey, scope, o.PlacedAt, o.CreatedAt, o.UpdatedAt,
		); err != nil {
			return conflict(err, "insert order %s", o.OrderNumber)
		}

		for _, it := range items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, subtotal)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				o.ID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.Subtotal,
			); err != nil {
				return fmt.Errorf("insert order item %s: %w", it.ProductID, err)
			}
		}

		if o.PointsUsed > 0 {
			tag, err := tx.Exec(ctx,
				`UPDATE users SET loyalty_points = loyalty_points - $1, updated_at = now()
				 WHERE id = $2 AND loyalty_points >= $1`,
				o.PointsUsed, *o.UserID)
			if err != nil {
				return fmt.Errorf("debit points: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("debit %d points: %w", o.PointsUsed, ErrInsufficientPoints)
			}
		}
		return nil
	})
	if err != nil {
		// A concurrent submission with the same key won the insert.
		if errors.Is(err, ErrConflict) && in.IdempotencyKey != "" {
			existing, getErr := s.getByIdempotencyKey(ctx, in.IdempotencyKey, scope)
			if getErr == nil {
				return existing, false, nil
			}
			if errors.Is(getErr, ErrConflict) {
				return nil, false, getErr
			}
		}
		return nil, false, err
	}

	metrics.OrdersPlaced.Inc()
	zerolog.Ctx(ctx).Info().Str("order_id", o.ID).Str("order_number", o.OrderNumber).
		Float64("total", o.Total).Msg("order placed")
	s.notifyUser(ctx, o, "Order placed",
		fmt.Sprintf("Your order %s was placed. Total: %.2f", o.OrderNumber, o.Total))
	return o, true, nil
}

// reserveStock locks the product rows of lines, checks availability and
// decrements stock. lines must be sorted by product id.
func reserveStock(ctx context.Context, tx pgx.Tx, lines []OrderLine) ([]model.OrderItem, error) {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}

	rows, err := tx.Query(ctx,
		`SELECT id, name, price, stock, active, offer_active, offer_discount
		 FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	products := make(map[string]model.Product, len(ids))
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Active,
			&p.Offer.Active, &p.Offer.Discount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products[p.ID] = p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok || !p.Active {
			return nil, fmt.Errorf("product %s: %w", l.ProductID, ErrNotFound)
		}
		if p.Stock < l.Quantity {
			return nil, fmt.Errorf("product %s has %d in stock, %d requested: %w",
				p.Name, p.Stock, l.Quantity, ErrInsufficientStock)
		}
		unit := p.FinalPrice()
		items = append(items, model.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    l.Quantity,
			UnitPrice:   unit,
			Subtotal:    model.RoundMoney(unit * float64(l.Quantity)),
		})

		if _, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $1, sales = sales + $1, updated_at = now() WHERE id = $2`,
			l.Quantity, p.ID); err != nil {
			return nil, fmt.Errorf("reserve stock for %s: %w", p.ID, err)
		}
	}
	return items, nil
}

// releaseStock returns the items of a cancelled order to stock and refunds
// the points the order used.
func releaseStock(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	for _, it := range o.Items {
		if _, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock + $1, sales = GREATEST(sales - $1, 0), updated_at = now()
			 WHERE id = $2`, it.Quantity, it.ProductID); err != nil {
			return fmt.Errorf("restore stock for %s: %w", it.ProductID, err)
		}
	}
	if o.PointsUsed > 0 && o.UserID != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET loyalty_points = loyalty_points + $1, updated_at = now() WHERE id = $2`,
			o.PointsUsed, *o.UserID); err != nil {
			return fmt.Errorf("refund points: %w", err)
		}
	}
	return nil
}

// lockOrder loads an order with its items and holds a row lock on it.
func lockOrder(ctx context.Context, tx pgx.Tx, id string) (*model.Order, error) {
	var o model.Order
	if err := scanOrder(tx.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id), &o); err != nil {
		return nil, notFound(err, "get order %s", id)
	}
	if err := loadItems(ctx, tx, []*model.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

// Cancel cancels a pending or confirmed order on behalf of its owner.
func (s *OrderService) Cancel(ctx context.Context, id, userID string) (*model.Order, error) {
	var o *model.Order
	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		o, err = lockOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if o.UserID == nil || *o.UserID != userID {
			return fmt.Errorf("cancel order %s: %w", id, ErrForbidden)
		}
		if !model.Cancellable(o.Status) {
			return fmt.Errorf("cancel order %s in status %s: %w", id, o.Status, ErrInvalidTransition)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`,
			model.OrderCancelled, id); err != nil {
			return fmt.Errorf("cancel order %s: %w", id, err)
		}
		o.Status = model.OrderCancelled
		return releaseStock(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCancelled.Inc()
	s.notifyUser(ctx, o, "Order cancelled", fmt.Sprintf("Your order %s was cancelled.", o.OrderNumber))
	return o, nil
}

// UpdateStatus moves an order along its lifecycle. Confirmation sets the
// estimated delivery date, delivery credits the earned points and
// cancellation releases stock.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string, tracking *string) (*model.Order, error) {
	var o *model.Order
	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		o, err = lockOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if !model.CanTransition(o.Status, status) {
			return fmt.Errorf("order %s from %s to %s: %w", id, o.Status, status, ErrInvalidTransition)
		}

		now := time.Now()
		switch status {
		case model.OrderConfirmed:
			est := now.Add(estimatedDelivery)
			o.EstimatedDeliveryAt = &est
		case model.OrderDelivered:
			o.DeliveredAt = &now
			if o.UserID != nil && o.PointsEarned > 0 {
				if _, err := tx.Exec(ctx,
					`UPDATE users SET loyalty_points = loyalty_points + $1, updated_at = now() WHERE id = $2`,
					o.PointsEarned, *o.UserID); err != nil {
					return fmt.Errorf("credit points: %w", err)
				}
			}
		case model.OrderCancelled:
			if err := releaseStock(ctx, tx, o); err != nil {
				return err
			}
		}
		if tracking != nil {
			o.TrackingNumber = tracking
		}
		o.Status = status
		o.UpdatedAt = now

		if _, err := tx.Exec(ctx,
			`UPDATE orders SET status = $1, tracking_number = $2, estimated_delivery_at = $3,
			 delivered_at = $4, updated_at = $5 WHERE id = $6`,
			o.Status, o.TrackingNumber, o.EstimatedDeliveryAt, o.DeliveredAt, o.UpdatedAt, id); err != nil {
			return fmt.Errorf("update order %s status: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status == model.OrderCancelled {
		metrics.OrdersCancelled.Inc()
	}
	s.notifyUser(ctx, o, "Order updated",
		fmt.Sprintf("Your order %s is now %s.", o.OrderNumber, o.Status))
	return o, nil
}

func (s *OrderService) notifyUser(ctx context.Context, o *model.Order, title, message string) {
	if s.notify == nil || o.UserID == nil {
		return
	}
	n := &model.Notification{
		UserID:    *o.UserID,
		Title:     title,
		Message:   message,
		Kind:      model.NotificationInfo,
		Category:  model.CategoryOrder,
		Priority:  3,
		ActionURL: "/orders/" + o.ID,
	}
	if err := s.notify.Create(ctx, n); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("order_id", o.ID).Msg("failed to create order notification")
	}
}

func (s *OrderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	if err := scanOrder(s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), &o); err != nil {
		return nil, notFound(err, "get order %s", id)
	}
	if err := loadItems(ctx, s.db, []*model.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

// getByIdempotencyKey returns the order stored under key. A key recorded by a
// different submitter is a conflict and the order is not returned.
func (s *OrderService) getByIdempotencyKey(ctx context.Context, key, scope string) (*model.Order, error) {
	var id, owner string
	if err := s.db.QueryRow(ctx,
		`SELECT id, idempotency_scope FROM orders WHERE idempotency_key = $1`, key).Scan(&id, &owner); err != nil {
		return nil, notFound(err, "get order by idempotency key")
	}
	if owner != scope {
		return nil, fmt.Errorf("idempotency key belongs to another submitter: %w", ErrConflict)
	}
	return s.GetByID(ctx, id)
}

// Lookup finds a guest order by its number and shipping email.
func (s *OrderService) Lookup(ctx context.Context, email, orderNumber string) (*model.Order, error) {
	if email == "" || orderNumber == "" {
		return nil, fmt.Errorf("email and order number are required: %w", ErrInvalidInput)
	}
	var o model.Order
	err := scanOrder(s.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE order_number = $1 AND lower(shipping->>'email') = $2`,
		strings.ToUpper(orderNumber), strings.ToLower(email)), &o)
	if err != nil {
		return nil, notFound(err, "lookup order %s", orderNumber)
	}
	if err := loadItems(ctx, s.db, []*model.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListMine returns the orders of one user.
func (s *OrderService) ListMine(ctx context.Context, userID string, params request.ListParams) ([]model.Order, bool, error) {
	var f filter
	f.add(`user_id = ?`, userID)
	if params.Status != "" {
		f.add(`status = ?`, params.Status)
	}
	return s.list(ctx, f, params)
}

// ListAll returns every order. Search matches the order number or the
// shipping email.
func (s *OrderService) ListAll(ctx context.Context, params request.ListParams) ([]model.Order, bool, error) {
	var f filter
	if params.Status != "" {
		f.add(`status = ?`, params.Status)
	}
	if params.Search != "" {
		f.add(`(order_number ILIKE ? OR shipping->>'email' ILIKE ?)`, "%"+params.Search+"%")
	}
	return s.list(ctx, f, params)
}

func (s *OrderService) list(ctx context.Context, f filter, params request.ListParams) ([]model.Order, bool, error) {
	query := `SELECT ` + orderColumns + ` FROM orders` + f.where() + f.page(params, "placed_at", "total", "status")

	rows, err := s.db.Query(ctx, query, f.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, false, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate orders: %w", err)
	}

	orders, hasMore := trimPage(orders, params.Limit)
	ptrs := make([]*model.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	if err := loadItems(ctx, s.db, ptrs); err != nil {
		return nil, false, err
	}
	return orders, hasMore, nil
}

// loadItems fills the Items of every order with a single query.
func loadItems(ctx context.Context, db DB, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*model.Order, len(orders))
	ids := make([]string, len(orders))
	for i, o := range orders {
		o.Items = []model.OrderItem{}
		byID[o.ID] = o
		ids[i] = o.ID
	}

	rows, err := db.Query(ctx,
		`SELECT order_id, product_id, product_name, quantity, unit_price, subtotal
		 FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, product_id`, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var it model.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.UnitPrice, &it.Subtotal); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

// Stats counts orders per status and sums the non-cancelled ones.
func (s *OrderService) Stats(ctx context.Context) (*model.OrderStats, error) {
	rows, err := s.db.Query(ctx,
		`SELECT status, count(*), COALESCE(sum(total), 0) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}
	defer rows.Close()

	stats := &model.OrderStats{ByStatus: make(map[string]int, len(model.OrderStatuses))}
	for _, st := range model.OrderStatuses {
		stats.ByStatus[st] = 0
	}
	var billable int
	for rows.Next() {
		var status string
		var count int
		var sum float64
		if err := rows.Scan(&status, &count, &sum); err != nil {
			return nil, fmt.Errorf("scan order stats: %w", err)
		}
		stats.ByStatus[status] = count
		stats.TotalOrders += count
		if status != model.OrderCancelled {
			stats.TotalSales += sum
			billable += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order stats: %w", err)
	}

	stats.TotalSales = model.RoundMoney(stats.TotalSales)
	if billable > 0 {
		stats.AverageOrder = model.RoundMoney(stats.TotalSales / float64(billable))
	}
	return stats, nil
}

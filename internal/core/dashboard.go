package core

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/model"
)

// Loyalty levels.
const (
	LevelBronze = "Bronze"
	LevelSilver = "Silver"
	LevelGold   = "Gold"
)

const (
	silverThreshold    = 500
	goldThreshold      = 1000
	recentPurchases    = 10
	recommendationSize = 8
	lowStockThreshold  = 5
)

// Loyalty describes a customer's loyalty standing.
type Loyalty struct {
	Level          string `json:"level"`
	Discount       int    `json:"discount"`
	LifetimePoints int    `json:"lifetime_points"`
	PointsToNext   int    `json:"points_to_next"`
	Balance        int    `json:"balance"`
}

// UserDashboard holds the personal stats of a customer.
type UserDashboard struct {
	TotalOrders         int     `json:"total_orders"`
	DeliveredOrders     int     `json:"delivered_orders"`
	TotalSpent          float64 `json:"total_spent"`
	Favorites           int     `json:"favorites"`
	Wishlists           int     `json:"wishlists"`
	UnreadNotifications int     `json:"unread_notifications"`
	Loyalty             Loyalty `json:"loyalty"`
}

// AdminDashboard holds store-wide counts.
type AdminDashboard struct {
	Users               int `json:"users"`
	ActiveUsers         int `json:"active_users"`
	Products            int `json:"products"`
	ActiveProducts      int `json:"active_products"`
	LowStockProducts    int `json:"low_stock_products"`
	Orders              int `json:"orders"`
	PendingOrders       int `json:"pending_orders"`
	Reviews             int `json:"reviews"`
	UnreadNotifications int `json:"unread_notifications"`
}

// DashboardService aggregates per-user and store-wide stats.
type DashboardService struct {
	db     DB
	orders *OrderService
}

func NewDashboardService(db DB, orders *OrderService) *DashboardService {
	return &DashboardService{db: db, orders: orders}
}

// LoyaltyFor derives the loyalty standing from the amount spent on
// delivered orders. One lifetime point is earned per 10 currency units.
func LoyaltyFor(spent float64, balance int) Loyalty {
	l := Loyalty{LifetimePoints: int(math.Floor(spent / 10)), Balance: balance}
	switch {
	case l.LifetimePoints >= goldThreshold:
		l.Level, l.Discount = LevelGold, 15
	case l.LifetimePoints >= silverThreshold:
		l.Level, l.Discount = LevelSilver, 10
		l.PointsToNext = goldThreshold - l.LifetimePoints
	default:
		l.Level, l.Discount = LevelBronze, 5
		l.PointsToNext = silverThreshold - l.LifetimePoints
	}
	return l
}

// UserStats runs the per-user counts in parallel.
func (s *DashboardService) UserStats(ctx context.Context, userID string) (*UserDashboard, error) {
	var d UserDashboard
	var balance int

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.QueryRow(ctx,
			`SELECT count(*), count(*) FILTER (WHERE status = $2),
			 COALESCE(sum(total) FILTER (WHERE status = $2), 0)
			 FROM orders WHERE user_id = $1`, userID, model.OrderDelivered,
		).Scan(&d.TotalOrders, &d.DeliveredOrders, &d.TotalSpent)
	})
	g.Go(func() error {
		return s.db.QueryRow(ctx,
			`SELECT count(*) FROM favorites WHERE user_id = $1 AND active`, userID).Scan(&d.Favorites)
	})
	g.Go(func() error {
		return s.db.QueryRow(ctx,
			`SELECT count(*) FROM wishlists WHERE user_id = $1 AND active`, userID).Scan(&d.Wishlists)
	})
	g.Go(func() error {
		return s.db.QueryRow(ctx,
			`SELECT count(*) FROM notifications WHERE user_id = $1 AND NOT read AND `+notExpired,
			userID).Scan(&d.UnreadNotifications)
	})
	g.Go(func() error {
		return s.db.QueryRow(ctx, `SELECT loyalty_points FROM users WHERE id = $1`, userID).Scan(&balance)
	})
	if err := g.Wait(); err != nil {
		return nil, notFound(err, "user dashboard %s", userID)
	}

	d.TotalSpent = model.RoundMoney(d.TotalSpent)
	d.Loyalty = LoyaltyFor(d.TotalSpent, balance)
	return &d, nil
}

// Purchases returns the most recent orders of a user.
func (s *DashboardService) Purchases(ctx context.Context, userID string) ([]model.Order, error) {
	orders, _, err := s.orders.ListMine(ctx, userID, request.ListParams{
		Limit: recentPurchases, Sort: "placed_at", Order: "desc",
	})
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// Recommendations suggests in-stock products that share a type or brand
// with the user's favorites. Users without favorites get the most viewed
// products.
func (s *DashboardService) Recommendations(ctx context.Context, userID string) ([]model.Product, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+qualifiedProductColumns+` FROM products p
		 WHERE p.active AND p.stock > 0
		   AND p.id NOT IN (SELECT product_id FROM favorites WHERE user_id = $1 AND active)
		   AND EXISTS (SELECT 1 FROM favorites f JOIN products fp ON fp.id = f.product_id
		               WHERE f.user_id = $1 AND f.active
		                 AND (fp.product_type_id = p.product_type_id OR fp.brand = p.brand))
		 ORDER BY p.rating_avg DESC, p.sales DESC, p.id LIMIT $2`, userID, recommendationSize)
	if err != nil {
		return nil, fmt.Errorf("recommendations for %s: %w", userID, err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		return products, nil
	}

	rows, err = s.db.Query(ctx,
		`SELECT `+qualifiedProductColumns+` FROM products p
		 WHERE p.active AND p.stock > 0 ORDER BY p.views DESC, p.id LIMIT $1`, recommendationSize)
	if err != nil {
		return nil, fmt.Errorf("popular products: %w", err)
	}
	return collectProducts(rows)
}

// AdminStats runs the store-wide counts in parallel.
func (s *DashboardService) AdminStats(ctx context.Context) (*AdminDashboard, error) {
	var d AdminDashboard
	counts := []struct {
		dest  *int
		query string
		args  []any
	}{
		{&d.Users, `SELECT count(*) FROM users`, nil},
		{&d.ActiveUsers, `SELECT count(*) FROM users WHERE active`, nil},
		{&d.Products, `SELECT count(*) FROM products`, nil},
		{&d.ActiveProducts, `SELECT count(*) FROM products WHERE active`, nil},
		{&d.LowStockProducts, `SELECT count(*) FROM products WHERE active AND stock <= $1`, []any{lowStockThreshold}},
		{&d.Orders, `SELECT count(*) FROM orders`, nil},
		{&d.PendingOrders, `SELECT count(*) FROM orders WHERE status = $1`, []any{model.OrderPending}},
		{&d.Reviews, `SELECT count(*) FROM reviews WHERE active`, nil},
		{&d.UnreadNotifications, `SELECT count(*) FROM notifications WHERE NOT read`, nil},
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range counts {
		g.Go(func() error {
			if err := s.db.QueryRow(ctx, c.query, c.args...).Scan(c.dest); err != nil {
				return fmt.Errorf("count %q: %w", c.query, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("admin dashboard: %w", err)
	}
	return &d, nil
}

package core

import "time"

// Options configures the services that need more than a database.
type Options struct {
	JWTSecret     string
	JWTIssuer     string
	JWTTTL        time.Duration
	TaxRate       float64
	PublicBaseURL string
	// Store is nil when object storage is not configured.
	Store ObjectStore
}

type Services struct {
	Auth         *AuthService
	User         *UserService
	ProductType  *ProductTypeService
	Product      *ProductService
	Image        *ImageService
	Order        *OrderService
	Favorite     *FavoriteService
	Wishlist     *WishlistService
	Notification *NotificationService
	Review       *ReviewService
	Dashboard    *DashboardService
	Catalog      *CatalogService
}

func NewServices(db DB, opts Options) *Services {
	users := NewUserService(db)
	notifications := NewNotificationService(db)
	orders := NewOrderService(db, opts.TaxRate, notifications)
	return &Services{
		Auth:         NewAuthService(users, opts.JWTSecret, opts.JWTIssuer, opts.JWTTTL),
		User:         users,
		ProductType:  NewProductTypeService(db),
		Product:      NewProductService(db),
		Image:        NewImageService(db, opts.Store, opts.PublicBaseURL),
		Order:        orders,
		Favorite:     NewFavoriteService(db),
		Wishlist:     NewWishlistService(db),
		Notification: notifications,
		Review:       NewReviewService(db),
		Dashboard:    NewDashboardService(db, orders),
		Catalog:      NewCatalogService(db),
	}
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tekashi/storefront/internal/api/docs"
	"github.com/tekashi/storefront/internal/api/handler"
	mw "github.com/tekashi/storefront/internal/api/middleware"
	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/core"
	"github.com/tekashi/storefront/internal/ratelimit"
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	pool     *pgxpool.Pool
	redis    *redis.Client
	limiter  *ratelimit.Limiter
}

// NewServer wires the HTTP routes. rdb may be nil when Redis is not
// configured.
func NewServer(logger zerolog.Logger, pool *pgxpool.Pool, rdb *redis.Client, services *core.Services, limiter *ratelimit.Limiter) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		pool:     pool,
		redis:    rdb,
		limiter:  limiter,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	// API documentation (no auth required)
	s.router.Get("/docs/openapi.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(docs.SwaggerInfo.ReadDoc()))
	})
	s.router.Get("/docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(scalarHTML))
	})

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteError(w, http.StatusNotFound, "route not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	auth := handler.NewAuth(s.services.Auth)
	authRoutes := func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)
	}
	s.router.Route("/auth", func(r chi.Router) {
		r.Use(s.limiter.Middleware)
		authRoutes(r)
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.limiter.Middleware)
		r.Route("/auth", authRoutes)
		s.publicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(s.services.Auth, s.services.User))
			s.customerRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAdmin())
				s.adminRoutes(r)
			})
		})
	})
}

// publicRoutes are reachable without a token. A valid token still
// identifies the caller.
func (s *Server) publicRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(mw.OptionalAuth(s.services.Auth, s.services.User))

		productType := handler.NewProductType(s.services.ProductType, s.services.Product)
		r.Get("/product-types", productType.List)
		r.Get("/product-types/active", productType.Active)
		r.Get("/product-types/slug/{slug}", productType.BySlug)
		r.Get("/product-types/{id}", productType.Get)
		r.Get("/product-types/{id}/products", productType.Products)

		product := handler.NewProduct(s.services.Product)
		r.Get("/products", product.List)
		r.Get("/products/featured", product.Featured)
		r.Get("/products/offers", product.Offers)
		r.Get("/products/search", product.Search)
		r.Get("/products/{id}", product.Get)

		image := handler.NewImage(s.services.Image)
		r.Get("/images", image.List)
		r.Get("/images/type/{typeId}", image.ByType)
		r.Get("/images/product/{productId}", image.ByProduct)
		r.Get("/images/{id}", image.Get)
		r.Get("/images/{id}/urls", image.URLs)

		order := handler.NewOrder(s.services.Order)
		r.Post("/orders", order.Place)
		r.Get("/orders/lookup", order.Lookup)

		wishlist := handler.NewWishlist(s.services.Wishlist)
		r.Get("/wishlists/shared/{code}", wishlist.Shared)

		review := handler.NewReview(s.services.Review)
		r.Get("/reviews", review.List)
		r.Get("/reviews/product/{productId}", review.ByProduct)
		r.Get("/reviews/{id}", review.Get)
	})
}

func (s *Server) customerRoutes(r chi.Router) {
	user := handler.NewUser(s.services.User)
	r.Get("/me", user.Me)
	r.Patch("/me", user.UpdateMe)
	r.Get("/users/{id}", user.Get)
	r.Put("/users/{id}", user.Update)
	r.Put("/users/{id}/location", user.UpdateLocation)
	r.Put("/users/{id}/language", user.UpdateLanguage)

	order := handler.NewOrder(s.services.Order)
	r.Get("/orders/mine", order.Mine)
	r.Get("/orders/{id}", order.Get)
	r.Post("/orders/{id}/cancel", order.Cancel)

	favorite := handler.NewFavorite(s.services.Favorite)
	r.Get("/favorites", favorite.List)
	r.Post("/favorites", favorite.Add)
	r.Get("/favorites/check/{productId}", favorite.Check)
	r.Get("/favorites/offers", favorite.Offers)
	r.Get("/favorites/low-stock", favorite.LowStock)
	r.Put("/favorites/{id}", favorite.Update)
	r.Post("/favorites/{id}/view", favorite.View)
	r.Delete("/favorites/{productId}", favorite.Remove)

	wishlist := handler.NewWishlist(s.services.Wishlist)
	r.Get("/wishlists", wishlist.List)
	r.Post("/wishlists", wishlist.Create)
	r.Get("/wishlists/{id}", wishlist.Get)
	r.Put("/wishlists/{id}", wishlist.Update)
	r.Delete("/wishlists/{id}", wishlist.Delete)
	r.Post("/wishlists/{id}/items", wishlist.AddItem)
	r.Put("/wishlists/{id}/items/{productId}", wishlist.UpdateItem)
	r.Delete("/wishlists/{id}/items/{productId}", wishlist.RemoveItem)
	r.Post("/wishlists/{id}/share/regenerate", wishlist.RegenerateCode)
	r.Get("/wishlists/{id}/value", wishlist.Value)
	r.Get("/wishlists/{id}/offers", wishlist.Offers)

	notification := handler.NewNotification(s.services.Notification)
	r.Get("/notifications", notification.List)
	r.Delete("/notifications", notification.DeleteAll)
	r.Get("/notifications/unread", notification.Unread)
	r.Get("/notifications/stats", notification.Stats)
	r.Post("/notifications/read-all", notification.MarkAllRead)
	r.Get("/notifications/{id}", notification.Get)
	r.Delete("/notifications/{id}", notification.Delete)
	r.Post("/notifications/{id}/read", notification.MarkRead)
	r.Post("/notifications/{id}/click", notification.Click)

	review := handler.NewReview(s.services.Review)
	r.Post("/reviews", review.Create)
	r.Get("/reviews/user/{userId}", review.ByUser)
	r.Put("/reviews/{id}", review.Update)
	r.Delete("/reviews/{id}", review.Delete)
	r.Post("/reviews/{id}/helpful", review.Helpful)
	r.Post("/reviews/{id}/report", review.Report)

	dashboard := handler.NewDashboard(s.services.Dashboard)
	r.Get("/dashboard/stats", dashboard.Stats)
	r.Get("/dashboard/purchases", dashboard.Purchases)
	r.Get("/dashboard/recommendations", dashboard.Recommendations)
}

func (s *Server) adminRoutes(r chi.Router) {
	user := handler.NewUser(s.services.User)
	r.Get("/users", user.List)
	r.Post("/users", user.Create)
	r.Get("/users/stats", user.Stats)
	r.Delete("/users/{id}", user.Delete)
	r.Post("/users/{id}/activate", user.Activate)
	r.Put("/users/{id}/role", user.SetRole)

	productType := handler.NewProductType(s.services.ProductType, s.services.Product)
	r.Post("/product-types", productType.Create)
	r.Put("/product-types/{id}", productType.Update)
	r.Delete("/product-types/{id}", productType.Delete)
	r.Post("/product-types/{id}/activate", productType.Activate)
	r.Put("/product-types/{id}/order", productType.SetOrder)
	r.Post("/product-types/{id}/recount", productType.Recount)

	product := handler.NewProduct(s.services.Product)
	r.Post("/products", product.Create)
	r.Put("/products/{id}", product.Update)
	r.Delete("/products/{id}", product.Delete)
	r.Put("/products/{id}/featured", product.SetFeatured)
	r.Put("/products/{id}/offer", product.SetOffer)
	r.Put("/products/{id}/stock", product.SetStock)

	image := handler.NewImage(s.services.Image)
	r.Post("/images", image.Create)
	r.Put("/images/{id}", image.Update)
	r.Delete("/images/{id}", image.Delete)
	r.Post("/images/{id}/main", image.Main)
	r.Put("/images/{id}/order", image.Order)
	r.Post("/images/{id}/optimize", image.Optimize)

	order := handler.NewOrder(s.services.Order)
	r.Get("/orders", order.List)
	r.Get("/orders/stats", order.Stats)
	r.Put("/orders/{id}/status", order.UpdateStatus)

	favorite := handler.NewFavorite(s.services.Favorite)
	r.Get("/favorites/stats", favorite.Stats)

	notification := handler.NewNotification(s.services.Notification)
	r.Post("/admin/notifications", notification.Create)
	r.Post("/admin/notifications/bulk", notification.Bulk)
	r.Get("/admin/notifications/stats", notification.GlobalStats)
	r.Get("/admin/notifications/user/{userId}", notification.ForUser)

	review := handler.NewReview(s.services.Review)
	r.Post("/reviews/{id}/reply", review.Reply)

	admin := handler.NewAdmin(s.services.Dashboard, s.services.Catalog)
	r.Get("/admin/dashboard", admin.Dashboard)
	r.Post("/admin/catalog/import", admin.Import)
	r.Get("/admin/catalog/export", admin.Export)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.pool.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

const scalarHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Storefront API</title>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
</head>
<body>
  <script id="api-reference" data-url="/docs/openapi.json"></script>
  <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`

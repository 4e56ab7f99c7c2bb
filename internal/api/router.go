package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/supermall/supermall-api/internal/api/handlers"
	"github.com/supermall/supermall-api/internal/api/middleware"
	"github.com/supermall/supermall-api/internal/auth"
	"github.com/supermall/supermall-api/internal/service"
)

// Deps carries everything the router wires together. Handlers are built
// here so tests can assemble a router from in-memory services.
type Deps struct {
	Tokens     *auth.TokenManager
	Auth       *service.AuthService
	Categories *service.CategoryService
	Shops      *service.ShopService
	Products   *service.ProductService
	Offers     *service.OfferService
	Banners    *service.BannerService

	// ClickRatePerSecond throttles the public counter endpoints per client
	// IP. Zero disables throttling (used in tests).
	ClickRatePerSecond float64
	ClickBurst         int
}

// NewRouter builds the HTTP router for the mall directory API.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger)

	authHandler := handlers.NewAuthHandler(d.Auth)
	categoryHandler := handlers.NewCategoryHandler(d.Categories)
	shopHandler := handlers.NewShopHandler(d.Shops)
	productHandler := handlers.NewProductHandler(d.Products)
	offerHandler := handlers.NewOfferHandler(d.Offers)
	bannerHandler := handlers.NewBannerHandler(d.Banners)

	authenticate := middleware.Authenticate(d.Tokens)

	throttle := func(next http.Handler) http.Handler { return next }
	if d.ClickRatePerSecond > 0 {
		throttle = middleware.RateLimitPerIP(d.ClickRatePerSecond, d.ClickBurst)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/verify", authHandler.Verify)
				r.Get("/profile", authHandler.Profile)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Get("/{id}", categoryHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(authenticate, middleware.RequireAdmin)
				r.Post("/", categoryHandler.Create)
				r.Put("/{id}", categoryHandler.Update)
				r.Delete("/{id}", categoryHandler.Delete)
			})
		})

		r.Route("/shops", func(r chi.Router) {
			r.Get("/", shopHandler.List)
			r.Get("/{id}", shopHandler.Get)
			r.Get("/category/{categoryID}", shopHandler.ByCategory)
			r.Get("/floor/{floor}", shopHandler.ByFloor)
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Put("/{id}", shopHandler.Update)
			})
			r.Group(func(r chi.Router) {
				r.Use(authenticate, middleware.RequireAdmin)
				r.Post("/", shopHandler.Create)
				r.Delete("/{id}", shopHandler.Delete)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Post("/compare", productHandler.Compare)
			r.Get("/{id}", productHandler.Get)
			r.Get("/shop/{shopID}", productHandler.ByShop)
			r.Get("/category/{categoryID}", productHandler.ByCategory)
			r.Group(func(r chi.Router) {
				r.Use(authenticate, middleware.RequireAdmin)
				r.Post("/", productHandler.Create)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
			})
		})

		r.Route("/offers", func(r chi.Router) {
			r.Get("/", offerHandler.List)
			r.Get("/{id}", offerHandler.Get)
			r.Get("/shop/{shopID}", offerHandler.ByShop)
			r.With(throttle).Post("/{id}/claim", offerHandler.Claim)
			r.Group(func(r chi.Router) {
				r.Use(authenticate, middleware.RequireAdmin)
				r.Post("/", offerHandler.Create)
				r.Put("/{id}", offerHandler.Update)
				r.Delete("/{id}", offerHandler.Delete)
			})
		})

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", bannerHandler.Active)
			r.With(throttle).Post("/{id}/click", bannerHandler.Click)
			r.Group(func(r chi.Router) {
				r.Use(authenticate, middleware.RequireAdmin)
				r.Get("/admin", bannerHandler.ListAll)
				r.Get("/{id}", bannerHandler.Get)
				r.Post("/", bannerHandler.Create)
				r.Put("/{id}", bannerHandler.Update)
				r.Delete("/{id}", bannerHandler.Delete)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

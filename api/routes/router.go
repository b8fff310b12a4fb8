package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sushka2023/sushka-shop-backend/api/controllers"
	"github.com/sushka2023/sushka-shop-backend/api/middleware"
	authsvc "github.com/sushka2023/sushka-shop-backend/internal/auth"
	"github.com/sushka2023/sushka-shop-backend/internal/basket"
	"github.com/sushka2023/sushka-shop-backend/internal/catalog"
	"github.com/sushka2023/sushka-shop-backend/internal/favorites"
	"github.com/sushka2023/sushka-shop-backend/internal/orders"
	"github.com/sushka2023/sushka-shop-backend/internal/users"
	"github.com/sushka2023/sushka-shop-backend/internal/warehouses"
	"github.com/sushka2023/sushka-shop-backend/pkg/auth/session"
	"github.com/sushka2023/sushka-shop-backend/pkg/cache"
	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	Sessions session.AccessSessionChecker
	Cache    *cache.Cache
	Pingers  map[string]controllers.Pinger

	Auth       authsvc.Service
	Catalog    catalog.Service
	Basket     basket.Service
	Favorites  favorites.Service
	Orders     orders.Service
	Warehouses warehouses.Service
	Users      *users.Repository
}

// NewRouter mounts every route group with its middleware chain.
func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Pingers))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", controllers.AuthSignup(d.Auth, logg))
		r.Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(d.Auth, logg))
		r.Get("/refresh_token", controllers.AuthRefresh(d.Auth, logg))
		r.Get("/confirmed_email/{token}", controllers.AuthConfirmEmail(d.Auth, logg))
		r.Post("/request_email", controllers.AuthRequestEmail(d.Auth, logg))
		r.Get("/reset_password/{email}", controllers.AuthRequestPasswordReset(d.Auth, logg))
		r.Post("/reset_password/confirmed/{token}", controllers.AuthResetPassword(d.Auth, logg))
	})

	r.Route("/product", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Cache(d.Cache, logg))
			r.Get("/all", controllers.ProductsAll(d.Catalog, logg))
			r.Get("/search", controllers.ProductsSearch(d.Catalog, logg))
			r.Get("/{id}", controllers.ProductByID(d.Catalog, logg))
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg), middleware.RequireStaff(logg), middleware.Cache(d.Cache, logg))
			r.Get("/all_for_crm", controllers.ProductsAllForCRM(d.Catalog, logg))
			r.Post("/create", controllers.ProductCreate(d.Catalog, logg))
			r.Put("/archive", controllers.ProductArchive(d.Catalog, logg))
			r.Put("/unarchive", controllers.ProductUnarchive(d.Catalog, logg))
		})
	})

	r.Route("/product_category", func(r chi.Router) {
		r.Get("/all", controllers.CategoriesAll(d.Catalog, false, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg), middleware.RequireStaff(logg), middleware.Cache(d.Cache, logg))
			r.Get("/all_for_crm", controllers.CategoriesAll(d.Catalog, true, logg))
			r.Post("/create", controllers.CategoryCreate(d.Catalog, logg))
			r.Put("/archive", controllers.CategoryArchive(d.Catalog, logg))
			r.Put("/unarchive", controllers.CategoryUnarchive(d.Catalog, logg))
		})
	})

	r.Route("/product_subcategory", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg), middleware.RequireStaff(logg), middleware.Cache(d.Cache, logg))
			r.Post("/create", controllers.SubcategoryCreate(d.Catalog, logg))
			r.Put("/archive", controllers.SubcategoryArchive(d.Catalog, logg))
			r.Put("/unarchive", controllers.SubcategoryUnarchive(d.Catalog, logg))
		})
	})

	r.Route("/price", func(r chi.Router) {
		r.With(middleware.Cache(d.Cache, logg)).Get("/product", controllers.PricesByProduct(d.Catalog, logg))
		r.Post("/total_price", controllers.PriceTotal(d.Catalog, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg), middleware.RequireStaff(logg), middleware.Cache(d.Cache, logg))
			r.Post("/create", controllers.PriceCreate(d.Catalog, logg))
			r.Put("/archive", controllers.PriceArchive(d.Catalog, logg))
			r.Put("/unarchive", controllers.PriceUnarchive(d.Catalog, logg))
		})
	})

	r.Route("/basket_items", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Get("/", controllers.BasketItems(d.Basket, logg))
		r.Post("/add", controllers.BasketAdd(d.Basket, logg))
		r.Patch("/change_quantity", controllers.BasketChangeQuantity(d.Basket, logg))
		r.Delete("/remove", controllers.BasketRemove(d.Basket, logg))
	})

	r.Route("/favorite_items", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Get("/", controllers.FavoritesList(d.Favorites, logg))
		r.Post("/add", controllers.FavoritesAdd(d.Favorites, logg))
		r.Delete("/remove", controllers.FavoritesRemove(d.Favorites, logg))
	})

	r.Route("/basket_anon_user", func(r chi.Router) {
		r.Get("/", controllers.OrderAnonDraftGet(d.Orders, logg))
		r.Post("/add_items", controllers.OrderAnonDraftAddItem(d.Orders, logg))
		r.Patch("/change_quantity", controllers.OrderAnonDraftChangeQuantity(d.Orders, logg))
		r.Delete("/remove_product", controllers.OrderAnonDraftRemoveItem(d.Orders, logg))
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/create_order_number_anon_user", controllers.OrderCreateAnonDraft(d.Orders, logg))
		r.Post("/add_items_to_order_anon_user", controllers.OrderAnonDraftAddItem(d.Orders, logg))
		r.Post("/create_order_anonym_user", controllers.OrderFinalizeAnonDraft(d.Orders, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Post("/create_for_auth_user", controllers.OrderCreateForAuthUser(d.Orders, logg))
			r.Get("/for_current_user", controllers.OrdersForCurrentUser(d.Orders, logg))
			r.Get("/{id}/for_current_user", controllers.OrderForCurrentUser(d.Orders, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg), middleware.RequireStaff(logg))
			r.Get("/all_for_crm", controllers.OrdersAllForCRM(d.Orders, logg))
			r.Get("/{id}/for_crm", controllers.OrderForCRM(d.Orders, logg))
			r.Put("/confirm_order", controllers.OrderConfirmManager(d.Orders, logg))
			r.Put("/confirm_payment_of_order", controllers.OrderConfirmPayment(d.Orders, logg))
			r.Put("/{id}/update_status", controllers.OrderUpdateStatus(d.Orders, logg))
			r.Put("/{id}/add_comment", controllers.OrderAddComment(d.Orders, logg))
		})
	})

	r.Route("/nova_poshta", func(r chi.Router) {
		r.With(middleware.Cache(d.Cache, logg)).Get("/", controllers.WarehousesList(d.Warehouses, logg))
		r.With(middleware.Cache(d.Cache, logg)).Post("/create_address_delivery", controllers.AddressDeliveryCreate(d.Warehouses, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg), middleware.RequireStaff(logg), middleware.Cache(d.Cache, logg))
			r.Post("/create_warehouse", controllers.WarehouseCreate(d.Warehouses, logg))
			r.Patch("/{id}/partial-update", controllers.WarehouseUpdate(d.Warehouses, logg))
			r.Post("/sync", controllers.WarehouseSync(d.Warehouses, logg))
			r.Delete("/all", controllers.WarehouseDeleteAll(d.Warehouses, logg))
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Get("/current_user", controllers.CurrentUser(d.Users, logg))
		r.Put("/current_user", controllers.CurrentUserUpdate(d.Users, logg))
		r.With(middleware.RequireStaff(logg)).Get("/all_for_crm", controllers.UsersAllForCRM(d.Users, logg))
	})

	return r
}

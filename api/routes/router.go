package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kwlc-church/kwlc-backend/api/controllers"
	authcontrollers "github.com/kwlc-church/kwlc-backend/api/controllers/auth"
	cartcontrollers "github.com/kwlc-church/kwlc-backend/api/controllers/cart"
	"github.com/kwlc-church/kwlc-backend/api/middleware"
	authsvc "github.com/kwlc-church/kwlc-backend/internal/auth"
	"github.com/kwlc-church/kwlc-backend/internal/books"
	"github.com/kwlc-church/kwlc-backend/internal/branches"
	cartsvc "github.com/kwlc-church/kwlc-backend/internal/cart"
	checkoutsvc "github.com/kwlc-church/kwlc-backend/internal/checkout"
	"github.com/kwlc-church/kwlc-backend/internal/donations"
	"github.com/kwlc-church/kwlc-backend/internal/events"
	"github.com/kwlc-church/kwlc-backend/internal/ministers"
	"github.com/kwlc-church/kwlc-backend/internal/orders"
	"github.com/kwlc-church/kwlc-backend/internal/users"
	"github.com/kwlc-church/kwlc-backend/pkg/auth/session"
	"github.com/kwlc-church/kwlc-backend/pkg/config"
	"github.com/kwlc-church/kwlc-backend/pkg/db"
	"github.com/kwlc-church/kwlc-backend/pkg/enums"
	"github.com/kwlc-church/kwlc-backend/pkg/logger"
	"github.com/kwlc-church/kwlc-backend/pkg/metrics"
	"github.com/kwlc-church/kwlc-backend/pkg/redis"
)

// Deps bundles everything the router mounts. Nil services surface as 500s on
// their routes rather than panicking at boot.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	Auth      authsvc.Service
	Users     users.Service
	Books     books.Service
	Branches  branches.Service
	Ministers ministers.Service
	Events    events.Service
	Donations donations.Service
	Orders    orders.Service
	Cart      cartsvc.Service
	Checkout  checkoutsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Get("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}).ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", controllers.Ping())

		// Public site content.
		r.Get("/books", controllers.BooksList(deps.Books, logg))
		r.Get("/books/{bookID}", controllers.BooksGet(deps.Books, logg))
		r.Get("/branches", controllers.BranchesList(deps.Branches, logg))
		r.Get("/branches/{branchID}", controllers.BranchesGet(deps.Branches, logg))
		r.Get("/ministers", controllers.MinistersList(deps.Ministers, logg))
		r.Get("/events", controllers.EventsUpcoming(deps.Events, logg))
		r.Get("/events/{eventID}", controllers.EventsGet(deps.Events, logg))

		// Giving.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Idempotency(deps.Redis, logg))
			r.Post("/donations", controllers.DonationsCreate(deps.Donations, logg))
		})
		r.Get("/donations/{reference}/status", controllers.DonationsStatus(deps.Donations, logg))

		// Session cart and checkout. The cookie middleware mints the cart
		// session these handlers read from context.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(cfg.Cart.TTL, cfg.App.IsProd(), logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.Fetch(deps.Cart, logg))
				r.Delete("/", cartcontrollers.Clear(deps.Cart, logg))
				r.Post("/items", cartcontrollers.AddItem(deps.Cart, logg))
				r.Patch("/items/{itemID}", cartcontrollers.UpdateQuantity(deps.Cart, logg))
				r.Delete("/items/{itemID}", cartcontrollers.RemoveItem(deps.Cart, logg))
			})

			r.With(middleware.Idempotency(deps.Redis, logg)).Post("/checkout", controllers.Checkout(deps.Checkout, logg))
		})

		r.Get("/orders/{reference}", controllers.OrdersTrack(deps.Orders, logg))

		// Back-office auth.
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", authcontrollers.Login(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", authcontrollers.Register(deps.Users, cfg.App.IsProd(), logg))
			r.Post("/refresh", authcontrollers.Refresh(deps.Auth, logg))
			r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).Post("/logout", authcontrollers.Logout(deps.Auth, logg))
		})

		// Back-office management.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(logg, enums.UserRoleAdmin.String(), enums.UserRoleEditor.String()))

				r.Get("/books", controllers.AdminBooksList(deps.Books, logg))
				r.Post("/books", controllers.AdminBooksCreate(deps.Books, logg))
				r.Patch("/books/{bookID}", controllers.AdminBooksUpdate(deps.Books, logg))
				r.Delete("/books/{bookID}", controllers.AdminBooksDelete(deps.Books, logg))

				r.Post("/branches", controllers.AdminBranchesCreate(deps.Branches, logg))
				r.Patch("/branches/{branchID}", controllers.AdminBranchesUpdate(deps.Branches, logg))
				r.Delete("/branches/{branchID}", controllers.AdminBranchesDelete(deps.Branches, logg))

				r.Post("/ministers", controllers.AdminMinistersCreate(deps.Ministers, logg))
				r.Patch("/ministers/{ministerID}", controllers.AdminMinistersUpdate(deps.Ministers, logg))
				r.Delete("/ministers/{ministerID}", controllers.AdminMinistersDelete(deps.Ministers, logg))

				r.Get("/events", controllers.AdminEventsList(deps.Events, logg))
				r.Post("/events", controllers.AdminEventsCreate(deps.Events, logg))
				r.Patch("/events/{eventID}", controllers.AdminEventsUpdate(deps.Events, logg))
				r.Delete("/events/{eventID}", controllers.AdminEventsDelete(deps.Events, logg))

				r.Get("/orders", controllers.AdminOrdersList(deps.Orders, logg))
				r.Get("/orders/{orderID}", controllers.AdminOrdersGet(deps.Orders, logg))
				r.Patch("/orders/{orderID}/status", controllers.AdminOrdersUpdateStatus(deps.Orders, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))

				r.Get("/donations", controllers.AdminDonationsList(deps.Donations, logg))
				r.Post("/donations/{reference}/confirm", controllers.AdminDonationsConfirm(deps.Donations, deps.Orders, logg))
				r.Post("/donations/{reference}/fail", controllers.AdminDonationsFail(deps.Donations, logg))

				r.Get("/users", controllers.AdminUsersList(deps.Users, logg))
				r.Post("/users", controllers.AdminUsersCreate(deps.Users, logg))
				r.Patch("/users/{userID}/active", controllers.AdminUsersSetActive(deps.Users, logg))
				r.Patch("/users/{userID}/role", controllers.AdminUsersSetRole(deps.Users, logg))
			})
		})
	})

	return r
}

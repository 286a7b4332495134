package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/siteadmin-backend/api/controllers"
	"github.com/angelmondragon/siteadmin-backend/api/middleware"
	"github.com/angelmondragon/siteadmin-backend/api/validators"
	"github.com/angelmondragon/siteadmin-backend/internal/auth"
	"github.com/angelmondragon/siteadmin-backend/internal/blog"
	"github.com/angelmondragon/siteadmin-backend/internal/brands"
	"github.com/angelmondragon/siteadmin-backend/internal/leads"
	"github.com/angelmondragon/siteadmin-backend/internal/legal"
	productsvc "github.com/angelmondragon/siteadmin-backend/internal/products"
	"github.com/angelmondragon/siteadmin-backend/internal/scripts"
	"github.com/angelmondragon/siteadmin-backend/internal/settings"
	"github.com/angelmondragon/siteadmin-backend/pkg/auth/session"
	"github.com/angelmondragon/siteadmin-backend/pkg/config"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/siteadmin-backend/pkg/redis"
)

// RedisStore is the slice of the redis client the HTTP layer needs.
type RedisStore interface {
	pkgredis.IdempotencyStore
	Set(context.Context, string, any, time.Duration) error
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
	Ping(context.Context) error
}

// RouterParams bundles everything the HTTP surface is built from. Redis,
// Storage and Gatherer may be nil; the features depending on them are
// skipped.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    RedisStore
	Storage  controllers.Pinger
	Sessions session.AccessSessionChecker
	Gatherer prometheus.Gatherer
	HTTP     *metrics.HTTPMetrics

	Auth     auth.Service
	Brands   brands.Service
	Products productsvc.Service
	Blog     blog.Service
	Leads    leads.Service
	Settings *settings.Service
	Legal    legal.Service
	Scripts  scripts.Service
}

// maxFilesPerSave bounds how many uploads one admin write may carry.
const maxFilesPerSave = 12

// adminBodyLimit allows a full set of maximum-size uploads plus the JSON payload.
func adminBodyLimit(cfg *config.Config) int64 {
	return cfg.Storage.MaxUploadBytes()*maxFilesPerSave + validators.MaxJSONBodyBytes
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, p.HTTP),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)
	leadPolicy := middleware.NewRateLimitPolicy(
		"leads",
		cfg.RateLimit.LeadWindow,
		cfg.RateLimit.LeadIPLimit,
		0,
	)

	deps := map[string]controllers.Pinger{}
	if p.DB != nil {
		deps["db"] = p.DB
	}
	if p.Redis != nil {
		deps["redis"] = p.Redis
	}
	if p.Storage != nil {
		deps["storage"] = p.Storage
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps, logg))
	})
	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/settings/{kind}", controllers.GetSettings(p.Settings, logg))
		r.Get("/page-headers/{key}", controllers.GetPageHeader(p.Settings, logg))
		r.Get("/products", controllers.PublicListProducts(p.Products, logg))
		r.Get("/products/{slug}", controllers.PublicGetProduct(p.Products, logg))
		r.Get("/product-categories", controllers.ListProductCategories(p.Products, logg))
		r.Get("/brands", controllers.PublicListBrands(p.Brands, logg))
		r.Get("/blog/posts", controllers.PublicListPosts(p.Blog, logg))
		r.Get("/blog/posts/{slug}", controllers.PublicGetPost(p.Blog, logg))
		r.Get("/blog/categories", controllers.ListBlogCategories(p.Blog, logg))
		r.Get("/legal/{slug}", controllers.GetLegalPage(p.Legal, logg))
		r.Get("/scripts", controllers.PublicScripts(p.Scripts, logg))
		r.With(
			middleware.RateLimit(leadPolicy, p.Redis, logg),
			middleware.Idempotency(middleware.IdempotencyPolicy{}, p.Redis, logg),
		).Post("/leads", controllers.PublicSubmitLead(p.Leads, logg))
	})

	authMiddleware := middleware.Auth(cfg.JWT, p.Sessions, logg)

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.RateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.Auth, logg))
		r.With(authMiddleware).Post("/logout", controllers.AuthLogout(p.Auth, logg))
		r.With(authMiddleware).Get("/me", controllers.AuthMe(p.Auth, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(authMiddleware, chimiddleware.RequestSize(adminBodyLimit(cfg)))

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", controllers.AdminListBrands(p.Brands, logg))
			r.Post("/", controllers.AdminSaveBrand(p.Brands, logg))
			r.Get("/{id}", controllers.AdminGetBrand(p.Brands, logg))
			r.Put("/{id}", controllers.AdminSaveBrand(p.Brands, logg))
			r.Delete("/{id}", controllers.AdminDeleteBrand(p.Brands, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(p.Products, logg))
			r.Post("/", controllers.AdminSaveProduct(p.Products, logg))
			r.Get("/{id}", controllers.AdminGetProduct(p.Products, logg))
			r.Put("/{id}", controllers.AdminSaveProduct(p.Products, logg))
			r.Delete("/{id}", controllers.AdminDeleteProduct(p.Products, logg))
		})

		r.Route("/product-categories", func(r chi.Router) {
			r.Get("/", controllers.ListProductCategories(p.Products, logg))
			r.Post("/", controllers.AdminSaveProductCategory(p.Products, logg))
			r.Get("/{id}", controllers.AdminGetProductCategory(p.Products, logg))
			r.Put("/{id}", controllers.AdminSaveProductCategory(p.Products, logg))
			r.Delete("/{id}", controllers.AdminDeleteProductCategory(p.Products, logg))
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/posts", controllers.AdminListPosts(p.Blog, logg))
			r.Post("/posts", controllers.AdminSavePost(p.Blog, logg))
			r.Get("/posts/{id}", controllers.AdminGetPost(p.Blog, logg))
			r.Put("/posts/{id}", controllers.AdminSavePost(p.Blog, logg))
			r.Delete("/posts/{id}", controllers.AdminDeletePost(p.Blog, logg))

			r.Get("/categories", controllers.ListBlogCategories(p.Blog, logg))
			r.Post("/categories", controllers.AdminSaveBlogCategory(p.Blog, logg))
			r.Put("/categories/{id}", controllers.AdminSaveBlogCategory(p.Blog, logg))
			r.Delete("/categories/{id}", controllers.AdminDeleteBlogCategory(p.Blog, logg))
		})

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", controllers.AdminListLeads(p.Leads, logg))
			r.Get("/{id}", controllers.AdminGetLead(p.Leads, logg))
			r.Patch("/{id}", controllers.AdminUpdateLeadStatus(p.Leads, logg))
			r.Delete("/{id}", controllers.AdminDeleteLead(p.Leads, logg))
		})

		r.Get("/settings/{kind}", controllers.GetSettings(p.Settings, logg))
		r.Put("/settings/{kind}", controllers.AdminSaveSettings(p.Settings, logg))

		r.Route("/page-headers", func(r chi.Router) {
			r.Get("/", controllers.AdminListPageHeaders(p.Settings, logg))
			r.Get("/{key}", controllers.GetPageHeader(p.Settings, logg))
			r.Put("/{key}", controllers.AdminSavePageHeader(p.Settings, logg))
			r.Delete("/{key}", controllers.AdminDeletePageHeader(p.Settings, logg))
		})

		r.Route("/legal", func(r chi.Router) {
			r.Get("/", controllers.AdminListLegalPages(p.Legal, logg))
			r.Get("/{slug}", controllers.GetLegalPage(p.Legal, logg))
			r.Put("/{slug}", controllers.AdminSaveLegalPage(p.Legal, logg))
			r.Delete("/{slug}", controllers.AdminDeleteLegalPage(p.Legal, logg))
		})

		r.Route("/scripts", func(r chi.Router) {
			r.Get("/", controllers.AdminListScripts(p.Scripts, logg))
			r.Post("/", controllers.AdminSaveScript(p.Scripts, logg))
			r.Get("/{id}", controllers.AdminGetScript(p.Scripts, logg))
			r.Put("/{id}", controllers.AdminSaveScript(p.Scripts, logg))
			r.Delete("/{id}", controllers.AdminDeleteScript(p.Scripts, logg))
		})
	})

	return r
}

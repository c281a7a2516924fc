package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// RouterOptions carries the cross-cutting settings the router wires in.
type RouterOptions struct {
	AllowedOrigins  []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
	Logger          func(stdhttp.Handler) stdhttp.Handler
}

func NewRouter(app *handlers.App, opts RouterOptions) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	if opts.Logger != nil {
		r.Use(opts.Logger)
	}
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.I18N(opts.DefaultLocale, opts.CountryLookup))
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)

	r.Post("/v1/chat", app.Chat)
	r.Post("/v1/signup", app.Signup)
	r.Post("/v1/auth", app.Auth)

	r.Route("/v1/users", func(r chi.Router) {
		r.Get("/", app.UsersList)
		r.Get("/stats", app.UsersStats)
	})

	return r
}

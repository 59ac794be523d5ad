package server

import (
	"net/http"

	"github.com/yerkebulan111/movie-land-platform/internal/api"
	"github.com/yerkebulan111/movie-land-platform/internal/config"
	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
	"github.com/yerkebulan111/movie-land-platform/internal/ratelimit"
	"go.uber.org/zap"
)

/*
NewServer builds the HTTP handler of the application.

Every route of api.Routes is registered on a ServeMux wrapped, from the
outside in, with:
  - rate limiting for routes flagged RateLimited
  - authentication for non public routes
  - role authorization for routes listing roles

The whole mux then goes through CORS and the request logger. Unknown /api
paths answer a JSON 404; any other path is served from cfg.StaticDir.
limiter may be nil, which disables rate limiting.
*/
func NewServer(db *mongodb.DB, cfg *config.Config, limiter *ratelimit.Limiter, logger *zap.Logger) http.Handler {
	handlers := api.NewAPI(db, cfg.JWTSecret, cfg.JWTExpiry)
	authenticate := AuthMiddleware(cfg.JWTSecret, db)

	mux := http.NewServeMux()

	for _, route := range handlers.Routes() {
		var handler http.Handler = route.Handler

		if len(route.Roles) > 0 {
			handler = RequireRoles(route.Roles...)(handler)
		}
		if !route.Public {
			handler = authenticate(handler)
		}
		if route.RateLimited && limiter != nil {
			handler = RateLimitMiddleware(limiter, route.Pattern)(handler)
		}

		mux.Handle(route.Method+" "+route.Pattern, handler)
	}

	mux.HandleFunc("/api/", api.NotFound)
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))

	return RequestIdMiddleware(logger)(CORSMiddleware(mux))
}

// NewHTTPServer wraps the handler in an http.Server listening on the configured port.
func NewHTTPServer(handler http.Handler, cfg *config.Config) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

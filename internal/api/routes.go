package api

import (
	"net/http"

	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
)

/*
Route describes one endpoint and who may call it.

  - Public routes skip authentication.
  - Roles, when set, restricts an authenticated route to those roles.
  - RateLimited routes go through the auth rate limiter.

Ownership rules (for example who may edit a review) are checked by the
services, not here.
*/
type Route struct {
	Method      string
	Pattern     string
	Public      bool
	Roles       []string
	RateLimited bool
	Handler     http.HandlerFunc
}

var catalogManagers = []string{mongodb.RoleAdmin, mongodb.RoleModerator}

func (api *API) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Pattern: "/api/health", Public: true, Handler: api.Health},

		{Method: http.MethodPost, Pattern: "/api/auth/register", Public: true, RateLimited: true, Handler: api.Register},
		{Method: http.MethodPost, Pattern: "/api/auth/login", Public: true, RateLimited: true, Handler: api.Login},
		{Method: http.MethodGet, Pattern: "/api/auth/me", Handler: api.Me},
		{Method: http.MethodGet, Pattern: "/api/auth/watchlist", Handler: api.GetWatchlist},
		{Method: http.MethodPost, Pattern: "/api/auth/watchlist/{movieId}", Handler: api.AddToWatchlist},
		{Method: http.MethodDelete, Pattern: "/api/auth/watchlist/{movieId}", Handler: api.RemoveFromWatchlist},
		{Method: http.MethodPut, Pattern: "/api/auth/updatedetails", Handler: api.UpdateDetails},
		{Method: http.MethodPut, Pattern: "/api/auth/updatepassword", Handler: api.UpdatePassword},

		{Method: http.MethodGet, Pattern: "/api/movies", Public: true, Handler: api.GetMovies},
		{Method: http.MethodGet, Pattern: "/api/movies/search", Public: true, Handler: api.SearchMovies},
		{Method: http.MethodGet, Pattern: "/api/movies/stats", Public: true, Handler: api.GetMovieStats},
		{Method: http.MethodGet, Pattern: "/api/movies/top-rated", Public: true, Handler: api.GetTopRatedMovies},
		{Method: http.MethodGet, Pattern: "/api/movies/{id}", Public: true, Handler: api.GetMovie},
		{Method: http.MethodPost, Pattern: "/api/movies", Roles: catalogManagers, Handler: api.CreateMovie},
		{Method: http.MethodPut, Pattern: "/api/movies/{id}", Roles: catalogManagers, Handler: api.UpdateMovie},
		{Method: http.MethodDelete, Pattern: "/api/movies/{id}", Roles: catalogManagers, Handler: api.DeleteMovie},

		{Method: http.MethodPost, Pattern: "/api/movies/{id}/reviews", Handler: api.AddReview},
		{Method: http.MethodPut, Pattern: "/api/movies/{id}/reviews/{reviewId}", Handler: api.UpdateReview},
		{Method: http.MethodDelete, Pattern: "/api/movies/{id}/reviews/{reviewId}", Handler: api.DeleteReview},

		{Method: http.MethodGet, Pattern: "/api/users", Roles: []string{mongodb.RoleAdmin}, Handler: api.GetUsers},
		{Method: http.MethodDelete, Pattern: "/api/users/{id}", Roles: []string{mongodb.RoleAdmin}, Handler: api.DeleteUser},
	}
}

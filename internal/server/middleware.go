package server

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/yerkebulan111/movie-land-platform/internal/api"
	"github.com/yerkebulan111/movie-land-platform/internal/auth"
	"github.com/yerkebulan111/movie-land-platform/internal/logx"
	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
	"github.com/yerkebulan111/movie-land-platform/internal/ratelimit"
	"go.uber.org/zap"
)

const requestIdHeader = "X-Request-Id"

var ErrUserNoLongerExists = errors.New("user no longer exists")

////////////////////////////////////////////////////////////////////////////
//  LOGGER MIDDLEWARE
////////////////////////////////////////////////////////////////////////////

// responseRecorder wraps http.ResponseWriter to capture status code
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rr *responseRecorder) WriteHeader(statusCode int) {
	rr.statusCode = statusCode
	rr.ResponseWriter.WriteHeader(statusCode)
}

/*
RequestIdMiddleware gives every request an id and a logger carrying it.

  - The id is taken from the X-Request-Id header when present, otherwise a new
    UUID is generated, and it is echoed back in the response header.
  - The request logger has the requestId, method and path fields and is
    stored in the context for logx.FromContext.
  - One line is logged when the response is written, with status and duration.
*/
func RequestIdMiddleware(baseLogger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestId := r.Header.Get(requestIdHeader)
			if requestId == "" {
				requestId = uuid.NewString()
			}
			startTime := time.Now()

			logger := baseLogger.With(
				zap.String("requestId", requestId),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			logger.Debug("request received")

			r = r.WithContext(logx.WithLogger(r.Context(), logger))

			w.Header().Set(requestIdHeader, requestId)
			recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(recorder, r)

			logger.Info("request completed",
				zap.Int("status", recorder.statusCode),
				zap.Duration("duration", time.Since(startTime)),
			)
		})
	}
}

////////////////////////////////////////////////////////////////////////////
//  CORS MIDDLEWARE
////////////////////////////////////////////////////////////////////////////

// CORSMiddleware allows any origin and answers preflight requests directly.
func CORSMiddleware(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", requestIdHeader},
		ExposedHeaders: []string{requestIdHeader, "Retry-After"},
	}).Handler(next)
}

////////////////////////////////////////////////////////////////////////////
//  AUTHENTICATION MIDDLEWARE
////////////////////////////////////////////////////////////////////////////

// AuthMiddleware validates the bearer token and loads the user it names. A
// token of a deleted user is rejected even when it has not expired.
func AuthMiddleware(tokenSecret string, db *mongodb.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := logx.FromContext(r.Context())

			tokenString, err := auth.GetBearerToken(r.Header)
			if err != nil {
				api.RespondWithUnauthorized(w, nil)
				return
			}

			claims, err := auth.ValidateJWT(tokenString, tokenSecret)
			if err != nil {
				if _, ok := auth.ErrorsMap[err]; ok {
					api.RespondWithUnauthorized(w, err)
					return
				}
				logger.Warn("token validation failed", zap.Error(err))
				api.RespondWithUnauthorized(w, nil)
				return
			}

			userDb, err := db.GetUserById(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, mongodb.ErrRecordNotFound) {
					api.RespondWithUnauthorized(w, ErrUserNoLongerExists)
					return
				}
				logger.Error("loading authenticated user", zap.Error(err))
				api.RespondWithError(w, http.StatusInternalServerError, "Server error")
				return
			}

			ctx := auth.WithUser(r.Context(), userDb)
			ctx = logx.WithLogger(ctx, logger.With(zap.String("userId", userDb.Id)))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles must run after AuthMiddleware. The role is read from the
// stored user, not from the token, so a role change applies at once.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.GetUserFromContext(r.Context())
			if user == nil {
				api.RespondWithUnauthorized(w, nil)
				return
			}
			if !auth.HasRole(user.Role, roles...) {
				api.RespondWithForbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

////////////////////////////////////////////////////////////////////////////
//  RATE LIMIT MIDDLEWARE
////////////////////////////////////////////////////////////////////////////

// RateLimitMiddleware counts requests per client IP and route. Redis errors
// are logged and the request goes through.
func RateLimitMiddleware(limiter *ratelimit.Limiter, routeName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r) + ":" + routeName

			allowed, retryAfter, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logx.FromContext(r.Context()).Warn("rate limiter unavailable", zap.Error(err))
			}
			if !allowed {
				api.RespondWithTooManyRequests(w, retryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/yerkebulan111/movie-land-platform/internal/logx"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// Health reports whether the database answers a ping.
func (api *API) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := api.Db.Ping(ctx); err != nil {
		logx.FromContext(r.Context()).Warn("health check failed", zap.Error(err))
		RespondWithError(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "MovieLand API is running"})
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	RespondWithError(w, http.StatusNotFound, formatErrorMessage(ErrRouteNotFound))
}

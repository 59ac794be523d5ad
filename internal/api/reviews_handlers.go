package api

import (
	"net/http"

	"github.com/yerkebulan111/movie-land-platform/internal/services/movies"
	"github.com/yerkebulan111/movie-land-platform/internal/services/reviews"
)

// Review mutations answer with the movie and its reviews so clients see the
// recomputed ranking.

func (api *API) AddReview(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	movieId, ok := pathObjectId(w, r, "id")
	if !ok {
		return
	}

	var req reviews.NewReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := reviews.AddReview(api.Db, r.Context(), movieId, user, req); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	api.respondWithMovieDetail(w, r, http.StatusCreated, movieId, "")
}

func (api *API) UpdateReview(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	movieId, ok := pathObjectId(w, r, "id")
	if !ok {
		return
	}
	reviewId, ok := pathObjectId(w, r, "reviewId")
	if !ok {
		return
	}

	var req reviews.UpdateReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := reviews.UpdateReview(api.Db, r.Context(), movieId, reviewId, user, req); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	api.respondWithMovieDetail(w, r, http.StatusOK, movieId, "")
}

func (api *API) DeleteReview(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	movieId, ok := pathObjectId(w, r, "id")
	if !ok {
		return
	}
	reviewId, ok := pathObjectId(w, r, "reviewId")
	if !ok {
		return
	}

	if err := reviews.DeleteReview(api.Db, r.Context(), movieId, reviewId, user); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	api.respondWithMovieDetail(w, r, http.StatusOK, movieId, "Review deleted successfully")
}

func (api *API) respondWithMovieDetail(w http.ResponseWriter, r *http.Request, code int, movieId, message string) {
	movie, err := movies.GetMovieDetail(api.Db, r.Context(), movieId)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, code, DataResponse{Success: true, Message: message, Data: movie})
}

package api

import (
	"net/http"

	"github.com/yerkebulan111/movie-land-platform/internal/generics"
	"github.com/yerkebulan111/movie-land-platform/internal/services/movies"
	"github.com/yerkebulan111/movie-land-platform/internal/validation"
)

func (api *API) GetMovies(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := movies.MovieQuery{
		Genre:     params.Get("genre"),
		Year:      generics.StringToInt(params.Get("year")),
		Director:  params.Get("director"),
		MinRating: generics.StringToFloat(params.Get("minRating")),
		SortBy:    params.Get("sortBy"),
		Order:     params.Get("order"),
		Page:      generics.StringToInt(params.Get("page")),
		Limit:     generics.StringToInt(params.Get("limit")),
	}
	if fieldErrors := validation.Struct(query); len(fieldErrors) > 0 {
		respondWithValidationErrors(w, fieldErrors)
		return
	}

	page, err := movies.GetPageOfMovies(api.Db, r.Context(), query)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, PageResponse{
		Success: true,
		Count:   len(page.Content),
		Total:   page.TotalResults,
		Page:    page.Page,
		Pages:   page.TotalPages,
		Data:    page.Content,
	})
}

func (api *API) SearchMovies(w http.ResponseWriter, r *http.Request) {
	results, err := movies.SearchMovies(api.Db, r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ListResponse{Success: true, Count: len(results), Data: results})
}

func (api *API) GetTopRatedMovies(w http.ResponseWriter, r *http.Request) {
	limit := generics.StringToInt(r.URL.Query().Get("limit"))

	topRated, err := movies.GetTopRatedMovies(api.Db, r.Context(), limit)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ListResponse{Success: true, Count: len(topRated), Data: topRated})
}

func (api *API) GetMovieStats(w http.ResponseWriter, r *http.Request) {
	stats, err := movies.GetMovieStats(api.Db, r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, DataResponse{Success: true, Data: stats})
}

func (api *API) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieId, ok := pathObjectId(w, r, "id")
	if !ok {
		return
	}

	movie, err := movies.GetMovieDetail(api.Db, r.Context(), movieId)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, DataResponse{Success: true, Data: movie})
}

func (api *API) CreateMovie(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req movies.CreateMovieRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	movie, err := movies.CreateMovie(api.Db, r.Context(), req, user.Id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, DataResponse{Success: true, Data: movie})
}

func (api *API) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	movieId, ok := pathObjectId(w, r, "id")
	if !ok {
		return
	}

	var req movies.UpdateMovieRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	movie, err := movies.UpdateMovie(api.Db, r.Context(), movieId, req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, DataResponse{Success: true, Data: movie})
}

func (api *API) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	movieId, ok := pathObjectId(w, r, "id")
	if !ok {
		return
	}

	if err := movies.CascadeDeleteMovie(api.Db, r.Context(), movieId); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Movie deleted successfully"})
}

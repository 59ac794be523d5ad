package api

import (
	"net/http"

	"github.com/yerkebulan111/movie-land-platform/internal/auth"
	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
	"github.com/yerkebulan111/movie-land-platform/internal/services/users"
)

func (api *API) Register(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userDb, err := users.Register(api.Db, r.Context(), req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	api.respondWithToken(w, r, http.StatusCreated, userDb)
}

func (api *API) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userDb, err := users.Login(api.Db, r.Context(), req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	api.respondWithToken(w, r, http.StatusOK, userDb)
}

func (api *API) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, DataResponse{Success: true, Data: users.MapDbUserToApiUser(user)})
}

func (api *API) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req users.UpdateDetailsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updatedUser, err := users.UpdateDetails(api.Db, r.Context(), user.Id, req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, DataResponse{Success: true, Data: updatedUser})
}

// UpdatePassword answers with a fresh token like a login does.
func (api *API) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req users.UpdatePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userDb, err := users.UpdatePassword(api.Db, r.Context(), user.Id, req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	api.respondWithToken(w, r, http.StatusOK, userDb)
}

func (api *API) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	watchlist, err := users.GetWatchlist(api.Db, r.Context(), user.Id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ListResponse{Success: true, Count: len(watchlist), Data: watchlist})
}

func (api *API) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	movieId, ok := pathObjectId(w, r, "movieId")
	if !ok {
		return
	}

	if err := users.AddToWatchlist(api.Db, r.Context(), user.Id, movieId); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Movie added to watchlist"})
}

func (api *API) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	movieId, ok := pathObjectId(w, r, "movieId")
	if !ok {
		return
	}

	if err := users.RemoveFromWatchlist(api.Db, r.Context(), user.Id, movieId); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Movie removed from watchlist"})
}

func (api *API) respondWithToken(w http.ResponseWriter, r *http.Request, code int, userDb mongodb.UserDb) {
	token, err := auth.MakeJWT(userDb.Id, userDb.Role, api.Secret, api.TokenTTL)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, code, AuthResponse{
		Success: true,
		Token:   token,
		User:    users.MapDbUserToApiUser(userDb),
	})
}

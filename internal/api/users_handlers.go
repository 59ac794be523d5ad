package api

import (
	"net/http"

	"github.com/yerkebulan111/movie-land-platform/internal/services/users"
)

func (api *API) GetUsers(w http.ResponseWriter, r *http.Request) {
	allUsers, err := users.GetAllUsers(api.Db, r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ListResponse{Success: true, Count: len(allUsers), Data: allUsers})
}

func (api *API) DeleteUser(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentUser(w, r)
	if !ok {
		return
	}
	userId, ok := pathObjectId(w, r, "id")
	if !ok {
		return
	}

	if err := users.CascadeDeleteUser(api.Db, r.Context(), userId, admin.Id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "User deleted successfully"})
}

package server_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
	"github.com/yerkebulan111/movie-land-platform/internal/services/reviews"
	"github.com/yerkebulan111/movie-land-platform/internal/services/users"
	"go.mongodb.org/mongo-driver/bson"
)

func TestListUsers(t *testing.T) {
	resetDB(t)

	_, userToken := registerUser(t, "first")
	registerUser(t, "second")
	_, adminToken := addUserWithRole(t, "admin", mongodb.RoleAdmin)

	t.Run("Only admins list users", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, "/api/users", userToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Users come newest first without password hashes", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, "/api/users", adminToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[[]map[string]any](t, resp)
		require.Equal(t, 3, body.Count)
		require.Equal(t, "admin", body.Data[0]["username"])
		for _, user := range body.Data {
			require.NotContains(t, user, "passwordHash")
			require.NotContains(t, user, "password")
		}
	})
}

func TestDeleteUserCascades(t *testing.T) {
	resetDB(t)

	admin, adminToken := addUserWithRole(t, "admin", mongodb.RoleAdmin)
	leaving, leavingToken := addUserWithRole(t, "leaving", mongodb.RoleUser)
	staying, stayingToken := addUserWithRole(t, "staying", mongodb.RoleUser)

	heat := seedMovie(t, newMovieRequest("Heat", 1995, "Michael Mann", "Crime"))
	ronin := seedMovie(t, newMovieRequest("Ronin", 1998, "John Frankenheimer", "Action"))

	post := func(movieId string, user mongodb.UserDb, rating int) {
		_, err := reviews.AddReview(testDb, t.Context(), movieId, user, reviews.NewReviewRequest{Rating: rating, Comment: "Seen"})
		require.NoError(t, err)
	}
	post(heat.Id, leaving, 2)
	post(heat.Id, staying, 9)
	post(ronin.Id, leaving, 4)

	require.Equal(t, 5.5, getMovieDb(t, heat.Id).Ranking)

	t.Run("An admin cannot delete themselves", func(t *testing.T) {
		resp := doRequest(t, http.MethodDelete, "/api/users/"+admin.Id, adminToken, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody[any](t, resp)
		require.Equal(t, "You cannot delete your own account", body.Message)
	})

	t.Run("A regular user cannot delete accounts", func(t *testing.T) {
		resp := doRequest(t, http.MethodDelete, "/api/users/"+staying.Id, leavingToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Deleting a user removes their reviews and recomputes rankings", func(t *testing.T) {
		resp := doRequest(t, http.MethodDelete, "/api/users/"+leaving.Id, adminToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[any](t, resp)
		require.Equal(t, "User deleted successfully", body.Message)

		require.Zero(t, countReviews(t, bson.M{"userId": leaving.Id}))

		heatDb := getMovieDb(t, heat.Id)
		require.Equal(t, 9.0, heatDb.Ranking)
		require.Equal(t, 1, heatDb.ReviewCount)

		roninDb := getMovieDb(t, ronin.Id)
		require.Zero(t, roninDb.Ranking)
		require.Zero(t, roninDb.ReviewCount)

		_, err := testDb.GetUserById(t.Context(), leaving.Id)
		require.ErrorIs(t, err, mongodb.ErrRecordNotFound)
	})

	t.Run("The deleted user's token stops working", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, "/api/auth/me", leavingToken, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Deleting a missing user returns 404", func(t *testing.T) {
		resp := doRequest(t, http.MethodDelete, "/api/users/"+leaving.Id, adminToken, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		body := decodeBody[any](t, resp)
		require.Equal(t, "User not found", body.Message)
	})

	t.Run("A role change applies without a new token", func(t *testing.T) {
		_, err := testDb.UpdateUser(t.Context(), staying.Id, bson.M{"role": mongodb.RoleModerator})
		require.NoError(t, err)

		resp := doRequest(t, http.MethodGet, "/api/auth/me", stayingToken, nil)
		body := decodeBody[users.User](t, resp)
		require.Equal(t, mongodb.RoleModerator, body.Data.Role)

		resp = doRequest(t, http.MethodPost, "/api/movies", stayingToken, newMovieRequest("Thief", 1981, "Michael Mann"))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	})
}

package server_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
	"github.com/yerkebulan111/movie-land-platform/internal/services/movies"
	"github.com/yerkebulan111/movie-land-platform/internal/services/reviews"
	"go.mongodb.org/mongo-driver/bson"
)

func addReviewRequest(t *testing.T, movieId, token string, rating int, comment string) *http.Response {
	t.Helper()
	return doRequest(t, http.MethodPost, "/api/movies/"+movieId+"/reviews", token,
		reviews.NewReviewRequest{Rating: rating, Comment: comment})
}

func TestAddReview(t *testing.T) {
	resetDB(t)

	movie := seedMovie(t, newMovieRequest("Heat", 1995, "Michael Mann", "Crime"))
	_, firstToken := registerUser(t, "first")
	_, secondToken := registerUser(t, "second")
	_, thirdToken := registerUser(t, "third")

	t.Run("A movie without reviews has ranking 0", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, "/api/movies/"+movie.Id, "", nil)
		body := decodeBody[movies.MovieDetail](t, resp)
		require.Zero(t, body.Data.Ranking)
		require.NotNil(t, body.Data.Reviews)
		require.Empty(t, body.Data.Reviews)
	})

	t.Run("Ranking follows the mean rounded to one decimal", func(t *testing.T) {
		steps := []struct {
			token    string
			rating   int
			expected float64
		}{
			{firstToken, 7, 7},
			{secondToken, 8, 7.5},
			{thirdToken, 8, 7.7},
		}

		for _, step := range steps {
			resp := addReviewRequest(t, movie.Id, step.token, step.rating, "Worth watching")
			require.Equal(t, http.StatusCreated, resp.StatusCode)

			body := decodeBody[movies.MovieDetail](t, resp)
			require.Equal(t, step.expected, body.Data.Ranking)
			require.Equal(t, len(body.Data.Reviews), body.Data.ReviewCount)

			movieDb := getMovieDb(t, movie.Id)
			require.Equal(t, step.expected, movieDb.Ranking)
		}
	})

	t.Run("Reviews come newest first with the author name", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, "/api/movies/"+movie.Id, "", nil)
		body := decodeBody[movies.MovieDetail](t, resp)
		require.Len(t, body.Data.Reviews, 3)
		require.Equal(t, "third", body.Data.Reviews[0].Username)
		require.Equal(t, "first", body.Data.Reviews[2].Username)
	})

	t.Run("Reviewing the same movie twice returns 400", func(t *testing.T) {
		resp := addReviewRequest(t, movie.Id, firstToken, 1, "Changed my mind")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody[any](t, resp)
		require.Equal(t, "You have already reviewed this movie", body.Message)
		require.Equal(t, 7.7, getMovieDb(t, movie.Id).Ranking)
	})

	t.Run("Invalid ratings and comments are rejected", func(t *testing.T) {
		for _, rating := range []int{0, 11} {
			resp := addReviewRequest(t, movie.Id, firstToken, rating, "ok")
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeBody[any](t, resp)
			require.Equal(t, "rating", body.Errors[0].Field)
		}

		resp := addReviewRequest(t, movie.Id, firstToken, 5, "   ")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Reviewing an unknown movie returns 404", func(t *testing.T) {
		resp := addReviewRequest(t, "665f1c2b9a1e4a0012345678", firstToken, 5, "ok")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Reviewing without a token returns 401", func(t *testing.T) {
		resp := addReviewRequest(t, movie.Id, "", 5, "ok")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestConcurrentDuplicateReviews(t *testing.T) {
	resetDB(t)

	movie := seedMovie(t, newMovieRequest("Heat", 1995, "Michael Mann", "Crime"))
	_, token := registerUser(t, "eager")

	const attempts = 8
	requests := make([]func() (*http.Response, error), attempts)
	for i := range requests {
		requests[i] = func() (*http.Response, error) {
			return sendRequest(http.MethodPost, "/api/movies/"+movie.Id+"/reviews", token,
				reviews.NewReviewRequest{Rating: 6, Comment: "Posted twice by accident"})
		}
	}

	statuses, errs := sendConcurrently(requests)
	for _, err := range errs {
		require.NoError(t, err)
	}

	created := 0
	for _, status := range statuses {
		if status == http.StatusCreated {
			created++
			continue
		}
		require.Equal(t, http.StatusBadRequest, status)
	}
	require.Equal(t, 1, created)

	require.Equal(t, int64(1), countReviews(t, bson.M{"movieId": movie.Id}))
	movieDb := getMovieDb(t, movie.Id)
	require.Equal(t, 6.0, movieDb.Ranking)
	require.Equal(t, 1, movieDb.ReviewCount)
}

// requireRankingMatchesReviews checks the stored derived fields against the
// reviews actually stored for the movie.
func requireRankingMatchesReviews(t *testing.T, movieId string) mongodb.MovieDb {
	t.Helper()

	ratings, err := testDb.GetMovieRatings(t.Context(), movieId)
	require.NoError(t, err)

	movieDb := getMovieDb(t, movieId)
	require.Equal(t, len(ratings), movieDb.ReviewCount)
	require.Equal(t, reviews.ComputeRanking(ratings), movieDb.Ranking)
	return movieDb
}

func TestConcurrentReviewsByDifferentUsers(t *testing.T) {
	resetDB(t)

	movie := seedMovie(t, newMovieRequest("Heat", 1995, "Michael Mann", "Crime"))

	const reviewers = 12
	tokens := make([]string, reviewers)
	for i := range tokens {
		_, tokens[i] = addUserWithRole(t, fmt.Sprintf("reviewer%02d", i), mongodb.RoleUser)
	}

	t.Run("Concurrent new reviews are all counted", func(t *testing.T) {
		requests := make([]func() (*http.Response, error), reviewers)
		for i := range requests {
			requests[i] = func() (*http.Response, error) {
				return sendRequest(http.MethodPost, "/api/movies/"+movie.Id+"/reviews", tokens[i],
					reviews.NewReviewRequest{Rating: i%10 + 1, Comment: "Seen it"})
			}
		}

		statuses, errs := sendConcurrently(requests)
		for i := range statuses {
			require.NoError(t, errs[i])
			require.Equal(t, http.StatusCreated, statuses[i])
		}

		movieDb := requireRankingMatchesReviews(t, movie.Id)
		require.Equal(t, reviewers, movieDb.ReviewCount)
	})

	t.Run("Concurrent edits and deletions keep the ranking exact", func(t *testing.T) {
		detail := decodeBody[movies.MovieDetail](t, doRequest(t, http.MethodGet, "/api/movies/"+movie.Id, "", nil))
		require.Len(t, detail.Data.Reviews, reviewers)

		tokenOf := map[string]string{}
		for i, token := range tokens {
			tokenOf[fmt.Sprintf("reviewer%02d", i)] = token
		}

		requests := make([]func() (*http.Response, error), 0, reviewers)
		deleted := 0
		for i, review := range detail.Data.Reviews {
			path := "/api/movies/" + movie.Id + "/reviews/" + review.Id
			token := tokenOf[review.Username]
			if i%3 == 0 {
				deleted++
				requests = append(requests, func() (*http.Response, error) {
					return sendRequest(http.MethodDelete, path, token, nil)
				})
				continue
			}
			rating := 10 - review.Rating + 1
			requests = append(requests, func() (*http.Response, error) {
				return sendRequest(http.MethodPut, path, token, reviews.UpdateReviewRequest{Rating: &rating})
			})
		}

		statuses, errs := sendConcurrently(requests)
		for i := range statuses {
			require.NoError(t, errs[i])
			require.Equal(t, http.StatusOK, statuses[i])
		}

		movieDb := requireRankingMatchesReviews(t, movie.Id)
		require.Equal(t, reviewers-deleted, movieDb.ReviewCount)
	})
}

func TestDeleteMovieWhileReviewing(t *testing.T) {
	resetDB(t)

	movie := seedMovie(t, newMovieRequest("Heat", 1995, "Michael Mann", "Crime"))

	const reviewers = 10
	reviewerDbs := make([]mongodb.UserDb, reviewers)
	for i := range reviewerDbs {
		reviewerDbs[i], _ = addUserWithRole(t, fmt.Sprintf("racer%02d", i), mongodb.RoleUser)
	}

	errs := make([]error, reviewers+1)
	var wg sync.WaitGroup
	for i, reviewer := range reviewerDbs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = reviews.AddReview(testDb, context.Background(), movie.Id, reviewer,
				reviews.NewReviewRequest{Rating: 7, Comment: "Just in time"})
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[reviewers] = movies.CascadeDeleteMovie(testDb, context.Background(), movie.Id)
	}()
	wg.Wait()

	require.NoError(t, errs[reviewers])
	for _, err := range errs[:reviewers] {
		if err != nil {
			require.ErrorIs(t, err, reviews.ErrMovieNotFound)
		}
	}

	require.Zero(t, countReviews(t, bson.M{"movieId": movie.Id}), "no review outlives its movie")

	_, err := testDb.GetMovieById(t.Context(), movie.Id)
	require.ErrorIs(t, err, mongodb.ErrRecordNotFound)
}

func TestRecomputeOnMissingMovie(t *testing.T) {
	resetDB(t)

	_, err := reviews.RecomputeMovieRanking(testDb, t.Context(), "665f1c2b9a1e4a0012345678")
	require.ErrorIs(t, err, mongodb.ErrRecordNotFound)
}

func TestUpdateAndDeleteReview(t *testing.T) {
	resetDB(t)

	movie := seedMovie(t, newMovieRequest("Heat", 1995, "Michael Mann", "Crime"))
	otherMovie := seedMovie(t, newMovieRequest("Ronin", 1998, "John Frankenheimer", "Action"))
	_, authorToken := registerUser(t, "author")
	_, strangerToken := registerUser(t, "stranger")
	_, adminToken := addUserWithRole(t, "admin", mongodb.RoleAdmin)

	resp := addReviewRequest(t, movie.Id, authorToken, 6, "Decent")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	detail := decodeBody[movies.MovieDetail](t, resp)
	reviewId := detail.Data.Reviews[0].Id

	resp = addReviewRequest(t, movie.Id, strangerToken, 9, "Great")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	detail = decodeBody[movies.MovieDetail](t, resp)
	require.Equal(t, 7.5, detail.Data.Ranking)
	strangerReviewId := detail.Data.Reviews[0].Id

	reviewPath := "/api/movies/" + movie.Id + "/reviews/" + reviewId

	t.Run("Only the author can update", func(t *testing.T) {
		rating := 10
		resp := doRequest(t, http.MethodPut, reviewPath, strangerToken, reviews.UpdateReviewRequest{Rating: &rating})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()

		resp = doRequest(t, http.MethodPut, reviewPath, adminToken, reviews.UpdateReviewRequest{Rating: &rating})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Updating the rating recomputes the ranking", func(t *testing.T) {
		rating := 8
		resp := doRequest(t, http.MethodPut, reviewPath, authorToken, reviews.UpdateReviewRequest{Rating: &rating})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[movies.MovieDetail](t, resp)
		require.Equal(t, 8.5, body.Data.Ranking)
		require.Equal(t, 8.5, getMovieDb(t, movie.Id).Ranking)
	})

	t.Run("Updating only the comment keeps the rating", func(t *testing.T) {
		comment := "Better on a second watch"
		resp := doRequest(t, http.MethodPut, reviewPath, authorToken, reviews.UpdateReviewRequest{Comment: &comment})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[movies.MovieDetail](t, resp)
		for _, review := range body.Data.Reviews {
			if review.Id == reviewId {
				require.Equal(t, comment, review.Comment)
				require.Equal(t, 8, review.Rating)
			}
		}
	})

	t.Run("A review addressed through another movie is not found", func(t *testing.T) {
		rating := 1
		resp := doRequest(t, http.MethodPut, "/api/movies/"+otherMovie.Id+"/reviews/"+reviewId, authorToken,
			reviews.UpdateReviewRequest{Rating: &rating})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("A stranger cannot delete but an admin can", func(t *testing.T) {
		resp := doRequest(t, http.MethodDelete, reviewPath, strangerToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()

		resp = doRequest(t, http.MethodDelete, reviewPath, adminToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[movies.MovieDetail](t, resp)
		require.Equal(t, "Review deleted successfully", body.Message)
		require.Equal(t, 9.0, body.Data.Ranking)
		require.Equal(t, 1, body.Data.ReviewCount)
	})

	t.Run("Deleting the last review resets the ranking", func(t *testing.T) {
		resp := doRequest(t, http.MethodDelete, "/api/movies/"+movie.Id+"/reviews/"+strangerReviewId, strangerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		movieDb := getMovieDb(t, movie.Id)
		require.Zero(t, movieDb.Ranking)
		require.Zero(t, movieDb.ReviewCount)
	})

	t.Run("Deleting a missing review returns 404", func(t *testing.T) {
		resp := doRequest(t, http.MethodDelete, reviewPath, authorToken, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

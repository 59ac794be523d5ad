package reviews

import (
	"errors"
	"net/http"
)

var (
	ErrReviewAlreadyExists = errors.New("you have already reviewed this movie")
	ErrReviewNotFound      = errors.New("review not found")
	ErrMovieNotFound       = errors.New("movie not found")
	ErrNotAllowedToUpdate  = errors.New("not authorized to update this review")
	ErrNotAllowedToDelete  = errors.New("not authorized to delete this review")
	ErrNothingToUpdate     = errors.New("provide a rating or a comment to update")
	ErrRankingContention   = errors.New("too many concurrent review changes")
)

var ErrorMap = map[error]int{
	ErrReviewAlreadyExists: http.StatusBadRequest,
	ErrReviewNotFound:      http.StatusNotFound,
	ErrMovieNotFound:       http.StatusNotFound,
	ErrNotAllowedToUpdate:  http.StatusForbidden,
	ErrNotAllowedToDelete:  http.StatusForbidden,
	ErrNothingToUpdate:     http.StatusBadRequest,
}

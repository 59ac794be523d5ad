package movies

import (
	"errors"
	"net/http"

	"github.com/yerkebulan111/movie-land-platform/internal/generics"
)

const (
	DefaultPage      = 1
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	DefaultTopRated  = 10
	DefaultSortBy    = "createdAt"
)

var (
	ErrMovieNotFound      = errors.New("movie not found")
	ErrSearchQueryMissing = errors.New("please provide a search query")
	ErrNothingToUpdate    = errors.New("provide at least one field to update")
)

var ErrorMap = map[error]int{
	ErrMovieNotFound:      http.StatusNotFound,
	ErrSearchQueryMissing: http.StatusBadRequest,
	ErrNothingToUpdate:    http.StatusBadRequest,
}

// normalizePaging applies the defaults and caps of the listing endpoints.
func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// pageSkip returns the number of documents to skip for page. It reports false
// when the page lies past the last one, so huge page numbers never reach the
// skip arithmetic.
func pageSkip(page, limit, total int) (int64, bool) {
	if page > generics.TotalPages(total, limit) {
		return 0, false
	}
	return int64(page-1) * int64(limit), true
}

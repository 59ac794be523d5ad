package users

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrUserAlreadyExists       = errors.New("user already exists")
	ErrUserNotFound            = errors.New("user not found")
	ErrMovieNotFound           = errors.New("movie not found")
	ErrMovieAlreadyInWatchlist = errors.New("movie already in watchlist")
	ErrCannotDeleteSelf        = errors.New("you cannot delete your own account")
	ErrIncorrectPassword       = errors.New("current password is incorrect")
	ErrNothingToUpdate         = errors.New("provide a username or an email to update")
)

var ErrorMap = map[error]int{
	ErrUserAlreadyExists:       http.StatusBadRequest,
	ErrUserNotFound:            http.StatusNotFound,
	ErrMovieNotFound:           http.StatusNotFound,
	ErrMovieAlreadyInWatchlist: http.StatusBadRequest,
	ErrCannotDeleteSelf:        http.StatusBadRequest,
	ErrIncorrectPassword:       http.StatusUnauthorized,
	ErrNothingToUpdate:         http.StatusBadRequest,
}

// NormalizeEmail is applied before every store and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yerkebulan111/movie-land-platform/internal/auth"
	"github.com/yerkebulan111/movie-land-platform/internal/logx"
	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
	"github.com/yerkebulan111/movie-land-platform/internal/services/movies"
	"github.com/yerkebulan111/movie-land-platform/internal/services/reviews"
	"github.com/yerkebulan111/movie-land-platform/internal/services/users"
	"github.com/yerkebulan111/movie-land-platform/internal/validation"
	"go.uber.org/zap"
)

var (
	ErrForbidden      = errors.New("you do not have permission to perform this action")
	ErrRouteNotFound  = errors.New("route not found")
	ErrTooManyRequest = errors.New("too many requests, please try again later")
	ErrNotAuthorized  = errors.New("not authorized to access this route")
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// serviceErrorMaps is consulted in order by respondWithServiceError.
var serviceErrorMaps = []map[error]int{
	auth.ErrorsMap,
	users.ErrorMap,
	movies.ErrorMap,
	reviews.ErrorMap,
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) error {
	response, err := json.Marshal(&payload)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)

	return nil
}

// RespondWithError writes the error envelope. Exported for the middlewares.
func RespondWithError(w http.ResponseWriter, code int, msg string) error {
	return respondWithJSON(w, code, ErrorResponse{Success: false, Message: msg})
}

func RespondWithForbidden(w http.ResponseWriter) error {
	return RespondWithError(w, http.StatusForbidden, formatErrorMessage(ErrForbidden))
}

func RespondWithUnauthorized(w http.ResponseWriter, err error) error {
	if err == nil {
		err = ErrNotAuthorized
	}
	return RespondWithError(w, http.StatusUnauthorized, formatErrorMessage(err))
}

func RespondWithTooManyRequests(w http.ResponseWriter, retryAfter time.Duration) error {
	seconds := int(retryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	return RespondWithError(w, http.StatusTooManyRequests, formatErrorMessage(ErrTooManyRequest))
}

func respondWithValidationErrors(w http.ResponseWriter, fieldErrors []validation.FieldError) error {
	return respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Success: false, Errors: fieldErrors})
}

/*
respondWithServiceError maps err through the service error maps. Anything not
registered there is logged with the request logger and answered with a
generic 500 so internals never reach the client.
*/
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, errMap := range serviceErrorMaps {
		if statusCode, ok := getErrorStatusCode(errMap, err); ok {
			RespondWithError(w, statusCode, formatErrorMessage(err))
			return
		}
	}

	logger := logx.FromContext(r.Context())
	logger.Error("unexpected error", zap.Error(err))
	RespondWithError(w, http.StatusInternalServerError, "Server error")
}

// decodeAndValidate answers 400 itself and returns false when the body is
// not valid JSON or breaks a rule of dst.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logx.FromContext(r.Context()).Debug("invalid request body", zap.Error(err))
		RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}

	if fieldErrors := validation.Struct(dst); len(fieldErrors) > 0 {
		respondWithValidationErrors(w, fieldErrors)
		return false
	}
	return true
}

// pathObjectId reads an id path value and answers 400 when it is malformed.
func pathObjectId(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if fieldErrors := validation.ObjectId(name, id); len(fieldErrors) > 0 {
		respondWithValidationErrors(w, fieldErrors)
		return "", false
	}
	return id, true
}

// currentUser returns the user the auth middleware stored in the context.
func currentUser(w http.ResponseWriter, r *http.Request) (mongodb.UserDb, bool) {
	user := auth.GetUserFromContext(r.Context())
	if user == nil {
		RespondWithUnauthorized(w, nil)
		return mongodb.UserDb{}, false
	}
	return *user, true
}

func formatErrorMessage(err error) string {
	errorMsg := err.Error()
	if len(errorMsg) > 0 {
		return strings.ToUpper(errorMsg[:1]) + errorMsg[1:]
	}
	return ""
}

// getErrorStatusCode safely checks if an error is in the ErrorMap by iterating through it
// and using errors.Is() to match errors. This prevents panics when non-hashable errors
// (like MongoDB errors) are passed as map keys.
func getErrorStatusCode(errMap map[error]int, err error) (int, bool) {
	for predefinedErr, statusCode := range errMap {
		if errors.Is(err, predefinedErr) {
			return statusCode, true
		}
	}
	return 0, false
}

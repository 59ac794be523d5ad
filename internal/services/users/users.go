package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yerkebulan111/movie-land-platform/internal/auth"
	"github.com/yerkebulan111/movie-land-platform/internal/logx"
	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
	"github.com/yerkebulan111/movie-land-platform/internal/services/movies"
	"github.com/yerkebulan111/movie-land-platform/internal/services/reviews"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Register creates an account with the default role. The unique indexes on
// email and username reject duplicates.
func Register(db *mongodb.DB, ctx context.Context, req RegisterRequest) (mongodb.UserDb, error) {
	return CreateUserWithRole(db, ctx, req, mongodb.RoleUser)
}

// CreateUserWithRole is used by Register and by the admin tooling.
func CreateUserWithRole(db *mongodb.DB, ctx context.Context, req RegisterRequest, role string) (mongodb.UserDb, error) {
	if !auth.IsValidRole(role) {
		return mongodb.UserDb{}, fmt.Errorf("unknown role %q", role)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return mongodb.UserDb{}, err
	}

	userDb, err := db.AddUser(ctx, mongodb.UserDb{
		Username:     strings.TrimSpace(req.Username),
		Email:        NormalizeEmail(req.Email),
		PasswordHash: passwordHash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, mongodb.ErrDuplicateKey) {
			return mongodb.UserDb{}, ErrUserAlreadyExists
		}
		return mongodb.UserDb{}, err
	}

	return userDb, nil
}

// Login answers auth.ErrInvalidCredentials for an unknown email and for a
// wrong password alike.
func Login(db *mongodb.DB, ctx context.Context, req auth.LoginRequest) (mongodb.UserDb, error) {
	userDb, err := db.GetUserByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, mongodb.ErrRecordNotFound) {
			return mongodb.UserDb{}, auth.ErrInvalidCredentials
		}
		return mongodb.UserDb{}, err
	}

	if err := auth.CheckPasswordHash(userDb.PasswordHash, req.Password); err != nil {
		return mongodb.UserDb{}, err
	}

	return userDb, nil
}

func GetAllUsers(db *mongodb.DB, ctx context.Context) ([]User, error) {
	usersDb, err := db.GetAllUsers(ctx)
	if err != nil {
		return []User{}, err
	}
	return MapDbUsersToApiUsers(usersDb), nil
}

// GetWatchlist loads the movies of the user's watchlist in watchlist order.
// Ids of movies deleted in the meantime are skipped.
func GetWatchlist(db *mongodb.DB, ctx context.Context, userId string) ([]movies.Movie, error) {
	userDb, err := db.GetUserById(ctx, userId)
	if err != nil {
		if errors.Is(err, mongodb.ErrRecordNotFound) {
			return []movies.Movie{}, ErrUserNotFound
		}
		return []movies.Movie{}, err
	}

	moviesDb, err := db.GetMoviesByIds(ctx, userDb.Watchlist)
	if err != nil {
		return []movies.Movie{}, err
	}

	return movies.MapDbMoviesToApiMovies(moviesDb), nil
}

func AddToWatchlist(db *mongodb.DB, ctx context.Context, userId, movieId string) error {
	if ok, err := db.MovieExists(ctx, movieId); err != nil {
		return err
	} else if !ok {
		return ErrMovieNotFound
	}

	added, err := db.AddMovieToWatchlist(ctx, userId, movieId)
	if err != nil {
		if errors.Is(err, mongodb.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !added {
		return ErrMovieAlreadyInWatchlist
	}

	return nil
}

// RemoveFromWatchlist succeeds whether or not the movie was in the list.
func RemoveFromWatchlist(db *mongodb.DB, ctx context.Context, userId, movieId string) error {
	if err := db.RemoveMovieFromWatchlist(ctx, userId, movieId); err != nil {
		if errors.Is(err, mongodb.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func UpdateDetails(db *mongodb.DB, ctx context.Context, userId string, req UpdateDetailsRequest) (User, error) {
	fields := bson.M{}
	if req.Username != nil {
		fields["username"] = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		fields["email"] = NormalizeEmail(*req.Email)
	}
	if len(fields) == 0 {
		return User{}, ErrNothingToUpdate
	}

	userDb, err := db.UpdateUser(ctx, userId, fields)
	if err != nil {
		switch {
		case errors.Is(err, mongodb.ErrDuplicateKey):
			return User{}, ErrUserAlreadyExists
		case errors.Is(err, mongodb.ErrRecordNotFound):
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}

	return MapDbUserToApiUser(userDb), nil
}

// UpdatePassword checks the current password before storing the new one.
func UpdatePassword(db *mongodb.DB, ctx context.Context, userId string, req UpdatePasswordRequest) (mongodb.UserDb, error) {
	userDb, err := db.GetUserById(ctx, userId)
	if err != nil {
		if errors.Is(err, mongodb.ErrRecordNotFound) {
			return mongodb.UserDb{}, ErrUserNotFound
		}
		return mongodb.UserDb{}, err
	}

	if err := auth.CheckPasswordHash(userDb.PasswordHash, req.CurrentPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return mongodb.UserDb{}, ErrIncorrectPassword
		}
		return mongodb.UserDb{}, err
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return mongodb.UserDb{}, err
	}

	if err := db.UpdateUserPassword(ctx, userId, passwordHash); err != nil {
		return mongodb.UserDb{}, err
	}

	return userDb, nil
}

/*
CascadeDeleteUser deletes an account on behalf of an admin.

The user's reviews are removed first and the ranking of every movie they
reviewed is recomputed, then the account itself goes. An admin cannot delete
their own account.
*/
func CascadeDeleteUser(db *mongodb.DB, ctx context.Context, userId, requesterId string) error {
	logger := logx.FromContext(ctx)

	if userId == requesterId {
		return ErrCannotDeleteSelf
	}

	if ok, err := db.UserExists(ctx, userId); err != nil {
		return err
	} else if !ok {
		return ErrUserNotFound
	}

	deletedReviews, err := reviews.DeleteUserReviews(db, ctx, userId)
	if err != nil {
		return err
	}

	deleted, err := db.DeleteUser(ctx, userId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}

	logger.Info("user deleted", zap.String("userId", userId), zap.Int64("reviewsDeleted", deletedReviews))
	return nil
}

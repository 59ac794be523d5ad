package reviews

import (
	"context"
	"errors"
	"strings"

	"github.com/yerkebulan111/movie-land-platform/internal/auth"
	"github.com/yerkebulan111/movie-land-platform/internal/logx"
	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func GetMovieReviews(db *mongodb.DB, ctx context.Context, movieId string) ([]Review, error) {
	reviewsDb, err := db.GetReviewsByMovieId(ctx, movieId)
	if err != nil {
		return []Review{}, err
	}
	return MapDbReviewsToApiReviews(reviewsDb), nil
}

/*
AddReview stores the review of user for movieId and recomputes the movie ranking.

The lookup for an existing review only gives a friendly early answer; the
unique (movieId, userId) index decides when two requests race. If the
ranking cannot be saved the review is removed again so the caller never sees
a review that is not reflected in the ranking.
*/
func AddReview(db *mongodb.DB, ctx context.Context, movieId string, user mongodb.UserDb, req NewReviewRequest) (Review, error) {
	if ok, err := db.MovieExists(ctx, movieId); err != nil {
		return Review{}, err
	} else if !ok {
		return Review{}, ErrMovieNotFound
	}

	if _, err := db.GetReviewByUserIdAndMovieId(ctx, user.Id, movieId); err == nil {
		return Review{}, ErrReviewAlreadyExists
	} else if !errors.Is(err, mongodb.ErrRecordNotFound) {
		return Review{}, err
	}

	reviewDb, err := db.AddReview(ctx, mongodb.ReviewDb{
		MovieId:  movieId,
		UserId:   user.Id,
		Username: user.Username,
		Rating:   req.Rating,
		Comment:  strings.TrimSpace(req.Comment),
	})
	if err != nil {
		if errors.Is(err, mongodb.ErrDuplicateKey) {
			return Review{}, ErrReviewAlreadyExists
		}
		return Review{}, err
	}

	if _, err := recordReviewChange(db, ctx, movieId); err != nil {
		rollbackReview(db, ctx, movieId, reviewDb.Id)
		if errors.Is(err, mongodb.ErrRecordNotFound) {
			// The movie was deleted while the review was being written
			return Review{}, ErrMovieNotFound
		}
		return Review{}, err
	}

	return MapDbReviewToApiReview(reviewDb), nil
}

func UpdateReview(
	db *mongodb.DB,
	ctx context.Context,
	movieId, reviewId string,
	user mongodb.UserDb,
	req UpdateReviewRequest,
) (Review, error) {
	reviewDb, err := getMovieReview(db, ctx, movieId, reviewId)
	if err != nil {
		return Review{}, err
	}

	if reviewDb.UserId != user.Id {
		return Review{}, ErrNotAllowedToUpdate
	}

	fields := bson.M{}
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	if req.Comment != nil {
		fields["comment"] = strings.TrimSpace(*req.Comment)
	}
	if len(fields) == 0 {
		return Review{}, ErrNothingToUpdate
	}

	updatedReviewDb, err := db.UpdateReview(ctx, reviewId, fields)
	if err != nil {
		if errors.Is(err, mongodb.ErrRecordNotFound) {
			return Review{}, ErrReviewNotFound
		}
		return Review{}, err
	}

	if _, err := recordReviewChange(db, ctx, movieId); err != nil {
		if errors.Is(err, mongodb.ErrRecordNotFound) {
			return Review{}, ErrMovieNotFound
		}
		return Review{}, err
	}

	return MapDbReviewToApiReview(updatedReviewDb), nil
}

// DeleteReview removes a review. Only its author or an admin may do it.
func DeleteReview(db *mongodb.DB, ctx context.Context, movieId, reviewId string, user mongodb.UserDb) error {
	reviewDb, err := getMovieReview(db, ctx, movieId, reviewId)
	if err != nil {
		return err
	}

	if reviewDb.UserId != user.Id && !auth.HasRole(user.Role, mongodb.RoleAdmin) {
		return ErrNotAllowedToDelete
	}

	if deleted, err := db.DeleteReview(ctx, reviewId); err != nil {
		return err
	} else if !deleted {
		return ErrReviewNotFound
	}

	if _, err := recordReviewChange(db, ctx, movieId); err != nil {
		if errors.Is(err, mongodb.ErrRecordNotFound) {
			return ErrMovieNotFound
		}
		return err
	}

	return nil
}

// getMovieReview loads a review and checks it belongs to movieId.
func getMovieReview(db *mongodb.DB, ctx context.Context, movieId, reviewId string) (mongodb.ReviewDb, error) {
	if ok, err := db.MovieExists(ctx, movieId); err != nil {
		return mongodb.ReviewDb{}, err
	} else if !ok {
		return mongodb.ReviewDb{}, ErrMovieNotFound
	}

	reviewDb, err := db.GetReviewById(ctx, reviewId)
	if err != nil {
		if errors.Is(err, mongodb.ErrRecordNotFound) {
			return mongodb.ReviewDb{}, ErrReviewNotFound
		}
		return mongodb.ReviewDb{}, err
	}

	if reviewDb.MovieId != movieId {
		return mongodb.ReviewDb{}, ErrReviewNotFound
	}

	return reviewDb, nil
}

// rollbackReview removes a review whose ranking could not be saved. When the
// movie still exists its ranking is recomputed without the review.
func rollbackReview(db *mongodb.DB, ctx context.Context, movieId, reviewId string) {
	logger := logx.FromContext(ctx)
	if _, err := db.DeleteReview(ctx, reviewId); err != nil {
		logger.Error("failed to roll back review after ranking error", zap.String("reviewId", reviewId), zap.Error(err))
		return
	}

	if _, err := recordReviewChange(db, ctx, movieId); err != nil && !errors.Is(err, mongodb.ErrRecordNotFound) {
		logger.Error("failed to recompute ranking after rollback", zap.String("movieId", movieId), zap.Error(err))
	}
}

// DeleteUserReviews removes every review written by userId and recomputes
// the ranking of each movie that lost a review.
func DeleteUserReviews(db *mongodb.DB, ctx context.Context, userId string) (int64, error) {
	reviewsDb, err := db.GetReviewsByUserId(ctx, userId)
	if err != nil {
		return 0, err
	}

	deleted, err := db.DeleteReviewsByUserId(ctx, userId)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(reviewsDb))
	for _, reviewDb := range reviewsDb {
		if seen[reviewDb.MovieId] {
			continue
		}
		seen[reviewDb.MovieId] = true

		if _, err := recordReviewChange(db, ctx, reviewDb.MovieId); err != nil {
			// A review can outlive its movie only if a movie cascade failed midway
			if errors.Is(err, mongodb.ErrRecordNotFound) {
				continue
			}
			return deleted, err
		}
	}

	return deleted, nil
}

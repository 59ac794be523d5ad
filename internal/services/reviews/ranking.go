package reviews

import (
	"context"
	"fmt"
	"math"

	"github.com/yerkebulan111/movie-land-platform/internal/logx"
	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
	"go.uber.org/zap"
)

// ComputeRanking returns the mean of ratings rounded half up to one decimal,
// or 0 when there are no ratings.
func ComputeRanking(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}

	sum := 0
	for _, rating := range ratings {
		sum += rating
	}

	// Integer arithmetic keeps x.x5 means exact before rounding
	scaled := float64(sum*10) / float64(len(ratings))
	return math.Floor(scaled+0.5) / 10
}

// maxRankingAttempts bounds the reload loop of RecomputeMovieRanking. Each
// failed attempt means another review write landed in between.
const maxRankingAttempts = 50

/*
RecomputeMovieRanking reloads the current ratings of a movie and persists
ranking and reviewCount together.

The save is conditional on the movie's review revision read before the
ratings, so a ranking computed from a review set that has changed since is
never stored. Every review write must call BumpReviewsRev after its write
and then this function before answering; the last writer then always saves
a ranking computed from the complete set.
*/
func RecomputeMovieRanking(db *mongodb.DB, ctx context.Context, movieId string) (float64, error) {
	for attempt := 1; attempt <= maxRankingAttempts; attempt++ {
		rev, err := db.GetMovieReviewsRev(ctx, movieId)
		if err != nil {
			return 0, fmt.Errorf("loading review revision of movie %s: %w", movieId, err)
		}

		ratings, err := db.GetMovieRatings(ctx, movieId)
		if err != nil {
			return 0, fmt.Errorf("loading ratings of movie %s: %w", movieId, err)
		}

		ranking := ComputeRanking(ratings)
		saved, err := db.SetMovieRanking(ctx, movieId, rev, ranking, len(ratings))
		if err != nil {
			return 0, fmt.Errorf("saving ranking of movie %s: %w", movieId, err)
		}
		if saved {
			return ranking, nil
		}

		logx.FromContext(ctx).Debug("review set changed while ranking, retrying",
			zap.String("movieId", movieId),
			zap.Int("attempt", attempt),
		)
	}

	return 0, fmt.Errorf("saving ranking of movie %s: %w", movieId, ErrRankingContention)
}

// recordReviewChange bumps the review revision of a movie after a review
// write and recomputes its ranking.
func recordReviewChange(db *mongodb.DB, ctx context.Context, movieId string) (float64, error) {
	if err := db.BumpReviewsRev(ctx, movieId); err != nil {
		return 0, fmt.Errorf("bumping review revision of movie %s: %w", movieId, err)
	}
	return RecomputeMovieRanking(db, ctx, movieId)
}

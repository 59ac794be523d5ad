package movies

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yerkebulan111/movie-land-platform/internal/generics"
	"github.com/yerkebulan111/movie-land-platform/internal/logx"
	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
	"github.com/yerkebulan111/movie-land-platform/internal/services/reviews"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
GetPageOfMovies returns one page of the catalog.

Filters are AND-combined:
  - genre: exact match against one of the movie genres
  - year: exact match
  - director: case insensitive substring, the input is matched literally
  - minRating: ranking >= minRating

The sort key comes from a whitelist checked by the request validation; _id is
always added as a tie breaker so pages do not overlap.
*/
func GetPageOfMovies(db *mongodb.DB, ctx context.Context, query MovieQuery) (generics.Page[Movie], error) {
	page, limit := normalizePaging(query.Page, query.Limit)

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	sortOrder := -1
	if query.Order == "asc" {
		sortOrder = 1
	}

	filter := buildMovieFilter(query)

	totalMoviesInDb, err := db.CountMovies(ctx, filter)
	if err != nil {
		return generics.Page[Movie]{}, err
	}

	moviesDb := []mongodb.MovieDb{}
	if skip, ok := pageSkip(page, limit, totalMoviesInDb); ok {
		opts := options.Find().
			SetLimit(int64(limit)).
			SetSkip(skip).
			SetSort(bson.D{{Key: sortBy, Value: sortOrder}, {Key: "_id", Value: sortOrder}})

		moviesDb, err = db.GetMovies(ctx, filter, opts)
		if err != nil {
			return generics.Page[Movie]{}, err
		}
	}

	return generics.Page[Movie]{
		Page:         page,
		Limit:        limit,
		TotalPages:   generics.TotalPages(totalMoviesInDb, limit),
		TotalResults: totalMoviesInDb,
		Content:      MapDbMoviesToApiMovies(moviesDb),
	}, nil
}

func buildMovieFilter(query MovieQuery) bson.M {
	filter := bson.M{}
	if query.Genre != "" {
		filter["genre"] = query.Genre
	}
	if query.Year != 0 {
		filter["year"] = query.Year
	}
	if director := strings.TrimSpace(query.Director); director != "" {
		filter["director"] = bson.M{"$regex": regexp.QuoteMeta(director), "$options": "i"}
	}
	if query.MinRating != nil {
		filter["ranking"] = bson.M{"$gte": *query.MinRating}
	}
	return filter
}

// SearchMovies runs a relevance ordered text search, capped at
// mongodb.SearchResultsLimit results.
func SearchMovies(db *mongodb.DB, ctx context.Context, q string) ([]Movie, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Movie{}, ErrSearchQueryMissing
	}

	moviesDb, err := db.SearchMovies(ctx, q)
	if err != nil {
		return []Movie{}, err
	}
	return MapDbMoviesToApiMovies(moviesDb), nil
}

func GetTopRatedMovies(db *mongodb.DB, ctx context.Context, limit int) ([]Movie, error) {
	if limit < 1 {
		limit = DefaultTopRated
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	moviesDb, err := db.GetTopRatedMovies(ctx, limit)
	if err != nil {
		return []Movie{}, err
	}
	return MapDbMoviesToApiMovies(moviesDb), nil
}

func GetMovieStats(db *mongodb.DB, ctx context.Context) (MovieStats, error) {
	statsDb, err := db.GetMovieStats(ctx)
	if err != nil {
		return MovieStats{}, err
	}
	return MapDbStatsToApiStats(statsDb), nil
}

func GetMovieDetail(db *mongodb.DB, ctx context.Context, movieId string) (MovieDetail, error) {
	movieDb, err := db.GetMovieById(ctx, movieId)
	if err != nil {
		if errors.Is(err, mongodb.ErrRecordNotFound) {
			return MovieDetail{}, ErrMovieNotFound
		}
		return MovieDetail{}, err
	}

	movieReviews, err := reviews.GetMovieReviews(db, ctx, movieId)
	if err != nil {
		return MovieDetail{}, err
	}

	return MovieDetail{
		Movie:   MapDbMovieToApiMovie(movieDb),
		Reviews: movieReviews,
	}, nil
}

func CreateMovie(db *mongodb.DB, ctx context.Context, req CreateMovieRequest, createdBy string) (Movie, error) {
	movieDb, err := db.AddMovie(ctx, mongodb.MovieDb{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Year:        req.Year,
		Director:    strings.TrimSpace(req.Director),
		Cast:        trimAll(req.Cast),
		Genre:       req.Genre,
		PosterURL:   req.PosterURL,
		TrailerURL:  req.TrailerURL,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return Movie{}, err
	}

	return MapDbMovieToApiMovie(movieDb), nil
}

// UpdateMovie applies the provided fields only.
func UpdateMovie(db *mongodb.DB, ctx context.Context, movieId string, req UpdateMovieRequest) (Movie, error) {
	fields := bson.M{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Year != nil {
		fields["year"] = *req.Year
	}
	if req.Director != nil {
		fields["director"] = strings.TrimSpace(*req.Director)
	}
	if req.Cast != nil {
		fields["cast"] = trimAll(req.Cast)
	}
	if len(req.Genre) > 0 {
		fields["genre"] = req.Genre
	}
	if req.PosterURL != nil {
		posterURL := *req.PosterURL
		if posterURL == "" {
			posterURL = mongodb.DefaultPosterURL
		}
		fields["posterUrl"] = posterURL
	}
	if req.TrailerURL != nil {
		fields["trailerUrl"] = *req.TrailerURL
	}

	if len(fields) == 0 {
		return Movie{}, ErrNothingToUpdate
	}

	movieDb, err := db.UpdateMovie(ctx, movieId, fields)
	if err != nil {
		if errors.Is(err, mongodb.ErrRecordNotFound) {
			return Movie{}, ErrMovieNotFound
		}
		return Movie{}, err
	}

	return MapDbMovieToApiMovie(movieDb), nil
}

/*
CascadeDeleteMovie removes a movie together with everything that points at it:
its reviews and its entries in user watchlists.

The movie document goes first. A review written concurrently either lands
before the sweep and is swept, or lands after it and fails to save its
ranking on the missing movie, which makes AddReview roll it back.
*/
func CascadeDeleteMovie(db *mongodb.DB, ctx context.Context, movieId string) error {
	logger := logx.FromContext(ctx)

	deleted, err := db.DeleteMovie(ctx, movieId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMovieNotFound
	}

	deletedReviews, err := db.DeleteReviewsByMovieId(ctx, movieId)
	if err != nil {
		return fmt.Errorf("movie %s deleted but its reviews were not: %w", movieId, err)
	}

	pulled, err := db.PullMovieFromAllWatchlists(ctx, movieId)
	if err != nil {
		return fmt.Errorf("movie %s deleted but watchlists were not updated: %w", movieId, err)
	}

	logger.Info("movie deleted",
		zap.String("movieId", movieId),
		zap.Int64("reviewsDeleted", deletedReviews),
		zap.Int64("watchlistsUpdated", pulled),
	)

	return nil
}

func trimAll(values []string) []string {
	if values == nil {
		return []string{}
	}
	trimmed := make([]string, len(values))
	for i, v := range values {
		trimmed[i] = strings.TrimSpace(v)
	}
	return trimmed
}

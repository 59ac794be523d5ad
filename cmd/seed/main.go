package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/yerkebulan111/movie-land-platform/internal/config"
	"github.com/yerkebulan111/movie-land-platform/internal/logx"
	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
	"github.com/yerkebulan111/movie-land-platform/internal/services/movies"
	"github.com/yerkebulan111/movie-land-platform/internal/services/reviews"
	"github.com/yerkebulan111/movie-land-platform/internal/services/users"
	"github.com/yerkebulan111/movie-land-platform/internal/validation"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

//go:embed fixtures/movies.json
var moviesFixture []byte

// demoPassword is shared by the reviewer accounts the seed creates.
const demoPassword = "password123"

type fixtureReview struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

type fixtureMovie struct {
	movies.CreateMovieRequest
	Reviews []fixtureReview `json:"reviews"`
}

func main() {
	drop := flag.Bool("drop", false, "delete existing movies and reviews before seeding")
	flag.Parse()

	cfg := config.Load()
	if cfg.MongoURI == "" {
		log.Fatal(config.ErrMissingMongoURI)
	}

	logger, err := logx.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := logx.WithLogger(context.Background(), logger)
	dbClient, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	db := mongodb.NewDB(dbClient, cfg.MongoDatabase)
	defer db.Close(ctx)

	if err := db.CreateAllIndexes(ctx, false); err != nil {
		logger.Fatal("failed to create indexes", zap.Error(err))
	}

	if *drop {
		if err := dropCatalog(ctx, db); err != nil {
			logger.Fatal("failed to drop catalog", zap.Error(err))
		}
	}

	inserted, err := seed(ctx, db)
	if err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}
	fmt.Printf("✅ Seeded %d movies\n", inserted)
}

func dropCatalog(ctx context.Context, db *mongodb.DB) error {
	if _, err := db.Collection(mongodb.ReviewsCollection).DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if _, err := db.Collection(mongodb.MoviesCollection).DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	_, err := db.Collection(mongodb.UsersCollection).UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"watchlist": []string{}}})
	return err
}

// seed inserts the fixture movies that are not in the catalog yet and posts
// their reviews through the review service so rankings are computed the same
// way as for API traffic.
func seed(ctx context.Context, db *mongodb.DB) (int, error) {
	logger := logx.FromContext(ctx)

	var fixtures []fixtureMovie
	if err := json.Unmarshal(moviesFixture, &fixtures); err != nil {
		return 0, fmt.Errorf("parse fixtures: %w", err)
	}

	reviewers := map[string]mongodb.UserDb{}
	inserted := 0

	for _, fixture := range fixtures {
		if fieldErrors := validation.Struct(fixture.CreateMovieRequest); len(fieldErrors) > 0 {
			return inserted, fmt.Errorf("fixture %q: %s", fixture.Title, fieldErrors[0].Message)
		}

		count, err := db.CountMovies(ctx, bson.M{"title": fixture.Title, "year": fixture.Year})
		if err != nil {
			return inserted, err
		}
		if count > 0 {
			logger.Info("movie already seeded", zap.String("title", fixture.Title))
			continue
		}

		movie, err := movies.CreateMovie(db, ctx, fixture.CreateMovieRequest, "")
		if err != nil {
			return inserted, err
		}
		inserted++

		for _, review := range fixture.Reviews {
			reviewer, err := getOrCreateReviewer(ctx, db, reviewers, review.Username)
			if err != nil {
				return inserted, err
			}

			req := reviews.NewReviewRequest{Rating: review.Rating, Comment: review.Comment}
			if _, err := reviews.AddReview(db, ctx, movie.Id, reviewer, req); err != nil {
				return inserted, fmt.Errorf("review of %q by %s: %w", movie.Title, reviewer.Username, err)
			}
		}
	}

	return inserted, nil
}

func getOrCreateReviewer(ctx context.Context, db *mongodb.DB, cache map[string]mongodb.UserDb, username string) (mongodb.UserDb, error) {
	if reviewer, ok := cache[username]; ok {
		return reviewer, nil
	}

	email := username + "@movieland.local"
	reviewer, err := users.Register(db, ctx, users.RegisterRequest{
		Username: username,
		Email:    email,
		Password: demoPassword,
	})
	if errors.Is(err, users.ErrUserAlreadyExists) {
		reviewer, err = db.GetUserByEmail(ctx, email)
	}
	if err != nil {
		return mongodb.UserDb{}, err
	}

	cache[username] = reviewer
	return reviewer, nil
}

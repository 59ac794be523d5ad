package mongodb

import (
	"context"
	"fmt"

	"github.com/yerkebulan111/movie-land-platform/internal/logx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	UsersEmailIndexName       = "email_unique"
	UsersUsernameIndexName    = "username_unique"
	MoviesTitleYearIndexName  = "title_1_year_-1"
	MoviesGenreIndexName      = "genre_1_ranking_-1"
	MoviesDirectorIndexName   = "director_1"
	MoviesTextIndexName       = "movies_text"
	ReviewsUniqueIndexName    = "movieId_and_userId_unique"
	ReviewsMovieDateIndexName = "movieId_1_createdAt_-1"
)

// DeleteAllIndexes deletes all indexes from all collections in the database
// (except the default _id_ index which cannot be deleted)
func (db *DB) DeleteAllIndexes(ctx context.Context) error {
	logger := logx.FromContext(ctx)
	database := db.Database()

	collections, err := database.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, collName := range collections {
		coll := database.Collection(collName)

		names, err := listIndexNames(ctx, coll)
		if err != nil {
			return fmt.Errorf("failed to list indexes for collection '%s': %w", collName, err)
		}

		for _, indexName := range names {
			if indexName == "_id_" {
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, indexName); err != nil {
				return fmt.Errorf("failed to delete index '%s' from collection '%s': %w", indexName, collName, err)
			}
			logger.Info("deleted index", zap.String("index", indexName), zap.String("collection", collName))
		}
	}

	return nil
}

// CreateAllIndexes creates the indexes of every collection. With reset, an
// existing index of the same name is dropped and created again.
func (db *DB) CreateAllIndexes(ctx context.Context, reset bool) error {
	if err := db.CreateUserIndexes(ctx, reset); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	if err := db.CreateMovieIndexes(ctx, reset); err != nil {
		return fmt.Errorf("failed to create movie indexes: %w", err)
	}

	if err := db.CreateReviewIndexes(ctx, reset); err != nil {
		return fmt.Errorf("failed to create review indexes: %w", err)
	}

	return nil
}

// CreateUserIndexes creates the case-insensitive unique indexes on email and username.
func (db *DB) CreateUserIndexes(ctx context.Context, reset bool) error {
	coll := db.Collection(UsersCollection)

	for _, field := range []struct{ key, name string }{
		{"email", UsersEmailIndexName},
		{"username", UsersUsernameIndexName},
	} {
		// Exclude empty strings and null values from uniqueness constraint
		index := mongo.IndexModel{
			Keys: bson.D{{Key: field.key, Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName(field.name).
				SetCollation(&options.Collation{
					Locale:   "en",
					Strength: 2,
				}).
				SetPartialFilterExpression(bson.M{
					"$and": []bson.M{
						{field.key: bson.M{"$type": "string"}},
						{field.key: bson.M{"$gt": ""}},
					},
				}),
		}
		if err := createIndexIfNotExists(ctx, coll, index, field.name, reset); err != nil {
			return err
		}
	}

	return nil
}

// CreateMovieIndexes creates the filter/sort indexes and the text index used by search.
func (db *DB) CreateMovieIndexes(ctx context.Context, reset bool) error {
	coll := db.Collection(MoviesCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: 1}, {Key: "year", Value: -1}},
			Options: options.Index().SetName(MoviesTitleYearIndexName),
		},
		{
			Keys:    bson.D{{Key: "genre", Value: 1}, {Key: "ranking", Value: -1}},
			Options: options.Index().SetName(MoviesGenreIndexName),
		},
		{
			Keys:    bson.D{{Key: "director", Value: 1}},
			Options: options.Index().SetName(MoviesDirectorIndexName),
		},
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "director", Value: "text"},
			},
			Options: options.Index().
				SetName(MoviesTextIndexName).
				SetWeights(bson.D{
					{Key: "title", Value: 10},
					{Key: "director", Value: 5},
					{Key: "description", Value: 1},
				}),
		},
	}

	for _, index := range indexes {
		if err := createIndexIfNotExists(ctx, coll, index, *index.Options.Name, reset); err != nil {
			return err
		}
	}

	return nil
}

// CreateReviewIndexes creates the unique (movieId, userId) index. It is the
// authoritative guard against a user reviewing the same movie twice.
func (db *DB) CreateReviewIndexes(ctx context.Context, reset bool) error {
	coll := db.Collection(ReviewsCollection)

	uniqueIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "movieId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetName(ReviewsUniqueIndexName),
	}
	if err := createIndexIfNotExists(ctx, coll, uniqueIndex, ReviewsUniqueIndexName, reset); err != nil {
		return err
	}

	movieDateIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "movieId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName(ReviewsMovieDateIndexName),
	}
	if err := createIndexIfNotExists(ctx, coll, movieDateIndex, ReviewsMovieDateIndexName, reset); err != nil {
		return err
	}

	return nil
}

func listIndexNames(ctx context.Context, coll *mongo.Collection) ([]string, error) {
	cursor, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var names []string
	for cursor.Next(ctx) {
		var index bson.M
		if err := cursor.Decode(&index); err != nil {
			return nil, fmt.Errorf("failed to decode index: %w", err)
		}
		if name, ok := index["name"].(string); ok {
			names = append(names, name)
		}
	}

	return names, cursor.Err()
}

// createIndexIfNotExists checks if an index exists and creates it if it doesn't
// If reset is true, it will delete the existing index and recreate it
func createIndexIfNotExists(ctx context.Context, coll *mongo.Collection, indexModel mongo.IndexModel, indexName string, reset bool) error {
	logger := logx.FromContext(ctx).With(zap.String("index", indexName), zap.String("collection", coll.Name()))

	names, err := listIndexNames(ctx, coll)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}

	indexExists := false
	for _, name := range names {
		if name == indexName {
			indexExists = true
			break
		}
	}

	if indexExists {
		if !reset {
			logger.Debug("index already exists, skipping")
			return nil
		}
		if _, err := coll.Indexes().DropOne(ctx, indexName); err != nil {
			return fmt.Errorf("failed to delete index '%s': %w", indexName, err)
		}
		logger.Info("deleted index")
	}

	if _, err := coll.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create index '%s': %w", indexName, err)
	}

	logger.Info("created index")
	return nil
}

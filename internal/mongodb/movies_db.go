package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultPosterURL = "https://via.placeholder.com/300x450?text=No+Poster"

// SearchResultsLimit caps the number of movies a text search returns.
const SearchResultsLimit = 20

// ----- Types for the database -----

type MovieDb struct {
	Id          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Year        int       `json:"year" bson:"year"`
	Director    string    `json:"director" bson:"director"`
	Cast        []string  `json:"cast" bson:"cast"`
	Genre       []string  `json:"genre" bson:"genre"`
	Ranking     float64   `json:"ranking" bson:"ranking"`
	ReviewCount int       `json:"reviewCount" bson:"reviewCount"`
	// ReviewsRev is bumped after every write to the movie's reviews.
	ReviewsRev  int64     `json:"-" bson:"reviewsRev"`
	PosterURL   string    `json:"posterUrl" bson:"posterUrl"`
	TrailerURL  string    `json:"trailerUrl,omitempty" bson:"trailerUrl,omitempty"`
	CreatedBy   string    `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	Score       float64   `json:"score,omitempty" bson:"score,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

type GenreStat struct {
	Genre     string  `json:"genre" bson:"_id"`
	Count     int     `json:"count" bson:"count"`
	AvgRating float64 `json:"avgRating" bson:"avgRating"`
	MaxRating float64 `json:"maxRating" bson:"maxRating"`
}

type YearStat struct {
	Year      int     `json:"year" bson:"_id"`
	Count     int     `json:"count" bson:"count"`
	AvgRating float64 `json:"avgRating" bson:"avgRating"`
}

type OverallStat struct {
	TotalMovies  int     `json:"totalMovies" bson:"totalMovies"`
	AvgRating    float64 `json:"avgRating" bson:"avgRating"`
	TotalReviews int     `json:"totalReviews" bson:"totalReviews"`
}

type DirectorStat struct {
	Director   string  `json:"director" bson:"_id"`
	MovieCount int     `json:"movieCount" bson:"movieCount"`
	AvgRating  float64 `json:"avgRating" bson:"avgRating"`
}

type MovieStatsDb struct {
	GenreStats   []GenreStat    `json:"genreStats" bson:"genreStats"`
	YearStats    []YearStat     `json:"yearStats" bson:"yearStats"`
	OverallStats []OverallStat  `json:"overallStats" bson:"overallStats"`
	TopDirectors []DirectorStat `json:"topDirectors" bson:"topDirectors"`
}

// ----- Methods for the database -----

func (db *DB) AddMovie(ctx context.Context, movie MovieDb) (MovieDb, error) {
	coll := db.Collection(MoviesCollection)

	movie.Id = primitive.NewObjectID().Hex()
	now := time.Now().UTC().Truncate(time.Millisecond)
	movie.CreatedAt = now
	movie.UpdatedAt = now
	movie.Ranking = 0
	movie.ReviewCount = 0
	movie.ReviewsRev = 0
	if movie.PosterURL == "" {
		movie.PosterURL = DefaultPosterURL
	}
	if movie.Cast == nil {
		movie.Cast = []string{}
	}

	if _, err := coll.InsertOne(ctx, movie); err != nil {
		return MovieDb{}, wrapWriteError(err)
	}

	return movie, nil
}

func (db *DB) GetMovieById(ctx context.Context, id string) (MovieDb, error) {
	coll := db.Collection(MoviesCollection)
	var movieDb MovieDb
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&movieDb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return MovieDb{}, ErrRecordNotFound
		}
		return MovieDb{}, err
	}
	return movieDb, nil
}

// GetMoviesByIds keeps the order of ids and skips ids without a document.
func (db *DB) GetMoviesByIds(ctx context.Context, ids []string) ([]MovieDb, error) {
	if len(ids) == 0 {
		return []MovieDb{}, nil
	}

	found, err := db.GetMovies(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return []MovieDb{}, err
	}

	byId := make(map[string]MovieDb, len(found))
	for _, movie := range found {
		byId[movie.Id] = movie
	}

	ordered := make([]MovieDb, 0, len(found))
	for _, id := range ids {
		if movie, ok := byId[id]; ok {
			ordered = append(ordered, movie)
		}
	}
	return ordered, nil
}

func (db *DB) GetMovies(ctx context.Context, args ...any) ([]MovieDb, error) {
	coll := db.Collection(MoviesCollection)

	filter, opts := ResolveFilterAndOptionsSearch(args...)
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return []MovieDb{}, err
	}
	defer cursor.Close(ctx)

	var allMovies []MovieDb
	if err := cursor.All(ctx, &allMovies); err != nil {
		return []MovieDb{}, err
	}
	if allMovies == nil {
		allMovies = []MovieDb{}
	}

	return allMovies, nil
}

func (db *DB) CountMovies(ctx context.Context, args ...any) (int, error) {
	coll := db.Collection(MoviesCollection)

	filter, _ := ResolveFilterAndOptionsSearch(args...)
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}

	return int(total), nil
}

func (db *DB) MovieExists(ctx context.Context, id string) (bool, error) {
	coll := db.Collection(MoviesCollection)

	// Only ask MongoDB for the _id field
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})

	err := coll.FindOne(ctx, bson.M{"_id": id}, opts).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpdateMovie sets the given fields and returns the updated document.
func (db *DB) UpdateMovie(ctx context.Context, id string, fields bson.M) (MovieDb, error) {
	coll := db.Collection(MoviesCollection)

	fields["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var movieDb MovieDb
	err := coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&movieDb)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return MovieDb{}, ErrRecordNotFound
		}
		return MovieDb{}, wrapWriteError(err)
	}

	return movieDb, nil
}

// BumpReviewsRev marks the review set of a movie as changed. Rankings
// computed from an older revision can no longer be saved.
func (db *DB) BumpReviewsRev(ctx context.Context, id string) error {
	coll := db.Collection(MoviesCollection)

	result, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"reviewsRev": 1}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (db *DB) GetMovieReviewsRev(ctx context.Context, id string) (int64, error) {
	coll := db.Collection(MoviesCollection)
	opts := options.FindOne().SetProjection(bson.M{"reviewsRev": 1})

	var movieDb MovieDb
	if err := coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&movieDb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrRecordNotFound
		}
		return 0, err
	}
	return movieDb.ReviewsRev, nil
}

/*
SetMovieRanking persists both derived fields in one write, only if the
review set is still at revision rev. It reports false when the revision
moved on or the movie is gone; the caller reloads and tries again.
*/
func (db *DB) SetMovieRanking(ctx context.Context, id string, rev int64, ranking float64, reviewCount int) (bool, error) {
	coll := db.Collection(MoviesCollection)

	update := bson.M{
		"$set": bson.M{
			"ranking":     ranking,
			"reviewCount": reviewCount,
			"updatedAt":   time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := coll.UpdateOne(ctx, bson.M{"_id": id, "reviewsRev": rev}, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (db *DB) DeleteMovie(ctx context.Context, id string) (bool, error) {
	coll := db.Collection(MoviesCollection)
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// SearchMovies runs a full text search over title, description and director,
// best matches first.
func (db *DB) SearchMovies(ctx context.Context, query string) ([]MovieDb, error) {
	textScore := bson.M{"$meta": "textScore"}
	opts := options.Find().
		SetProjection(bson.M{"score": textScore}).
		SetSort(bson.D{{Key: "score", Value: textScore}}).
		SetLimit(SearchResultsLimit)

	return db.GetMovies(ctx, bson.M{"$text": bson.M{"$search": query}}, opts)
}

func (db *DB) AggregateMovies(ctx context.Context, pipeline mongo.Pipeline) ([]MovieDb, error) {
	coll := db.Collection(MoviesCollection)

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return []MovieDb{}, err
	}
	defer cursor.Close(ctx)

	var moviesDb []MovieDb
	if err := cursor.All(ctx, &moviesDb); err != nil {
		return []MovieDb{}, err
	}
	if moviesDb == nil {
		moviesDb = []MovieDb{}
	}

	return moviesDb, nil
}

// GetTopRatedMovies returns reviewed movies by ranking, ties broken by the
// number of reviews.
func (db *DB) GetTopRatedMovies(ctx context.Context, limit int) ([]MovieDb, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"ranking":     bson.M{"$gt": 0},
			"reviewCount": bson.M{"$gte": 1},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "ranking", Value: -1},
			{Key: "reviewCount", Value: -1},
		}}},
		{{Key: "$limit", Value: int64(limit)}},
	}

	return db.AggregateMovies(ctx, pipeline)
}

func (db *DB) GetMovieStats(ctx context.Context) (MovieStatsDb, error) {
	coll := db.Collection(MoviesCollection)

	facet := bson.D{
		{Key: "genreStats", Value: bson.A{
			bson.M{"$unwind": "$genre"},
			bson.M{"$group": bson.M{
				"_id":       "$genre",
				"count":     bson.M{"$sum": 1},
				"avgRating": bson.M{"$avg": "$ranking"},
				"maxRating": bson.M{"$max": "$ranking"},
			}},
			bson.M{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
		}},
		{Key: "yearStats", Value: bson.A{
			bson.M{"$group": bson.M{
				"_id":       "$year",
				"count":     bson.M{"$sum": 1},
				"avgRating": bson.M{"$avg": "$ranking"},
			}},
			bson.M{"$sort": bson.M{"_id": -1}},
			bson.M{"$limit": 10},
		}},
		{Key: "overallStats", Value: bson.A{
			bson.M{"$group": bson.M{
				"_id":          nil,
				"totalMovies":  bson.M{"$sum": 1},
				"avgRating":    bson.M{"$avg": "$ranking"},
				"totalReviews": bson.M{"$sum": "$reviewCount"},
			}},
		}},
		{Key: "topDirectors", Value: bson.A{
			bson.M{"$group": bson.M{
				"_id":        "$director",
				"movieCount": bson.M{"$sum": 1},
				"avgRating":  bson.M{"$avg": "$ranking"},
			}},
			bson.M{"$match": bson.M{"movieCount": bson.M{"$gt": 0}}},
			bson.M{"$sort": bson.D{{Key: "movieCount", Value: -1}, {Key: "avgRating", Value: -1}}},
			bson.M{"$limit": 10},
		}},
	}

	cursor, err := coll.Aggregate(ctx, mongo.Pipeline{{{Key: "$facet", Value: facet}}})
	if err != nil {
		return MovieStatsDb{}, err
	}
	defer cursor.Close(ctx)

	var stats []MovieStatsDb
	if err := cursor.All(ctx, &stats); err != nil {
		return MovieStatsDb{}, err
	}
	if len(stats) == 0 {
		return MovieStatsDb{}, nil
	}

	return stats[0], nil
}

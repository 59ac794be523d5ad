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

// ----- Types for the database -----

type ReviewDb struct {
	Id        string    `json:"id" bson:"_id"`
	MovieId   string    `json:"movieId" bson:"movieId"`
	UserId    string    `json:"userId" bson:"userId"`
	Username  string    `json:"username" bson:"username"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ----- Methods for the database -----

// AddReview inserts a review. A second review for the same movie and user is
// rejected by the unique index with ErrDuplicateKey.
func (db *DB) AddReview(ctx context.Context, review ReviewDb) (ReviewDb, error) {
	coll := db.Collection(ReviewsCollection)

	review.Id = primitive.NewObjectID().Hex()
	now := time.Now().UTC().Truncate(time.Millisecond)
	review.CreatedAt = now
	review.UpdatedAt = now

	if _, err := coll.InsertOne(ctx, review); err != nil {
		return ReviewDb{}, wrapWriteError(err)
	}

	return review, nil
}

func (db *DB) GetReviewById(ctx context.Context, id string) (ReviewDb, error) {
	coll := db.Collection(ReviewsCollection)

	var review ReviewDb
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ReviewDb{}, ErrRecordNotFound
		}
		return ReviewDb{}, err
	}

	return review, nil
}

func (db *DB) GetReviewByUserIdAndMovieId(ctx context.Context, userId, movieId string) (ReviewDb, error) {
	coll := db.Collection(ReviewsCollection)

	filter := bson.M{"userId": userId, "movieId": movieId}

	var review ReviewDb
	if err := coll.FindOne(ctx, filter).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ReviewDb{}, ErrRecordNotFound
		}
		return ReviewDb{}, err
	}

	return review, nil
}

func (db *DB) GetReviews(ctx context.Context, args ...any) ([]ReviewDb, error) {
	coll := db.Collection(ReviewsCollection)

	filter, opts := ResolveFilterAndOptionsSearch(args...)
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return []ReviewDb{}, err
	}
	defer cursor.Close(ctx)

	var reviewsDb []ReviewDb
	if err := cursor.All(ctx, &reviewsDb); err != nil {
		return []ReviewDb{}, err
	}
	if reviewsDb == nil {
		reviewsDb = []ReviewDb{}
	}

	return reviewsDb, nil
}

// GetReviewsByMovieId returns the reviews of a movie, newest first.
func (db *DB) GetReviewsByMovieId(ctx context.Context, movieId string) ([]ReviewDb, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return db.GetReviews(ctx, bson.M{"movieId": movieId}, opts)
}

func (db *DB) GetReviewsByUserId(ctx context.Context, userId string) ([]ReviewDb, error) {
	return db.GetReviews(ctx, bson.M{"userId": userId})
}

// GetMovieRatings returns only the rating values of a movie's reviews.
func (db *DB) GetMovieRatings(ctx context.Context, movieId string) ([]int, error) {
	opts := options.Find().SetProjection(bson.M{"rating": 1})
	reviewsDb, err := db.GetReviews(ctx, bson.M{"movieId": movieId}, opts)
	if err != nil {
		return nil, err
	}

	ratings := make([]int, len(reviewsDb))
	for i, review := range reviewsDb {
		ratings[i] = review.Rating
	}
	return ratings, nil
}

// UpdateReview sets rating and/or comment and returns the updated review.
func (db *DB) UpdateReview(ctx context.Context, id string, fields bson.M) (ReviewDb, error) {
	coll := db.Collection(ReviewsCollection)

	fields["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var review ReviewDb
	err := coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ReviewDb{}, ErrRecordNotFound
		}
		return ReviewDb{}, err
	}

	return review, nil
}

func (db *DB) DeleteReview(ctx context.Context, id string) (bool, error) {
	coll := db.Collection(ReviewsCollection)

	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}

	return result.DeletedCount > 0, nil
}

func (db *DB) DeleteReviewsByMovieId(ctx context.Context, movieId string) (int64, error) {
	coll := db.Collection(ReviewsCollection)

	result, err := coll.DeleteMany(ctx, bson.M{"movieId": movieId})
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}

func (db *DB) DeleteReviewsByUserId(ctx context.Context, userId string) (int64, error) {
	coll := db.Collection(ReviewsCollection)

	result, err := coll.DeleteMany(ctx, bson.M{"userId": userId})
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}

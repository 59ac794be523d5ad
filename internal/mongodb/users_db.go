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

type UserDb struct {
	Id           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         string    `json:"role" bson:"role"`
	Watchlist    []string  `json:"watchlist" bson:"watchlist"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ----- Methods for the database -----

func (db *DB) AddUser(ctx context.Context, user UserDb) (UserDb, error) {
	coll := db.Collection(UsersCollection)

	user.Id = primitive.NewObjectID().Hex()
	now := time.Now().UTC().Truncate(time.Millisecond)
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Watchlist == nil {
		user.Watchlist = []string{}
	}

	if _, err := coll.InsertOne(ctx, user); err != nil {
		return UserDb{}, wrapWriteError(err)
	}

	return user, nil
}

func (db *DB) GetUserById(ctx context.Context, id string) (UserDb, error) {
	coll := db.Collection(UsersCollection)
	var userDb UserDb
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&userDb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return UserDb{}, ErrRecordNotFound
		}
		return UserDb{}, err
	}

	return userDb, nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (UserDb, error) {
	coll := db.Collection(UsersCollection)
	var userDb UserDb
	if err := coll.FindOne(ctx, bson.M{"email": email}).Decode(&userDb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return UserDb{}, ErrRecordNotFound
		}
		return UserDb{}, err
	}

	return userDb, nil
}

// GetAllUsers returns every user, newest first.
func (db *DB) GetAllUsers(ctx context.Context) ([]UserDb, error) {
	coll := db.Collection(UsersCollection)

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return []UserDb{}, err
	}
	defer cursor.Close(ctx)

	var allUsers []UserDb
	if err := cursor.All(ctx, &allUsers); err != nil {
		return []UserDb{}, err
	}
	if allUsers == nil {
		allUsers = []UserDb{}
	}
	return allUsers, nil
}

func (db *DB) UserExists(ctx context.Context, id string) (bool, error) {
	coll := db.Collection(UsersCollection)

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

// UpdateUser sets the given fields and returns the updated document.
func (db *DB) UpdateUser(ctx context.Context, id string, fields bson.M) (UserDb, error) {
	coll := db.Collection(UsersCollection)

	fields["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var userDb UserDb
	err := coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&userDb)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return UserDb{}, ErrRecordNotFound
		}
		return UserDb{}, wrapWriteError(err)
	}

	return userDb, nil
}

func (db *DB) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	_, err := db.UpdateUser(ctx, id, bson.M{"passwordHash": passwordHash})
	return err
}

// AddMovieToWatchlist appends movieId unless it is already there. It returns
// false when the movie was already in the watchlist.
func (db *DB) AddMovieToWatchlist(ctx context.Context, userId, movieId string) (bool, error) {
	coll := db.Collection(UsersCollection)

	filter := bson.M{"_id": userId, "watchlist": bson.M{"$ne": movieId}}
	update := bson.M{
		"$push": bson.M{"watchlist": movieId},
		"$set":  bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)},
	}

	result, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	if result.MatchedCount > 0 {
		return true, nil
	}

	exists, err := db.UserExists(ctx, userId)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrRecordNotFound
	}
	return false, nil
}

func (db *DB) RemoveMovieFromWatchlist(ctx context.Context, userId, movieId string) error {
	coll := db.Collection(UsersCollection)

	update := bson.M{
		"$pull": bson.M{"watchlist": movieId},
		"$set":  bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)},
	}
	result, err := coll.UpdateOne(ctx, bson.M{"_id": userId}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// PullMovieFromAllWatchlists removes a deleted movie from every watchlist.
func (db *DB) PullMovieFromAllWatchlists(ctx context.Context, movieId string) (int64, error) {
	coll := db.Collection(UsersCollection)

	result, err := coll.UpdateMany(ctx,
		bson.M{"watchlist": movieId},
		bson.M{"$pull": bson.M{"watchlist": movieId}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (db *DB) DeleteUser(ctx context.Context, id string) (bool, error) {
	coll := db.Collection(UsersCollection)
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

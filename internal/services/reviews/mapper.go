package reviews

import "github.com/yerkebulan111/movie-land-platform/internal/mongodb"

func MapDbReviewToApiReview(reviewDb mongodb.ReviewDb) Review {
	return Review{
		Id:        reviewDb.Id,
		MovieId:   reviewDb.MovieId,
		UserId:    reviewDb.UserId,
		Username:  reviewDb.Username,
		Rating:    reviewDb.Rating,
		Comment:   reviewDb.Comment,
		CreatedAt: reviewDb.CreatedAt,
		UpdatedAt: reviewDb.UpdatedAt,
	}
}

func MapDbReviewsToApiReviews(reviewsDb []mongodb.ReviewDb) []Review {
	allReviews := make([]Review, len(reviewsDb))
	for i, reviewDb := range reviewsDb {
		allReviews[i] = MapDbReviewToApiReview(reviewDb)
	}
	return allReviews
}

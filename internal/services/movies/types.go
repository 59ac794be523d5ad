package movies

import (
	"time"

	"github.com/yerkebulan111/movie-land-platform/internal/services/reviews"
)

type Movie struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Year        int       `json:"year"`
	Director    string    `json:"director"`
	Cast        []string  `json:"cast"`
	Genre       []string  `json:"genre"`
	Ranking     float64   `json:"ranking"`
	ReviewCount int       `json:"reviewCount"`
	PosterURL   string    `json:"posterUrl"`
	TrailerURL  string    `json:"trailerUrl,omitempty"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	Score       float64   `json:"score,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MovieDetail is a movie with its reviews, newest first.
type MovieDetail struct {
	Movie
	Reviews []reviews.Review `json:"reviews"`
}

type CreateMovieRequest struct {
	Title       string   `json:"title" validate:"notblank,max=200"`
	Description string   `json:"description" validate:"notblank,max=2000"`
	Year        int      `json:"year" validate:"minyear,maxyear"`
	Director    string   `json:"director" validate:"notblank,max=100"`
	Cast        []string `json:"cast" validate:"omitempty,dive,notblank"`
	Genre       []string `json:"genre" validate:"min=1,dive,genre"`
	PosterURL   string   `json:"posterUrl" validate:"omitempty,url"`
	TrailerURL  string   `json:"trailerUrl" validate:"omitempty,url"`
}

// UpdateMovieRequest only touches the fields present in the body. Ranking
// and review count are derived and never accepted from clients.
type UpdateMovieRequest struct {
	Title       *string  `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string  `json:"description" validate:"omitempty,notblank,max=2000"`
	Year        *int     `json:"year" validate:"omitempty,minyear,maxyear"`
	Director    *string  `json:"director" validate:"omitempty,notblank,max=100"`
	Cast        []string `json:"cast" validate:"omitempty,dive,notblank"`
	Genre       []string `json:"genre" validate:"omitempty,min=1,dive,genre"`
	PosterURL   *string  `json:"posterUrl" validate:"omitempty,url"`
	TrailerURL  *string  `json:"trailerUrl" validate:"omitempty,url"`
}

// MovieQuery holds the listing filters. Zero values mean "not filtered".
type MovieQuery struct {
	Genre     string   `json:"genre" validate:"omitempty,genre"`
	Year      int      `json:"year" validate:"omitempty,minyear"`
	Director  string   `json:"director" validate:"omitempty,max=100"`
	MinRating *float64 `json:"minRating" validate:"omitempty,gte=0,lte=10"`
	SortBy    string   `json:"sortBy" validate:"omitempty,oneof=createdAt title year ranking director reviewCount"`
	Order     string   `json:"order" validate:"omitempty,oneof=asc desc"`
	Page      int      `json:"page"`
	Limit     int      `json:"limit"`
}

type MovieStats struct {
	GenreStats   []GenreStat    `json:"genreStats"`
	YearStats    []YearStat     `json:"yearStats"`
	OverallStats []OverallStat  `json:"overallStats"`
	TopDirectors []DirectorStat `json:"topDirectors"`
}

type GenreStat struct {
	Genre     string  `json:"_id"`
	Count     int     `json:"count"`
	AvgRating float64 `json:"avgRating"`
	MaxRating float64 `json:"maxRating"`
}

type YearStat struct {
	Year      int     `json:"_id"`
	Count     int     `json:"count"`
	AvgRating float64 `json:"avgRating"`
}

type OverallStat struct {
	TotalMovies  int     `json:"totalMovies"`
	AvgRating    float64 `json:"avgRating"`
	TotalReviews int     `json:"totalReviews"`
}

type DirectorStat struct {
	Director   string  `json:"_id"`
	MovieCount int     `json:"movieCount"`
	AvgRating  float64 `json:"avgRating"`
}

package movies

import "github.com/yerkebulan111/movie-land-platform/internal/mongodb"

func MapDbMovieToApiMovie(movieDb mongodb.MovieDb) Movie {
	cast := movieDb.Cast
	if cast == nil {
		cast = []string{}
	}
	genre := movieDb.Genre
	if genre == nil {
		genre = []string{}
	}

	return Movie{
		Id:          movieDb.Id,
		Title:       movieDb.Title,
		Description: movieDb.Description,
		Year:        movieDb.Year,
		Director:    movieDb.Director,
		Cast:        cast,
		Genre:       genre,
		Ranking:     movieDb.Ranking,
		ReviewCount: movieDb.ReviewCount,
		PosterURL:   movieDb.PosterURL,
		TrailerURL:  movieDb.TrailerURL,
		CreatedBy:   movieDb.CreatedBy,
		Score:       movieDb.Score,
		CreatedAt:   movieDb.CreatedAt,
		UpdatedAt:   movieDb.UpdatedAt,
	}
}

func MapDbMoviesToApiMovies(moviesDb []mongodb.MovieDb) []Movie {
	allMovies := make([]Movie, len(moviesDb))
	for i, movieDb := range moviesDb {
		allMovies[i] = MapDbMovieToApiMovie(movieDb)
	}
	return allMovies
}

// MapDbStatsToApiStats copies the facet output, turning missing facets into
// empty lists.
func MapDbStatsToApiStats(statsDb mongodb.MovieStatsDb) MovieStats {
	stats := MovieStats{
		GenreStats:   make([]GenreStat, 0, len(statsDb.GenreStats)),
		YearStats:    make([]YearStat, 0, len(statsDb.YearStats)),
		OverallStats: make([]OverallStat, 0, len(statsDb.OverallStats)),
		TopDirectors: make([]DirectorStat, 0, len(statsDb.TopDirectors)),
	}

	for _, s := range statsDb.GenreStats {
		stats.GenreStats = append(stats.GenreStats, GenreStat(s))
	}
	for _, s := range statsDb.YearStats {
		stats.YearStats = append(stats.YearStats, YearStat(s))
	}
	for _, s := range statsDb.OverallStats {
		stats.OverallStats = append(stats.OverallStats, OverallStat(s))
	}
	for _, s := range statsDb.TopDirectors {
		stats.TopDirectors = append(stats.TopDirectors, DirectorStat(s))
	}

	return stats
}

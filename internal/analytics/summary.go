package analytics

import "github.com/blackwell-systems/libcat/internal/catalog"

// Params tunes Summarize.
type Params struct {
	MinRatings int
	TopLimit   int
	BayesM     float64
	// MinBooksPerGenre drops genres with fewer rated books from the
	// weighted rating table.
	MinBooksPerGenre int
}

// DefaultParams mirrors the config defaults.
func DefaultParams() Params {
	return Params{MinRatings: 1000, TopLimit: 10, BayesM: 50, MinBooksPerGenre: 1}
}

// Summary bundles every aggregate for display or export.
type Summary struct {
	Total          int          `json:"total" yaml:"total"`
	Available      int          `json:"available" yaml:"available"`
	CheckedOut     int          `json:"checked_out" yaml:"checked_out"`
	AveragePrice   *float64     `json:"average_price" yaml:"average_price"`
	TopRated       []BookScore  `json:"top_rated" yaml:"top_rated"`
	ValueScores    []BookScore  `json:"value_scores" yaml:"value_scores"`
	MedianPrice    []GenreValue `json:"median_price_by_genre" yaml:"median_price_by_genre"`
	Genres         []GenreCount `json:"genres" yaml:"genres"`
	WeightedRating []GenreValue `json:"weighted_rating_by_genre" yaml:"weighted_rating_by_genre"`
	Years          []YearCount  `json:"books_by_year" yaml:"books_by_year"`
	PriceVsRating  []Point      `json:"price_vs_rating" yaml:"price_vs_rating"`
}

// Summarize computes every aggregate over books.
func Summarize(books []catalog.Book, p Params) Summary {
	s := Summary{Total: len(books)}
	s.Available, s.CheckedOut = AvailabilityCounts(books)
	if avg, ok := AveragePrice(books); ok {
		s.AveragePrice = &avg
	}

	s.TopRated = []BookScore{}
	for _, b := range TopRated(books, p.MinRatings, p.TopLimit) {
		s.TopRated = append(s.TopRated, BookScore{BookID: b.ID, Title: b.Title, Score: *b.AverageRating})
	}
	s.ValueScores = ValueScores(books, p.TopLimit)
	s.MedianPrice = MedianPriceByGenre(books)
	s.Genres = MostCommonGenres(books, 0)
	s.WeightedRating = BayesianWeightedRatingByGenre(books, p.BayesM, p.MinBooksPerGenre)
	s.Years = BooksReleasedByYear(books)
	s.PriceVsRating = PriceVsRatingPoints(books)
	return s
}

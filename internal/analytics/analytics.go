// Package analytics computes descriptive statistics over a book snapshot.
// Every function is pure: it reads the slice and never modifies it.
package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/blackwell-systems/libcat/internal/catalog"
)

// UnknownGenre labels books with no genre.
const UnknownGenre = "Unknown"

// Availability labels used by AvailabilityCounts.
const (
	LabelAvailable  = "Available"
	LabelCheckedOut = "Checked Out"
)

// GenreCount is a genre and how many books carry it.
type GenreCount struct {
	Genre string `json:"genre" yaml:"genre"`
	Count int    `json:"count" yaml:"count"`
}

// GenreValue is a per-genre aggregate.
type GenreValue struct {
	Genre string  `json:"genre" yaml:"genre"`
	Value float64 `json:"value" yaml:"value"`
}

// BookScore is a per-book score.
type BookScore struct {
	BookID string  `json:"book_id" yaml:"book_id"`
	Title  string  `json:"title" yaml:"title"`
	Score  float64 `json:"score" yaml:"score"`
}

// YearCount is a publication year and how many books came out that year.
type YearCount struct {
	Year  int `json:"year" yaml:"year"`
	Count int `json:"count" yaml:"count"`
}

// Point is one (price, rating) pair.
type Point struct {
	Price  float64 `json:"price" yaml:"price"`
	Rating float64 `json:"rating" yaml:"rating"`
}

// GenreOf returns the trimmed genre, or UnknownGenre when blank.
func GenreOf(b catalog.Book) string {
	g := strings.TrimSpace(b.Genre)
	if g == "" {
		return UnknownGenre
	}
	return g
}

// AveragePrice is the mean price over books that have one. ok is false when
// no book has a price.
func AveragePrice(books []catalog.Book) (avg float64, ok bool) {
	var prices []float64
	for _, b := range books {
		if b.PriceUSD != nil {
			prices = append(prices, *b.PriceUSD)
		}
	}
	if len(prices) == 0 {
		return 0, false
	}
	return mean(prices), true
}

// TopRated returns up to limit books with at least minRatings ratings,
// highest average rating first. Ties go to the book with more ratings.
// Books missing a rating or count are skipped.
func TopRated(books []catalog.Book, minRatings, limit int) []catalog.Book {
	out := []catalog.Book{}
	for _, b := range books {
		if b.AverageRating == nil || b.RatingsCount == nil || *b.RatingsCount < minRatings {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := *out[i].AverageRating, *out[j].AverageRating
		if ri != rj {
			return ri > rj
		}
		return *out[i].RatingsCount > *out[j].RatingsCount
	})
	return truncate(out, limit)
}

// ValueScores rates each book as rating * ln(1 + ratings_count) / price,
// highest first, returning at most limit entries (all when limit <= 0).
// Books missing any input or with a non-positive price are skipped.
func ValueScores(books []catalog.Book, limit int) []BookScore {
	out := []BookScore{}
	for _, b := range books {
		if b.AverageRating == nil || b.RatingsCount == nil || b.PriceUSD == nil || *b.PriceUSD <= 0 {
			continue
		}
		count := float64(*b.RatingsCount)
		if count < 0 {
			continue
		}
		out = append(out, BookScore{
			BookID: b.ID,
			Title:  b.Title,
			Score:  *b.AverageRating * math.Log1p(count) / *b.PriceUSD,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return truncate(out, limit)
}

// MedianPriceByGenre returns the median price per genre, sorted by genre.
// Genres where no book has a price are omitted.
func MedianPriceByGenre(books []catalog.Book) []GenreValue {
	prices := map[string][]float64{}
	for _, b := range books {
		if b.PriceUSD == nil {
			continue
		}
		g := GenreOf(b)
		prices[g] = append(prices[g], *b.PriceUSD)
	}
	out := make([]GenreValue, 0, len(prices))
	for g, vals := range prices {
		out = append(out, GenreValue{Genre: g, Value: median(vals)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Genre < out[j].Genre })
	return out
}

// MostCommonGenres counts books per genre, most common first. Equal counts
// keep the order in which the genre was first seen. topN <= 0 returns all.
func MostCommonGenres(books []catalog.Book, topN int) []GenreCount {
	index := map[string]int{}
	out := []GenreCount{}
	for _, b := range books {
		g := GenreOf(b)
		i, ok := index[g]
		if !ok {
			i = len(out)
			index[g] = i
			out = append(out, GenreCount{Genre: g})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return truncate(out, topN)
}

// BayesianWeightedRatingByGenre blends each genre's mean rating R with the
// global mean C:
//
//	weighted = v/(v+m)*R + m/(v+m)*C
//
// where v is the genre's median ratings_count. Books missing a rating or count
// are skipped, and genres with fewer than minBooks rated books are dropped.
// The result is sorted by weighted rating, highest first.
func BayesianWeightedRatingByGenre(books []catalog.Book, m float64, minBooks int) []GenreValue {
	type acc struct {
		ratings []float64
		counts  []float64
	}
	groups := map[string]*acc{}
	var all []float64
	for _, b := range books {
		if b.AverageRating == nil || b.RatingsCount == nil {
			continue
		}
		g := GenreOf(b)
		a, ok := groups[g]
		if !ok {
			a = &acc{}
			groups[g] = a
		}
		a.ratings = append(a.ratings, *b.AverageRating)
		a.counts = append(a.counts, float64(*b.RatingsCount))
		all = append(all, *b.AverageRating)
	}
	out := []GenreValue{}
	if len(all) == 0 {
		return out
	}

	c := mean(all)
	for g, a := range groups {
		if len(a.ratings) < minBooks {
			continue
		}
		v := median(a.counts)
		r := mean(a.ratings)
		w := c
		if v+m != 0 {
			w = v/(v+m)*r + m/(v+m)*c
		}
		out = append(out, GenreValue{Genre: g, Value: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Genre < out[j].Genre
	})
	return out
}

// PriceVsRatingPoints pairs price and rating for books that have both.
func PriceVsRatingPoints(books []catalog.Book) []Point {
	out := []Point{}
	for _, b := range books {
		if b.PriceUSD == nil || b.AverageRating == nil {
			continue
		}
		out = append(out, Point{Price: *b.PriceUSD, Rating: *b.AverageRating})
	}
	return out
}

// BooksReleasedByYear counts books per publication year, oldest first.
func BooksReleasedByYear(books []catalog.Book) []YearCount {
	counts := map[int]int{}
	for _, b := range books {
		if b.PublicationYear != nil {
			counts[*b.PublicationYear]++
		}
	}
	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// AvailabilityCounts returns how many books are on the shelf and how many
// are checked out.
func AvailabilityCounts(books []catalog.Book) (available, checkedOut int) {
	for _, b := range books {
		if b.Available {
			available++
		} else {
			checkedOut++
		}
	}
	return available, checkedOut
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// median sorts a copy of vals. vals must not be empty.
func median(vals []float64) float64 {
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

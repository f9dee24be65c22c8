package usecase

import (
	"math"
	"sort"

	"github.com/mushiri/book-recommender-engine/domain"
)

// PopularityRanker scores books with an IMDB-style Bayesian weighted rating
// that shrinks low-vote averages toward the global mean, so a 5.0 with 3
// votes cannot outrank a 4.3 with 100k votes.
type PopularityRanker struct {
	catalog      domain.CatalogRepository
	voteQuantile float64
}

func NewPopularityRanker(catalog domain.CatalogRepository, voteQuantile float64) *PopularityRanker {
	return &PopularityRanker{catalog: catalog, voteQuantile: voteQuantile}
}

// TopBooks returns the n best books by weighted rating. Every book feeds
// the prior mean C and the vote threshold m, but only books with at least m
// votes qualify for the output.
func (r *PopularityRanker) TopBooks(n int) ([]domain.PopularBook, error) {
	books := r.catalog.Books()
	if len(books) == 0 {
		return nil, &domain.DegenerateInputError{Reason: "empty catalog"}
	}

	votes := make([]float64, len(books))
	meanRating := 0.0
	for i, book := range books {
		votes[i] = float64(book.RatingsCount)
		meanRating += book.AverageRating
	}
	meanRating /= float64(len(books))
	minVotes := quantile(votes, r.voteQuantile)

	return rankBooks(books, minVotes, meanRating, n)
}

// rankBooks applies the weighted-rating formula with the given vote
// threshold and prior, keeping the sort stable so equal scores preserve
// catalog order.
func rankBooks(books []domain.Book, minVotes, prior float64, n int) ([]domain.PopularBook, error) {
	qualified := make([]domain.PopularBook, 0, len(books))
	for _, book := range books {
		if float64(book.RatingsCount) < minVotes {
			continue
		}
		qualified = append(qualified, domain.PopularBook{
			Book:           book,
			WeightedRating: weightedRating(book.AverageRating, float64(book.RatingsCount), prior, minVotes),
		})
	}
	if len(qualified) == 0 {
		return nil, &domain.DegenerateInputError{Reason: "no books qualify for the vote threshold"}
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].WeightedRating > qualified[j].WeightedRating
	})
	if n < len(qualified) {
		qualified = qualified[:n]
	}
	return qualified, nil
}

func weightedRating(avg, votes, prior, minVotes float64) float64 {
	return (avg*votes + prior*minVotes) / (votes + minVotes)
}

// quantile computes the q-quantile of values with linear interpolation
// between the two nearest order statistics.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

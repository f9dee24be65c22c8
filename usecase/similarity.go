package usecase

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/mushiri/book-recommender-engine/domain"
)

// SimilarityIndex is a TF-IDF vector-space representation of the tag-bag
// corpus plus the full pairwise cosine similarity matrix. Rows of books
// with an empty bag are zero vectors: valid and maximally dissimilar to
// everything with tags.
type SimilarityIndex struct {
	matrix [][]float64
}

// Matrix exposes the pairwise similarities; symmetric, with 1.0 on the
// diagonal for every book with a non-empty bag.
func (idx *SimilarityIndex) Matrix() [][]float64 { return idx.matrix }

// BuildSimilarityIndex vectorizes each bag with smoothed TF-IDF weighting
// over the English stop list, L2-normalizes the rows, and fills the cosine
// matrix by sparse dot products.
func BuildSimilarityIndex(bags []string) (*SimilarityIndex, error) {
	if len(bags) == 0 {
		return nil, &domain.DegenerateInputError{Reason: "empty tag-bag corpus"}
	}

	vocabulary := make(map[string]int)
	documentFreq := make(map[int]int)
	termCounts := make([]map[int]int, len(bags))
	for i, bag := range bags {
		counts := make(map[int]int)
		for _, token := range tokenize(bag) {
			id, ok := vocabulary[token]
			if !ok {
				id = len(vocabulary)
				vocabulary[token] = id
			}
			counts[id]++
		}
		for id := range counts {
			documentFreq[id]++
		}
		termCounts[i] = counts
	}

	// Smoothed idf: ln((1+n)/(1+df)) + 1. With L2-normalized rows the
	// cosine similarity reduces to a plain dot product.
	docs := float64(len(bags))
	vectors := make([]map[int]float64, len(bags))
	for i, counts := range termCounts {
		vector := make(map[int]float64, len(counts))
		norm := 0.0
		for id, tf := range counts {
			idf := math.Log((1+docs)/(1+float64(documentFreq[id]))) + 1
			w := float64(tf) * idf
			vector[id] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for id := range vector {
				vector[id] /= norm
			}
		}
		vectors[i] = vector
	}

	matrix := make([][]float64, len(bags))
	for i := range matrix {
		matrix[i] = make([]float64, len(bags))
	}
	for i := range vectors {
		for j := i; j < len(vectors); j++ {
			sim := dot(vectors[i], vectors[j])
			matrix[i][j] = sim
			matrix[j][i] = sim
		}
	}
	return &SimilarityIndex{matrix: matrix}, nil
}

func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	sum := 0.0
	for id, w := range a {
		sum += w * b[id]
	}
	return sum
}

// tokenize lowercases the bag and keeps word-character runs of length two
// or more that are not stop words, matching the conventional vectorizer
// token pattern.
func tokenize(bag string) []string {
	var tokens []string
	isSeparator := func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	}
	for _, field := range strings.FieldsFunc(strings.ToLower(bag), isSeparator) {
		if len(field) < 2 {
			continue
		}
		if _, ok := englishStopWords[field]; ok {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

// SimilarTo answers a nearest-neighbor query over the index for the book at
// row query: every other row sorted by similarity descending, the query row
// itself excluded, the first n returned with scores rounded to 3 decimals.
func (idx *SimilarityIndex) SimilarTo(books []domain.Book, query, n int) []domain.SimilarBook {
	row := idx.matrix[query]
	order := make([]int, 0, len(row)-1)
	for i := range row {
		if i != query {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return row[order[a]] > row[order[b]]
	})
	if n < len(order) {
		order = order[:n]
	}

	result := make([]domain.SimilarBook, 0, len(order))
	for _, i := range order {
		result = append(result, domain.SimilarBook{
			Book:       books[i],
			Similarity: math.Round(row[i]*1000) / 1000,
		})
	}
	return result
}

// FindTitle locates the first book with an exact title match. When several
// books share a title only the first is used; that ambiguity is inherited
// from the catalog, not resolved here.
func FindTitle(books []domain.Book, title string) (int, error) {
	for i, book := range books {
		if book.Title == title {
			return i, nil
		}
	}
	return 0, &domain.NotFoundError{Kind: "title", Key: title}
}

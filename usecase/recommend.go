package usecase

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/mushiri/book-recommender-engine/domain"
)

// RecommendConfig tunes the facade. BaseURL prefixes the external catalog
// id to form book detail links.
type RecommendConfig struct {
	BaseURL       string
	SVD           SVDParams
	CrossValidate bool
	Folds         int
}

type recommendUsecase struct {
	catalog  domain.CatalogRepository
	features *FeatureBuilder
	ranker   *PopularityRanker
	config   RecommendConfig
	timeout  time.Duration

	// Memoized heavy artifacts, keyed by a fingerprint of their input so
	// a rebuilt facade over reloaded data never serves stale results.
	mu       sync.RWMutex
	indexKey uint64
	index    *SimilarityIndex
	modelKey uint64
	model    *PreferenceModel
	filtered *FilteredRatingSet
}

func NewRecommendUsecase(
	catalog domain.CatalogRepository,
	features *FeatureBuilder,
	ranker *PopularityRanker,
	config RecommendConfig,
	timeout time.Duration,
) domain.RecommendUsecase {
	return &recommendUsecase{
		catalog:  catalog,
		features: features,
		ranker:   ranker,
		config:   config,
		timeout:  timeout,
	}
}

func (uc *recommendUsecase) link(book domain.Book) string {
	return uc.config.BaseURL + strconv.FormatInt(book.GoodreadsID, 10)
}

func (uc *recommendUsecase) RecommendPopular(ctx context.Context, n int) ([]domain.BookSummary, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n must be greater than 0")
	}
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	top, err := uc.ranker.TopBooks(n)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.BookSummary, 0, len(top))
	for _, book := range top {
		summaries = append(summaries, domain.BookSummary{
			Link:     uc.link(book.Book),
			Title:    book.Title,
			Author:   book.Authors,
			Rating:   math.Round(book.WeightedRating*100) / 100,
			ImageURL: book.ImageURL,
			Year:     book.PublicationYear,
		})
	}
	return summaries, nil
}

func (uc *recommendUsecase) RecommendSimilar(ctx context.Context, title string, n int) ([]domain.SimilarBookSummary, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n must be greater than 0")
	}
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	books := uc.catalog.Books()
	query, err := FindTitle(books, title)
	if err != nil {
		return nil, err
	}

	index, err := uc.similarityIndex()
	if err != nil {
		return nil, err
	}

	similar := index.SimilarTo(books, query, n)
	summaries := make([]domain.SimilarBookSummary, 0, len(similar))
	for _, book := range similar {
		summaries = append(summaries, domain.SimilarBookSummary{
			Link:       uc.link(book.Book),
			Title:      book.Title,
			Author:     book.Authors,
			ImageURL:   book.ImageURL,
			Year:       book.PublicationYear,
			Similarity: book.Similarity,
		})
	}
	return summaries, nil
}

func (uc *recommendUsecase) RecommendForUser(ctx context.Context, userID, n int) (*domain.UserRecommendationReport, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n must be greater than 0")
	}
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, filtered, err := uc.preferenceModel()
	if err != nil {
		return nil, err
	}

	report := &domain.UserRecommendationReport{}
	rated := make(map[int]struct{})
	for _, r := range filtered.Ratings {
		if r.UserID != userID {
			continue
		}
		rated[r.BookID] = struct{}{}
		report.UserTitles = append(report.UserTitles, filtered.Titles[r.BookID])
		report.UserRatings = append(report.UserRatings, r.Rating)
	}

	type estimate struct {
		bookID int
		score  float64
	}
	candidates := make([]estimate, 0, len(filtered.BookIDs))
	for _, bookID := range filtered.BookIDs {
		if _, ok := rated[bookID]; ok {
			continue
		}
		candidates = append(candidates, estimate{
			bookID: bookID,
			score:  model.Predict(userID, bookID),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if n < len(candidates) {
		candidates = candidates[:n]
	}

	for _, c := range candidates {
		report.EstTitles = append(report.EstTitles, filtered.Titles[c.bookID])
		report.EstScores = append(report.EstScores, c.score)
	}
	return report, nil
}

func (uc *recommendUsecase) Titles(ctx context.Context) ([]string, error) {
	books := uc.catalog.Books()
	titles := make([]string, 0, len(books))
	for _, book := range books {
		titles = append(titles, book.Title)
	}
	return titles, nil
}

func (uc *recommendUsecase) UserIDs(ctx context.Context) ([]int, error) {
	_, filtered, err := uc.preferenceModel()
	if err != nil {
		return nil, err
	}
	return filtered.UserIDs(), nil
}

// similarityIndex rebuilds the TF-IDF index only when the tag-bag corpus
// fingerprint changes.
func (uc *recommendUsecase) similarityIndex() (*SimilarityIndex, error) {
	bags := uc.features.TagBags()
	key := fingerprintStrings(bags)

	uc.mu.RLock()
	if uc.index != nil && uc.indexKey == key {
		index := uc.index
		uc.mu.RUnlock()
		return index, nil
	}
	uc.mu.RUnlock()

	index, err := BuildSimilarityIndex(bags)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	uc.index = index
	uc.indexKey = key
	uc.mu.Unlock()
	return index, nil
}

// preferenceModel retrains the factorization only when the filtered rating
// set fingerprint changes. Cross-validation metrics, when enabled, are
// diagnostic log output; the served model is always fit on the full set.
func (uc *recommendUsecase) preferenceModel() (*PreferenceModel, *FilteredRatingSet, error) {
	filtered := uc.features.FilteredRatings()
	key := fingerprintRatings(filtered.Ratings)

	uc.mu.RLock()
	if uc.model != nil && uc.modelKey == key {
		model, cached := uc.model, uc.filtered
		uc.mu.RUnlock()
		return model, cached, nil
	}
	uc.mu.RUnlock()

	if uc.config.CrossValidate {
		metrics, err := CrossValidate(filtered.Ratings, uc.config.SVD, uc.config.Folds)
		if err != nil {
			return nil, nil, err
		}
		for fold, m := range metrics {
			log.Printf("preference model fold %d: RMSE=%.4f MAE=%.4f", fold+1, m.RMSE, m.MAE)
		}
	}

	model, err := TrainPreferenceModel(filtered.Ratings, uc.config.SVD)
	if err != nil {
		return nil, nil, err
	}

	uc.mu.Lock()
	uc.model = model
	uc.modelKey = key
	uc.filtered = filtered
	uc.mu.Unlock()
	return model, filtered, nil
}

func fingerprintStrings(values []string) uint64 {
	h := fnv.New64a()
	for _, v := range values {
		h.Write([]byte(v))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

func fingerprintRatings(ratings []domain.Rating) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	write := func(v int) {
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf[:])
	}
	for _, r := range ratings {
		write(r.UserID)
		write(r.BookID)
		write(r.Rating)
	}
	return h.Sum64()
}

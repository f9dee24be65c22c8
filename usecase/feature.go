package usecase

import (
	"sort"
	"strings"

	"github.com/mushiri/book-recommender-engine/domain"
)

// FeatureBuilder derives the engine's two feature views from the catalog:
// the per-book tag-bag text feature and the filtered rating set used by the
// preference model. It is stateless given the catalog.
type FeatureBuilder struct {
	catalog     domain.CatalogRepository
	yearCutoff  int
	minActivity int
}

func NewFeatureBuilder(catalog domain.CatalogRepository, yearCutoff, minActivity int) *FeatureBuilder {
	return &FeatureBuilder{
		catalog:     catalog,
		yearCutoff:  yearCutoff,
		minActivity: minActivity,
	}
}

// TagBags returns one tag-bag per book, aligned with catalog.Books().
// Each bag is the set of distinct tag names attached to the book, joined by
// spaces in sorted order so equal sets produce equal strings. Books with no
// tag associations get an empty bag.
func (f *FeatureBuilder) TagBags() []string {
	tagSets := make(map[int64]map[string]struct{})
	for _, link := range f.catalog.BookTagLinks() {
		set, ok := tagSets[link.GoodreadsID]
		if !ok {
			set = make(map[string]struct{})
			tagSets[link.GoodreadsID] = set
		}
		set[link.TagName] = struct{}{}
	}

	books := f.catalog.Books()
	bags := make([]string, len(books))
	for i, book := range books {
		set := tagSets[book.GoodreadsID]
		if len(set) == 0 {
			continue
		}
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		sort.Strings(names)
		bags[i] = strings.Join(names, " ")
	}
	return bags
}

// FilteredRatingSet is the training and query universe of the preference
// model: ratings of books published after the cutoff year, restricted to
// users with at least minActivity ratings inside that restricted set.
type FilteredRatingSet struct {
	Ratings []domain.Rating
	// BookIDs lists every post-cutoff book in catalog order; Titles maps
	// those ids to display titles. Both cover all eligible books, rated
	// or not, since unrated ones are still recommendation candidates.
	BookIDs []int
	Titles  map[int]string
}

// UserIDs returns the distinct user ids of the set in first-seen order.
func (s *FilteredRatingSet) UserIDs() []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, rating := range s.Ratings {
		if _, ok := seen[rating.UserID]; ok {
			continue
		}
		seen[rating.UserID] = struct{}{}
		ids = append(ids, rating.UserID)
	}
	return ids
}

// FilteredRatings applies the two-stage filter in its fixed order: restrict
// ratings to post-cutoff books first, then drop users whose rating count
// within that restricted set is below the activity minimum. Activity is
// counted on the restricted set only, never globally.
func (f *FeatureBuilder) FilteredRatings() *FilteredRatingSet {
	set := &FilteredRatingSet{Titles: make(map[int]string)}

	eligible := make(map[int]struct{})
	for _, book := range f.catalog.Books() {
		if book.PublicationYear > f.yearCutoff {
			eligible[book.ID] = struct{}{}
			set.BookIDs = append(set.BookIDs, book.ID)
			set.Titles[book.ID] = book.Title
		}
	}

	var restricted []domain.Rating
	activity := make(map[int]int)
	for _, rating := range f.catalog.Ratings() {
		if _, ok := eligible[rating.BookID]; !ok {
			continue
		}
		restricted = append(restricted, rating)
		activity[rating.UserID]++
	}

	for _, rating := range restricted {
		if activity[rating.UserID] >= f.minActivity {
			set.Ratings = append(set.Ratings, rating)
		}
	}
	return set
}

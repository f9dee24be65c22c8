package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mushiri/book-recommender-engine/domain"
)

// Fixed source file names inside the data directory.
const (
	BooksFile    = "books.csv"
	RatingsFile  = "ratings.csv"
	TagsFile     = "tags.csv"
	BookTagsFile = "book_tags.csv"
)

// catalogRepository holds the four relations in memory, loaded once at
// construction and never mutated afterwards.
type catalogRepository struct {
	books   []domain.Book
	ratings []domain.Rating
	tags    []domain.Tag
	links   []domain.BookTagLink
}

// NewCatalogRepository loads books, ratings, tags and book-tag associations
// from CSV files under dataDir and joins associations with tag definitions
// on tag id. A missing file or a missing required column yields a
// *domain.LoadError.
func NewCatalogRepository(dataDir string) (domain.CatalogRepository, error) {
	repo := &catalogRepository{}

	if err := repo.loadBooks(filepath.Join(dataDir, BooksFile)); err != nil {
		return nil, &domain.LoadError{Source: BooksFile, Err: err}
	}
	if err := repo.loadRatings(filepath.Join(dataDir, RatingsFile)); err != nil {
		return nil, &domain.LoadError{Source: RatingsFile, Err: err}
	}
	tagNames, err := repo.loadTags(filepath.Join(dataDir, TagsFile))
	if err != nil {
		return nil, &domain.LoadError{Source: TagsFile, Err: err}
	}
	if err := repo.loadBookTags(filepath.Join(dataDir, BookTagsFile), tagNames); err != nil {
		return nil, &domain.LoadError{Source: BookTagsFile, Err: err}
	}

	return repo, nil
}

func (r *catalogRepository) Books() []domain.Book               { return r.books }
func (r *catalogRepository) Ratings() []domain.Rating           { return r.ratings }
func (r *catalogRepository) Tags() []domain.Tag                 { return r.tags }
func (r *catalogRepository) BookTagLinks() []domain.BookTagLink { return r.links }

// table is one parsed CSV file with a header-derived column index.
type table struct {
	columns map[string]int
	rows    [][]string
}

func readTable(path string, required ...string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	t := &table{columns: columns}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		t.rows = append(t.rows, record)
	}
	return t, nil
}

func (t *table) field(row []string, name string) string {
	i := t.columns[name]
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func (t *table) intField(row []string, name string) (int, error) {
	s := t.field(row, name)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return v, nil
}

func (t *table) floatField(row []string, name string) (float64, error) {
	s := t.field(row, name)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return v, nil
}

func (r *catalogRepository) loadBooks(path string) error {
	t, err := readTable(path,
		"book_id", "goodreads_book_id", "title", "authors",
		"original_publication_year", "average_rating", "ratings_count",
		"work_text_reviews_count", "image_url",
	)
	if err != nil {
		return err
	}

	r.books = make([]domain.Book, 0, len(t.rows))
	for _, row := range t.rows {
		id, err := t.intField(row, "book_id")
		if err != nil {
			return err
		}
		goodreadsID, err := t.intField(row, "goodreads_book_id")
		if err != nil {
			return err
		}
		// The source stores the year as a float ("2004.0") and leaves it
		// empty for books of unknown origin.
		year := 0
		if s := t.field(row, "original_publication_year"); s != "" {
			y, err := t.floatField(row, "original_publication_year")
			if err != nil {
				return err
			}
			year = int(y)
		}
		avg, err := t.floatField(row, "average_rating")
		if err != nil {
			return err
		}
		votes, err := t.intField(row, "ratings_count")
		if err != nil {
			return err
		}
		reviews, err := t.intField(row, "work_text_reviews_count")
		if err != nil {
			return err
		}

		r.books = append(r.books, domain.Book{
			ID:              id,
			GoodreadsID:     int64(goodreadsID),
			Title:           t.field(row, "title"),
			Authors:         t.field(row, "authors"),
			PublicationYear: year,
			AverageRating:   avg,
			RatingsCount:    votes,
			TextReviewCount: reviews,
			ImageURL:        t.field(row, "image_url"),
		})
	}
	return nil
}

func (r *catalogRepository) loadRatings(path string) error {
	t, err := readTable(path, "user_id", "book_id", "rating")
	if err != nil {
		return err
	}

	r.ratings = make([]domain.Rating, 0, len(t.rows))
	for _, row := range t.rows {
		userID, err := t.intField(row, "user_id")
		if err != nil {
			return err
		}
		bookID, err := t.intField(row, "book_id")
		if err != nil {
			return err
		}
		rating, err := t.intField(row, "rating")
		if err != nil {
			return err
		}
		if rating < 1 || rating > 5 {
			return fmt.Errorf("rating %d outside the 1-5 scale", rating)
		}
		r.ratings = append(r.ratings, domain.Rating{
			UserID: userID,
			BookID: bookID,
			Rating: rating,
		})
	}
	return nil
}

func (r *catalogRepository) loadTags(path string) (map[int64]string, error) {
	t, err := readTable(path, "tag_id", "tag_name")
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(t.rows))
	r.tags = make([]domain.Tag, 0, len(t.rows))
	for _, row := range t.rows {
		id, err := t.intField(row, "tag_id")
		if err != nil {
			return nil, err
		}
		name := t.field(row, "tag_name")
		r.tags = append(r.tags, domain.Tag{ID: int64(id), Name: name})
		names[int64(id)] = name
	}
	return names, nil
}

// loadBookTags inner-joins the association rows with the tag definitions:
// rows whose tag id has no definition are dropped. The optional count
// column is ignored.
func (r *catalogRepository) loadBookTags(path string, tagNames map[int64]string) error {
	t, err := readTable(path, "goodreads_book_id", "tag_id")
	if err != nil {
		return err
	}

	r.links = make([]domain.BookTagLink, 0, len(t.rows))
	for _, row := range t.rows {
		goodreadsID, err := t.intField(row, "goodreads_book_id")
		if err != nil {
			return err
		}
		tagID, err := t.intField(row, "tag_id")
		if err != nil {
			return err
		}
		name, ok := tagNames[int64(tagID)]
		if !ok {
			continue
		}
		r.links = append(r.links, domain.BookTagLink{
			GoodreadsID: int64(goodreadsID),
			TagID:       int64(tagID),
			TagName:     name,
		})
	}
	return nil
}

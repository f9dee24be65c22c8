package usecase

import "github.com/mushiri/book-recommender-engine/domain"

// fakeCatalog is an in-memory CatalogRepository for engine tests.
type fakeCatalog struct {
	books   []domain.Book
	ratings []domain.Rating
	tags    []domain.Tag
	links   []domain.BookTagLink
}

func (c *fakeCatalog) Books() []domain.Book               { return c.books }
func (c *fakeCatalog) Ratings() []domain.Rating           { return c.ratings }
func (c *fakeCatalog) Tags() []domain.Tag                 { return c.tags }
func (c *fakeCatalog) BookTagLinks() []domain.BookTagLink { return c.links }

func book(id int, goodreadsID int64, title string, year int, avg float64, votes int) domain.Book {
	return domain.Book{
		ID:              id,
		GoodreadsID:     goodreadsID,
		Title:           title,
		Authors:         "Author of " + title,
		PublicationYear: year,
		AverageRating:   avg,
		RatingsCount:    votes,
		ImageURL:        "https://images.example/" + title + ".jpg",
	}
}

func link(goodreadsID, tagID int64, name string) domain.BookTagLink {
	return domain.BookTagLink{GoodreadsID: goodreadsID, TagID: tagID, TagName: name}
}

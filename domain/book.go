package domain

// Book is one row of the catalog, immutable after load. TagBag is derived
// by the feature builder from the set of distinct tag names attached to the
// book; repeated tag associations do not repeat in the bag.
type Book struct {
	ID              int     `json:"book_id"`
	GoodreadsID     int64   `json:"goodreads_book_id"`
	Title           string  `json:"title"`
	Authors         string  `json:"authors"`
	PublicationYear int     `json:"original_publication_year"`
	AverageRating   float64 `json:"average_rating"`
	RatingsCount    int     `json:"ratings_count"`
	TextReviewCount int     `json:"work_text_reviews_count"`
	ImageURL        string  `json:"image_url"`
	TagBag          string  `json:"tag_bag"`
}

// PopularBook pairs a catalog row with its Bayesian weighted rating.
type PopularBook struct {
	Book
	WeightedRating float64 `json:"weighted_rating"`
}

// SimilarBook pairs a catalog row with its cosine similarity to a query book.
type SimilarBook struct {
	Book
	Similarity float64 `json:"similarity"`
}

type Tag struct {
	ID   int64  `json:"tag_id"`
	Name string `json:"tag_name"`
}

// BookTagLink is a book-tag association joined with its tag definition.
// Associations whose tag id has no definition are dropped at load time.
type BookTagLink struct {
	GoodreadsID int64  `json:"goodreads_book_id"`
	TagID       int64  `json:"tag_id"`
	TagName     string `json:"tag_name"`
}

// Rating is an immutable historical fact: user u gave book b an integer
// rating on the 1-5 scale.
type Rating struct {
	UserID int `json:"user_id"`
	BookID int `json:"book_id"`
	Rating int `json:"rating"`
}

// CatalogRepository exposes the four source relations, read-only after load.
type CatalogRepository interface {
	Books() []Book
	Ratings() []Rating
	Tags() []Tag
	BookTagLinks() []BookTagLink
}

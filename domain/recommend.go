package domain

import "context"

// BookSummary is one row of the popularity listing. Rating is the weighted
// rating rounded to 2 decimal places.
type BookSummary struct {
	Link     string  `json:"id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Rating   float64 `json:"rating"`
	ImageURL string  `json:"image_url"`
	Year     int     `json:"year"`
}

// SimilarBookSummary is one row of a content-based result. Similarity is
// rounded to 3 decimal places.
type SimilarBookSummary struct {
	Link       string  `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	ImageURL   string  `json:"image_url"`
	Year       int     `json:"year"`
	Similarity float64 `json:"similarity"`
}

// UserRecommendationReport bundles a user's rating history inside the
// filtered universe with the top estimated unrated titles. Books the user
// rated outside the filtered universe are omitted.
type UserRecommendationReport struct {
	UserTitles  []string  `json:"user_titles"`
	UserRatings []int     `json:"user_ratings"`
	EstTitles   []string  `json:"est_titles"`
	EstScores   []float64 `json:"est_scores"`
}

type RecommendUsecase interface {
	RecommendPopular(ctx context.Context, n int) ([]BookSummary, error)
	RecommendSimilar(ctx context.Context, title string, n int) ([]SimilarBookSummary, error)
	RecommendForUser(ctx context.Context, userID, n int) (*UserRecommendationReport, error)

	// Titles and UserIDs feed the selection forms of the web layer.
	Titles(ctx context.Context) ([]string, error)
	UserIDs(ctx context.Context) ([]int, error)
}

package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushiri/book-recommender-engine/domain"
)

type stubRecommendUsecase struct {
	popular []domain.BookSummary
	similar []domain.SimilarBookSummary
	report  *domain.UserRecommendationReport
	err     error
}

func (s *stubRecommendUsecase) RecommendPopular(ctx context.Context, n int) ([]domain.BookSummary, error) {
	return s.popular, s.err
}

func (s *stubRecommendUsecase) RecommendSimilar(ctx context.Context, title string, n int) ([]domain.SimilarBookSummary, error) {
	return s.similar, s.err
}

func (s *stubRecommendUsecase) RecommendForUser(ctx context.Context, userID, n int) (*domain.UserRecommendationReport, error) {
	return s.report, s.err
}

func (s *stubRecommendUsecase) Titles(ctx context.Context) ([]string, error) {
	return []string{"Dune", "Emma"}, s.err
}

func (s *stubRecommendUsecase) UserIDs(ctx context.Context) ([]int, error) {
	return []int{1, 2, 3}, s.err
}

func serve(uc domain.RecommendUsecase, method, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	ctrl := NewRecommendController(uc, 10)
	engine.GET("/books/popular", ctrl.GetPopularBooks)
	engine.GET("/books/titles", ctrl.GetBookTitles)
	engine.GET("/books/similar", ctrl.GetSimilarBooks)
	engine.GET("/users", ctrl.GetUserIDs)
	engine.GET("/users/:id/recommendations", ctrl.GetUserRecommendations)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, target, nil)
	engine.ServeHTTP(recorder, request)
	return recorder
}

func TestGetPopularBooksOK(t *testing.T) {
	uc := &stubRecommendUsecase{popular: []domain.BookSummary{
		{Link: "https://www.goodreads.com/book/show/1", Title: "Dune", Author: "Frank Herbert", Rating: 4.21, Year: 1965},
	}}

	recorder := serve(uc, http.MethodGet, "/books/popular?limit=5")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		PopularBooks []domain.BookSummary `json:"popular_books"`
		N            int                  `json:"n"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, 1, body.N)
	require.Len(t, body.PopularBooks, 1)
	assert.Equal(t, "Dune", body.PopularBooks[0].Title)
}

func TestGetPopularBooksInvalidLimit(t *testing.T) {
	recorder := serve(&stubRecommendUsecase{}, http.MethodGet, "/books/popular?limit=abc")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = serve(&stubRecommendUsecase{}, http.MethodGet, "/books/popular?limit=0")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetSimilarBooksRequiresTitle(t *testing.T) {
	recorder := serve(&stubRecommendUsecase{}, http.MethodGet, "/books/similar")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetSimilarBooksNotFound(t *testing.T) {
	uc := &stubRecommendUsecase{err: &domain.NotFoundError{Kind: "title", Key: "Unknown Title 12345"}}

	recorder := serve(uc, http.MethodGet, "/books/similar?title=Unknown+Title+12345")
	require.Equal(t, http.StatusNotFound, recorder.Code)

	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, "NOT_FOUND", payload.Code)
	assert.Contains(t, payload.Message, "Unknown Title 12345")
}

func TestGetSimilarBooksDegenerateInput(t *testing.T) {
	uc := &stubRecommendUsecase{err: &domain.DegenerateInputError{Reason: "empty tag-bag corpus"}}

	recorder := serve(uc, http.MethodGet, "/books/similar?title=Dune")
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestGetUserRecommendationsOK(t *testing.T) {
	uc := &stubRecommendUsecase{report: &domain.UserRecommendationReport{
		UserTitles:  []string{"The Martian"},
		UserRatings: []int{5},
		EstTitles:   []string{"Leviathan Wakes", "Project Hail Mary"},
		EstScores:   []float64{4.4, 4.1},
	}}

	recorder := serve(uc, http.MethodGet, "/users/42/recommendations")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		UserID    int      `json:"user_id"`
		EstTitles []string `json:"est_titles"`
		N         int      `json:"n"`
		M         int      `json:"m"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, 42, body.UserID)
	assert.Equal(t, 1, body.N)
	assert.Equal(t, 2, body.M)
	assert.Equal(t, []string{"Leviathan Wakes", "Project Hail Mary"}, body.EstTitles)
}

func TestGetUserRecommendationsInvalidID(t *testing.T) {
	recorder := serve(&stubRecommendUsecase{}, http.MethodGet, "/users/abc/recommendations")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetUserIDsOK(t *testing.T) {
	recorder := serve(&stubRecommendUsecase{}, http.MethodGet, "/users")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		UserIDs []int `json:"user_ids"`
		N       int   `json:"n"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, []int{1, 2, 3}, body.UserIDs)
	assert.Equal(t, 3, body.N)
}

func TestGetBookTitlesOK(t *testing.T) {
	recorder := serve(&stubRecommendUsecase{}, http.MethodGet, "/books/titles")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Titles []string `json:"titles"`
		N      int      `json:"n"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, []string{"Dune", "Emma"}, body.Titles)
	assert.Equal(t, 2, body.N)
}

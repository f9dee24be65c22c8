package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mushiri/book-recommender-engine/domain"
)

type RecommendController struct {
	RecommendUsecase domain.RecommendUsecase
	DefaultTopN      int
}

func NewRecommendController(uc domain.RecommendUsecase, defaultTopN int) *RecommendController {
	return &RecommendController{
		RecommendUsecase: uc,
		DefaultTopN:      defaultTopN,
	}
}

// parseLimit reads the optional limit query parameter, falling back to the
// configured default. Invalid values are answered inline with 400.
func (c *RecommendController) parseLimit(ctx *gin.Context) (int, bool) {
	raw := ctx.Query("limit")
	if raw == "" {
		return c.DefaultTopN, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		ErrorResponse(ctx, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a number")
		return 0, false
	}
	if limit <= 0 {
		ErrorResponse(ctx, http.StatusBadRequest, "INVALID_LIMIT", "limit must be greater than 0")
		return 0, false
	}
	return limit, true
}

// respondError translates engine errors to HTTP statuses. The engine never
// swallows errors; this is the single place they become user-visible.
func respondError(ctx *gin.Context, err error) {
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		ErrorResponse(ctx, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	var degenerate *domain.DegenerateInputError
	if errors.As(err, &degenerate) {
		ErrorResponse(ctx, http.StatusUnprocessableEntity, "DEGENERATE_INPUT", err.Error())
		return
	}
	ErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", err.Error())
}

// GetPopularBooks handles GET /books/popular?limit=n
func (c *RecommendController) GetPopularBooks(ctx *gin.Context) {
	limit, ok := c.parseLimit(ctx)
	if !ok {
		return
	}

	books, err := c.RecommendUsecase.RecommendPopular(ctx.Request.Context(), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"popular_books": books,
		"n":             len(books),
	})
}

// GetBookTitles handles GET /books/titles
func (c *RecommendController) GetBookTitles(ctx *gin.Context) {
	titles, err := c.RecommendUsecase.Titles(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"titles": titles,
		"n":      len(titles),
	})
}

// GetSimilarBooks handles GET /books/similar?title=...&limit=n
func (c *RecommendController) GetSimilarBooks(ctx *gin.Context) {
	title := ctx.Query("title")
	if title == "" {
		ErrorResponse(ctx, http.StatusBadRequest, "INVALID_TITLE", "title parameter is required")
		return
	}
	limit, ok := c.parseLimit(ctx)
	if !ok {
		return
	}

	similar, err := c.RecommendUsecase.RecommendSimilar(ctx.Request.Context(), title, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"title":         title,
		"similar_books": similar,
		"n":             len(similar),
	})
}

// GetUserIDs handles GET /users
func (c *RecommendController) GetUserIDs(ctx *gin.Context) {
	ids, err := c.RecommendUsecase.UserIDs(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user_ids": ids,
		"n":        len(ids),
	})
}

// GetUserRecommendations handles GET /users/:id/recommendations?limit=n
func (c *RecommendController) GetUserRecommendations(ctx *gin.Context) {
	userID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ErrorResponse(ctx, http.StatusBadRequest, "INVALID_USER_ID", "user id must be a number")
		return
	}
	limit, ok := c.parseLimit(ctx)
	if !ok {
		return
	}

	report, err := c.RecommendUsecase.RecommendForUser(ctx.Request.Context(), userID, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user_id":      userID,
		"user_titles":  report.UserTitles,
		"user_ratings": report.UserRatings,
		"est_titles":   report.EstTitles,
		"est_scores":   report.EstScores,
		"n":            len(report.UserTitles),
		"m":            len(report.EstTitles),
	})
}

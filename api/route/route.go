package route

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mushiri/book-recommender-engine/api/controller"
	"github.com/mushiri/book-recommender-engine/bootstrap"
	"github.com/mushiri/book-recommender-engine/domain"
	"github.com/mushiri/book-recommender-engine/usecase"
)

func Setup(env *bootstrap.Env, timeout time.Duration, catalog domain.CatalogRepository, gin *gin.Engine) {
	api := gin.Group("/api")
	NewRecommendRouter(env, timeout, catalog, api)
}

func NewRecommendRouter(
	env *bootstrap.Env,
	timeout time.Duration,
	catalog domain.CatalogRepository,
	group *gin.RouterGroup,
) {
	features := usecase.NewFeatureBuilder(catalog, env.YearCutoff, env.MinUserActivity)
	ranker := usecase.NewPopularityRanker(catalog, env.VoteQuantile)

	params := usecase.DefaultSVDParams()
	params.Factors = env.SVDFactors
	params.Epochs = env.SVDEpochs
	params.LearningRate = env.SVDLearningRate
	params.Regularization = env.SVDRegularization

	uc := usecase.NewRecommendUsecase(catalog, features, ranker, usecase.RecommendConfig{
		BaseURL:       env.CatalogBaseURL,
		SVD:           params,
		CrossValidate: env.CrossValidate,
		Folds:         env.CrossValidateFolds,
	}, timeout)

	ctrl := controller.NewRecommendController(uc, env.DefaultTopN)

	books := group.Group("/books")
	{
		// GET /books/popular?limit=10
		books.GET("/popular", ctrl.GetPopularBooks)

		// GET /books/titles
		books.GET("/titles", ctrl.GetBookTitles)

		// GET /books/similar?title=The+Hobbit&limit=10
		books.GET("/similar", ctrl.GetSimilarBooks)
	}

	users := group.Group("/users")
	{
		// GET /users
		users.GET("", ctrl.GetUserIDs)

		// GET /users/314/recommendations?limit=10
		users.GET("/:id/recommendations", ctrl.GetUserRecommendations)
	}
}

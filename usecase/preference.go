package usecase

import (
	"math"
	"math/rand"

	"github.com/mushiri/book-recommender-engine/domain"
)

// SVDParams are the hyperparameters of the latent-factor model.
type SVDParams struct {
	Factors        int
	Epochs         int
	LearningRate   float64
	Regularization float64
	InitStdDev     float64
	Seed           int64
}

func DefaultSVDParams() SVDParams {
	return SVDParams{
		Factors:        100,
		Epochs:         20,
		LearningRate:   0.005,
		Regularization: 0.02,
		InitStdDev:     0.1,
		Seed:           1,
	}
}

// PreferenceModel is a biased matrix factorization fit by stochastic
// gradient descent: estimate = mu + b_u + b_i + p_u . q_i, clamped to the
// rating scale. Users or books absent from the training set fall back to
// whatever bias terms exist, down to the global mean alone.
type PreferenceModel struct {
	mu          float64
	userIndex   map[int]int
	itemIndex   map[int]int
	userBias    []float64
	itemBias    []float64
	userFactors [][]float64
	itemFactors [][]float64
}

const (
	minRating = 1.0
	maxRating = 5.0
)

// TrainPreferenceModel fits the factorization on the given triples. An
// empty training set is a *domain.DegenerateInputError.
func TrainPreferenceModel(ratings []domain.Rating, p SVDParams) (*PreferenceModel, error) {
	if len(ratings) == 0 {
		return nil, &domain.DegenerateInputError{Reason: "empty filtered rating set"}
	}

	m := &PreferenceModel{
		userIndex: make(map[int]int),
		itemIndex: make(map[int]int),
	}
	for _, r := range ratings {
		if _, ok := m.userIndex[r.UserID]; !ok {
			m.userIndex[r.UserID] = len(m.userIndex)
		}
		if _, ok := m.itemIndex[r.BookID]; !ok {
			m.itemIndex[r.BookID] = len(m.itemIndex)
		}
		m.mu += float64(r.Rating)
	}
	m.mu /= float64(len(ratings))

	rng := rand.New(rand.NewSource(p.Seed))
	m.userBias = make([]float64, len(m.userIndex))
	m.itemBias = make([]float64, len(m.itemIndex))
	m.userFactors = randomFactors(rng, len(m.userIndex), p.Factors, p.InitStdDev)
	m.itemFactors = randomFactors(rng, len(m.itemIndex), p.Factors, p.InitStdDev)

	order := rng.Perm(len(ratings))
	for epoch := 0; epoch < p.Epochs; epoch++ {
		for _, idx := range order {
			r := ratings[idx]
			u := m.userIndex[r.UserID]
			i := m.itemIndex[r.BookID]
			pu := m.userFactors[u]
			qi := m.itemFactors[i]

			pred := m.mu + m.userBias[u] + m.itemBias[i]
			for f := 0; f < p.Factors; f++ {
				pred += pu[f] * qi[f]
			}
			err := float64(r.Rating) - pred

			m.userBias[u] += p.LearningRate * (err - p.Regularization*m.userBias[u])
			m.itemBias[i] += p.LearningRate * (err - p.Regularization*m.itemBias[i])
			for f := 0; f < p.Factors; f++ {
				puf, qif := pu[f], qi[f]
				pu[f] += p.LearningRate * (err*qif - p.Regularization*puf)
				qi[f] += p.LearningRate * (err*puf - p.Regularization*qif)
			}
		}
	}
	return m, nil
}

func randomFactors(rng *rand.Rand, rows, cols int, stddev float64) [][]float64 {
	factors := make([][]float64, rows)
	for i := range factors {
		row := make([]float64, cols)
		for f := range row {
			row[f] = rng.NormFloat64() * stddev
		}
		factors[i] = row
	}
	return factors
}

// Predict estimates the rating user userID would give book bookID. Unknown
// users or books simply lose their bias and factor terms, which degrades
// gracefully to a global-mean estimate.
func (m *PreferenceModel) Predict(userID, bookID int) float64 {
	est := m.mu
	u, knownUser := m.userIndex[userID]
	i, knownItem := m.itemIndex[bookID]
	if knownUser {
		est += m.userBias[u]
	}
	if knownItem {
		est += m.itemBias[i]
	}
	if knownUser && knownItem {
		for f := range m.userFactors[u] {
			est += m.userFactors[u][f] * m.itemFactors[i][f]
		}
	}
	return math.Min(maxRating, math.Max(minRating, est))
}

// FoldMetrics carries the diagnostic error of one cross-validation fold.
type FoldMetrics struct {
	RMSE float64
	MAE  float64
}

// CrossValidate runs k-fold validation for diagnostics only: the metrics
// never alter the final fit, which is always retrained on the full set.
func CrossValidate(ratings []domain.Rating, p SVDParams, folds int) ([]FoldMetrics, error) {
	if folds < 2 || len(ratings) < folds {
		return nil, &domain.DegenerateInputError{Reason: "too few ratings to cross-validate"}
	}

	rng := rand.New(rand.NewSource(p.Seed))
	order := rng.Perm(len(ratings))

	metrics := make([]FoldMetrics, 0, folds)
	for fold := 0; fold < folds; fold++ {
		var train, test []domain.Rating
		for pos, idx := range order {
			if pos%folds == fold {
				test = append(test, ratings[idx])
			} else {
				train = append(train, ratings[idx])
			}
		}

		model, err := TrainPreferenceModel(train, p)
		if err != nil {
			return nil, err
		}

		var sumSq, sumAbs float64
		for _, r := range test {
			diff := float64(r.Rating) - model.Predict(r.UserID, r.BookID)
			sumSq += diff * diff
			sumAbs += math.Abs(diff)
		}
		n := float64(len(test))
		metrics = append(metrics, FoldMetrics{
			RMSE: math.Sqrt(sumSq / n),
			MAE:  sumAbs / n,
		})
	}
	return metrics, nil
}

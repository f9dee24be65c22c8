package bootstrap

import (
	"log"

	"github.com/spf13/viper"
)

type Env struct {
	AppEnv         string `mapstructure:"APP_ENV"`
	ServerAddress  string `mapstructure:"SERVER_ADDRESS"`
	ContextTimeout int    `mapstructure:"CONTEXT_TIMEOUT"`

	DataDir        string `mapstructure:"DATA_DIR"`
	CatalogBaseURL string `mapstructure:"CATALOG_BASE_URL"`
	DefaultTopN    int    `mapstructure:"DEFAULT_TOP_N"`

	// Engine tunables. The cutoffs fix the filtered rating universe; the
	// quantile sets the popularity vote threshold.
	YearCutoff      int     `mapstructure:"YEAR_CUTOFF"`
	MinUserActivity int     `mapstructure:"MIN_USER_ACTIVITY"`
	VoteQuantile    float64 `mapstructure:"VOTE_QUANTILE"`

	SVDFactors         int     `mapstructure:"SVD_FACTORS"`
	SVDEpochs          int     `mapstructure:"SVD_EPOCHS"`
	SVDLearningRate    float64 `mapstructure:"SVD_LEARNING_RATE"`
	SVDRegularization  float64 `mapstructure:"SVD_REGULARIZATION"`
	CrossValidate      bool    `mapstructure:"CROSS_VALIDATE"`
	CrossValidateFolds int     `mapstructure:"CROSS_VALIDATE_FOLDS"`
}

// NewEnv reads .env from the working directory, then the process
// environment, over the built-in defaults. A missing .env is fine; the
// defaults describe the standard goodbooks-10k layout.
func NewEnv() *Env {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("no .env file found, using defaults and environment: %v", err)
	}
	v.AutomaticEnv()

	env := &Env{}
	if err := v.Unmarshal(env); err != nil {
		log.Fatalf("environment can't be loaded: %v", err)
	}
	if env.AppEnv == "development" {
		log.Println("the app is running in development env")
	}
	return env
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("CONTEXT_TIMEOUT", 120)

	v.SetDefault("DATA_DIR", "goodbooks-10k")
	v.SetDefault("CATALOG_BASE_URL", "https://www.goodreads.com/book/show/")
	v.SetDefault("DEFAULT_TOP_N", 10)

	v.SetDefault("YEAR_CUTOFF", 2000)
	v.SetDefault("MIN_USER_ACTIVITY", 100)
	v.SetDefault("VOTE_QUANTILE", 0.55)

	v.SetDefault("SVD_FACTORS", 100)
	v.SetDefault("SVD_EPOCHS", 20)
	v.SetDefault("SVD_LEARNING_RATE", 0.005)
	v.SetDefault("SVD_REGULARIZATION", 0.02)
	v.SetDefault("CROSS_VALIDATE", false)
	v.SetDefault("CROSS_VALIDATE_FOLDS", 5)
}

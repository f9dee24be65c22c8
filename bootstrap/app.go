package bootstrap

import (
	"log"

	"github.com/mushiri/book-recommender-engine/domain"
	"github.com/mushiri/book-recommender-engine/repository"
)

type Application struct {
	Env     *Env
	Catalog domain.CatalogRepository
}

// App loads configuration and the catalog. A LoadError here is fatal: the
// process must not serve any recommendation endpoint without its sources.
func App() Application {
	env := NewEnv()

	catalog, err := repository.NewCatalogRepository(env.DataDir)
	if err != nil {
		log.Fatalf("catalog can't be loaded: %v", err)
	}

	return Application{Env: env, Catalog: catalog}
}

package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mushiri/book-recommender-engine/api/route"
	"github.com/mushiri/book-recommender-engine/bootstrap"
)

func main() {
	app := bootstrap.App()
	env := app.Env

	timeout := time.Duration(env.ContextTimeout) * time.Second

	engine := gin.Default()
	route.Setup(env, timeout, app.Catalog, engine)

	log.Fatal(engine.Run(env.ServerAddress))
}

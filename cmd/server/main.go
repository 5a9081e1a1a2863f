package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/readyyyk/next-todos-api/internal/config"
	"github.com/readyyyk/next-todos-api/internal/database"
	"github.com/readyyyk/next-todos-api/internal/handler"
	"github.com/readyyyk/next-todos-api/internal/middleware"
	"github.com/readyyyk/next-todos-api/internal/queue"
	"github.com/readyyyk/next-todos-api/internal/repository"
	"github.com/readyyyk/next-todos-api/internal/router"
	queue_publisher "github.com/readyyyk/next-todos-api/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("db schema: %v", err)
	}
	cancel()

	// Optional collaborators: a missing Redis disables the response
	// cache, a missing broker leaves the consumer retrying in the
	// background. Neither blocks serving requests.
	rdb := config.NewRedisClient()
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	todos := repository.NewTodoRepo(db)

	authH := handler.NewAuthHandler(cfg, users)
	userH := handler.NewUserHandler(cfg, users, queue_publisher.PublishActivity)
	todoH := handler.NewTodoHandler(todos, users, queue_publisher.PublishActivity)

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterUsers(e, userH, cfg.JWTSecret, cacheMW)
	router.RegisterTodos(e, todoH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

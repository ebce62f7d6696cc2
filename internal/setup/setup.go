package setup

import (
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/forumkit/forumkit/internal/access"
	"github.com/forumkit/forumkit/internal/cache"
	"github.com/forumkit/forumkit/internal/config"
	"github.com/forumkit/forumkit/internal/handler"
	"github.com/forumkit/forumkit/internal/jwt"
	"github.com/forumkit/forumkit/internal/middleware"
	"github.com/forumkit/forumkit/internal/service"
	"github.com/forumkit/forumkit/internal/storage/pg"
	"github.com/forumkit/forumkit/internal/textproc"
	"github.com/forumkit/forumkit/internal/validation"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(&cfg.Public.Pg)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Public.Redis.Addr,
		Password: cfg.Public.Redis.Password,
		DB:       cfg.Public.Redis.DB,
	})
	cacheClient := cache.NewRedis(rdb)

	checker := access.NewRBAC(storage)
	renderer := textproc.New()
	validator := &validation.Validator{}

	catalog := service.NewCatalog(storage, cacheClient, cfg.Public)
	thread := service.NewThread(storage, validator, renderer, checker, cacheClient, cfg.Public)
	post := service.NewPost(storage, validator, renderer, checker, cacheClient, cfg.Public)
	vote := service.NewVote(storage, cacheClient, cfg.Public)
	report := service.NewReport(storage, validator, renderer, cacheClient)

	h := handler.New(catalog, thread, post, vote, report, storage)

	jwtService := jwt.New(cfg.JwtKey(), 24*time.Hour)
	authMw := middleware.NewAuth(jwtService)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
	}, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/sahilchouksey/study-planner/api"
	"github.com/sahilchouksey/study-planner/config"
	"github.com/sahilchouksey/study-planner/database"
	"github.com/sahilchouksey/study-planner/router"
	"github.com/sahilchouksey/study-planner/services"
	"github.com/sahilchouksey/study-planner/services/ai"
	"github.com/sahilchouksey/study-planner/services/cron"
	"github.com/sahilchouksey/study-planner/utils/auth"
	"github.com/sahilchouksey/study-planner/utils/cache"
	"github.com/sahilchouksey/study-planner/utils/middleware"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}
	if getEnv.SESSION_SECRET == "" {
		return errors.New("SESSION_SECRET environment variable is not set")
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		log.Error("Check whether the database is running or set DB_DRIVER=sqlite")
		return err
	}

	if err := store.Init(); err != nil {
		log.Error("Failed to initialize database tables")
		return err
	}

	db := store.GetDB()
	clock := services.NewClock(getEnv.TIMEZONE)

	// Redis is optional: without it sessions live in the database and
	// login lockouts are disabled
	var redisCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Warnf("Failed to connect to Redis: %v. Falling back to database sessions.", err)
			redisCache = nil
		}
	}

	var sessions auth.SessionStore = auth.NewGORMSessionStore(db)
	var bruteForce *middleware.BruteForceProtection
	if redisCache != nil {
		sessions = auth.NewRedisSessionStore(redisCache)
		bruteForce = middleware.NewBruteForceProtection(redisCache)
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: getEnv.SESSION_SECRET,
		Expiry: getEnv.SESSION_TTL,
		Issuer: "study-planner-api",
	})

	completer, err := ai.NewCompleterFromEnv(context.Background(), getEnv)
	if err != nil {
		if !errors.Is(err, ai.ErrNotConfigured) {
			return err
		}
		log.Warnf("AI provider %q has no API key; AI endpoints will return 502", getEnv.AI_PROVIDER)
	}
	generator := ai.NewGenerator(completer, clock.Now)

	var responder services.Responder = services.NewKeywordResponder()
	if getEnv.DOUBT_RESPONDER == "ai" && generator.Configured() {
		responder = services.NewAIResponder(generator, responder)
	}

	notifications := services.NewNotificationService(db, clock)

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewCronManager(db, clock, notifications, sessions)
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warnf("Failed to start cron jobs: %v", err)
			cronManager = nil
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT), store)
	app := server.GetEngine()

	router.SetupRoutes(app, router.Dependencies{
		Store:         store,
		Redis:         redisCache,
		Clock:         clock,
		JWTManager:    jwtManager,
		Sessions:      sessions,
		BruteForce:    bruteForce,
		Generator:     generator,
		Responder:     responder,
		Notifications: notifications,
		CookieSecure:  getEnv.COOKIE_SECURE,
		Security: middleware.SecurityConfig{
			AllowedOrigins:    getEnv.ALLOWED_ORIGINS,
			RateLimitRequests: 100,
			RateLimitWindow:   1 * time.Minute,
		},
	})

	return server.Run()
}

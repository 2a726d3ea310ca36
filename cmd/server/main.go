package main

import (
	"context"
	"log"

	"eventify/config"
	"eventify/internal/cache"
	"eventify/internal/database"
	"eventify/internal/handler"
	"eventify/internal/repository"
	"eventify/internal/service"
	"eventify/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// repositories
	eventRepo := repository.NewEventRepository(pool)
	registrationRepo := repository.NewRegistrationRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	locationRepo := repository.NewLocationRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)

	// cache
	statsCache := cache.NewEventStatsCache(rdb)

	// services
	authService := service.NewAuthService(userRepo, cfg.JWT)
	eventService := service.NewEventService(pool, eventRepo, locationRepo, categoryRepo, statsCache)
	registrationService := service.NewRegistrationService(pool, registrationRepo, eventRepo)
	locationService := service.NewLocationService(locationRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	userService := service.NewUserService(userRepo)

	// background worker: published 活動過期自動轉 completed
	completionWorker := worker.NewEventCompletionWorker(eventRepo, cfg.Worker.CompletionInterval)
	completionWorker.Start(context.Background())

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewAuthHandler(authService).RegisterRoutes(router)
	handler.NewEventHandler(eventService, authService).RegisterRoutes(router)
	handler.NewRegistrationHandler(registrationService, authService).RegisterRoutes(router)
	handler.NewLocationHandler(locationService, authService).RegisterRoutes(router)
	handler.NewCategoryHandler(categoryService, authService).RegisterRoutes(router)
	handler.NewUserHandler(userService, authService).RegisterRoutes(router)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

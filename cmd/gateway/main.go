package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/events"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/internal/command"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/internal/handler"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/internal/query"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/middleware"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/rates"
	redisClient "github.com/dikshitechnologies/LoyaltyPoints-sub000/redis"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/upstream"
)

func main() {
	// Upstream loyalty API
	upstreamURL := getEnv("UPSTREAM_URL", "http://localhost:9090/api")
	upstreamToken := os.Getenv("UPSTREAM_TOKEN")
	if upstreamToken == "" {
		log.Fatal("UPSTREAM_TOKEN environment variable is not set")
	}
	client := upstream.NewClient(upstreamURL, upstreamToken)

	// Redis connection
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redis, err := redisClient.NewClient(redisAddr, "", 0)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// Initialize event publisher
	publisher := events.NewPublisher(redis.Client)

	// Rate provider with a short-TTL read-through cache; rates change rarely
	// but must not go stale for long.
	rateCache := redisClient.NewViewCache[models.RateSnapshot](redis.Client, 5*time.Minute)
	provider := rates.NewCachedProvider(rates.NewHTTPProvider(client), rateCache)

	// Command + Query services
	commandSvc := command.NewEntryCommandService(client, provider, client, publisher)
	querySvc := query.NewPointsQueryService(provider, client)
	authSvc := query.NewAuthQueryService(getEnv("DEVICE_PASSCODE_HASH", ""))

	pointsHandler := handler.NewPointsHandler(commandSvc)
	queryHandler := handler.NewPointsQueryHandler(querySvc)
	authHandler := handler.NewAuthHandler(authSvc)

	// Setup router
	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Auth routes
	router.POST("/v1/auth/login", authHandler.Login)
	router.POST("/v1/auth/refresh", authHandler.Refresh)

	// Loyalty routes
	v1 := router.Group("/v1/groups/:groupCode", middleware.AuthMiddleware())
	{
		v1.GET("/rates", queryHandler.GetRates)
		v1.GET("/customers/:loyaltyNumber", queryHandler.GetCustomer)
		v1.GET("/entries", queryHandler.SearchEntries)
		v1.POST("/entries", pointsHandler.CreateEntry)
		v1.PUT("/entries/:entryId", pointsHandler.UpdateEntry)
		v1.DELETE("/entries/:entryId", pointsHandler.DeleteEntry)
	}
	port := getEnv("PORT", "8080")
	log.Printf("Loyalty gateway starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"relation-service/internal/cache"
	"relation-service/internal/db"
	"relation-service/internal/events"
	"relation-service/internal/handlers"
	"relation-service/internal/middleware"
	"relation-service/internal/observability"
	"relation-service/internal/rabbitmq"
	"relation-service/internal/repositories"
	"relation-service/internal/services"
	"relation-service/internal/telemetry"
)

func main() {
	dsn := os.Getenv("DB_DSN")
	jwtSecret := os.Getenv("JWT_SECRET")
	memberAPIURL := os.Getenv("MEMBER_API_URL")
	amqpURL := os.Getenv("AMQP_URL")
	redisURL := os.Getenv("REDIS_URL")
	eventsExchange := getEnv("EVENTS_EXCHANGE", "social.events")
	logsExchange := getEnv("LOGS_EXCHANGE", "logs.events")
	syncQueue := getEnv("COUNTER_SYNC_QUEUE", "relation-service.counter-sync")
	serviceName := getEnv("SERVICE_NAME", "relation-service")
	environment := getEnv("ENVIRONMENT", "local")
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if dsn == "" || jwtSecret == "" || memberAPIURL == "" {
		log.Fatal("DB_DSN, JWT_SECRET, and MEMBER_API_URL environment variables must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	publisher := rabbitmq.NewNoopPublisher()
	if amqpURL == "" {
		log.Printf("warning: AMQP_URL not set; event publishing disabled")
	} else {
		pub, err := rabbitmq.NewPublisher(amqpURL, eventsExchange)
		if err != nil {
			log.Printf("warning: failed to initialize RabbitMQ publisher: %v", err)
		} else {
			publisher = pub
		}
	}
	defer publisher.Close()

	auditPublisher := rabbitmq.NewNoopPublisher()
	if amqpURL == "" {
		log.Printf("warning: AMQP_URL not set; audit publishing disabled")
	} else {
		pub, err := rabbitmq.NewPublisher(amqpURL, logsExchange)
		if err != nil {
			log.Printf("warning: failed to initialize RabbitMQ audit publisher: %v", err)
		} else {
			auditPublisher = pub
		}
	}
	defer auditPublisher.Close()

	var statsCache *cache.StatsCache
	if redisURL == "" {
		log.Printf("warning: REDIS_URL not set; follow stats caching disabled")
	} else {
		statsCache, err = cache.NewStatsCache(redisURL, 5*time.Minute)
		if err != nil {
			log.Printf("warning: failed to initialize redis stats cache: %v", err)
			statsCache = nil
		} else {
			defer statsCache.Close()
		}
	}

	friendshipRepo := repositories.NewFriendshipRepository(database)
	followRepo := repositories.NewFollowRepository(database)
	memberStatsRepo := repositories.NewMemberStatsRepository(database)
	memberResolver := services.NewMemberResolver(memberAPIURL)

	friendService := services.NewFriendService(friendshipRepo, memberResolver, publisher)
	followService := services.NewFollowService(followRepo, memberResolver, publisher, statsCache)
	synchronizer := services.NewCounterSynchronizer(friendshipRepo, memberStatsRepo, statsCache)

	if amqpURL != "" {
		consumer, err := rabbitmq.NewConsumer(amqpURL, eventsExchange, syncQueue, []string{
			events.FriendRequestAcceptedKey,
			events.FriendshipTerminatedKey,
			events.FollowChangedKey,
			events.PostCreatedKey,
			events.PostDeletedKey,
		})
		if err != nil {
			log.Printf("warning: failed to initialize counter sync consumer: %v", err)
		} else {
			defer consumer.Close()
			if err := consumer.Start(ctx, synchronizer); err != nil {
				log.Printf("warning: failed to start counter sync consumer: %v", err)
			}
		}
	}

	observability.InitMetrics(prometheus.DefaultRegisterer)

	auditEmitter := telemetry.NewAuditEmitter(auditPublisher, serviceName, environment)
	friendHandler := handlers.NewFriendHandler(friendService, auditEmitter)
	followHandler := handlers.NewFollowHandler(followService, friendService)

	r := gin.Default()
	r.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/members/:id/follow-stats", followHandler.FollowStats)
	r.GET("/members/:id/relationship", followHandler.Relationship)

	auth := r.Group("", middleware.JWTAuth(jwtSecret))
	auth.POST("/friends/request", friendHandler.SendRequest)
	auth.GET("/friends/requests/incoming", friendHandler.ListIncoming)
	auth.POST("/friends/requests/:id/accept", friendHandler.AcceptRequest)
	auth.POST("/friends/requests/:id/reject", friendHandler.RejectRequest)
	auth.GET("/friends", friendHandler.ListFriends)
	auth.DELETE("/friends/:friend_id", friendHandler.Unfriend)
	auth.POST("/follows", followHandler.Follow)
	auth.DELETE("/follows/:following_id", followHandler.Unfollow)
	auth.POST("/follows/:following_id/block", followHandler.Block)
	auth.GET("/follows/followers", followHandler.ListFollowers)
	auth.GET("/follows/following", followHandler.ListFollowing)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

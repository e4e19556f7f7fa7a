package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"swap-service/internal/auth"
	"swap-service/internal/config"
	"swap-service/internal/db"
	"swap-service/internal/events"
	"swap-service/internal/handlers"
	"swap-service/internal/mailer"
	"swap-service/internal/middleware"
	"swap-service/internal/observability"
	"swap-service/internal/payments"
	"swap-service/internal/presence"
	"swap-service/internal/rabbitmq"
	"swap-service/internal/repositories"
	"swap-service/internal/search"
	"swap-service/internal/storage"
	"swap-service/internal/telemetry"
	"swap-service/internal/ws"
)

const serviceName = "swap-service"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	database, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	observability.SetPublisher(publisher)
	audit := telemetry.NewAuditEmitter(publisher, "audit.swap-service", serviceName, cfg.Environment)

	profileRepo := repositories.NewProfileRepo(database)
	listingRepo := repositories.NewListingRepo(database)
	swapRepo := repositories.NewSwapRepo(database)

	var index search.ListingIndex = search.NoopIndex{}
	if cfg.AlgoliaAppID != "" && cfg.AlgoliaAPIKey != "" {
		index = search.NewAlgoliaIndex(cfg.AlgoliaAppID, cfg.AlgoliaAPIKey, cfg.AlgoliaIndex)
	}

	startTriggerConsumer(ctx, cfg, events.NewTriggers(profileRepo, listingRepo, index))

	var presenceStore presence.Store = presence.NoopStore{}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid redis url: %v", err)
		}
		presenceStore = presence.NewRedisStore(redis.NewClient(opts))
	}

	checkout := payments.NewStripeClient(cfg.StripeAPIKey, payments.PriceTable{
		USD: cfg.StripePriceUSD,
		EUR: cfg.StripePriceEUR,
		GBP: cfg.StripePriceGBP,
	})

	mail := mailer.NewSendGridMailer(mailer.Config{
		APIKey:            cfg.SendGridAPIKey,
		FromName:          cfg.EmailFromName,
		FromEmail:         cfg.EmailFromAddress,
		ContactInbox:      cfg.ContactInbox,
		ContactTemplateID: cfg.ContactTemplateID,
		SwapTemplateID:    cfg.SwapTemplateID,
	})

	uploader, err := storage.NewS3Uploader(ctx, storage.Config{
		Region:       cfg.S3Region,
		Bucket:       cfg.S3Bucket,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		log.Fatalf("failed to init s3 uploader: %v", err)
	}

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	hub := ws.NewHub()

	accountHandler := handlers.NewAccountHandler(profileRepo, publisher, audit)
	listingHandler := handlers.NewListingHandler(listingRepo, index, publisher)
	swapHandler := handlers.NewSwapHandler(swapRepo, presenceStore, hub, audit)
	checkoutHandler := handlers.NewCheckoutHandler(checkout)
	emailHandler := handlers.NewEmailHandler(mail)
	uploadHandler := handlers.NewUploadHandler(uploader)
	adminHandler := handlers.NewAdminHandler(profileRepo, listingRepo, swapRepo)
	swapWS := ws.NewSwapWebSocketHandler(hub, swapRepo, verifier)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(verifier)
	adminOnly := middleware.AdminOnly(cfg.AdminUID)

	// Endpoints carried over from the legacy surface identify the caller by
	// body or path fields; bearer auth gates only the newer surfaces.
	router.POST("/account", accountHandler.CreateAccount)
	router.POST("/account/username-check", accountHandler.CheckUsername)
	router.PUT("/account/address", accountHandler.SaveAddress)

	router.POST("/listings", authMiddleware, listingHandler.CreateListing)
	router.DELETE("/listings/:listing_id", authMiddleware, listingHandler.DeleteListing)

	router.DELETE("/swaps/:swap_request_id", swapHandler.DeleteSwapRequest)
	router.POST("/swaps/:swap_request_id/messages", authMiddleware, swapHandler.PostSwapMessage)
	router.POST("/swaps/:swap_request_id/presence", authMiddleware, swapHandler.Heartbeat)
	router.GET("/swaps/:swap_request_id/presence", authMiddleware, swapHandler.OnlineParticipants)

	router.POST("/checkout/session", checkoutHandler.CreateSession)
	router.POST("/email/contact", emailHandler.SendContact)
	router.POST("/email/swap", emailHandler.SendSwapOffer)
	router.POST("/uploads/listing-photo", authMiddleware, uploadHandler.PresignListingPhoto)

	admin := router.Group("/admin", authMiddleware, adminOnly)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/listings", adminHandler.ListListings)
	admin.GET("/messages", adminHandler.ListMessages)

	router.GET("/ws/swaps/:swap_request_id", swapWS.Handle)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		if err := database.PingContext(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	handlers.RegisterDebugRoutes(router, audit, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// startTriggerConsumer attaches the document-lifecycle triggers to the events
// queue. Without a broker the service still serves HTTP; denormalization and
// profile provisioning just will not run.
func startTriggerConsumer(ctx context.Context, cfg config.Config, triggers *events.Triggers) {
	if cfg.AMQPURL == "" {
		log.Println("AMQP_URL not set, trigger consumer disabled")
		return
	}

	consumer, err := rabbitmq.NewConsumer(cfg.AMQPURL, cfg.AMQPExchange, cfg.EventsQueue, events.RoutingKeys)
	if err != nil {
		log.Printf("trigger consumer unavailable: %v", err)
		return
	}

	go func() {
		if err := consumer.Start(ctx, triggers.Dispatch); err != nil {
			log.Printf("trigger consumer stopped: %v", err)
		}
	}()
}

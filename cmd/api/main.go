package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/matheusmosca/orders-api/internal/auth"
	"github.com/matheusmosca/orders-api/internal/clients"
	"github.com/matheusmosca/orders-api/internal/config"
	"github.com/matheusmosca/orders-api/internal/eventbus"
	"github.com/matheusmosca/orders-api/internal/notifications"
	"github.com/matheusmosca/orders-api/internal/observability"
	"github.com/matheusmosca/orders-api/internal/orders"
	"github.com/matheusmosca/orders-api/internal/postgres"
	"github.com/matheusmosca/orders-api/internal/products"
	"github.com/matheusmosca/orders-api/internal/users"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry
	tp, err := observability.InitTracer(ctx, cfg.AppName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("Error shutting down tracer")
		}
	}()

	mp, err := observability.InitMetrics(ctx, cfg.AppName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("Error shutting down meter")
		}
	}()

	// Initialize database
	dbPool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer dbPool.Close()

	// Initialize RabbitMQ and the notification worker
	rmq, err := eventbus.NewRabbitMQManager(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize RabbitMQ")
	}
	defer rmq.Close()

	channels := []notifications.Channel{}
	if cfg.SMTPHost != "" {
		channels = append(channels, notifications.NewEmailChannel(cfg))
	}
	if cfg.NotificationWebhook != "" {
		channels = append(channels, notifications.NewWebhookChannel(cfg.NotificationWebhook))
	}
	dispatcher := notifications.NewDispatcher(cfg.NotificationRecipient, channels...)
	if err := rmq.StartConsuming(ctx, dispatcher.HandleDelivery); err != nil {
		log.Fatal().Err(err).Msg("Failed to start notification consumer")
	}

	// Initialize dependencies
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	userRepository := users.NewUserRepository(dbPool)
	userUseCase := users.NewUserUseCase(userRepository)
	userHandler := users.NewUserHandler(userUseCase, tokens)

	clientRepository := clients.NewClientRepository(dbPool)
	clientUseCase := clients.NewClientUseCase(clientRepository)
	clientHandler := clients.NewClientHandler(clientUseCase)

	productRepository := products.NewProductRepository(dbPool)
	productUseCase := products.NewProductUseCase(productRepository)
	productHandler := products.NewProductHandler(productUseCase)

	orderRepository := orders.NewOrderRepository(dbPool)
	orderUseCase := orders.NewOrderUseCase(orderRepository, productRepository, clientRepository, rmq, tp.Tracer("orders-api"))
	orderHandler := orders.NewOrderHandler(orderUseCase)

	// Setup Gin router
	r := gin.Default()
	r.Use(otelgin.Middleware(cfg.AppName))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": cfg.AppName})
	})

	v1 := r.Group("/api/v1")
	v1.POST("/token", userHandler.Login)
	v1.POST("/users", userHandler.Register)

	authorized := v1.Group("", auth.Middleware(tokens))
	authorized.GET("/users/me", userHandler.Me)

	authorized.POST("/products", productHandler.Create)
	authorized.GET("/products", productHandler.List)
	authorized.GET("/products/:id", productHandler.Get)
	authorized.PUT("/products/:id", productHandler.Update)
	authorized.DELETE("/products/:id", productHandler.Delete)

	authorized.POST("/clients", clientHandler.Create)
	authorized.GET("/clients", clientHandler.List)
	authorized.GET("/clients/:id", clientHandler.Get)
	authorized.PUT("/clients/:id", clientHandler.Update)
	authorized.DELETE("/clients/:id", clientHandler.Delete)

	authorized.POST("/orders", orderHandler.Create)
	authorized.GET("/orders", orderHandler.List)
	authorized.GET("/orders/:id", orderHandler.Get)
	authorized.PUT("/orders/:id", orderHandler.Update)
	authorized.DELETE("/orders/:id", orderHandler.Delete)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		log.Info().Msgf("🚀 %s listening on port %s", cfg.AppName, cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
}

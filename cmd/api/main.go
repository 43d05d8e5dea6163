package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evently/config"
	_ "evently/docs"
	"evently/internal/adapters/auth"
	"evently/internal/adapters/email"
	"evently/internal/adapters/payment"
	"evently/internal/adapters/revalidate"
	deliveryhttp "evently/internal/delivery/http"
	"evently/internal/delivery/http/controllers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/repository/postgres"
	"evently/internal/services"

	_ "github.com/lib/pq"
	"github.com/stripe/stripe-go/v76/client"
)

// @title Evently API
// @version 1.0
// @description Event listing, ticket checkout and order intake.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel, os.Stdout)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		log.Fatalf("ping database: %v", err)
	}

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	userRepo := postgres.NewUserRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	// Adapters
	httpClient := &http.Client{Timeout: cfg.Timeout}
	revalidator := revalidate.NewHTTPRevalidator(httpClient, cfg.RevalidateURL, cfg.RevalidateSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
			Endpoint:           cfg.SESEndpoint,
		},
	}, logger)
	if err != nil {
		log.Fatalf("create mailer: %v", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		log.Fatalf("load email templates: %v", err)
	}
	stripeAPI := client.New(cfg.StripeSecretKey, nil)

	// Services
	eventService := services.NewEventService(eventRepo, categoryRepo, userRepo, revalidator, logger, cfg.Timeout)
	categoryService := services.NewCategoryService(categoryRepo, cfg.Timeout)
	emailService := services.NewEmailService(mailer, renderer, logger)
	orderService := services.NewOrderService(
		orderRepo,
		eventRepo,
		userRepo,
		payment.NewStripeVerifier(cfg.StripeWebhookSecret),
		payment.NewStripeCheckout(stripeAPI, cfg.PublicServerURL),
		emailService,
		logger,
		cfg.Timeout,
	)

	// Delivery
	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Event:    controllers.NewEventController(logger, eventService),
		Category: controllers.NewCategoryController(logger, categoryService),
		Order:    controllers.NewOrderController(logger, orderService),
		Webhook:  controllers.NewWebhookController(logger, orderService),
		Health:   controllers.NewHealthController(logger, db, cfg.Timeout),
	}, auth.NewJWTVerifier(cfg.JWTSecret), logger)
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins(), mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}

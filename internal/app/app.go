package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/webshop-labs/storefront/internal/dal/postgres"
	"github.com/webshop-labs/storefront/internal/dal/rabbitmq"
	auditrepo "github.com/webshop-labs/storefront/internal/dal/repositories/audit"
	outboxrepo "github.com/webshop-labs/storefront/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/webshop-labs/storefront/internal/dal/repositories/product/postgres"
	userrepo "github.com/webshop-labs/storefront/internal/dal/repositories/user/postgres"
	"github.com/webshop-labs/storefront/internal/otel"
	"github.com/webshop-labs/storefront/internal/service/services/authsvc"
	"github.com/webshop-labs/storefront/internal/service/services/ordersvc"
	"github.com/webshop-labs/storefront/internal/service/services/productsvc"
	httptransport "github.com/webshop-labs/storefront/internal/transport/http"
	outboxworker "github.com/webshop-labs/storefront/internal/worker/outbox"
	"github.com/webshop-labs/storefront/pkg/http/middleware/auth"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	productSvc     *productsvc.ProductService
	authSvc        *authsvc.AuthService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitMqClient *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	userRepository := userrepo.NewPostgresUserRepository(postgresClient.Pool())
	productRepository := productrepo.NewPostgresProductRepository(postgresClient.Pool())
	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient.Pool())
	auditRepository := auditrepo.NewAuditRabbitMQRepository(rabbitMqClient, outboxRepository)

	authenticator := auth.NewAuthenticator(
		os.Getenv("STOREFRONT_JWT_SECRET"),
		viper.GetDuration("auth.token_ttl"),
	)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithUserRepository(userRepository),
		ordersvc.WithProductRepository(productRepository),
		ordersvc.WithAuditRepository(auditRepository),
	)

	productSvc := productsvc.MustNewProductService(
		productsvc.WithProductRepository(productRepository),
	)

	authSvc := authsvc.MustNewAuthService(
		authsvc.WithUserRepository(userRepository),
		authsvc.WithTokenIssuer(authenticator),
	)

	transport := httptransport.NewHTTPTransport(orderSvc, productSvc, authSvc, authenticator)
	transport.RegisterRoutes()

	outboxWorker := outboxworker.NewWorker(outboxRepository, rabbitMqClient)

	return &App{
		orderSvc:       orderSvc,
		productSvc:     productSvc,
		authSvc:        authSvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		postgresClient: postgresClient,
		rabbitMqClient: rabbitMqClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(workerCtx)
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancelWorker()

	a.gracefulShutdown()
}

// gracefulShutdown performs graceful shutdown of all application components.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider shutdown error", "error", err)
	} else {
		slog.Info("Otel trace provider stopped gracefully")
	}

	slog.Info("Application shutdown complete")
}

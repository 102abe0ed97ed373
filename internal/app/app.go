package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/dal/postgres"
	"github.com/corray333/backend-labs/storefront/internal/dal/rabbitmq"
	outboxrepo "github.com/corray333/backend-labs/storefront/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/corray333/backend-labs/storefront/internal/dal/repositories/product/postgres"
	"github.com/corray333/backend-labs/storefront/internal/otel"
	"github.com/corray333/backend-labs/storefront/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/storefront/internal/service/services/productsvc"
	httptransport "github.com/corray333/backend-labs/storefront/internal/transport/http"
	"github.com/corray333/backend-labs/storefront/internal/worker/outbox"
	"github.com/corray333/backend-labs/storefront/pkg/http/middleware/auth"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	outboxWorker   *outbox.Worker
	otel           *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET is not set")
	}

	app := &App{}

	if viper.GetBool("tracing.enabled") {
		app.otel = otel.MustInitOtel()
	}

	app.postgresClient = postgres.MustNewClient()

	opts := []ordersvc.Option{ordersvc.WithPostgresClient(app.postgresClient)}

	if viper.GetBool("rabbitmq.enabled") {
		app.rabbitClient = rabbitmq.MustNewClient()

		exchange := viper.GetString("rabbitmq.exchange")
		if err := app.rabbitClient.DeclareExchange(exchange); err != nil {
			panic("failed to declare exchange: " + err.Error())
		}

		opts = append(opts, ordersvc.WithOrderEvents(ordersvc.EventsConfig{
			ExchangeName: exchange,
			RoutingKey:   viper.GetString("rabbitmq.routing_key"),
			MaxRetries:   viper.GetInt("rabbitmq.outbox.max_retries"),
		}))

		app.outboxWorker = outbox.NewWorker(
			outboxrepo.NewOutboxRepository(app.postgresClient.Pool()),
			app.rabbitClient,
		)
	}

	orderSvc := ordersvc.MustNewOrderService(opts...)
	productSvc := productsvc.NewProductService(productrepo.NewPostgresProductRepository(app.postgresClient.Pool()))

	app.transport = httptransport.NewHTTPTransport(
		orderSvc,
		productSvc,
		auth.NewGuard(secret, viper.GetString("auth.algorithm")),
		app.postgresClient,
	)
	app.transport.RegisterRoutes()

	return app
}

// Run starts the HTTP server and the outbox worker and blocks until an
// interrupt signal or a fatal server error, then shuts everything down.
func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting HTTP server", "port", viper.GetString("server.http.port"))
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	if a.outboxWorker != nil {
		g.Go(func() error {
			a.outboxWorker.Start(gctx)

			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutdown signal received")

		a.shutdown()

		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("HTTP server error", "error", err)
	}

	a.closeResources()

	slog.Info("Application shutdown complete")
}

func (a *App) shutdown() {
	timeout := time.Duration(viper.GetInt("server.http.shutdown_timeout_seconds")) * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if a.outboxWorker != nil {
		a.outboxWorker.Stop()
	}
}

func (a *App) closeResources() {
	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		}
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed")

	if a.otel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.otel.Shutdown(ctx); err != nil {
			slog.Error("Tracer shutdown error", "error", err)
		}
	}
}

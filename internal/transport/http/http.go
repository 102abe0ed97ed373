package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/metrics"
	"github.com/corray333/backend-labs/storefront/internal/service/models/identity"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	additem "github.com/corray333/backend-labs/storefront/internal/transport/http/add_item"
	"github.com/corray333/backend-labs/storefront/internal/transport/http/checkout"
	createorder "github.com/corray333/backend-labs/storefront/internal/transport/http/create_order"
	createproduct "github.com/corray333/backend-labs/storefront/internal/transport/http/create_product"
	getorder "github.com/corray333/backend-labs/storefront/internal/transport/http/get_order"
	listorders "github.com/corray333/backend-labs/storefront/internal/transport/http/list_orders"
	listproducts "github.com/corray333/backend-labs/storefront/internal/transport/http/list_products"
	"github.com/corray333/backend-labs/storefront/pkg/http/middleware/auth"
	metricsmw "github.com/corray333/backend-labs/storefront/pkg/http/middleware/metrics"
	"github.com/corray333/backend-labs/storefront/pkg/http/middleware/recoverer"
	"github.com/corray333/backend-labs/storefront/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
	"github.com/corray333/backend-labs/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type orderService interface {
	CreateOrder(ctx context.Context, caller identity.Identity) (order.Order, error)
	AddItem(ctx context.Context, caller identity.Identity, orderID, productID int64, quantity int) error
	GetOrder(ctx context.Context, caller identity.Identity, orderID int64) (order.Details, error)
	ListOrders(ctx context.Context, caller identity.Identity) ([]order.Summary, error)
	Checkout(ctx context.Context, caller identity.Identity, orderID int64) error
}

type productService interface {
	List(ctx context.Context) ([]product.Product, error)
	Create(ctx context.Context, p product.Product) (product.Product, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type HTTPTransport struct {
	server         *http.Server
	router         *chi.Mux
	orders         orderService
	products       productService
	guard          *auth.Guard
	store          pinger
	metricsEnabled bool
}

func NewHTTPTransport(
	orders orderService,
	products productService,
	guard *auth.Guard,
	store pinger,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:         server,
		router:         router,
		orders:         orders,
		products:       products,
		guard:          guard,
		store:          store,
		metricsEnabled: viper.GetBool("metrics.enabled"),
	}
}

// Handler returns the root handler, for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/health", h.health)
	if h.metricsEnabled {
		h.router.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	h.router.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.With(h.guard.Authenticate, auth.RequireAdmin).Post("/", h.createProduct)
	})

	h.router.Route("/orders", func(r chi.Router) {
		r.Use(h.guard.Authenticate)
		r.Post("/", h.createOrder)
		r.Get("/", h.listOrders)
		r.Get("/{orderId}", h.getOrder)
		r.Post("/{orderId}/items", h.addItem)
		r.Post("/{orderId}/checkout", h.checkout)
	})
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	listproducts.ListProducts(w, r, h.products)
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	createproduct.CreateProduct(w, r, h.products)
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orders)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orders)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.orders)
}

func (h *HTTPTransport) addItem(w http.ResponseWriter, r *http.Request) {
	additem.AddItem(w, r, h.orders)
}

func (h *HTTPTransport) checkout(w http.ResponseWriter, r *http.Request) {
	checkout.Checkout(w, r, h.orders)
}

func (h *HTTPTransport) health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Health check failed", "error", err)
		respond.Message(w, r, http.StatusServiceUnavailable, "unavailable")

		return
	}

	respond.Message(w, r, http.StatusOK, "ok")
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(recoverer.NewRecovererMiddleware)
	router.Use(trace.NewTraceMiddleware)
	router.Use(metricsmw.NewMetricsMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:              "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler:           router,
		ReadHeaderTimeout: viper.GetDuration("server.http.read_header_timeout"),
	}
}

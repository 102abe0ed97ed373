package ordersvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/dal/postgres"
	"github.com/corray333/backend-labs/storefront/internal/dal/uow"
	"github.com/corray333/backend-labs/storefront/internal/metrics"
	"github.com/corray333/backend-labs/storefront/internal/service/models/apperror"
	"github.com/corray333/backend-labs/storefront/internal/service/models/event"
	"github.com/corray333/backend-labs/storefront/internal/service/models/identity"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/storefront/internal/service/models/outbox"
	"github.com/corray333/backend-labs/storefront/internal/service/models/role"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Client-facing messages.
const (
	msgInvalidItem      = "Invalid product_id or quantity"
	msgOrderNotWritable = "Order does not exist, does not belong to you, or is completed"
	msgProductNotFound  = "Product not found"
	msgOnlyLeft         = "Only %d items left in stock"
	msgInvalidOrder     = "Invalid order"
	msgNoItems          = "Order has no items"
	msgNotEnoughStock   = "Not enough stock for product %d"
	msgOrderNotFound    = "Order not found"
	msgAccessDenied     = "Access denied"
)

var tracer = otel.Tracer("storefront/ordersvc")

type unitOfWork interface {
	uow.Repositories
	Do(ctx context.Context, work uow.Work) error
}

// EventsConfig describes where order events are routed.
type EventsConfig struct {
	ExchangeName string
	RoutingKey   string
	MaxRetries   int
}

// OrderService is a service for managing orders.
type OrderService struct {
	uow    unitOfWork
	events *EventsConfig
	now    func() time.Time
}

// Option configures the OrderService.
type Option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...Option) *OrderService {
	s := &OrderService{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.uow == nil {
		panic("ordersvc: unit of work is not configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
func WithPostgresClient(pgClient *postgres.Client) Option {
	return func(s *OrderService) {
		s.uow = uow.NewUnitOfWork(pgClient)
	}
}

// WithUnitOfWork sets the unit of work directly.
func WithUnitOfWork(u unitOfWork) Option {
	return func(s *OrderService) {
		s.uow = u
	}
}

// WithOrderEvents makes checkout record an order.completed message in the outbox.
func WithOrderEvents(cfg EventsConfig) Option {
	return func(s *OrderService) {
		s.events = &cfg
	}
}

// CreateOrder starts an empty pending order for the caller.
func (s *OrderService) CreateOrder(ctx context.Context, caller identity.Identity) (order.Order, error) {
	ctx, span := tracer.Start(ctx, "ordersvc.CreateOrder")
	defer span.End()

	created, err := s.uow.OrderRepository().Create(ctx, caller.UserID)
	if err != nil {
		return order.Order{}, err
	}

	metrics.OrdersCreated.Inc()

	return created, nil
}

// AddItem appends a line to one of the caller's pending orders. The product's
// cumulative quantity in the order may not exceed its current stock. Stock is
// not reserved here.
func (s *OrderService) AddItem(
	ctx context.Context,
	caller identity.Identity,
	orderID, productID int64,
	quantity int,
) error {
	ctx, span := tracer.Start(ctx, "ordersvc.AddItem", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int64("product.id", productID),
		attribute.Int("quantity", quantity),
	))
	defer span.End()

	if productID <= 0 || quantity <= 0 {
		return apperror.BadRequest(msgInvalidItem)
	}

	err := s.uow.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		if _, err := loadPendingOrder(ctx, repos, orderID, caller.UserID, msgOrderNotWritable); err != nil {
			return err
		}

		p, err := repos.ProductRepository().Get(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound(msgProductNotFound)
		}

		existing, err := repos.OrderItemRepository().SumQuantity(ctx, orderID, productID)
		if err != nil {
			return err
		}
		if left := p.Stock - existing; quantity > left {
			return apperror.BadRequest(msgOnlyLeft, left)
		}

		item, err := repos.OrderItemRepository().Insert(ctx, orderitem.OrderItem{
			OrderID:   orderID,
			ProductID: productID,
			Quantity:  quantity,
			Price:     p.Price,
		})
		if err != nil {
			return err
		}

		return repos.OrderRepository().AddToTotal(ctx, orderID, item.Subtotal())
	})
	if err != nil {
		return err
	}

	metrics.ItemsAdded.Inc()

	return nil
}

// GetOrder returns an order with its lines. Admins see any order, customers
// only their own; anything else is reported as not found.
func (s *OrderService) GetOrder(
	ctx context.Context,
	caller identity.Identity,
	orderID int64,
) (order.Details, error) {
	ctx, span := tracer.Start(ctx, "ordersvc.GetOrder", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
	))
	defer span.End()

	filter := &order.QueryOrdersModel{Ids: []int64{orderID}}
	switch caller.Role {
	case role.RoleAdmin:
	case role.RoleCustomer:
		filter.UserIds = []int64{caller.UserID}
	default:
		return order.Details{}, apperror.Forbidden(msgAccessDenied)
	}

	orders, err := s.uow.OrderRepository().Query(ctx, filter)
	if err != nil {
		return order.Details{}, err
	}
	if len(orders) == 0 {
		return order.Details{}, apperror.NotFound(msgOrderNotFound)
	}

	items, err := s.uow.OrderItemRepository().ListDetailed(ctx, orderID)
	if err != nil {
		return order.Details{}, err
	}

	return order.Details{Order: orders[0], Items: items}, nil
}

// ListOrders returns every order with its item count, newest first. Admin only.
func (s *OrderService) ListOrders(ctx context.Context, caller identity.Identity) ([]order.Summary, error) {
	ctx, span := tracer.Start(ctx, "ordersvc.ListOrders")
	defer span.End()

	if !caller.Role.IsPrivileged() {
		return nil, apperror.Forbidden(msgAccessDenied)
	}

	return s.uow.OrderRepository().ListSummaries(ctx)
}

// Checkout completes one of the caller's pending orders. Every line is checked
// against current stock before any stock is deducted; the deduction and the
// status change commit together or not at all.
func (s *OrderService) Checkout(ctx context.Context, caller identity.Identity, orderID int64) error {
	ctx, span := tracer.Start(ctx, "ordersvc.Checkout", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
	))
	defer span.End()

	err := s.uow.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		o, err := loadPendingOrder(ctx, repos, orderID, caller.UserID, msgInvalidOrder)
		if err != nil {
			return err
		}

		items, err := repos.OrderItemRepository().ListWithStock(ctx, orderID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apperror.BadRequest(msgNoItems)
		}

		for _, item := range items {
			if !item.HasEnoughStock() {
				return apperror.BadRequest(msgNotEnoughStock, item.ProductID)
			}
		}

		for _, item := range items {
			if err := repos.ProductRepository().DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := repos.OrderRepository().UpdateStatus(ctx, orderID, order.StatusCompleted); err != nil {
			return err
		}

		if s.events == nil {
			return nil
		}

		return s.recordCompleted(ctx, repos, o, items)
	})

	switch _, isBusiness := apperror.KindOf(err); {
	case err == nil:
		metrics.Checkouts.WithLabelValues(metrics.CheckoutCompleted).Inc()
		slog.InfoContext(ctx, "Order checked out", "order_id", orderID, "user_id", caller.UserID)
	case isBusiness:
		metrics.Checkouts.WithLabelValues(metrics.CheckoutRejected).Inc()
	default:
		metrics.Checkouts.WithLabelValues(metrics.CheckoutFailed).Inc()
	}

	return err
}

// recordCompleted writes the order.completed event into the outbox within the
// checkout transaction.
func (s *OrderService) recordCompleted(
	ctx context.Context,
	repos uow.Repositories,
	o order.Order,
	items []orderitem.StockedItem,
) error {
	now := s.now()

	evt := event.OrderCompleted{
		EventID:    uuid.NewString(),
		Type:       event.TypeOrderCompleted,
		OrderID:    o.ID,
		UserID:     o.UserID,
		Total:      o.Total,
		Items:      make([]event.OrderCompletedItem, 0, len(items)),
		OccurredAt: now,
	}
	for _, item := range items {
		evt.Items = append(evt.Items, event.OrderCompletedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	return repos.OutboxRepository().Insert(ctx, outbox.OutboxMessage{
		MessageID:    evt.EventID,
		ExchangeName: s.events.ExchangeName,
		RoutingKey:   s.events.RoutingKey,
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   s.events.MaxRetries,
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	})
}

// loadPendingOrder returns the order if it exists, belongs to userID and is
// pending. The three failure causes are indistinguishable to the caller.
func loadPendingOrder(
	ctx context.Context,
	repos uow.Repositories,
	orderID, userID int64,
	notFoundMsg string,
) (order.Order, error) {
	orders, err := repos.OrderRepository().Query(ctx, &order.QueryOrdersModel{
		Ids:      []int64{orderID},
		UserIds:  []int64{userID},
		Statuses: []order.Status{order.StatusPending},
	})
	if err != nil {
		return order.Order{}, err
	}
	if len(orders) == 0 {
		return order.Order{}, apperror.BadRequest("%s", notFoundMsg)
	}

	return orders[0], nil
}

package uow

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/storefront/internal/dal/postgres"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/storefront/internal/service/models/outbox"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/shopspring/decimal"
)

// newTestUOW connects to TEST_DATABASE_URL, skipping when it is not set or
// not reachable.
func newTestUOW(t *testing.T) *UnitOfWork {
	t.Helper()

	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := postgres.NewClient(ctx, connStr)
	if err != nil {
		t.Skipf("postgres is not reachable: %v", err)
	}
	t.Cleanup(client.Close)

	return NewUnitOfWork(client)
}

func seedProduct(t *testing.T, u *UnitOfWork, price string, stock int) product.Product {
	t.Helper()

	p, err := u.ProductRepository().Create(t.Context(), product.Product{
		Name:  "integration product",
		Price: decimal.RequireFromString(price),
		Stock: stock,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}

	return p
}

func findOrder(t *testing.T, u *UnitOfWork, id int64) []order.Order {
	t.Helper()

	orders, err := u.OrderRepository().Query(t.Context(), &order.QueryOrdersModel{Ids: []int64{id}})
	if err != nil {
		t.Fatalf("query order: %v", err)
	}

	return orders
}

func TestDo_CommitsOnSuccess(t *testing.T) {
	u := newTestUOW(t)
	p := seedProduct(t, u, "10.00", 5)

	var created order.Order
	err := u.Do(t.Context(), func(ctx context.Context, repos Repositories) error {
		var err error
		created, err = repos.OrderRepository().Create(ctx, 1001)
		if err != nil {
			return err
		}

		item, err := repos.OrderItemRepository().Insert(ctx, orderitem.OrderItem{
			OrderID:   created.ID,
			ProductID: p.ID,
			Quantity:  2,
			Price:     p.Price,
		})
		if err != nil {
			return err
		}

		return repos.OrderRepository().AddToTotal(ctx, created.ID, item.Subtotal())
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	orders := findOrder(t, u, created.ID)
	if len(orders) != 1 {
		t.Fatalf("expected committed order, got %d rows", len(orders))
	}
	if !orders[0].Total.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("expected total 20.00, got %s", orders[0].Total)
	}
	if orders[0].Status != order.StatusPending {
		t.Errorf("expected pending, got %s", orders[0].Status)
	}

	sum, err := u.OrderItemRepository().SumQuantity(t.Context(), created.ID, p.ID)
	if err != nil {
		t.Fatalf("SumQuantity: %v", err)
	}
	if sum != 2 {
		t.Errorf("expected quantity 2, got %d", sum)
	}

	items, err := u.OrderItemRepository().ListDetailed(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("ListDetailed: %v", err)
	}
	if len(items) != 1 || items[0].Name != "integration product" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestDo_RollsBackOnError(t *testing.T) {
	u := newTestUOW(t)
	p := seedProduct(t, u, "3.50", 4)
	errAbort := errors.New("abort")

	var created order.Order
	err := u.Do(t.Context(), func(ctx context.Context, repos Repositories) error {
		var err error
		created, err = repos.OrderRepository().Create(ctx, 1002)
		if err != nil {
			return err
		}
		if err := repos.ProductRepository().DecrementStock(ctx, p.ID, 4); err != nil {
			return err
		}

		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("expected abort error, got %v", err)
	}

	if orders := findOrder(t, u, created.ID); len(orders) != 0 {
		t.Errorf("order should have been rolled back")
	}

	got, err := u.ProductRepository().Get(t.Context(), p.ID)
	if err != nil || got == nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Stock != 4 {
		t.Errorf("stock should be untouched, got %d", got.Stock)
	}
}

func TestDo_RollsBackOnPanic(t *testing.T) {
	u := newTestUOW(t)

	var created order.Order
	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic should propagate")
			}
		}()

		_ = u.Do(t.Context(), func(ctx context.Context, repos Repositories) error {
			created, _ = repos.OrderRepository().Create(ctx, 1003)
			panic("boom")
		})
	}()

	if created.ID == 0 {
		t.Fatal("order was not created inside the transaction")
	}
	if orders := findOrder(t, u, created.ID); len(orders) != 0 {
		t.Errorf("order should have been rolled back")
	}
}

func TestCheckoutStatements(t *testing.T) {
	u := newTestUOW(t)
	p := seedProduct(t, u, "10.00", 5)

	o, err := u.OrderRepository().Create(t.Context(), 1004)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := u.OrderItemRepository().Insert(t.Context(), orderitem.OrderItem{
		OrderID: o.ID, ProductID: p.ID, Quantity: 2, Price: p.Price,
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	err = u.Do(t.Context(), func(ctx context.Context, repos Repositories) error {
		items, err := repos.OrderItemRepository().ListWithStock(ctx, o.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if !item.HasEnoughStock() {
				t.Errorf("item %d should have enough stock", item.ProductID)
			}
			if err := repos.ProductRepository().DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		return repos.OrderRepository().UpdateStatus(ctx, o.ID, order.StatusCompleted)
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	got, err := u.ProductRepository().Get(t.Context(), p.ID)
	if err != nil || got == nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Stock != 3 {
		t.Errorf("expected stock 3, got %d", got.Stock)
	}

	if orders := findOrder(t, u, o.ID); len(orders) != 1 || orders[0].Status != order.StatusCompleted {
		t.Errorf("order should be completed: %+v", orders)
	}

	summaries, err := u.OrderRepository().ListSummaries(t.Context())
	if err != nil {
		t.Fatalf("ListSummaries: %v", err)
	}
	for _, s := range summaries {
		if s.ID == o.ID && s.ItemCount != 1 {
			t.Errorf("expected item_count 1, got %d", s.ItemCount)
		}
	}
}

func TestOutboxRoundTrip(t *testing.T) {
	u := newTestUOW(t)
	repo := u.OutboxRepository()
	past := time.Now().Add(-time.Minute)
	messageID := "it-" + time.Now().Format(time.RFC3339Nano)

	err := repo.Insert(t.Context(), outbox.OutboxMessage{
		MessageID:    messageID,
		ExchangeName: "storefront.events",
		RoutingKey:   "order.completed",
		Payload:      []byte(`{"order_id":1}`),
		ContentType:  "application/json",
		MaxRetries:   3,
		CreatedAt:    past,
		UpdatedAt:    past,
		NextRetryAt:  past,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	msg := findOutbox(t, repo, messageID)
	if msg == nil {
		t.Fatal("inserted message is not pending")
	}

	if err := repo.UpdateRetry(t.Context(), msg.ID, 1, "broker down", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("UpdateRetry: %v", err)
	}
	if findOutbox(t, repo, messageID) != nil {
		t.Error("message scheduled in the future must not be pending")
	}

	if err := repo.Delete(t.Context(), msg.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func findOutbox(t *testing.T, repo ioutboxrepo.IOutboxRepository, messageID string) *outbox.OutboxMessage {
	t.Helper()

	pending, err := repo.GetPendingMessages(t.Context(), 1000)
	if err != nil {
		t.Fatalf("GetPendingMessages: %v", err)
	}
	for _, m := range pending {
		if m.MessageID == messageID {
			return &m
		}
	}

	return nil
}

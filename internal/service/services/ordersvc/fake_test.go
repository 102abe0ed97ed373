package ordersvc

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/storefront/internal/dal/uow"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/storefront/internal/service/models/outbox"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("store unavailable")

// memStore is an in-memory copy of the three tables plus the outbox.
type memStore struct {
	orders     map[int64]order.Order
	items      []orderitem.OrderItem
	products   map[int64]product.Product
	outbox     []outbox.OutboxMessage
	nextOrder  int64
	nextItem   int64
	clock      time.Time
	failStock  map[int64]bool
	failOutbox bool
}

func newMemStore() *memStore {
	return &memStore{
		orders:    map[int64]order.Order{},
		products:  map[int64]product.Product{},
		clock:     time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		failStock: map[int64]bool{},
	}
}

func (s *memStore) clone() *memStore {
	c := *s
	c.orders = maps.Clone(s.orders)
	c.items = slices.Clone(s.items)
	c.products = maps.Clone(s.products)
	c.outbox = slices.Clone(s.outbox)

	return &c
}

// fakeUOW serializes transactions and applies a transaction's writes only on success.
type fakeUOW struct {
	mu      sync.Mutex
	state   *memStore
	txCount int
}

func newFakeUOW() *fakeUOW {
	return &fakeUOW{state: newMemStore()}
}

func (u *fakeUOW) Do(ctx context.Context, work uow.Work) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.txCount++
	tx := u.state.clone()
	if err := work(ctx, repos{tx}); err != nil {
		return err
	}
	u.state = tx

	return nil
}

func (u *fakeUOW) OrderRepository() iorderrepo.IOrderRepository {
	return repos{u.state}.OrderRepository()
}

func (u *fakeUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return repos{u.state}.OrderItemRepository()
}

func (u *fakeUOW) ProductRepository() iproductrepo.IProductRepository {
	return repos{u.state}.ProductRepository()
}

func (u *fakeUOW) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return repos{u.state}.OutboxRepository()
}

func (u *fakeUOW) addProduct(id int64, price string, stock int) {
	u.state.products[id] = product.Product{
		ID:       id,
		Name:     "product",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		ImageURL: "/img.png",
	}
}

func (u *fakeUOW) stock(id int64) int {
	return u.state.products[id].Stock
}

func (u *fakeUOW) order(id int64) order.Order {
	return u.state.orders[id]
}

type repos struct{ s *memStore }

func (r repos) OrderRepository() iorderrepo.IOrderRepository            { return orderRepo(r) }
func (r repos) OrderItemRepository() iorderitemrepo.IOrderItemRepository { return itemRepo(r) }
func (r repos) ProductRepository() iproductrepo.IProductRepository      { return productRepo(r) }
func (r repos) OutboxRepository() ioutboxrepo.IOutboxRepository         { return outboxRepo(r) }

type orderRepo struct{ s *memStore }

func (r orderRepo) Create(ctx context.Context, userID int64) (order.Order, error) {
	r.s.nextOrder++
	r.s.clock = r.s.clock.Add(time.Minute)
	o := order.Order{
		ID:        r.s.nextOrder,
		UserID:    userID,
		Status:    order.StatusPending,
		Total:     decimal.Zero,
		CreatedAt: r.s.clock,
	}
	r.s.orders[o.ID] = o

	return o, nil
}

func (r orderRepo) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	result := []order.Order{}
	for _, o := range r.s.orders {
		if len(filter.Ids) > 0 && !slices.Contains(filter.Ids, o.ID) {
			continue
		}
		if len(filter.UserIds) > 0 && !slices.Contains(filter.UserIds, o.UserID) {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, o.Status) {
			continue
		}
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (r orderRepo) ListSummaries(ctx context.Context) ([]order.Summary, error) {
	result := []order.Summary{}
	for _, o := range r.s.orders {
		var count int64
		for _, item := range r.s.items {
			if item.OrderID == o.ID {
				count++
			}
		}
		result = append(result, order.Summary{Order: o, ItemCount: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })

	return result, nil
}

func (r orderRepo) AddToTotal(ctx context.Context, id int64, amount decimal.Decimal) error {
	o := r.s.orders[id]
	o.Total = o.Total.Add(amount)
	r.s.orders[id] = o

	return nil
}

func (r orderRepo) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	o := r.s.orders[id]
	o.Status = status
	r.s.orders[id] = o

	return nil
}

type itemRepo struct{ s *memStore }

func (r itemRepo) Insert(ctx context.Context, item orderitem.OrderItem) (orderitem.OrderItem, error) {
	r.s.nextItem++
	item.ID = r.s.nextItem
	r.s.items = append(r.s.items, item)

	return item, nil
}

func (r itemRepo) SumQuantity(ctx context.Context, orderID, productID int64) (int, error) {
	var sum int
	for _, item := range r.s.items {
		if item.OrderID == orderID && item.ProductID == productID {
			sum += item.Quantity
		}
	}

	return sum, nil
}

func (r itemRepo) ListDetailed(ctx context.Context, orderID int64) ([]orderitem.DetailedItem, error) {
	result := []orderitem.DetailedItem{}
	for _, item := range r.s.items {
		if item.OrderID != orderID {
			continue
		}
		p := r.s.products[item.ProductID]
		result = append(result, orderitem.DetailedItem{
			ID:        item.ID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			ProductID: p.ID,
			Name:      p.Name,
			ImageURL:  p.ImageURL,
		})
	}

	return result, nil
}

func (r itemRepo) ListWithStock(ctx context.Context, orderID int64) ([]orderitem.StockedItem, error) {
	result := []orderitem.StockedItem{}
	for _, item := range r.s.items {
		if item.OrderID != orderID {
			continue
		}
		result = append(result, orderitem.StockedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Stock:     r.s.products[item.ProductID].Stock,
		})
	}

	return result, nil
}

type productRepo struct{ s *memStore }

func (r productRepo) List(ctx context.Context) ([]product.Product, error) {
	return slices.Collect(maps.Values(r.s.products)), nil
}

func (r productRepo) Create(ctx context.Context, p product.Product) (product.Product, error) {
	p.ID = int64(len(r.s.products) + 1)
	r.s.products[p.ID] = p

	return p, nil
}

func (r productRepo) Get(ctx context.Context, id int64) (*product.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}

	return &p, nil
}

func (r productRepo) DecrementStock(ctx context.Context, id int64, quantity int) error {
	if r.s.failStock[id] {
		return errStoreDown
	}
	p := r.s.products[id]
	p.Stock -= quantity
	r.s.products[id] = p

	return nil
}

type outboxRepo struct{ s *memStore }

func (r outboxRepo) Insert(ctx context.Context, msg outbox.OutboxMessage) error {
	if r.s.failOutbox {
		return errStoreDown
	}
	msg.ID = int64(len(r.s.outbox) + 1)
	r.s.outbox = append(r.s.outbox, msg)

	return nil
}

func (r outboxRepo) GetPendingMessages(ctx context.Context, limit int) ([]outbox.OutboxMessage, error) {
	return r.s.outbox, nil
}

func (r outboxRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

func (r outboxRepo) UpdateRetry(
	ctx context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	return nil
}

package iorderrepo

import (
	"context"

	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/shopspring/decimal"
)

// IOrderRepository is an interface for order postgres repository.
type IOrderRepository interface {
	// Create inserts an empty pending order owned by userID.
	Create(ctx context.Context, userID int64) (order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	// ListSummaries returns every order with its item count, newest first.
	ListSummaries(ctx context.Context) ([]order.Summary, error)
	AddToTotal(ctx context.Context, id int64, amount decimal.Decimal) error
	UpdateStatus(ctx context.Context, id int64, status order.Status) error
}

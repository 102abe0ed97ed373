package iorderitemrepo

import (
	"context"

	"github.com/corray333/backend-labs/storefront/internal/service/models/orderitem"
)

// IOrderItemRepository is an interface for order item postgres repository.
type IOrderItemRepository interface {
	Insert(ctx context.Context, item orderitem.OrderItem) (orderitem.OrderItem, error)
	// SumQuantity returns the quantity already recorded for the product in the order.
	SumQuantity(ctx context.Context, orderID, productID int64) (int, error)
	ListDetailed(ctx context.Context, orderID int64) ([]orderitem.DetailedItem, error)
	ListWithStock(ctx context.Context, orderID int64) ([]orderitem.StockedItem, error)
}

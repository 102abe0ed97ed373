package iproductrepo

import (
	"context"

	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
)

// IProductRepository is an interface for product postgres repository.
type IProductRepository interface {
	List(ctx context.Context) ([]product.Product, error)
	Create(ctx context.Context, p product.Product) (product.Product, error)
	// Get returns nil when the product does not exist.
	Get(ctx context.Context, id int64) (*product.Product, error)
	DecrementStock(ctx context.Context, id int64, quantity int) error
}

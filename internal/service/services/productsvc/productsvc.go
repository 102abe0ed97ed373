package productsvc

import (
	"context"

	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/storefront/internal/service/models/apperror"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
)

// ProductService serves the catalog.
type ProductService struct {
	repo iproductrepo.IProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo iproductrepo.IProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// List returns every product ordered by id.
func (s *ProductService) List(ctx context.Context) ([]product.Product, error) {
	return s.repo.List(ctx)
}

// Create adds a product to the catalog.
func (s *ProductService) Create(ctx context.Context, p product.Product) (product.Product, error) {
	if p.Name == "" {
		return product.Product{}, apperror.BadRequest("Missing required fields")
	}
	if p.Price.IsNegative() || p.Stock < 0 {
		return product.Product{}, apperror.BadRequest("Price and stock must not be negative")
	}

	return s.repo.Create(ctx, p)
}

package listproducts

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
)

type service interface {
	List(ctx context.Context) ([]product.Product, error)
}

// ListProducts returns the catalog.
func ListProducts(w http.ResponseWriter, r *http.Request, service service) {
	products, err := service.List(r.Context())
	if err != nil {
		respond.Error(w, r, err, "Error listing products")

		return
	}

	respond.JSON(w, r, http.StatusOK, products)
}

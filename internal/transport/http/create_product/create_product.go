package createproduct

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const msgMissingFields = "Missing required fields"

type service interface {
	Create(ctx context.Context, p product.Product) (product.Product, error)
}

var validate = validator.New()

// createProductRequest represents a create product request. Price and stock
// are pointers so that an explicit zero is told apart from an absent field.
type createProductRequest struct {
	Name        string           `json:"name"        validate:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"       validate:"required"`
	Stock       *int             `json:"stock"       validate:"required"`
	ImageURL    string           `json:"image_url"`
}

// Validate validates the create product request.
func (r *createProductRequest) Validate() error {
	return validate.Struct(r)
}

func (r *createProductRequest) toModel() product.Product {
	return product.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Stock:       *r.Stock,
		ImageURL:    r.ImageURL,
	}
}

// CreateProduct adds a product to the catalog.
func CreateProduct(w http.ResponseWriter, r *http.Request, service service) {
	req := createProductRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.WarnContext(r.Context(), "Error decoding request body for create product", "error", err)
		respond.Message(w, r, http.StatusBadRequest, msgMissingFields)

		return
	}

	if err := req.Validate(); err != nil {
		slog.WarnContext(r.Context(), "Error validating request body for create product", "error", err)
		respond.Message(w, r, http.StatusBadRequest, msgMissingFields)

		return
	}

	created, err := service.Create(r.Context(), req.toModel())
	if err != nil {
		respond.Error(w, r, err, "Error creating product")

		return
	}

	respond.JSON(w, r, http.StatusCreated, created)
}

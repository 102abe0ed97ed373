package additem

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/identity"
	"github.com/corray333/backend-labs/storefront/internal/transport/http/httpreq"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
	"github.com/go-playground/validator/v10"
)

type service interface {
	AddItem(ctx context.Context, caller identity.Identity, orderID, productID int64, quantity int) error
}

var validate = validator.New()

// addItemRequest is the body of an add item request.
type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int   `json:"quantity"   validate:"gt=0,lte=2147483647"`
}

// Validate validates the add item request.
func (r *addItemRequest) Validate() error {
	return validate.Struct(r)
}

// AddItem adds a product line to one of the caller's pending orders.
func AddItem(w http.ResponseWriter, r *http.Request, service service) {
	caller, err := httpreq.Caller(r)
	if err != nil {
		respond.Error(w, r, err, "Unauthenticated add item request")

		return
	}

	orderID, err := httpreq.OrderID(r)
	if err != nil {
		respond.Error(w, r, err, "Error parsing order id")

		return
	}

	req := addItemRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.WarnContext(r.Context(), "Error decoding request body for add item", "error", err)
		respond.Message(w, r, http.StatusBadRequest, "Invalid product_id or quantity")

		return
	}

	if err := req.Validate(); err != nil {
		slog.WarnContext(r.Context(), "Error validating request body for add item", "error", err)
		respond.Message(w, r, http.StatusBadRequest, "Invalid product_id or quantity")

		return
	}

	if err := service.AddItem(r.Context(), caller, orderID, req.ProductID, req.Quantity); err != nil {
		respond.Error(w, r, err, "Error adding item to order")

		return
	}

	respond.Message(w, r, http.StatusCreated, "Item added to order")
}

package checkout

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/identity"
	"github.com/corray333/backend-labs/storefront/internal/transport/http/httpreq"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
)

type service interface {
	Checkout(ctx context.Context, caller identity.Identity, orderID int64) error
}

// Checkout completes one of the caller's pending orders.
func Checkout(w http.ResponseWriter, r *http.Request, service service) {
	caller, err := httpreq.Caller(r)
	if err != nil {
		respond.Error(w, r, err, "Unauthenticated checkout request")

		return
	}

	orderID, err := httpreq.OrderID(r)
	if err != nil {
		respond.Error(w, r, err, "Error parsing order id")

		return
	}

	if err := service.Checkout(r.Context(), caller, orderID); err != nil {
		respond.Error(w, r, err, "Error checking out order")

		return
	}

	respond.Message(w, r, http.StatusOK, "Order checked out successfully")
}

package getorder

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/identity"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/transport/http/httpreq"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
)

type service interface {
	GetOrder(ctx context.Context, caller identity.Identity, orderID int64) (order.Details, error)
}

// GetOrder returns an order with its items.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	caller, err := httpreq.Caller(r)
	if err != nil {
		respond.Error(w, r, err, "Unauthenticated get order request")

		return
	}

	orderID, err := httpreq.OrderID(r)
	if err != nil {
		respond.Error(w, r, err, "Error parsing order id")

		return
	}

	details, err := service.GetOrder(r.Context(), caller, orderID)
	if err != nil {
		respond.Error(w, r, err, "Error getting order")

		return
	}

	respond.JSON(w, r, http.StatusOK, details)
}

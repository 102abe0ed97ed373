package listorders

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/identity"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/transport/http/httpreq"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
)

type service interface {
	ListOrders(ctx context.Context, caller identity.Identity) ([]order.Summary, error)
}

// ListOrders returns every order with its item count.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	caller, err := httpreq.Caller(r)
	if err != nil {
		respond.Error(w, r, err, "Unauthenticated list orders request")

		return
	}

	orders, err := service.ListOrders(r.Context(), caller)
	if err != nil {
		respond.Error(w, r, err, "Error listing orders")

		return
	}

	respond.JSON(w, r, http.StatusOK, orders)
}

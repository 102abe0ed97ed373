package createorder

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/identity"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/transport/http/httpreq"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
)

type service interface {
	CreateOrder(ctx context.Context, caller identity.Identity) (order.Order, error)
}

// CreateOrder starts an empty order for the caller.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	caller, err := httpreq.Caller(r)
	if err != nil {
		respond.Error(w, r, err, "Unauthenticated create order request")

		return
	}

	created, err := service.CreateOrder(r.Context(), caller)
	if err != nil {
		respond.Error(w, r, err, "Error creating order")

		return
	}

	respond.JSON(w, r, http.StatusCreated, created)
}

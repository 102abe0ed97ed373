package httpreq

import (
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/storefront/internal/service/models/apperror"
	"github.com/corray333/backend-labs/storefront/internal/service/models/identity"
	"github.com/go-chi/chi/v5"
)

// ErrNoIdentity is returned for requests that did not pass the auth middleware.
var ErrNoIdentity = apperror.New(apperror.KindUnauthorized, "No token provided")

// Caller returns the authenticated identity of the request.
func Caller(r *http.Request) (identity.Identity, error) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		return identity.Identity{}, ErrNoIdentity
	}

	return id, nil
}

// OrderID parses the orderId path parameter.
func OrderID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid order id")
	}

	return id, nil
}

package order

import (
	"encoding/json"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/money"
	"github.com/corray333/backend-labs/storefront/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
)

// Order is a cart that becomes a purchase at checkout.
type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Status    Status          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsPending reports whether the order still accepts items and checkout.
func (o Order) IsPending() bool {
	return o.Status == StatusPending
}

// MarshalJSON writes the total with a fixed two-digit scale.
func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order

	return json.Marshal(struct {
		plain
		Total string `json:"total"`
	}{plain(o), money.Format(o.Total)})
}

// Summary is an order row in the administrative listing.
type Summary struct {
	Order
	ItemCount int64 `json:"item_count"`
}

// MarshalJSON keeps item_count next to the order fields.
func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Order

	return json.Marshal(struct {
		plain
		Total     string `json:"total"`
		ItemCount int64  `json:"item_count"`
	}{plain(s.Order), money.Format(s.Total), s.ItemCount})
}

// Details is an order together with its lines.
type Details struct {
	Order Order                    `json:"order"`
	Items []orderitem.DetailedItem `json:"items"`
}

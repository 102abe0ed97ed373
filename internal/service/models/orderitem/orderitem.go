package orderitem

import (
	"encoding/json"

	"github.com/corray333/backend-labs/storefront/internal/service/models/money"
	"github.com/shopspring/decimal"
)

// OrderItem represents a line within an order. Price is the product price
// captured when the line was added.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Subtotal returns quantity × price.
func (oi OrderItem) Subtotal() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

// DetailedItem is a line joined with the product name and image.
type DetailedItem struct {
	ID        int64           `json:"id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
}

// MarshalJSON writes the price with a fixed two-digit scale.
func (di DetailedItem) MarshalJSON() ([]byte, error) {
	type plain DetailedItem

	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(di), money.Format(di.Price)})
}

// StockedItem is a line joined with the current stock of its product.
type StockedItem struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
	Stock     int
}

// HasEnoughStock reports whether the product can cover the line right now.
func (si StockedItem) HasEnoughStock() bool {
	return si.Stock >= si.Quantity
}

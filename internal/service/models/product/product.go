package product

import (
	"encoding/json"

	"github.com/corray333/backend-labs/storefront/internal/service/models/money"
	"github.com/shopspring/decimal"
)

// Product represents a catalog entry.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
}

// MarshalJSON writes the price with a fixed two-digit scale.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product

	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(p), money.Format(p.Price)})
}

package event

import (
	"time"

	"github.com/shopspring/decimal"
)

const TypeOrderCompleted = "order.completed"

// OrderCompletedItem is a purchased line in an OrderCompleted event.
type OrderCompletedItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderCompleted is emitted once per successful checkout.
type OrderCompleted struct {
	EventID    string               `json:"event_id"`
	Type       string               `json:"type"`
	OrderID    int64                `json:"order_id"`
	UserID     int64                `json:"user_id"`
	Total      decimal.Decimal      `json:"total"`
	Items      []OrderCompletedItem `json:"items"`
	OccurredAt time.Time            `json:"occurred_at"`
}

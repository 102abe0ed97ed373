package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/storefront/internal/dal/postgres"
	"github.com/corray333/backend-labs/storefront/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
)

// OrderItemDal represents order item data access layer model.
type OrderItemDal struct {
	Id        int64           `db:"id"`
	OrderId   int64           `db:"order_id"`
	ProductId int64           `db:"product_id"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
}

// ToModel converts OrderItemDal to service layer OrderItem model.
func (oi *OrderItemDal) ToModel() *orderitem.OrderItem {
	return &orderitem.OrderItem{
		ID:        oi.Id,
		OrderID:   oi.OrderId,
		ProductID: oi.ProductId,
		Quantity:  oi.Quantity,
		Price:     oi.Price,
	}
}

// PostgresOrderItemRepository represents a Postgres order item repository.
type PostgresOrderItemRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderItemRepository creates a new Postgres order item repository.
func NewPostgresOrderItemRepository(conn postgres.GenericConn) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert adds a line to an order. Repeated products produce separate rows.
func (r *PostgresOrderItemRepository) Insert(
	ctx context.Context,
	item orderitem.OrderItem,
) (orderitem.OrderItem, error) {
	sql, args, err := r.sb.
		Insert("order_items").
		Columns("order_id", "product_id", "quantity", "price").
		Values(item.OrderID, item.ProductID, item.Quantity, item.Price).
		Suffix("RETURNING id, order_id, product_id, quantity, price").
		ToSql()
	if err != nil {
		return orderitem.OrderItem{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	var dal OrderItemDal
	err = r.conn.QueryRow(ctx, sql, args...).Scan(
		&dal.Id,
		&dal.OrderId,
		&dal.ProductId,
		&dal.Quantity,
		&dal.Price,
	)
	if err != nil {
		return orderitem.OrderItem{}, fmt.Errorf("failed to insert order item: %w", err)
	}

	return *dal.ToModel(), nil
}

// SumQuantity returns the total quantity of productID already in orderID.
func (r *PostgresOrderItemRepository) SumQuantity(
	ctx context.Context,
	orderID, productID int64,
) (int, error) {
	sql, args, err := r.sb.
		Select("COALESCE(SUM(quantity), 0)").
		From("order_items").
		Where(sq.Eq{"order_id": orderID, "product_id": productID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var qty int64
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&qty); err != nil {
		return 0, fmt.Errorf("failed to sum order item quantity: %w", err)
	}

	return int(qty), nil
}

// ListDetailed returns the lines of an order joined with product name and image.
func (r *PostgresOrderItemRepository) ListDetailed(
	ctx context.Context,
	orderID int64,
) ([]orderitem.DetailedItem, error) {
	sql, args, err := r.sb.
		Select("oi.id", "oi.quantity", "oi.price", "p.id", "p.name", "p.image_url").
		From("order_items oi").
		Join("products p ON oi.product_id = p.id").
		Where(sq.Eq{"oi.order_id": orderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	result := []orderitem.DetailedItem{}
	for rows.Next() {
		var item orderitem.DetailedItem
		err := rows.Scan(
			&item.ID,
			&item.Quantity,
			&item.Price,
			&item.ProductID,
			&item.Name,
			&item.ImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// ListWithStock returns the lines of an order joined with current product stock.
func (r *PostgresOrderItemRepository) ListWithStock(
	ctx context.Context,
	orderID int64,
) ([]orderitem.StockedItem, error) {
	sql, args, err := r.sb.
		Select("oi.product_id", "oi.quantity", "oi.price", "p.stock").
		From("order_items oi").
		Join("products p ON p.id = oi.product_id").
		Where(sq.Eq{"oi.order_id": orderID}).
		OrderBy("oi.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items with stock: %w", err)
	}
	defer rows.Close()

	result := []orderitem.StockedItem{}
	for rows.Next() {
		var item orderitem.StockedItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price, &item.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

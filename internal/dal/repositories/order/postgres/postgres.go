package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/storefront/internal/dal/postgres"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/shopspring/decimal"
)

var orderColumns = []string{"id", "user_id", "status", "total", "created_at"}

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id        int64           `db:"id"`
	UserId    int64           `db:"user_id"`
	Status    string          `db:"status"`
	Total     decimal.Decimal `db:"total"`
	CreatedAt time.Time       `db:"created_at"`
}

// ToModel converts OrderDal to service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:        o.Id,
		UserID:    o.UserId,
		Status:    status,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
	}, nil
}

func (o *OrderDal) scanTargets() []any {
	return []any{&o.Id, &o.UserId, &o.Status, &o.Total, &o.CreatedAt}
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn postgres.GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create inserts an empty pending order and returns it.
func (r *PostgresOrderRepository) Create(ctx context.Context, userID int64) (order.Order, error) {
	sql, args, err := r.sb.
		Insert("orders").
		Columns("user_id", "status", "total").
		Values(userID, order.StatusPending.String(), decimal.Zero).
		Suffix("RETURNING id, user_id, status, total, created_at").
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	var dal OrderDal
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(dal.scanTargets()...); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	return *model, nil
}

// Query retrieves orders based on filter criteria.
func (r *PostgresOrderRepository) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	query := r.sb.Select(orderColumns...).From("orders")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.UserIds) > 0 {
		query = query.Where(sq.Eq{"user_id": filter.UserIds})
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = s.String()
		}
		query = query.Where(sq.Eq{"status": statuses})
	}

	sql, args, err := query.OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	result := []order.Order{}
	for rows.Next() {
		var dal OrderDal
		if err := rows.Scan(dal.scanTargets()...); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// ListSummaries returns every order with its item count, newest first.
func (r *PostgresOrderRepository) ListSummaries(ctx context.Context) ([]order.Summary, error) {
	sql, args, err := r.sb.
		Select("o.id", "o.user_id", "o.status", "o.total", "o.created_at", "COUNT(oi.id) AS item_count").
		From("orders o").
		LeftJoin("order_items oi ON oi.order_id = o.id").
		GroupBy("o.id").
		OrderBy("o.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order summaries: %w", err)
	}
	defer rows.Close()

	result := []order.Summary{}
	for rows.Next() {
		var (
			dal       OrderDal
			itemCount int64
		)
		if err := rows.Scan(append(dal.scanTargets(), &itemCount)...); err != nil {
			return nil, fmt.Errorf("failed to scan order summary: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, order.Summary{Order: *model, ItemCount: itemCount})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// AddToTotal increments the running total of the order by amount.
func (r *PostgresOrderRepository) AddToTotal(ctx context.Context, id int64, amount decimal.Decimal) error {
	sql, args, err := r.sb.
		Update("orders").
		Set("total", sq.Expr("total + ?::numeric", amount)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}

	return nil
}

// UpdateStatus sets the status of the order.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	sql, args, err := r.sb.
		Update("orders").
		Set("status", status.String()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}

package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/storefront/internal/dal/postgres"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/jackc/pgx/v5"
)

var productColumns = []string{"id", "name", "description", "price", "stock", "image_url"}

func scanTargets(p *product.Product) []any {
	return []any{&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL}
}

// PostgresProductRepository represents a Postgres product repository.
type PostgresProductRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresProductRepository creates a new Postgres product repository.
func NewPostgresProductRepository(conn postgres.GenericConn) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// List returns the whole catalog ordered by id.
func (r *PostgresProductRepository) List(ctx context.Context) ([]product.Product, error) {
	sql, args, err := r.sb.Select(productColumns...).From("products").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	result := []product.Product{}
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(scanTargets(&p)...); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result = append(result, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Create inserts a product and returns it with its id.
func (r *PostgresProductRepository) Create(
	ctx context.Context,
	p product.Product,
) (product.Product, error) {
	sql, args, err := r.sb.
		Insert("products").
		Columns("name", "description", "price", "stock", "image_url").
		Values(p.Name, p.Description, p.Price, p.Stock, p.ImageURL).
		Suffix("RETURNING id, name, description, price, stock, image_url").
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	var created product.Product
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(scanTargets(&created)...); err != nil {
		return product.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	return created, nil
}

// Get returns the product with the given id, or nil if there is none.
func (r *PostgresProductRepository) Get(ctx context.Context, id int64) (*product.Product, error) {
	sql, args, err := r.sb.Select(productColumns...).From("products").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var p product.Product
	err = r.conn.QueryRow(ctx, sql, args...).Scan(scanTargets(&p)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// DecrementStock subtracts quantity from the product stock.
func (r *PostgresProductRepository) DecrementStock(ctx context.Context, id int64, quantity int) error {
	sql, args, err := r.sb.
		Update("products").
		Set("stock", sq.Expr("stock - ?", quantity)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to decrement product stock: %w", err)
	}

	return nil
}

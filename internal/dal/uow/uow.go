package uow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/storefront/internal/dal/postgres"
	orderrepo "github.com/corray333/backend-labs/storefront/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/corray333/backend-labs/storefront/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/corray333/backend-labs/storefront/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/corray333/backend-labs/storefront/internal/dal/repositories/product/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
)

// Repositories gives access to every repository bound to one connection or transaction.
type Repositories interface {
	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	ProductRepository() iproductrepo.IProductRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// Work is a unit of work executed inside a single transaction.
type Work func(ctx context.Context, repos Repositories) error

type repositories struct {
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	productRepo   iproductrepo.IProductRepository
	outboxRepo    ioutboxrepo.IOutboxRepository
}

func newRepositories(conn postgres.GenericConn) *repositories {
	return &repositories{
		orderRepo:     orderrepo.NewPostgresOrderRepository(conn),
		orderItemRepo: orderitemrepo.NewPostgresOrderItemRepository(conn),
		productRepo:   productrepo.NewPostgresProductRepository(conn),
		outboxRepo:    outboxrepo.NewOutboxRepository(conn),
	}
}

func (r *repositories) OrderRepository() iorderrepo.IOrderRepository {
	return r.orderRepo
}

func (r *repositories) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return r.orderItemRepo
}

func (r *repositories) ProductRepository() iproductrepo.IProductRepository {
	return r.productRepo
}

func (r *repositories) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return r.outboxRepo
}

// UnitOfWork runs Work in transactions borrowed from the pool. Outside of Do its
// repositories run single statements directly on the pool.
type UnitOfWork struct {
	*repositories
	pool *pgxpool.Pool
}

// NewUnitOfWork creates a new unit of work over the client's pool.
func NewUnitOfWork(client *postgres.Client) *UnitOfWork {
	return &UnitOfWork{
		repositories: newRepositories(client.Pool()),
		pool:         client.Pool(),
	}
}

// Do runs work in one transaction on one pooled connection. The transaction is
// committed when work returns nil and rolled back otherwise, including on panic.
// The connection goes back to the pool on every path.
func (u *UnitOfWork) Do(ctx context.Context, work Work) (err error) {
	ctx, span := otel.Tracer("storefront").Start(ctx, "uow.Do")
	defer span.End()

	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			rollback(ctx, tx)
		}
	}()

	if err = work(ctx, newRepositories(tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	// Rollback must run even when the request context is already cancelled.
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.ErrorContext(ctx, "Failed to roll back transaction", "error", err)
	}
}

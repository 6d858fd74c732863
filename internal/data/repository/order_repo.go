package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"course-booking/internal/data/entity"
	"course-booking/pkg/database"

	"go.uber.org/zap"
)

// OrderRepository is append-only: orders are never updated or deleted.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	FindAll(ctx context.Context) ([]*entity.Order, error)
}

type orderRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOrderRepository(db database.PgxIface, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:  db,
		log: log.With(zap.String("repository", "order")),
	}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	query := `
		INSERT INTO orders (id, customer_name, customer_phone, items, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.db.Exec(ctx, query,
		order.ID,
		order.CustomerName,
		order.CustomerPhone,
		items,
		order.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create order",
			zap.Error(err),
			zap.String("order_id", order.ID.String()),
			zap.Int("item_count", len(order.Items)),
		)
		return fmt.Errorf("create order %s: %w", order.ID.String(), err)
	}

	return nil
}

func (r *orderRepository) FindAll(ctx context.Context) ([]*entity.Order, error) {
	query := `
		SELECT id, customer_name, customer_phone, items, created_at
		FROM orders
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find orders", zap.Error(err))
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer rows.Close()

	orders := []*entity.Order{}
	for rows.Next() {
		var order entity.Order
		var items []byte
		err := rows.Scan(
			&order.ID,
			&order.CustomerName,
			&order.CustomerPhone,
			&items,
			&order.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan order row", zap.Error(err))
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		if err := json.Unmarshal(items, &order.Items); err != nil {
			r.log.Error("Failed to decode order items",
				zap.Error(err),
				zap.String("order_id", order.ID.String()),
			)
			return nil, fmt.Errorf("decode items of order %s: %w", order.ID.String(), err)
		}
		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

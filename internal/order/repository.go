// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/angelamos/artvia-backend/internal/core"
)

type Stats struct {
	Total       int
	ByStatus    map[Status]int
	PaidRevenue decimal.Decimal
}

type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, userID string) ([]Order, error)
	UpdateWorkflow(ctx context.Context, order *Order, expected Status) error
	Stats(ctx context.Context) (*Stats, error)
}

type database interface {
	core.DBTX
	core.TxBeginner
}

type repository struct {
	db database
}

func NewRepository(db database) Repository {
	return &repository{db: db}
}

const orderSelect = `
	SELECT o.id, o.user_id, u.name AS user_name, u.email AS user_email,
	       o.total_price, o.contact_name, o.contact_email, o.contact_phone,
	       o.payment_method, o.delivery_region, o.delivery_address,
	       o.delivery_comment, o.delivery_lat, o.delivery_lng,
	       o.payment_screenshot, o.is_paid, o.paid_at, o.delivered_at,
	       o.status, o.created_at, o.updated_at
	FROM orders o
	JOIN users u ON u.id = o.user_id`

// Create writes the order row and its items in one transaction.
func (r *repository) Create(ctx context.Context, order *Order) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO orders (
				id, user_id, total_price, contact_name, contact_email,
				contact_phone, payment_method, delivery_region,
				delivery_address, delivery_comment, delivery_lat,
				delivery_lng, status
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING created_at, updated_at`

		row := tx.QueryRowxContext(ctx, query,
			order.ID,
			order.UserID,
			order.TotalPrice,
			order.ContactName,
			order.ContactEmail,
			order.ContactPhone,
			order.PaymentMethod,
			order.DeliveryRegion,
			order.DeliveryAddress,
			order.DeliveryComment,
			order.Lat,
			order.Lng,
			order.Status,
		)
		if err := row.Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
			if core.IsForeignKeyError(err) {
				return fmt.Errorf("create order: %w", core.ErrNotFound)
			}
			return fmt.Errorf("create order: %w", err)
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			order.Items[i].Position = i
		}

		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO order_items (
				order_id, position, product_id, name, image, quantity, price
			)
			VALUES (
				:order_id, :position, :product_id, :name, :image, :quantity, :price
			)`, order.Items)
		if err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	if !core.ValidID(id) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}

	var order Order
	err := r.db.GetContext(ctx, &order, orderSelect+` WHERE o.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	orders := []Order{order}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// List returns orders newest first. An empty userID lists every order.
func (r *repository) List(ctx context.Context, userID string) ([]Order, error) {
	query := orderSelect
	var args []any

	if userID != "" {
		if !core.ValidID(userID) {
			return []Order{}, nil
		}
		query += ` WHERE o.user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY o.created_at DESC, o.id DESC`

	orders := []Order{}
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *repository) loadItems(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = []Item{}
	}

	query, args, err := sqlx.In(`
		SELECT order_id, position, product_id, name, image, quantity, price
		FROM order_items
		WHERE order_id IN (?)
		ORDER BY order_id, position`, ids)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}

	var items []Item
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("load order items: %w", err)
	}

	for _, it := range items {
		i := index[it.OrderID]
		orders[i].Items = append(orders[i].Items, it)
	}

	return nil
}

// UpdateWorkflow persists the workflow fields of order. When expected is set
// the write only applies while the stored status still equals it; a row that
// moved on in the meantime yields ErrStatusChanged.
func (r *repository) UpdateWorkflow(
	ctx context.Context,
	order *Order,
	expected Status,
) error {
	query := `
		UPDATE orders
		SET status = $2,
		    payment_screenshot = $3,
		    is_paid = $4,
		    paid_at = $5,
		    delivered_at = $6,
		    updated_at = NOW()
		WHERE id = $1 AND ($7 = '' OR status = $7)
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &order.UpdatedAt, query,
		order.ID,
		order.Status,
		order.PaymentScreenshot,
		order.IsPaid,
		order.PaidAt,
		order.DeliveredAt,
		string(expected),
	)
	if errors.Is(err, sql.ErrNoRows) {
		if expected == "" {
			return fmt.Errorf("update order: %w", core.ErrNotFound)
		}
		return r.missOrConflict(ctx, order.ID)
	}
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	return nil
}

func (r *repository) missOrConflict(ctx context.Context, id string) error {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if !exists {
		return fmt.Errorf("update order: %w", core.ErrNotFound)
	}
	return ErrStatusChanged
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	var rows []struct {
		Status Status `db:"status"`
		Count  int    `db:"count"`
	}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT status, COUNT(*) AS count FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}

	stats := &Stats{ByStatus: make(map[Status]int, len(statuses))}
	for _, s := range Statuses() {
		stats.ByStatus[s] = 0
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}

	err = r.db.GetContext(ctx, &stats.PaidRevenue,
		`SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE is_paid`)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}

	return stats, nil
}

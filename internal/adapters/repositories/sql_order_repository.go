package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"order-map-service/internal/domain"
)

// Postgres-backed implementation of the OrderRepository port.
// Kept in column parity with the SQLite variant; only placeholders differ.
type SQLOrderRepository struct{ DB *sql.DB }

func NewSQLOrderRepository(db *sql.DB) *SQLOrderRepository {
	return &SQLOrderRepository{DB: db}
}

// Retrieve a single order with its items.
func (s *SQLOrderRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	if s.DB == nil {
		return nil, errors.New("sql order repository: DB is nil")
	}

	query := `
	SELECT
		order_id,
		ship_line1, ship_line2, ship_barangay,
		ship_municipality, ship_province, ship_postal_code
	FROM orders
	WHERE order_id = $1;
	`
	row := s.DB.QueryRowContext(ctx, query, orderID)

	order, err := scanOrderRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: order %d not found", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: scan order row: %w", err)
	}

	items, err := s.loadItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	order.Items = items

	return order, nil
}

// Return all orders stored in the database, items included.
func (s *SQLOrderRepository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	if s.DB == nil {
		return nil, errors.New("sql order repository: DB is nil")
	}

	query := `
	SELECT
		order_id,
		ship_line1, ship_line2, ship_barangay,
		ship_municipality, ship_province, ship_postal_code
	FROM orders
	ORDER BY order_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: query orders table: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, 64)
	for rows.Next() {
		order, err := scanOrderRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list orders: scan row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: row iteration: %w", err)
	}

	for _, order := range orders {
		items, err := s.loadItems(ctx, order.OrderID)
		if err != nil {
			return nil, fmt.Errorf("list orders: %w", err)
		}
		order.Items = items
	}

	return orders, nil
}

func (s *SQLOrderRepository) loadItems(ctx context.Context, orderID int) ([]domain.OrderItem, error) {
	query := `
	SELECT
		seller_label,
		seller_line1, seller_line2, seller_barangay,
		seller_municipality, seller_province, seller_postal_code
	FROM order_items
	WHERE order_id = $1
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("load items: query order_items table: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0, 8)
	for rows.Next() {
		var label string
		var a addressColumns
		if err := rows.Scan(&label, &a.line1, &a.line2, &a.barangay, &a.municipality, &a.province, &a.postalCode); err != nil {
			return nil, fmt.Errorf("load items: scan row: %w", err)
		}
		items = append(items, domain.OrderItem{
			SellerLabel:   label,
			SellerAddress: a.toAddress(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load items: row iteration: %w", err)
	}

	return items, nil
}

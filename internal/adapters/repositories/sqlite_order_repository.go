package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"order-map-service/internal/domain"
)

// SQLite-backed implementation of the OrderRepository port.
type SqliteOrderRepository struct{ DB *sql.DB }

func NewSqliteOrderRepository(db *sql.DB) *SqliteOrderRepository {
	return &SqliteOrderRepository{DB: db}
}

// Retrieve a single order with its items.
func (s *SqliteOrderRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite order repository: DB is nil")
	}

	query := `
	SELECT
		order_id,
		ship_line1, ship_line2, ship_barangay,
		ship_municipality, ship_province, ship_postal_code
	FROM orders
	WHERE order_id = ?;
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
func (s *SqliteOrderRepository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite order repository: DB is nil")
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

func (s *SqliteOrderRepository) loadItems(ctx context.Context, orderID int) ([]domain.OrderItem, error) {
	query := `
	SELECT
		seller_label,
		seller_line1, seller_line2, seller_barangay,
		seller_municipality, seller_province, seller_postal_code
	FROM order_items
	WHERE order_id = ?
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

type addressColumns struct {
	line1, line2, barangay, municipality, province, postalCode string
}

// An order row stores absent addresses as all-empty columns; map those back
// to a nil pointer so callers see "no address" rather than a blank one.
func (a addressColumns) toAddress() *domain.Address {
	if a.line1 == "" && a.line2 == "" && a.barangay == "" &&
		a.municipality == "" && a.province == "" && a.postalCode == "" {
		return nil
	}
	return &domain.Address{
		Line1:        a.line1,
		Line2:        a.line2,
		Barangay:     a.barangay,
		Municipality: a.municipality,
		Province:     a.province,
		PostalCode:   a.postalCode,
	}
}

func scanOrderRow(scan func(dest ...any) error) (*domain.Order, error) {
	var id int
	var a addressColumns
	if err := scan(&id, &a.line1, &a.line2, &a.barangay, &a.municipality, &a.province, &a.postalCode); err != nil {
		return nil, err
	}
	return &domain.Order{
		OrderID:         id,
		ShippingAddress: a.toAddress(),
	}, nil
}

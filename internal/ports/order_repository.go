package ports

import (
	"context"

	"order-map-service/internal/domain"
)

// Port: a boundary for retrieving Order view models from a data source.
type OrderRepository interface {
	// Retrieve a single order with its shipping address and items.
	GetOrder(ctx context.Context, orderID int) (*domain.Order, error)
	// Retrieve all orders available for tracking.
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}

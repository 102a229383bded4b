package domain

// Single line item on an order. SellerAddress is the seller's business
// address as supplied by the order data source; it may be nil or partial.
type OrderItem struct {
	SellerLabel   string
	SellerAddress *Address
}

// Order view model consumed by the map subsystem.
// Owned by the page-level order list; the subsystem only reads it.
type Order struct {
	OrderID         int
	ShippingAddress *Address
	Items           []OrderItem
}

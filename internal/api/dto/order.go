package dto

type AddressResponse struct {
	Line1        string `json:"line1,omitempty"`
	Line2        string `json:"line2,omitempty"`
	Barangay     string `json:"barangay"`
	Municipality string `json:"municipality"`
	Province     string `json:"province"`
	PostalCode   string `json:"postal_code,omitempty"`
}

type OrderItemResponse struct {
	SellerLabel   string           `json:"seller_label"`
	SellerAddress *AddressResponse `json:"seller_address"`
}

type OrderResponse struct {
	OrderID         int                 `json:"order_id"`
	ShippingAddress *AddressResponse    `json:"shipping_address"`
	Items           []OrderItemResponse `json:"items"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

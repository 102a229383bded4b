package handlers

import (
	"log"
	"net/http"

	"order-map-service/internal/api/dto"
	"order-map-service/internal/domain"
	"order-map-service/internal/ports"
)

// OrderHandler exposes read-only order retrieval for the tracking selector.
type OrderHandler struct {
	Repo ports.OrderRepository
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	orders, err := h.Repo.ListOrders(r.Context())
	if err != nil {
		log.Printf("list orders failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListOrdersResponse{
		Orders: make([]dto.OrderResponse, 0, len(orders)),
	}
	for _, o := range orders {
		items := make([]dto.OrderItemResponse, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, dto.OrderItemResponse{
				SellerLabel:   item.SellerLabel,
				SellerAddress: addressResponse(item.SellerAddress),
			})
		}
		res.Orders = append(res.Orders, dto.OrderResponse{
			OrderID:         o.OrderID,
			ShippingAddress: addressResponse(o.ShippingAddress),
			Items:           items,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func addressResponse(a *domain.Address) *dto.AddressResponse {
	if a == nil {
		return nil
	}
	return &dto.AddressResponse{
		Line1:        a.Line1,
		Line2:        a.Line2,
		Barangay:     a.Barangay,
		Municipality: a.Municipality,
		Province:     a.Province,
		PostalCode:   a.PostalCode,
	}
}

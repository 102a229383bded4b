package domain

// Distinguishes the customer delivery point from seller business locations.
// Renderers color-code markers by this type.
type MarkerType string

const (
	MarkerCustomer MarkerType = "customer"
	MarkerSeller   MarkerType = "seller"
)

// Fixed label used for the customer delivery marker.
const CustomerMarkerLabel = "Customer Delivery Address"

// Represents a single plotted point in an order's tracking view.
// Label is the seller's display name for seller markers, or
// CustomerMarkerLabel for the customer marker.
type Marker struct {
	Type            MarkerType
	Coordinate      Coordinates
	Label           string
	ComposedAddress string
}

// Ordered collection of markers for one order: customer marker first when
// present, then seller markers in item order. An order with zero resolvable
// addresses yields an empty MarkerSet, never nil.
type MarkerSet []Marker

// Return the customer marker, or nil if the customer address never resolved.
func (m MarkerSet) Customer() *Marker {
	if len(m) > 0 && m[0].Type == MarkerCustomer {
		return &m[0]
	}
	return nil
}

// Return the first seller marker in item order, or nil if no seller resolved.
func (m MarkerSet) FirstSeller() *Marker {
	for i := range m {
		if m[i].Type == MarkerSeller {
			return &m[i]
		}
	}
	return nil
}

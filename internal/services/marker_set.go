package services

import (
	"context"
	"errors"
	"sync"

	"order-map-service/internal/domain"
	"order-map-service/internal/platform/obs"
)

// Bound on concurrent geocode lookups per marker-set build.
const maxConcurrentLookups = 8

// BuildMarkerSet resolves the order's customer and seller addresses into an
// ordered MarkerSet.
//
// All resolutions run concurrently (fan-out) and the build waits for every
// attempt to settle before assembling (fan-in): a slow or failing lookup
// skips only its own marker. Assembly order is static regardless of
// completion order: customer marker first when resolved, then one seller
// marker per item whose address resolved, in item order. Items sharing a
// seller are not deduplicated. An empty MarkerSet is a valid result.
func BuildMarkerSet(
	ctx context.Context,
	order *domain.Order,
	resolver *Resolver,
) (_ domain.MarkerSet, err error) {
	defer obs.Time(ctx, "markers.BuildMarkerSet")(&err)

	if order == nil {
		return nil, errors.New("build marker set: order must be non-nil")
	}
	if resolver == nil {
		return nil, errors.New("build marker set: resolver must be non-nil")
	}

	// Slot 0 is the customer marker, slot i+1 is item i's seller marker.
	// Unresolved slots stay nil and are skipped during assembly, which keeps
	// output order independent of lookup completion order.
	slots := make([]*domain.Marker, 1+len(order.Items))

	sem := make(chan struct{}, maxConcurrentLookups)
	var wg sync.WaitGroup

	resolveInto := func(slot int, raw domain.Address, mtype domain.MarkerType, label string) {
		wg.Add(1)
		go func() {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			addr, ok := NormalizeAddress(raw)
			if !ok {
				return
			}

			coord := resolver.Resolve(ctx, addr)
			if coord == nil {
				return
			}

			slots[slot] = &domain.Marker{
				Type:            mtype,
				Coordinate:      *coord,
				Label:           label,
				ComposedAddress: ComposeAddress(addr),
			}
		}()
	}

	if order.ShippingAddress != nil {
		resolveInto(0, *order.ShippingAddress, domain.MarkerCustomer, domain.CustomerMarkerLabel)
	}

	for i, item := range order.Items {
		if item.SellerAddress == nil {
			continue
		}
		resolveInto(i+1, *item.SellerAddress, domain.MarkerSeller, item.SellerLabel)
	}

	wg.Wait()

	markers := make(domain.MarkerSet, 0, len(slots))
	for _, m := range slots {
		if m != nil {
			markers = append(markers, *m)
		}
	}

	return markers, nil
}

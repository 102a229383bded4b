package services

import (
	"context"
	"testing"
	"time"

	"order-map-service/internal/adapters/geocode"
	"order-map-service/internal/domain"
)

func TestResolverUnknownHierarchyIsNil(t *testing.T) {
	resolver := NewResolver(geocode.NewMockGeocodeProvider(nil))

	coord := resolver.Resolve(context.Background(), domain.Address{
		Barangay:     "Centro",
		Municipality: "Sagnay",
		Province:     "Camarines Sur",
	})
	if coord != nil {
		t.Fatalf("expected nil for unknown hierarchy, got %+v", coord)
	}
}

func TestResolverSkipsPartialHierarchy(t *testing.T) {
	resolver := NewResolver(sagnayProvider())

	if coord := resolver.Resolve(context.Background(), domain.Address{Municipality: "Sagnay"}); coord != nil {
		t.Fatalf("expected nil for partial hierarchy, got %+v", coord)
	}
}

// A collaborator that hangs past the per-call timeout must not stall the
// caller; the lookup surfaces as unresolved.
func TestResolverTimeoutBoundsHungLookup(t *testing.T) {
	provider := sagnayProvider()
	provider.Delay("Camarines Sur", "Sagnay", "Centro", time.Second)

	resolver := NewResolverWithTimeout(provider, 20*time.Millisecond)

	start := time.Now()
	coord := resolver.Resolve(context.Background(), domain.Address{
		Barangay:     "Centro",
		Municipality: "Sagnay",
		Province:     "Camarines Sur",
	})
	elapsed := time.Since(start)

	if coord != nil {
		t.Fatalf("expected nil for timed-out lookup, got %+v", coord)
	}
	if elapsed > 500*time.Millisecond {
		t.Fatalf("resolve took %v; timeout did not bound the call", elapsed)
	}
}

package geocode

import (
	"context"
	"fmt"
	"time"

	"order-map-service/internal/domain"
	"order-map-service/internal/ports"
)

type MockEntry struct {
	Province, Municipality, Barangay string
	Lat, Lng                         float64
}

// In-memory GeocodeProvider for tests.
//
// Unknown hierarchies return ports.ErrNoMatch. Per-key delays and failures
// let tests reorder completion times and simulate collaborator errors.
type MockGeocodeProvider struct {
	m      map[string]domain.Coordinates
	delays map[string]time.Duration
	fails  map[string]error
}

func NewMockGeocodeProvider(entries []MockEntry) *MockGeocodeProvider {
	m := make(map[string]domain.Coordinates, len(entries))
	for _, e := range entries {
		m[mockKey(e.Province, e.Municipality, e.Barangay)] = domain.Coordinates{Lat: e.Lat, Lng: e.Lng}
	}
	return &MockGeocodeProvider{
		m:      m,
		delays: make(map[string]time.Duration),
		fails:  make(map[string]error),
	}
}

// Delay makes lookups for the given hierarchy block before responding.
func (p *MockGeocodeProvider) Delay(province, municipality, barangay string, d time.Duration) {
	p.delays[mockKey(province, municipality, barangay)] = d
}

// Fail makes lookups for the given hierarchy return err.
func (p *MockGeocodeProvider) Fail(province, municipality, barangay string, err error) {
	p.fails[mockKey(province, municipality, barangay)] = err
}

func (p *MockGeocodeProvider) Lookup(
	ctx context.Context,
	province, municipality, barangay string,
) (domain.Coordinates, error) {
	key := mockKey(province, municipality, barangay)

	if d, ok := p.delays[key]; ok {
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return domain.Coordinates{}, ctx.Err()
		case <-timer.C:
		}
	}

	if err, ok := p.fails[key]; ok {
		return domain.Coordinates{}, err
	}

	c, ok := p.m[key]
	if !ok {
		return domain.Coordinates{}, ports.ErrNoMatch
	}
	return c, nil
}

func mockKey(province, municipality, barangay string) string {
	return fmt.Sprintf("%s|%s|%s", province, municipality, barangay)
}

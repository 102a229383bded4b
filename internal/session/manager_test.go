package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"order-map-service/internal/adapters/geocode"
	"order-map-service/internal/adapters/surface"
	"order-map-service/internal/domain"
	"order-map-service/internal/ports"
	"order-map-service/internal/services"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[int]*domain.Order
	gets   []int
}

func (f *fakeOrderRepo) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	f.mu.Lock()
	f.gets = append(f.gets, orderID)
	f.mu.Unlock()

	o, ok := f.orders[orderID]
	if !ok {
		return nil, errors.New("order not found")
	}
	return o, nil
}

func (f *fakeOrderRepo) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderRepo) getCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.gets...)
}

type fakeRenderSession struct {
	mu       sync.Mutex
	plots    []domain.MarkerSet
	fits     int
	routes   int
	resizes  int
	disposed bool
}

func (s *fakeRenderSession) Plot(markers domain.MarkerSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plots = append(s.plots, markers)
	return nil
}

func (s *fakeRenderSession) FitView(markers domain.MarkerSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fits++
	return nil
}

func (s *fakeRenderSession) DrawRoute(from, to domain.Coordinates) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes++
	return nil
}

func (s *fakeRenderSession) Resize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizes++
	return nil
}

func (s *fakeRenderSession) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
}

func (s *fakeRenderSession) counts() (plots, fits, routes, resizes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.plots), s.fits, s.routes, s.resizes
}

type fakeRenderer struct {
	mu       sync.Mutex
	sessions []*fakeRenderSession
}

func (f *fakeRenderer) CreateSession(sf ports.SurfaceState) (ports.RenderSession, error) {
	s := &fakeRenderSession{}
	f.mu.Lock()
	f.sessions = append(f.sessions, s)
	f.mu.Unlock()
	return s, nil
}

func (f *fakeRenderer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func (f *fakeRenderer) last() *fakeRenderSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sessions) == 0 {
		return nil
	}
	return f.sessions[len(f.sessions)-1]
}

func testConfig() Config {
	// Generous poll budget: tests that flip the surface ready after starting
	// must not race the attempt counter.
	return Config{
		PollInterval:    2 * time.Millisecond,
		MaxPollAttempts: 500,
		SettleDelay:     time.Millisecond,
		ResizeDelay:     time.Millisecond,
	}
}

func timeoutConfig() Config {
	c := testConfig()
	c.MaxPollAttempts = 5
	return c
}

func testOrders() map[int]*domain.Order {
	return map[int]*domain.Order{
		1: {
			OrderID: 1,
			ShippingAddress: &domain.Address{
				Barangay:     "Centro",
				Municipality: "Sagnay",
				Province:     "Camarines Sur",
			},
			Items: []domain.OrderItem{
				{
					SellerLabel: "Maria's Farm",
					SellerAddress: &domain.Address{
						Barangay:     "Pag-asa",
						Municipality: "Sagnay",
						Province:     "Camarines Sur",
					},
				},
			},
		},
		2: {
			OrderID: 2,
			ShippingAddress: &domain.Address{
				Barangay:     "San Roque",
				Municipality: "Iriga City",
				Province:     "Camarines Sur",
			},
		},
		3: {
			OrderID: 3,
			// all hierarchy levels missing everywhere
			ShippingAddress: &domain.Address{Line1: "Blk 5 Lot 12"},
			Items:           []domain.OrderItem{{SellerLabel: "Kusina ni Aling Nena"}},
		},
	}
}

func testProvider() *geocode.MockGeocodeProvider {
	return geocode.NewMockGeocodeProvider([]geocode.MockEntry{
		{Province: "Camarines Sur", Municipality: "Sagnay", Barangay: "Centro", Lat: 13.6053, Lng: 123.5230},
		{Province: "Camarines Sur", Municipality: "Sagnay", Barangay: "Pag-asa", Lat: 13.6011, Lng: 123.5312},
		{Province: "Camarines Sur", Municipality: "Iriga City", Barangay: "San Roque", Lat: 13.4324, Lng: 123.4115},
	})
}

type fixture struct {
	repo     *fakeOrderRepo
	provider *geocode.MockGeocodeProvider
	surfaces *surface.Registry
	renderer *fakeRenderer
	manager  *Manager
}

func newFixture() *fixture {
	return newFixtureWithConfig(testConfig())
}

func newFixtureWithConfig(cfg Config) *fixture {
	repo := &fakeOrderRepo{orders: testOrders()}
	provider := testProvider()
	surfaces := surface.NewRegistry()
	renderer := &fakeRenderer{}
	manager := NewManager(repo, services.NewResolver(provider), surfaces, renderer, cfg)
	return &fixture{repo: repo, provider: provider, surfaces: surfaces, renderer: renderer, manager: manager}
}

func (f *fixture) surfaceReady() {
	f.surfaces.Set(ports.SurfaceState{ID: "order-tracking-map", Width: 640, Height: 480})
}

func waitFor(t *testing.T, msg string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

func (f *fixture) waitState(t *testing.T, want State) {
	t.Helper()
	waitFor(t, "state "+string(want), func() bool {
		return f.manager.Snapshot().State == want
	})
}

func TestManagerReachesReadyAndDrawsRoute(t *testing.T) {
	f := newFixture()
	f.surfaceReady()

	f.manager.StartTracking(1)
	f.waitState(t, StateReady)

	if got := f.renderer.count(); got != 1 {
		t.Fatalf("expected 1 render session, got %d", got)
	}

	rs := f.renderer.last()
	plots, fits, routes, _ := rs.counts()
	if plots != 1 {
		t.Errorf("expected 1 Plot call, got %d", plots)
	}
	if fits != 1 {
		t.Errorf("expected 1 FitView call, got %d", fits)
	}
	if routes != 1 {
		t.Errorf("expected 1 DrawRoute call (customer + seller), got %d", routes)
	}

	rs.mu.Lock()
	markers := rs.plots[0]
	rs.mu.Unlock()
	if len(markers) != 2 {
		t.Fatalf("expected 2 markers plotted, got %d", len(markers))
	}
	if markers[0].Type != domain.MarkerCustomer || markers[1].Label != "Maria's Farm" {
		t.Errorf("unexpected marker order: %+v", markers)
	}

	waitFor(t, "post-ready resize", func() bool {
		_, _, _, resizes := rs.counts()
		return resizes >= 1
	})
}

func TestManagerNoRouteWithoutSellerMarker(t *testing.T) {
	f := newFixture()
	f.provider.Fail("Camarines Sur", "Sagnay", "Pag-asa", errors.New("lookup unavailable"))
	f.surfaceReady()

	f.manager.StartTracking(1)
	f.waitState(t, StateReady)

	rs := f.renderer.last()
	plots, _, routes, _ := rs.counts()
	if plots != 1 {
		t.Fatalf("expected 1 Plot call, got %d", plots)
	}
	if routes != 0 {
		t.Errorf("expected no DrawRoute without a seller marker, got %d", routes)
	}

	rs.mu.Lock()
	markers := rs.plots[0]
	rs.mu.Unlock()
	if len(markers) != 1 || markers[0].Type != domain.MarkerCustomer {
		t.Fatalf("expected customer-only marker set, got %+v", markers)
	}
}

func TestManagerSurfaceTimeout(t *testing.T) {
	f := newFixtureWithConfig(timeoutConfig())
	// Surface never reported: polling must stop after the attempt budget.

	f.manager.StartTracking(1)
	f.waitState(t, StateError)

	snap := f.manager.Snapshot()
	if snap.Reason != ErrSurfaceTimeout.Error() {
		t.Fatalf("reason = %q, want %q", snap.Reason, ErrSurfaceTimeout.Error())
	}
	if snap.Attempts != timeoutConfig().MaxPollAttempts {
		t.Errorf("attempts = %d, want %d", snap.Attempts, timeoutConfig().MaxPollAttempts)
	}
	if f.renderer.count() != 0 {
		t.Errorf("renderer must not be invoked on surface timeout")
	}
	if len(f.repo.getCalls()) != 0 {
		t.Errorf("order must not be loaded on surface timeout")
	}
}

func TestManagerZeroSizeSurfaceIsNotReady(t *testing.T) {
	f := newFixtureWithConfig(timeoutConfig())
	// Mounted mid-transition: present but without layout.
	f.surfaces.Set(ports.SurfaceState{ID: "order-tracking-map"})

	f.manager.StartTracking(1)
	f.waitState(t, StateError)

	if snap := f.manager.Snapshot(); snap.Reason != ErrSurfaceTimeout.Error() {
		t.Fatalf("reason = %q, want %q", snap.Reason, ErrSurfaceTimeout.Error())
	}
}

func TestManagerNoLocationData(t *testing.T) {
	f := newFixture()
	f.surfaceReady()

	f.manager.StartTracking(3)
	f.waitState(t, StateError)

	snap := f.manager.Snapshot()
	if snap.Reason != ErrNoLocationData.Error() {
		t.Fatalf("reason = %q, want %q", snap.Reason, ErrNoLocationData.Error())
	}
	if f.renderer.count() != 0 {
		t.Errorf("renderer must not be invoked for an empty marker set")
	}
}

func TestManagerIdempotentStart(t *testing.T) {
	f := newFixture()
	// Keep the session in Polling so the duplicate arrives mid-lifecycle.

	f.manager.StartTracking(1)
	f.manager.StartTracking(1)
	f.surfaceReady()
	f.waitState(t, StateReady)

	if got := f.repo.getCalls(); len(got) != 1 {
		t.Fatalf("expected exactly 1 order load, got %v", got)
	}
	if got := f.renderer.count(); got != 1 {
		t.Fatalf("expected exactly 1 render session, got %d", got)
	}
}

func TestManagerSwitchCancelsPreviousOrder(t *testing.T) {
	f := newFixture()
	// Order 1 is still polling for its surface when order 2 is selected.

	f.manager.StartTracking(1)
	f.manager.StartTracking(2)
	f.surfaceReady()
	f.waitState(t, StateReady)

	gets := f.repo.getCalls()
	for _, id := range gets {
		if id != 2 {
			t.Fatalf("order %d was loaded after being replaced; gets=%v", id, gets)
		}
	}
	if len(gets) != 1 {
		t.Fatalf("expected exactly 1 order load, got %v", gets)
	}

	if got := f.renderer.count(); got != 1 {
		t.Fatalf("expected exactly 1 render session, got %d", got)
	}
	rs := f.renderer.last()
	rs.mu.Lock()
	markers := rs.plots[0]
	rs.mu.Unlock()
	if len(markers) != 1 || markers[0].ComposedAddress != "San Roque, Iriga City, Camarines Sur" {
		t.Fatalf("expected order 2's customer marker, got %+v", markers)
	}

	if snap := f.manager.Snapshot(); snap.OrderID != 2 {
		t.Fatalf("snapshot order_id = %d, want 2", snap.OrderID)
	}
}

func TestManagerStopTrackingMidPoll(t *testing.T) {
	f := newFixture()

	f.manager.StartTracking(1)
	f.manager.StopTracking()

	if snap := f.manager.Snapshot(); snap.State != StateIdle {
		t.Fatalf("state = %q, want idle", snap.State)
	}

	// A surface appearing after teardown must not revive the session.
	f.surfaceReady()
	time.Sleep(20 * time.Millisecond)

	if f.renderer.count() != 0 {
		t.Errorf("renderer invoked after teardown")
	}
	if len(f.repo.getCalls()) != 0 {
		t.Errorf("order loaded after teardown")
	}
	if snap := f.manager.Snapshot(); snap.State != StateIdle {
		t.Fatalf("state = %q after teardown, want idle", snap.State)
	}
}

func TestManagerStopDisposesRenderSession(t *testing.T) {
	f := newFixture()
	f.surfaceReady()

	f.manager.StartTracking(1)
	f.waitState(t, StateReady)

	rs := f.renderer.last()
	f.manager.StopTracking()

	rs.mu.Lock()
	disposed := rs.disposed
	rs.mu.Unlock()
	if !disposed {
		t.Fatal("expected render session to be disposed on teardown")
	}
}

func TestManagerRestartAfterError(t *testing.T) {
	f := newFixtureWithConfig(timeoutConfig())

	f.manager.StartTracking(1)
	f.waitState(t, StateError)

	// Reselecting the order retries; the error state is not sticky.
	f.surfaceReady()
	f.manager.StartTracking(1)
	f.waitState(t, StateReady)

	snap := f.manager.Snapshot()
	if snap.OrderID != 1 || snap.State != StateReady {
		t.Fatalf("unexpected snapshot after retry: %+v", snap)
	}
}

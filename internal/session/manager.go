package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"order-map-service/internal/domain"
	"order-map-service/internal/ports"
	"order-map-service/internal/services"
)

// User-facing failure reasons. The host view chooses retry copy by reason:
// missing data suggests the order simply has no resolvable addresses, a
// surface timeout suggests checking connectivity and retrying.
var (
	ErrNoLocationData = errors.New("no-location-data")
	ErrSurfaceTimeout = errors.New("surface-timeout")
)

// Lifecycle state of the active map session.
type State string

const (
	StateIdle         State = "idle"
	StatePolling      State = "polling"
	StateInitializing State = "initializing"
	StateReady        State = "ready"
	StateError        State = "error"
)

// Timing knobs for the session lifecycle. Zero values fall back to the
// production defaults; tests inject short intervals.
type Config struct {
	// Spacing between surface readiness checks.
	PollInterval time.Duration
	// Maximum number of readiness checks before giving up.
	MaxPollAttempts int
	// Wait after the surface reports ready, so initialization does not race
	// the surface's own layout finalization.
	SettleDelay time.Duration
	// Wait before the post-ready resize correction.
	ResizeDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 200 * time.Millisecond
	}
	if c.MaxPollAttempts <= 0 {
		c.MaxPollAttempts = 30
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = 300 * time.Millisecond
	}
	if c.ResizeDelay <= 0 {
		c.ResizeDelay = 200 * time.Millisecond
	}
	return c
}

// One tracking session, keyed by the selected order's id.
type mapSession struct {
	orderID  int
	state    State
	attempts int
	reason   error
	cancel   context.CancelFunc
	render   ports.RenderSession
}

// Read-only view of the active session for the host to render.
type Snapshot struct {
	OrderID  int
	State    State
	Attempts int
	Reason   string
}

// Manager owns the lifecycle of at most one live map session.
//
// Selecting an order starts a session (surface polling, then marker
// resolution and rendering); selecting a different order or closing the
// tracking view cancels all in-flight work before anything new starts.
// A callback that outlives its session re-checks session identity under the
// lock before mutating shared state, so stale timers are no-ops.
type Manager struct {
	orders   ports.OrderRepository
	resolver *services.Resolver
	surfaces ports.SurfaceProvider
	renderer ports.Renderer
	cfg      Config

	mu      sync.Mutex
	current *mapSession
}

func NewManager(
	orders ports.OrderRepository,
	resolver *services.Resolver,
	surfaces ports.SurfaceProvider,
	renderer ports.Renderer,
	cfg Config,
) *Manager {
	return &Manager{
		orders:   orders,
		resolver: resolver,
		surfaces: surfaces,
		renderer: renderer,
		cfg:      cfg.withDefaults(),
	}
}

// StartTracking begins a map session for the given order.
//
// Initialization is single-flight per order id: a session already polling,
// initializing, or ready for the same order ignores the duplicate request
// (re-renders of the hosting view must not fork the lifecycle). Any other
// live session is torn down first.
func (m *Manager) StartTracking(orderID int) {
	m.mu.Lock()

	if s := m.current; s != nil && s.orderID == orderID {
		switch s.state {
		case StatePolling, StateInitializing, StateReady:
			m.mu.Unlock()
			log.Printf("map session start ignored order_id=%d state=%s", orderID, s.state)
			return
		}
	}

	m.teardownLocked()

	ctx, cancel := context.WithCancel(context.Background())
	sess := &mapSession{orderID: orderID, state: StatePolling, cancel: cancel}
	m.current = sess
	m.mu.Unlock()

	log.Printf("map session start order_id=%d", orderID)
	go m.run(ctx, sess)
}

// StopTracking tears the active session down unconditionally: cancel every
// pending wait, dispose the live rendering session, return to Idle.
// Reachable from every state, including mid-poll and mid-initialize.
func (m *Manager) StopTracking() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
}

// Snapshot returns the current session state for the host view.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return Snapshot{State: StateIdle}
	}

	snap := Snapshot{
		OrderID:  m.current.orderID,
		State:    m.current.state,
		Attempts: m.current.attempts,
	}
	if m.current.reason != nil {
		snap.Reason = m.current.reason.Error()
	}
	return snap
}

// Caller must hold m.mu.
func (m *Manager) teardownLocked() {
	s := m.current
	if s == nil {
		return
	}

	s.cancel()
	if s.render != nil {
		s.render.Dispose()
	}
	m.current = nil
	log.Printf("map session teardown order_id=%d state=%s", s.orderID, s.state)
}

// run drives one session from Polling to Ready or Error.
// Every step re-checks that sess is still current; after a teardown the
// remaining steps fall through without touching shared state.
func (m *Manager) run(ctx context.Context, sess *mapSession) {
	surface, err := m.pollSurface(ctx, sess)
	if err != nil {
		if ctx.Err() == nil {
			m.fail(sess, ErrSurfaceTimeout)
		}
		return
	}

	// The surface just reported non-zero size; give its layout a moment to
	// finalize before binding a rendering session to it.
	if err := sleep(ctx, m.cfg.SettleDelay); err != nil {
		return
	}

	if !m.transition(sess, StateInitializing) {
		return
	}

	order, err := m.orders.GetOrder(ctx, sess.orderID)
	if err != nil {
		log.Printf("map session load order failed order_id=%d err=%v", sess.orderID, err)
		m.fail(sess, ErrNoLocationData)
		return
	}

	markers, err := services.BuildMarkerSet(ctx, order, m.resolver)
	if err != nil {
		log.Printf("map session build markers failed order_id=%d err=%v", sess.orderID, err)
		m.fail(sess, ErrNoLocationData)
		return
	}
	if len(markers) == 0 {
		m.fail(sess, ErrNoLocationData)
		return
	}

	if !m.stillCurrent(sess) {
		return
	}

	render, err := m.renderer.CreateSession(surface)
	if err != nil {
		log.Printf("map session create render failed order_id=%d err=%v", sess.orderID, err)
		m.fail(sess, ErrSurfaceTimeout)
		return
	}

	// Attach the render session under the lock so teardown can dispose it.
	// If the session was replaced while the render session was being built,
	// release it immediately instead.
	m.mu.Lock()
	if m.current != sess {
		m.mu.Unlock()
		render.Dispose()
		return
	}
	sess.render = render
	m.mu.Unlock()

	if err := m.paint(render, markers); err != nil {
		log.Printf("map session render failed order_id=%d err=%v", sess.orderID, err)
		m.fail(sess, ErrSurfaceTimeout)
		return
	}

	if !m.transition(sess, StateReady) {
		return
	}
	log.Printf("map session ready order_id=%d markers=%d", sess.orderID, len(markers))

	// Deferred resize compensates for any residual layout shift after the
	// overlay settles. Guarded like every other late callback.
	go func() {
		if sleep(ctx, m.cfg.ResizeDelay) != nil {
			return
		}
		if m.stillCurrent(sess) {
			if err := render.Resize(); err != nil {
				log.Printf("map session resize failed order_id=%d err=%v", sess.orderID, err)
			}
		}
	}()
}

// pollSurface waits for the rendering surface to exist with non-zero size.
// A mounted but zero-size surface means the hosting overlay has not finished
// its entrance transition yet.
func (m *Manager) pollSurface(ctx context.Context, sess *mapSession) (ports.SurfaceState, error) {
	var surface ports.SurfaceState

	onAttempt := func() {
		m.mu.Lock()
		if m.current == sess {
			sess.attempts++
		}
		m.mu.Unlock()
	}

	err := AwaitReady(ctx, m.cfg.PollInterval, m.cfg.MaxPollAttempts, onAttempt, func(ctx context.Context) bool {
		s, ok := m.surfaces.Probe(ctx)
		if !ok || !s.Ready() {
			return false
		}
		surface = s
		return true
	})
	if err != nil {
		return ports.SurfaceState{}, err
	}

	return surface, nil
}

// paint pushes one marker set through the rendering adapter: plot, fit the
// viewport, and draw a route between the customer marker and the first
// seller marker when both resolved.
func (m *Manager) paint(render ports.RenderSession, markers domain.MarkerSet) error {
	if err := render.Plot(markers); err != nil {
		return err
	}
	if err := render.FitView(markers); err != nil {
		return err
	}

	customer := markers.Customer()
	seller := markers.FirstSeller()
	if customer != nil && seller != nil {
		if err := render.DrawRoute(customer.Coordinate, seller.Coordinate); err != nil {
			return err
		}
	}

	return nil
}

// transition moves sess to the given state unless it is no longer current.
func (m *Manager) transition(sess *mapSession, to State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != sess {
		return false
	}
	sess.state = to
	return true
}

// fail marks sess as errored with a user-facing reason, unless replaced.
func (m *Manager) fail(sess *mapSession, reason error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != sess {
		return
	}
	sess.state = StateError
	sess.reason = reason
	log.Printf("map session error order_id=%d reason=%v attempts=%d", sess.orderID, reason, sess.attempts)
}

func (m *Manager) stillCurrent(sess *mapSession) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current == sess
}

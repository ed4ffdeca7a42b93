package scene

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// LoadedFunc is called after every completed scene load.
type LoadedFunc func(ref Ref, mode LoadMode)

// FailedFunc is called when a queued load could not be completed. The
// active scene is unchanged.
type FailedFunc func(ref Ref, mode LoadMode, err error)

// Subscription pairs a registration with its release.
type Subscription struct {
	m  *Manager
	id int
}

// Close deregisters the callback. Calling it more than once is harmless.
func (s *Subscription) Close() {
	if s == nil || s.m == nil {
		return
	}
	s.m.unsubscribe(s.id)
	s.m = nil
}

type subscriber struct {
	id     int
	loaded LoadedFunc
	failed FailedFunc
}

type loadRequest struct {
	ref  Ref
	mode LoadMode
}

// Manager is the scene-load pipeline. A queued load is completed by the
// following Update, the way the game loop owns level IO and consumes one
// change request per frame. Only one load may be queued at a time, so every
// accepted request produces exactly one notification.
type Manager struct {
	catalog *Catalog
	active  Ref
	pending *loadRequest

	subs   []subscriber
	nextID int

	// OnLoad performs the actual content swap. Optional.
	OnLoad func(ref Ref, mode LoadMode) error

	logger *slog.Logger
}

// NewManager creates a pipeline whose active scene is initial.
func NewManager(catalog *Catalog, initial Ref, logger *slog.Logger) (*Manager, error) {
	if catalog.PathByIndex(initial) == "" {
		return nil, fmt.Errorf("scene: initial scene %s: %w", initial, ErrUnknownScene)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{catalog: catalog, active: initial, logger: logger}, nil
}

func (m *Manager) Catalog() *Catalog {
	if m == nil {
		return nil
	}
	return m.catalog
}

func (m *Manager) Active() Ref {
	if m == nil {
		return InvalidRef
	}
	return m.active
}

func (m *Manager) Count() int {
	if m == nil {
		return 0
	}
	return m.catalog.Count()
}

func (m *Manager) PathByIndex(ref Ref) string {
	if m == nil {
		return ""
	}
	return m.catalog.PathByIndex(ref)
}

// Pending reports whether a load is waiting for the next Update.
func (m *Manager) Pending() bool {
	return m != nil && m.pending != nil
}

// Load queues ref for loading on the next Update. It returns
// ErrLoadPending while an earlier request has not completed.
func (m *Manager) Load(ref Ref, mode LoadMode) error {
	if m == nil {
		return ErrUnknownScene
	}
	if m.catalog.PathByIndex(ref) == "" {
		return fmt.Errorf("scene: load %s: %w", ref, ErrUnknownScene)
	}
	if m.pending != nil {
		return fmt.Errorf("scene: load %s: %w", ref, ErrLoadPending)
	}
	m.pending = &loadRequest{ref: ref, mode: mode}
	return nil
}

// LoadByName queues the scene with the given name or path.
func (m *Manager) LoadByName(name string, mode LoadMode) error {
	if m == nil {
		return ErrUnknownScene
	}
	ref, ok := m.catalog.IndexByName(name)
	if !ok {
		return fmt.Errorf("scene: load %q: %w", name, ErrUnknownScene)
	}
	return m.Load(ref, mode)
}

// Subscribe registers fn for load notifications.
func (m *Manager) Subscribe(fn LoadedFunc) *Subscription {
	if fn == nil {
		return &Subscription{}
	}
	return m.subscribe(subscriber{loaded: fn})
}

// SubscribeFailures registers fn for loads that were accepted but failed.
func (m *Manager) SubscribeFailures(fn FailedFunc) *Subscription {
	if fn == nil {
		return &Subscription{}
	}
	return m.subscribe(subscriber{failed: fn})
}

func (m *Manager) subscribe(s subscriber) *Subscription {
	if m == nil {
		return &Subscription{}
	}
	m.nextID++
	s.id = m.nextID
	m.subs = append(m.subs, s)
	return &Subscription{m: m, id: s.id}
}

func (m *Manager) unsubscribe(id int) {
	for i, s := range m.subs {
		if s.id == id {
			m.subs = append(m.subs[:i], m.subs[i+1:]...)
			return
		}
	}
}

// Update completes the pending load, if any, then notifies subscribers.
// The elapsed time is unused; it lets the manager run as an engine system.
func (m *Manager) Update(time.Duration) {
	if m == nil || m.pending == nil {
		return
	}
	req := *m.pending
	m.pending = nil

	if m.OnLoad != nil {
		if err := m.OnLoad(req.ref, req.mode); err != nil {
			m.logger.Error("scene load failed", "scene", m.catalog.Name(req.ref), "err", err)
			m.dispatch(func(s subscriber) {
				if s.failed != nil {
					s.failed(req.ref, req.mode, err)
				}
			})
			return
		}
	}
	if req.mode == Single {
		m.active = req.ref
	}
	m.logger.Debug("scene loaded", "scene", m.catalog.Name(req.ref), "index", int(req.ref), "mode", req.mode.String())

	m.dispatch(func(s subscriber) {
		if s.loaded != nil {
			s.loaded(req.ref, req.mode)
		}
	})
}

// dispatch calls fn for every live subscriber. It iterates a copy so
// callbacks may subscribe, close or queue the next load.
func (m *Manager) dispatch(fn func(subscriber)) {
	subs := append([]subscriber(nil), m.subs...)
	for _, s := range subs {
		if m.subscribed(s.id) {
			fn(s)
		}
	}
}

func (m *Manager) subscribed(id int) bool {
	for _, s := range m.subs {
		if s.id == id {
			return true
		}
	}
	return false
}

// Advance loads the scene after the active one, or override by name when set.
func Advance(m *Manager, override string) error {
	if m.Pending() {
		return fmt.Errorf("scene: advance: %w", ErrLoadPending)
	}
	if override = strings.TrimSpace(override); override != "" {
		return m.LoadByName(override, Single)
	}
	next := m.Active() + 1
	if int(next) >= m.Count() {
		return fmt.Errorf("scene: advance from %s: %w", m.Catalog().Name(m.Active()), ErrNoNextScene)
	}
	return m.Load(next, Single)
}

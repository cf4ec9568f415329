package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/username/multicalendar/internal/calendar"
	"go.uber.org/zap"
)

// Manager loads, mutates and saves sessions, serializing access per id.
type Manager struct {
	store    Store
	registry *calendar.Registry
	opts     BuildOptions
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a session manager.
func NewManager(store Store, registry *calendar.Registry, opts BuildOptions, logger *zap.Logger) *Manager {
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return &Manager{
		store:    store,
		registry: registry,
		opts:     opts,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Create builds a new session from state, moves it to today and stores it.
func (m *Manager) Create(ctx context.Context, state *State) (calendar.Navigator, error) {
	unlock := m.lock(state.ID)
	defer unlock()

	nav, err := Build(state, m.registry, m.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build session: %w", err)
	}
	nav.MoveToday()

	if err := m.save(ctx, state.ID, nav); err != nil {
		return nil, err
	}

	m.logger.Info("Session created",
		zap.String("session", state.ID),
		zap.String("kind", string(state.Kind)),
		zap.Int("index", nav.Index()))

	return nav, nil
}

// View runs fn against the rebuilt session without saving.
func (m *Manager) View(ctx context.Context, id string, fn func(calendar.Navigator) error) error {
	unlock := m.lock(id)
	defer unlock()

	nav, err := m.load(ctx, id)
	if err != nil {
		return err
	}
	return fn(nav)
}

// Update runs fn against the rebuilt session and saves the result. When fn
// fails the stored state is left as it was.
func (m *Manager) Update(ctx context.Context, id string, fn func(calendar.Navigator) error) error {
	unlock := m.lock(id)
	defer unlock()

	nav, err := m.load(ctx, id)
	if err != nil {
		return err
	}
	before := nav.Index()

	if err := fn(nav); err != nil {
		m.logger.Warn("Session command failed, state kept",
			zap.String("session", id),
			zap.Error(err))
		return err
	}

	if err := m.save(ctx, id, nav); err != nil {
		return err
	}

	m.logger.Info("Session updated",
		zap.String("session", id),
		zap.Int("from_index", before),
		zap.Int("to_index", nav.Index()))

	return nil
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.logger.Info("Session deleted", zap.String("session", id))
	return nil
}

// List returns the stored session ids.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

func (m *Manager) load(ctx context.Context, id string) (calendar.Navigator, error) {
	state, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	nav, err := Build(state, m.registry, m.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild session %s: %w", id, err)
	}
	return nav, nil
}

func (m *Manager) save(ctx context.Context, id string, nav calendar.Navigator) error {
	state, err := Capture(id, nav)
	if err != nil {
		return err
	}
	state.UpdatedAt = time.Now().UTC()
	if err := m.store.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

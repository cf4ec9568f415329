package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/multicalendar/internal/calendar"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "sessions"), zap.NewNop())
	require.NoError(t, err)
	return NewManager(store, calendar.NewRegistry(), fixedOptions(), zap.NewNop())
}

func TestManager_CreateMovesToToday(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	state := multiState("s")
	state.Index = 0
	nav, err := m.Create(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, 19802, nav.Index())

	err = m.View(ctx, "s", func(nav calendar.Navigator) error {
		assert.Equal(t, calendar.Parts{Year: 1403, Month: 1, Day: 1, Index: 19802}, nav.Parts())
		return nil
	})
	require.NoError(t, err)
}

func TestManager_Update(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	_, err := m.Create(ctx, multiState("s"))
	require.NoError(t, err)

	require.NoError(t, m.Update(ctx, "s", func(nav calendar.Navigator) error {
		return nav.Move(1, calendar.FieldMonth, true)
	}))

	require.NoError(t, m.View(ctx, "s", func(nav calendar.Navigator) error {
		assert.Equal(t, calendar.Parts{Year: 1403, Month: 2, Day: 1, Index: 19833}, nav.Parts())
		return nil
	}))
}

func TestManager_FailedUpdateKeepsState(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	_, err := m.Create(ctx, multiState("s"))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = m.Update(ctx, "s", func(nav calendar.Navigator) error {
		require.NoError(t, nav.Move(100, calendar.FieldDay, false))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = m.Update(ctx, "s", func(nav calendar.Navigator) error {
		return nav.MoveToDate(1403, 12, 31)
	})
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)

	require.NoError(t, m.View(ctx, "s", func(nav calendar.Navigator) error {
		assert.Equal(t, 19802, nav.Index())
		return nil
	}))
}

func TestManager_SelectPersists(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	_, err := m.Create(ctx, multiState("s"))
	require.NoError(t, err)

	require.NoError(t, m.Update(ctx, "s", func(nav calendar.Navigator) error {
		return calendar.Dispatch(nav, "select", "Islamic")
	}))
	require.NoError(t, m.Update(ctx, "s", func(nav calendar.Navigator) error {
		return nav.Move(1, calendar.FieldMonth, true)
	}))

	require.NoError(t, m.View(ctx, "s", func(nav calendar.Navigator) error {
		assert.Equal(t, calendar.Parts{Year: 1445, Month: 10, Day: 1, Index: 19819}, nav.Parts())
		return nil
	}))
}

func TestManager_NotFound(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	err := m.View(ctx, "nope", func(calendar.Navigator) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)
	err = m.Update(ctx, "nope", func(calendar.Navigator) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete(ctx, "nope"), ErrSessionNotFound)
}

func TestManager_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	for _, id := range []string{"x", "y"} {
		_, err := m.Create(ctx, multiState(id))
		require.NoError(t, err)
	}

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ids)

	require.NoError(t, m.Delete(ctx, "x"))
	ids, err = m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, ids)
}

func TestManager_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	_, err := m.Create(ctx, multiState("s"))
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Update(ctx, "s", func(nav calendar.Navigator) error {
				return nav.Move(1, calendar.FieldDay, false)
			})
		}()
	}
	wg.Wait()

	require.NoError(t, m.View(ctx, "s", func(nav calendar.Navigator) error {
		assert.Equal(t, 19802+workers, nav.Index())
		return nil
	}))
}

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/multicalendar/internal/calendar"
	"go.uber.org/zap"
)

func fixedOptions() BuildOptions {
	return BuildOptions{
		Logger:   zap.NewNop(),
		Clock:    func() time.Time { return time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC) },
		Location: time.UTC,
	}
}

func multiState(id string) *State {
	return &State{
		ID:      id,
		Kind:    KindMulti,
		Variant: "Iran",
		Members: []MemberState{
			{Name: "Persian", Formal: true},
			{Name: "Islamic", Formal: true},
			{Name: "Gregorian"},
		},
		Index: 19802,
	}
}

func TestState_Validate(t *testing.T) {
	ws := 9
	tests := []struct {
		name    string
		state   State
		wantErr bool
	}{
		{"multi", *multiState("a"), false},
		{"single", State{ID: "a", Kind: KindSingle, System: "Persian"}, false},
		{"no id", State{Kind: KindSingle, System: "Persian"}, true},
		{"single without system", State{ID: "a", Kind: KindSingle}, true},
		{"multi without members", State{ID: "a", Kind: KindMulti}, true},
		{"unknown kind", State{ID: "a", Kind: "triple"}, true},
		{"bad week start", State{ID: "a", Kind: KindSingle, System: "Persian", WeekStart: &ws}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuild_Multi(t *testing.T) {
	nav, err := Build(multiState("s1"), calendar.NewRegistry(), fixedOptions())
	require.NoError(t, err)

	m, ok := nav.(*calendar.Multi)
	require.True(t, ok)
	assert.Equal(t, "Persian", m.Selected().Name)
	assert.Equal(t, calendar.Parts{Year: 1403, Month: 1, Day: 1, Index: 19802}, m.Parts())
}

func TestBuild_Single(t *testing.T) {
	ws := 2
	state := &State{ID: "s1", Kind: KindSingle, System: "Islamic", Variant: "Iran", Index: 19802, WeekStart: &ws}
	nav, err := Build(state, calendar.NewRegistry(), fixedOptions())
	require.NoError(t, err)

	d, ok := nav.(*calendar.Date)
	require.True(t, ok)
	assert.Equal(t, "Islamic/Iran", d.Name())
	assert.Equal(t, calendar.Parts{Year: 1445, Month: 9, Day: 13, Index: 19802}, d.Parts())
	assert.Equal(t, 2, d.WeekStart())
}

func TestBuild_Errors(t *testing.T) {
	r := calendar.NewRegistry()

	_, err := Build(&State{ID: "x", Kind: KindSingle, System: "Julian"}, r, fixedOptions())
	assert.ErrorIs(t, err, calendar.ErrUnknownCalendarSystem)

	state := multiState("x")
	state.Selected = "Hebrew"
	_, err = Build(state, r, fixedOptions())
	assert.ErrorIs(t, err, calendar.ErrUnknownCalendarSystem)

	state = multiState("x")
	state.Members = append(state.Members, MemberState{Name: "gregorian"})
	_, err = Build(state, r, fixedOptions())
	assert.ErrorIs(t, err, calendar.ErrDuplicateCalendarSystem)
}

func TestCapture_RoundTrip(t *testing.T) {
	r := calendar.NewRegistry()
	nav, err := Build(multiState("s1"), r, fixedOptions())
	require.NoError(t, err)

	require.NoError(t, calendar.Dispatch(nav, "select", "Gregorian"))
	require.NoError(t, nav.Move(40, calendar.FieldDay, false))
	require.NoError(t, nav.SetWeekStart(3))

	state, err := Capture("s1", nav)
	require.NoError(t, err)
	assert.Equal(t, KindMulti, state.Kind)
	assert.Equal(t, "Gregorian", state.Selected)
	assert.Equal(t, 19842, state.Index)
	require.NotNil(t, state.WeekStart)
	assert.Equal(t, 3, *state.WeekStart)
	assert.Equal(t, "Iran", state.Members[0].Variant)

	rebuilt, err := Build(state, r, fixedOptions())
	require.NoError(t, err)
	assert.Equal(t, nav.Parts(), rebuilt.Parts())
	assert.Equal(t, nav.WeekStart(), rebuilt.WeekStart())
	assert.Equal(t, nav.Members(), rebuilt.Members())
}

func TestCapture_Single(t *testing.T) {
	spec, err := calendar.NewRegistry().Lookup("Persian", "2820")
	require.NoError(t, err)
	d := calendar.NewDate(spec)

	state, err := Capture("p", d)
	require.NoError(t, err)
	assert.Equal(t, KindSingle, state.Kind)
	assert.Equal(t, "Persian", state.System)
	assert.Equal(t, "2820", state.Variant)
	assert.Equal(t, 12841, state.Index)
	assert.Nil(t, state.WeekStart)
}

func TestCapture_PinnedWeekStartSurvivesReload(t *testing.T) {
	r := calendar.NewRegistry()
	nav, err := Build(multiState("pin"), r, fixedOptions())
	require.NoError(t, err)

	// Pin Gregorian's own default while Persian is selected, then select
	// Gregorian so the pinned value matches the selected member's default.
	require.NoError(t, nav.SetWeekStart(1))
	require.NoError(t, calendar.Dispatch(nav, "select", "Gregorian"))

	state, err := Capture("pin", nav)
	require.NoError(t, err)
	require.NotNil(t, state.WeekStart)
	assert.Equal(t, 1, *state.WeekStart)

	rebuilt, err := Build(state, r, fixedOptions())
	require.NoError(t, err)
	require.NoError(t, calendar.Dispatch(rebuilt, "select", "Persian"))
	require.NoError(t, calendar.Dispatch(nav, "select", "Persian"))
	assert.Equal(t, 1, nav.WeekStart())
	assert.Equal(t, nav.WeekStart(), rebuilt.WeekStart())
}

func TestCapture_UnpinnedMultiOmitsWeekStart(t *testing.T) {
	nav, err := Build(multiState("free"), calendar.NewRegistry(), fixedOptions())
	require.NoError(t, err)
	require.NoError(t, calendar.Dispatch(nav, "select", "Gregorian"))

	state, err := Capture("free", nav)
	require.NoError(t, err)
	assert.Nil(t, state.WeekStart)
}

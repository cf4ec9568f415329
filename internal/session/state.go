package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/username/multicalendar/internal/calendar"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned when no state is stored under an id.
var ErrSessionNotFound = errors.New("session not found")

// Kind distinguishes single-system sessions from multi-system ones.
type Kind string

const (
	KindSingle Kind = "single"
	KindMulti  Kind = "multi"
)

// MemberState is the static registration of one multi-calendar member.
type MemberState struct {
	Name    string `json:"name" mapstructure:"name"`
	Variant string `json:"variant,omitempty" mapstructure:"variant"`
	Formal  bool   `json:"formal" mapstructure:"formal"`
}

// State is the minimal data needed to reconstruct a session. Everything
// else is derived from Index.
type State struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	System    string        `json:"system,omitempty"`  // single only
	Variant   string        `json:"variant,omitempty"` // single: variant, multi: preferred variation
	Members   []MemberState `json:"members,omitempty"`
	Selected  string        `json:"selected,omitempty"`
	Index     int           `json:"index"`
	WeekStart *int          `json:"week_start,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Validate checks the state shape before it is built or stored.
func (s *State) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("session id is required")
	}
	switch s.Kind {
	case KindSingle:
		if s.System == "" {
			return fmt.Errorf("session %s: system is required", s.ID)
		}
	case KindMulti:
		if len(s.Members) == 0 {
			return fmt.Errorf("session %s: at least one member is required", s.ID)
		}
	default:
		return fmt.Errorf("session %s: unknown kind %q", s.ID, s.Kind)
	}
	if s.WeekStart != nil && (*s.WeekStart < 0 || *s.WeekStart >= calendar.WeekLength) {
		return fmt.Errorf("session %s: %w: week start %d", s.ID, calendar.ErrInvalidWeekday, *s.WeekStart)
	}
	return nil
}

// BuildOptions carries runtime collaborators that are not persisted.
type BuildOptions struct {
	Logger   *zap.Logger
	Clock    calendar.Clock
	Location *time.Location
}

// Build reconstructs the navigator described by s.
func Build(s *State, registry *calendar.Registry, opts BuildOptions) (calendar.Navigator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var nav calendar.Navigator
	switch s.Kind {
	case KindSingle:
		spec, err := registry.Lookup(s.System, s.Variant)
		if err != nil {
			return nil, err
		}
		d := calendar.NewDate(spec)
		d.SetClock(opts.Clock, opts.Location)
		if err := d.MoveTo(s.Index, calendar.FieldIndex); err != nil {
			return nil, err
		}
		nav = d

	case KindMulti:
		members := make([]calendar.MemberConfig, 0, len(s.Members))
		for _, m := range s.Members {
			members = append(members, calendar.MemberConfig{Name: m.Name, Variant: m.Variant, Formal: m.Formal})
		}
		m, err := calendar.NewMulti(registry, s.Variant, members,
			calendar.WithLogger(opts.Logger),
			calendar.WithClock(opts.Clock, opts.Location))
		if err != nil {
			return nil, err
		}
		if err := m.Select(s.Selected); err != nil {
			return nil, err
		}
		if err := m.MoveTo(s.Index, calendar.FieldIndex); err != nil {
			return nil, err
		}
		nav = m
	}

	if s.WeekStart != nil {
		if err := nav.SetWeekStart(*s.WeekStart); err != nil {
			return nil, err
		}
	}
	return nav, nil
}

// Capture records nav's current position into a state with the given id.
func Capture(id string, nav calendar.Navigator) (*State, error) {
	s := &State{ID: id, Index: nav.Index()}

	switch n := nav.(type) {
	case *calendar.Date:
		s.Kind = KindSingle
		s.System = n.Spec().System().String()
		s.Variant = n.Spec().Variant()
		if ws := n.WeekStart(); ws != n.Spec().WeekStart() {
			s.WeekStart = &ws
		}

	case *calendar.Multi:
		s.Kind = KindMulti
		s.Variant = n.Variant()
		for _, mem := range n.MemberList(calendar.Registration) {
			s.Members = append(s.Members, MemberState{Name: mem.Name, Variant: mem.Variant, Formal: mem.Formal})
		}
		if sel := n.Selected(); sel != nil {
			s.Selected = sel.Name
			if ws := n.WeekStart(); n.Pinned() || ws != sel.Date.Spec().WeekStart() {
				s.WeekStart = &ws
			}
		}

	default:
		return nil, fmt.Errorf("cannot capture %T", nav)
	}
	return s, nil
}

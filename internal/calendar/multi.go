package calendar

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/username/multicalendar/pkg/dateutil"
	"go.uber.org/zap"
)

// Member is one named system of a Multi.
type Member struct {
	Name    string
	Variant string
	Formal  bool
	Date    *Date
}

// Order selects the member ordering of fan-out operations.
type Order int

const (
	// SelectedFirst puts the selected member first, the rest in registration order.
	SelectedFirst Order = iota
	// Registration keeps the order members were added in.
	Registration
)

// Multi keeps several calendar systems on one shared absolute day index.
// Navigation is applied to the selected member and then propagated.
type Multi struct {
	registry *Registry
	variant  string
	logger   *zap.Logger

	members  []*Member
	byName   map[string]*Member
	selected *Member
	view     []*Member // selected first

	index     int
	weekday   int
	weekStart int
	weekend   []int
	pinned    bool // week start and weekend set explicitly

	stack    PositionStack
	clock    Clock
	location *time.Location
}

// MemberConfig describes one member to add at construction.
type MemberConfig struct {
	Name    string
	Variant string
	Formal  bool
}

// MultiOption configures a Multi.
type MultiOption func(*Multi)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) MultiOption {
	return func(m *Multi) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock sets the time source and location used by MoveToday.
func WithClock(clock Clock, loc *time.Location) MultiOption {
	return func(m *Multi) {
		if clock != nil {
			m.clock = clock
		}
		if loc != nil {
			m.location = loc
		}
	}
}

// NewMulti builds a Multi from members in order, preferring variant for
// members that name none, selects the first member and synchronizes.
func NewMulti(registry *Registry, variant string, members []MemberConfig, opts ...MultiOption) (*Multi, error) {
	m := &Multi{
		registry: registry,
		variant:  variant,
		logger:   zap.NewNop(),
		byName:   make(map[string]*Member),
		clock:    time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, mc := range members {
		if err := m.addSystem(mc.Name, mc.Variant, mc.Formal, true); err != nil {
			return nil, err
		}
	}
	if len(m.members) > 0 {
		if err := m.Select(""); err != nil {
			return nil, err
		}
		m.synch()
	}
	return m, nil
}

// AddSystem registers a new member and resynchronizes.
func (m *Multi) AddSystem(name, variant string, formal bool) error {
	return m.addSystem(name, variant, formal, false)
}

func (m *Multi) addSystem(name, variant string, formal, fast bool) error {
	key := strings.ToLower(name)
	if _, ok := m.byName[key]; ok {
		return fmt.Errorf("%w: member %q", ErrDuplicateCalendarSystem, name)
	}

	spec, err := m.resolve(name, variant)
	if err != nil {
		return err
	}

	d := NewDate(spec)
	d.SetClock(m.clock, m.location)
	member := &Member{Name: spec.System().String(), Variant: spec.Variant(), Formal: formal, Date: d}
	m.members = append(m.members, member)
	m.byName[key] = member

	m.logger.Debug("Calendar system added",
		zap.String("system", spec.Name()),
		zap.Bool("formal", formal))

	if !fast {
		if err := m.Select(""); err != nil {
			return err
		}
		m.synch()
	}
	return nil
}

// resolve picks the spec for a member. An explicit variant must exist; an
// empty one takes the preferred variant when the system has it.
func (m *Multi) resolve(name, variant string) (*Spec, error) {
	if variant != "" {
		return m.registry.Lookup(name, variant)
	}
	sys, err := ParseSystem(name)
	if err != nil {
		return nil, err
	}
	if m.variant != "" && m.registry.Has(sys, m.variant) {
		return m.registry.Lookup(name, m.variant)
	}
	return m.registry.Lookup(name, "")
}

// Select makes the named member drive navigation. An empty name keeps the
// current selection, or picks the first member when none is selected yet.
func (m *Multi) Select(name string) error {
	var target *Member
	switch {
	case name != "":
		t, ok := m.byName[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("%w: member %q", ErrUnknownCalendarSystem, name)
		}
		target = t
	case m.selected != nil:
		target = m.selected
	case len(m.members) > 0:
		target = m.members[0]
	default:
		return fmt.Errorf("%w: no members", ErrUnknownCalendarSystem)
	}

	m.selected = target
	m.view = make([]*Member, 0, len(m.members))
	m.view = append(m.view, target)
	for _, mem := range m.members {
		if mem != target {
			m.view = append(m.view, mem)
		}
	}

	if !m.pinned {
		m.weekStart = target.Date.WeekStart()
		m.weekend = target.Date.Spec().Weekend()
	}

	m.logger.Debug("Calendar system selected", zap.String("system", target.Name))
	return nil
}

// Selected returns the selected member, or nil for an empty Multi.
func (m *Multi) Selected() *Member { return m.selected }

// Member returns the named member.
func (m *Multi) Member(name string) (*Member, bool) {
	mem, ok := m.byName[strings.ToLower(name)]
	return mem, ok
}

// MemberList returns the members in the given order.
func (m *Multi) MemberList(order Order) []*Member {
	if order == SelectedFirst {
		return slices.Clone(m.view)
	}
	return slices.Clone(m.members)
}

// Variant returns the preferred variation.
func (m *Multi) Variant() string { return m.variant }

// synch copies the selected member's index to every other member.
func (m *Multi) synch() {
	if m.selected == nil {
		return
	}
	m.index = m.selected.Date.Index()
	for _, mem := range m.members {
		mem.Date.MoveDays(m.index - mem.Date.Index())
	}
	m.weekday = weekdayOf(m.index)
}

func (m *Multi) active() (*Date, error) {
	if m.selected == nil {
		return nil, fmt.Errorf("%w: no members", ErrUnknownCalendarSystem)
	}
	return m.selected.Date, nil
}

// Parts returns the selected member's date at the shared index.
func (m *Multi) Parts() Parts {
	if m.selected == nil {
		return Parts{Index: m.index}
	}
	return m.selected.Date.Parts()
}

func (m *Multi) Index() int     { return m.index }
func (m *Multi) Weekday() int   { return m.weekday }
func (m *Multi) WeekStart() int { return m.weekStart }

// Weekend returns the weekend set used for the combined view.
func (m *Multi) Weekend() []int { return slices.Clone(m.weekend) }

// Pinned reports whether the week start or weekend was set explicitly and
// no longer follows the selected member.
func (m *Multi) Pinned() bool { return m.pinned }

// SetWeekStart pins the first weekday of the combined view.
func (m *Multi) SetWeekStart(weekday int) error {
	if weekday < 0 || weekday >= WeekLength {
		return fmt.Errorf("%w: %d", ErrInvalidWeekday, weekday)
	}
	m.weekStart = weekday
	m.pinned = true
	return nil
}

// SetWeekend pins the weekend set of the combined view.
func (m *Multi) SetWeekend(days []int) error {
	for _, w := range days {
		if w < 0 || w >= WeekLength {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, w)
		}
	}
	m.weekend = slices.Clone(days)
	m.pinned = true
	return nil
}

func (m *Multi) IsWeekend() bool {
	return slices.Contains(m.weekend, m.weekday)
}

// IsOtherHoliday reports whether any formal member has a holiday today.
func (m *Multi) IsOtherHoliday() bool {
	for _, mem := range m.members {
		if mem.Formal && mem.Date.IsOtherHoliday() {
			return true
		}
	}
	return false
}

func (m *Multi) IsHoliday() bool {
	return m.IsWeekend() || m.IsOtherHoliday()
}

func (m *Multi) IsInactive() bool { return false }

// Annotations concatenates member annotations in registration order.
func (m *Multi) Annotations() []string {
	var out []string
	for _, notes := range Collect(m, Registration, (*Date).Annotations) {
		out = append(out, notes...)
	}
	return out
}

// Move moves the selected member and propagates the new index.
func (m *Multi) Move(n int, field Field, minimal bool) error {
	d, err := m.active()
	if err != nil {
		return err
	}
	if err := d.Move(n, field, minimal); err != nil {
		return err
	}
	m.synch()
	return nil
}

// MoveTo moves until the selected member's field equals n.
func (m *Multi) MoveTo(n int, field Field) error {
	d, err := m.active()
	if err != nil {
		return err
	}
	if err := d.MoveTo(n, field); err != nil {
		return err
	}
	m.synch()
	return nil
}

// MoveToDate moves to a date of the selected member's system.
func (m *Multi) MoveToDate(year, month, day int) error {
	d, err := m.active()
	if err != nil {
		return err
	}
	if err := d.MoveToDate(year, month, day); err != nil {
		return err
	}
	m.synch()
	return nil
}

// Today returns the index of the current real-world day.
func (m *Multi) Today() int {
	return dateutil.DayIndex(m.clock().In(m.location))
}

// MoveToday moves every member to the current real-world day. An empty
// Multi has nothing to move and only logs.
func (m *Multi) MoveToday() {
	if m.selected == nil {
		m.logger.Warn("Cannot move to today", zap.Error(fmt.Errorf("%w: no members", ErrUnknownCalendarSystem)))
		return
	}
	d := m.selected.Date
	d.MoveDays(m.Today() - d.Index())
	m.synch()
}

// Save pushes the shared index.
func (m *Multi) Save() {
	m.stack.Push(m.index)
}

// Restore pops the last saved index and moves every member back to it.
func (m *Multi) Restore() error {
	i, err := m.stack.Pop()
	if err != nil {
		return err
	}
	return m.MoveTo(i, FieldIndex)
}

// Active returns the selected member's date.
func (m *Multi) Active() *Date {
	if m.selected == nil {
		return nil
	}
	return m.selected.Date
}

// Members returns every member's date, selected first.
func (m *Multi) Members() []NamedDate {
	out := make([]NamedDate, 0, len(m.view))
	for _, mem := range m.view {
		out = append(out, NamedDate{Name: mem.Name, Spec: mem.Date.Spec(), Parts: mem.Date.Parts()})
	}
	return out
}

// Collect applies fn to every member's date in the given order.
func Collect[T any](m *Multi, order Order, fn func(*Date) T) []T {
	members := m.MemberList(order)
	out := make([]T, 0, len(members))
	for _, mem := range members {
		out = append(out, fn(mem.Date))
	}
	return out
}

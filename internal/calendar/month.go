package calendar

import "fmt"

// MonthOptions controls month layout.
type MonthOptions struct {
	// FitRows ends the grid after the last week containing the month;
	// otherwise every month gets the same number of rows.
	FitRows bool
}

// DayCell is one day of a month grid.
type DayCell struct {
	Index        int
	Weekday      int
	Dates        []NamedDate // selected member first
	Today        bool
	Selected     bool
	Outside      bool // belongs to a neighbouring month
	Inactive     bool
	Weekend      bool
	Holiday      bool
	OtherHoliday bool
	Annotations  []string
}

// MonthView is the grid of the active member's current month padded to whole
// weeks.
type MonthView struct {
	System    string
	Year      int
	Month     int
	MonthName string
	WeekStart int
	Weekdays  []int // column order
	Weeks     [][]DayCell
}

// NewMonthView lays out the month containing nav's position. nav is left
// where it was.
func NewMonthView(nav Navigator, opts MonthOptions) (*MonthView, error) {
	active := nav.Active()
	if active == nil {
		return nil, fmt.Errorf("%w: no active calendar", ErrUnknownCalendarSystem)
	}

	selected := nav.Parts()
	today := nav.Today()
	weekStart := nav.WeekStart()

	active.Save()
	active.MoveDays(1 - active.Day())
	monthLength := active.MonthLength()
	monthStart := active.Index()
	// Start one to seven days before the month, on a week start.
	active.MoveDays(mod(weekStart-active.Weekday(), WeekLength) - WeekLength)
	first := active.Index()
	if err := active.Restore(); err != nil {
		return nil, err
	}

	var last int
	if opts.FitRows {
		last = first + (monthStart-first+monthLength+WeekLength)/WeekLength*WeekLength
	} else {
		last = first + (active.Spec().MaxMonthLength()+2*WeekLength)/WeekLength*WeekLength
	}

	view := &MonthView{
		System:    active.Spec().Name(),
		Year:      selected.Year,
		Month:     selected.Month,
		MonthName: active.Spec().MonthName(selected.Month),
		WeekStart: weekStart,
	}
	for i := 0; i < WeekLength; i++ {
		view.Weekdays = append(view.Weekdays, (weekStart+i)%WeekLength)
	}

	nav.Save()
	if err := nav.MoveTo(first, FieldIndex); err != nil {
		_ = nav.Restore()
		return nil, err
	}

	var week []DayCell
	for nav.Index() < last {
		cur := nav.Active()
		cell := DayCell{
			Index:        nav.Index(),
			Weekday:      nav.Weekday(),
			Dates:        nav.Members(),
			Today:        nav.Index() == today,
			Selected:     nav.Index() == selected.Index,
			Inactive:     nav.IsInactive(),
			Weekend:      nav.IsWeekend(),
			Holiday:      nav.IsHoliday(),
			OtherHoliday: nav.IsOtherHoliday(),
			Annotations:  nav.Annotations(),
		}
		cell.Outside = !cell.Selected && (cur.Month() != selected.Month || cur.Year() != selected.Year)

		week = append(week, cell)
		if len(week) == WeekLength {
			view.Weeks = append(view.Weeks, week)
			week = nil
		}
		if err := nav.Move(1, FieldDay, false); err != nil {
			_ = nav.Restore()
			return nil, err
		}
	}
	if len(week) > 0 {
		view.Weeks = append(view.Weeks, week)
	}

	if err := nav.Restore(); err != nil {
		return nil, err
	}
	return view, nil
}

// MonthSpan lists the months and years of one member covered by the
// selected member's current month.
type MonthSpan struct {
	Name   string
	Spec   *Spec
	Months []RangeEntry
	Years  []RangeEntry
}

// MonthSpans returns a span per member, selected first.
func (m *Multi) MonthSpans() ([]MonthSpan, error) {
	c, err := m.active()
	if err != nil {
		return nil, err
	}

	c.Save()
	c.MoveDays(1 - c.Day())
	i1 := c.Index()
	c.MoveDays(c.MonthLength() - 1)
	i2 := c.Index()
	if err := c.Restore(); err != nil {
		return nil, err
	}

	spans := make([]MonthSpan, 0, len(m.view))
	for _, mem := range m.view {
		months, err := mem.Date.Range(FieldMonth, i1, i2)
		if err != nil {
			return nil, err
		}
		years, err := mem.Date.Range(FieldYear, i1, i2)
		if err != nil {
			return nil, err
		}
		spans = append(spans, MonthSpan{Name: mem.Name, Spec: mem.Date.Spec(), Months: months, Years: years})
	}
	return spans, nil
}

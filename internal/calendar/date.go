package calendar

import (
	"fmt"
	"slices"
	"time"

	"github.com/username/multicalendar/pkg/dateutil"
)

// Parts is a decomposed date together with its absolute day index.
type Parts struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
	Index int `json:"index"`
}

func (p Parts) String() string {
	return fmt.Sprintf("%d-%02d-%02d", p.Year, p.Month, p.Day)
}

// Clock returns the current instant. Tests replace it to pin "today".
type Clock func() time.Time

// Date is a mutable date under one spec. The decomposed fields are only
// changed by moves, which keep them the unique decomposition of the index.
type Date struct {
	spec *Spec

	index   int
	year    int
	month   int
	day     int
	weekday int

	weekStart int
	depth     int // nesting of move calls; weekday is derived when it drops to 0
	stack     PositionStack

	clock    Clock
	location *time.Location
}

// NewDate returns a date positioned at the spec's anchor.
func NewDate(spec *Spec) *Date {
	a := spec.Anchor()
	d := &Date{
		spec:      spec,
		index:     a.Index,
		year:      a.Year,
		month:     a.Month,
		day:       a.Day,
		weekStart: spec.WeekStart(),
		clock:     time.Now,
		location:  time.Local,
	}
	d.synch()
	return d
}

func weekdayOf(index int) int {
	return mod(index+5, WeekLength)
}

func (d *Date) synch() {
	if d.month < 1 || d.month > d.spec.MonthCount() {
		d.violate("month out of range")
	}
	if d.day < 1 || d.day > d.spec.MonthLength(d.year, d.month) {
		d.violate("day out of range")
	}
	d.weekday = weekdayOf(d.index)
}

func (d *Date) violate(reason string) {
	panic(&InvariantViolationError{
		System: d.spec.Name(),
		Index:  d.index,
		Year:   d.year,
		Month:  d.month,
		Day:    d.day,
		Reason: reason,
	})
}

func (d *Date) begin() { d.depth++ }

func (d *Date) end() {
	d.depth--
	if d.depth == 0 {
		d.synch()
	}
}

// Spec returns the rule table the date is computed under.
func (d *Date) Spec() *Spec { return d.spec }

// Name returns the spec name.
func (d *Date) Name() string { return d.spec.Name() }

// Parts returns (year, month, day, index).
func (d *Date) Parts() Parts {
	return Parts{Year: d.year, Month: d.month, Day: d.day, Index: d.index}
}

func (d *Date) Index() int   { return d.index }
func (d *Date) Year() int    { return d.year }
func (d *Date) Month() int   { return d.month }
func (d *Date) Day() int     { return d.day }
func (d *Date) Weekday() int { return d.weekday }

// Field returns the current value of f.
func (d *Date) Field(f Field) (int, error) {
	switch f {
	case FieldIndex:
		return d.index, nil
	case FieldWeekday:
		return d.weekday, nil
	case FieldDay:
		return d.day, nil
	case FieldMonth:
		return d.month, nil
	case FieldYear:
		return d.year, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidUnit, f)
}

// MonthLength returns the length of the current month.
func (d *Date) MonthLength() int {
	return d.spec.MonthLength(d.year, d.month)
}

// YearLength returns the length of the current year.
func (d *Date) YearLength() int {
	return d.spec.YearLength(d.year)
}

// IsLeapYear reports whether the current year is a leap year.
func (d *Date) IsLeapYear() bool {
	return d.spec.IsLeapYear(d.year)
}

func (d *Date) WeekStart() int { return d.weekStart }

// SetWeekStart changes the first day of the week (0 = Saturday).
func (d *Date) SetWeekStart(weekday int) error {
	if weekday < 0 || weekday >= WeekLength {
		return fmt.Errorf("%w: %d", ErrInvalidWeekday, weekday)
	}
	d.weekStart = weekday
	return nil
}

// SetClock replaces the time source and location used by MoveToday.
func (d *Date) SetClock(clock Clock, loc *time.Location) {
	if clock != nil {
		d.clock = clock
	}
	if loc != nil {
		d.location = loc
	}
}

func (d *Date) IsWeekend() bool {
	return slices.Contains(d.spec.weekend, d.weekday)
}

func (d *Date) IsOtherHoliday() bool {
	return d.spec.IsHoliday(d.year, d.month, d.day)
}

func (d *Date) IsHoliday() bool {
	return d.IsWeekend() || d.IsOtherHoliday()
}

// IsInactive is a hook for collaborators; a bare date is never inactive.
func (d *Date) IsInactive() bool { return false }

func (d *Date) Annotations() []string {
	return d.spec.Annotations(d.year, d.month, d.day)
}

// Active returns the date driving month layout, which is d itself.
func (d *Date) Active() *Date { return d }

// Members returns the date as a single named entry.
func (d *Date) Members() []NamedDate {
	return []NamedDate{{Name: d.spec.system.String(), Spec: d.spec, Parts: d.Parts()}}
}

// MoveDays moves by exactly n days, walking month boundaries one at a time.
func (d *Date) MoveDays(n int) {
	if n == 0 {
		return
	}
	d.begin()
	defer d.end()

	d.index += n
	for n != 0 {
		if n < 0 {
			if -n < d.day {
				d.day += n
				n = 0
				continue
			}
			n += d.day
			d.month--
			if d.month == 0 {
				d.year--
				d.month = d.spec.MonthCount()
			}
			d.day = d.MonthLength()
		} else {
			left := d.MonthLength() - d.day + 1
			if n < left {
				d.day += n
				n = 0
				continue
			}
			n -= left
			d.month++
			if d.month > d.spec.MonthCount() {
				d.year++
				d.month = 1
			}
			d.day = 1
		}
	}
}

// MoveMonths crosses |n| month boundaries. Unless minimal, the starting
// day of month is restored, clamped to the target month's length; a minimal
// move lands on the first day (n > 0) or last day (n < 0) of the target month.
func (d *Date) MoveMonths(n int, minimal bool) {
	if n == 0 {
		return
	}
	d.begin()
	defer d.end()

	day := d.day
	step := 1
	if n < 0 {
		step = -1
		d.MoveDays(d.MonthLength() - d.day)
	} else {
		d.MoveDays(1 - d.day)
	}

	for i := n * step; i > 0; i-- {
		d.MoveDays(step * d.MonthLength())
	}

	if !minimal {
		d.MoveDays(min(day, d.MonthLength()) - d.day)
	}
}

// MoveYears moves by n years. Unless minimal, month and day of month are kept
// (day clamped); a minimal move lands on the first day of year+n (n > 0) or
// the last day of year+n (n < 0).
func (d *Date) MoveYears(n int, minimal bool) {
	if n == 0 {
		return
	}
	d.begin()
	defer d.end()

	day := d.day
	count := d.spec.MonthCount()

	var months int
	switch {
	case !minimal:
		months = n * count
	case n < 0:
		months = -((-n-1)*count + d.month)
	default:
		months = (n-1)*count + count - d.month + 1
	}
	d.MoveMonths(months, minimal)

	if l := d.MonthLength(); !minimal && d.day != day && d.day < l {
		d.MoveDays(min(day, l) - d.day)
	}
}

var moveTable = map[Unit]func(d *Date, n int, minimal bool){
	UnitDay:   func(d *Date, n int, _ bool) { d.MoveDays(n) },
	UnitMonth: (*Date).MoveMonths,
	UnitYear:  (*Date).MoveYears,
}

// Move moves n steps in the unit of field.
func (d *Date) Move(n int, field Field, minimal bool) error {
	unit, err := field.Unit()
	if err != nil {
		return err
	}
	moveTable[unit](d, n, minimal)
	return nil
}

// MoveTo moves until field equals n.
func (d *Date) MoveTo(n int, field Field) error {
	v, err := d.Field(field)
	if err != nil {
		return err
	}
	return d.Move(n-v, field, false)
}

// MoveToDate moves to (year, month, day) of the date's own system.
func (d *Date) MoveToDate(year, month, day int) error {
	if !d.spec.IsValidDate(year, month, day) {
		return fmt.Errorf("%w: %d-%02d-%02d in %s", ErrInvalidDate, year, month, day, d.spec.Name())
	}
	d.begin()
	defer d.end()

	d.MoveYears(year-d.year, false)
	d.MoveMonths(month-d.month, false)
	d.MoveDays(day - d.day)
	return nil
}

// Today returns the index of the current real-world day.
func (d *Date) Today() int {
	return dateutil.DayIndex(d.clock().In(d.location))
}

// MoveToday moves to the current real-world day.
func (d *Date) MoveToday() {
	d.MoveDays(d.Today() - d.index)
}

// Save pushes the current index.
func (d *Date) Save() {
	d.stack.Push(d.index)
}

// Restore pops the last saved index and moves back to it.
func (d *Date) Restore() error {
	i, err := d.stack.Pop()
	if err != nil {
		return err
	}
	d.MoveDays(i - d.index)
	return nil
}

// SaveDepth returns the number of unmatched saves.
func (d *Date) SaveDepth() int {
	return d.stack.Len()
}

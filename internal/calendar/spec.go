package calendar

import (
	"fmt"
	"strings"
)

// WeekLength is the number of days in a week for every system.
const WeekLength = 7

// System identifies a calendar system family.
type System int

const (
	Gregorian System = iota + 1
	Persian
	Islamic
)

var systemNames = map[System]string{
	Gregorian: "Gregorian",
	Persian:   "Persian",
	Islamic:   "Islamic",
}

func (s System) String() string {
	if name, ok := systemNames[s]; ok {
		return name
	}
	return fmt.Sprintf("System(%d)", int(s))
}

// ParseSystem resolves a system name case-insensitively.
func ParseSystem(name string) (System, error) {
	for s, n := range systemNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCalendarSystem, name)
}

// LeapRule selects the leap-year predicate of a spec.
type LeapRule int

const (
	LeapNone LeapRule = iota
	LeapGregorian
	LeapPersian33
	LeapPersian2820
	LeapIslamicTabular
)

// mod returns a mod b normalized to [0, b).
func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

// IsLeap reports whether year is a leap year under the rule.
func (r LeapRule) IsLeap(year int) bool {
	switch r {
	case LeapGregorian:
		return year%4 == 0 && year%100 != 0 || year%400 == 0
	case LeapPersian33:
		return mod(year+16, 33)*8%33 < 8
	case LeapPersian2820:
		return mod(year-474, 2820)*31%128 < 31
	case LeapIslamicTabular:
		return (mod(year, 30)*11+14)%30 < 11
	}
	return false
}

// Anchor is one verified correspondence between a date and an absolute day index.
type Anchor struct {
	Year  int
	Month int
	Day   int
	Index int
}

// Spec is the immutable rule table of one calendar system variant.
type Spec struct {
	system       System
	variant      string
	monthNames   []string
	monthLengths []int // non-leap lengths, month 1 at position 0
	leapMonth    int
	leap         LeapRule
	weekStart    int
	weekend      []int
	holidays     map[int][]int
	annotations  map[int]map[int][]string
	anchor       Anchor

	yearLength     int
	maxMonthLength int
}

// SpecConfig describes a spec to build with NewSpec.
type SpecConfig struct {
	System       System
	Variant      string
	MonthNames   []string
	MonthLengths []int
	LeapMonth    int
	Leap         LeapRule
	WeekStart    int
	Weekend      []int
	Holidays     map[int][]int
	Annotations  map[int]map[int][]string
	Anchor       Anchor
}

// NewSpec validates cfg and builds an immutable spec. Tables are copied.
func NewSpec(cfg SpecConfig) (*Spec, error) {
	n := len(cfg.MonthLengths)
	if n == 0 {
		return nil, fmt.Errorf("spec %s/%s: no months", cfg.System, cfg.Variant)
	}
	if len(cfg.MonthNames) != 0 && len(cfg.MonthNames) != n {
		return nil, fmt.Errorf("spec %s/%s: %d month names for %d months",
			cfg.System, cfg.Variant, len(cfg.MonthNames), n)
	}
	if cfg.LeapMonth < 0 || cfg.LeapMonth > n {
		return nil, fmt.Errorf("spec %s/%s: leap month %d out of range", cfg.System, cfg.Variant, cfg.LeapMonth)
	}
	if cfg.WeekStart < 0 || cfg.WeekStart >= WeekLength {
		return nil, fmt.Errorf("spec %s/%s: week start %d out of range", cfg.System, cfg.Variant, cfg.WeekStart)
	}

	s := &Spec{
		system:       cfg.System,
		variant:      cfg.Variant,
		monthNames:   append([]string(nil), cfg.MonthNames...),
		monthLengths: append([]int(nil), cfg.MonthLengths...),
		leapMonth:    cfg.LeapMonth,
		leap:         cfg.Leap,
		weekStart:    cfg.WeekStart,
		weekend:      append([]int(nil), cfg.Weekend...),
		holidays:     make(map[int][]int, len(cfg.Holidays)),
		annotations:  make(map[int]map[int][]string, len(cfg.Annotations)),
		anchor:       cfg.Anchor,
	}

	for i, l := range s.monthLengths {
		if l <= 0 {
			return nil, fmt.Errorf("spec %s/%s: month %d has length %d", cfg.System, cfg.Variant, i+1, l)
		}
		s.yearLength += l
		if l > s.maxMonthLength {
			s.maxMonthLength = l
		}
	}
	if s.leapMonth > 0 && s.monthLengths[s.leapMonth-1]+1 > s.maxMonthLength {
		s.maxMonthLength = s.monthLengths[s.leapMonth-1] + 1
	}

	for m, days := range cfg.Holidays {
		s.holidays[m] = append([]int(nil), days...)
	}
	for m, byDay := range cfg.Annotations {
		copied := make(map[int][]string, len(byDay))
		for d, notes := range byDay {
			copied[d] = append([]string(nil), notes...)
		}
		s.annotations[m] = copied
	}

	a := cfg.Anchor
	if a.Month < 1 || a.Month > n || a.Day < 1 || a.Day > s.MonthLength(a.Year, a.Month) {
		return nil, fmt.Errorf("spec %s/%s: anchor %d-%02d-%02d is not a valid date",
			cfg.System, cfg.Variant, a.Year, a.Month, a.Day)
	}

	return s, nil
}

// System returns the calendar system family.
func (s *Spec) System() System { return s.system }

// Variant returns the variant name; empty for the system default.
func (s *Spec) Variant() string { return s.variant }

// Name returns "System" or "System/Variant".
func (s *Spec) Name() string {
	if s.variant == "" {
		return s.system.String()
	}
	return s.system.String() + "/" + s.variant
}

// MonthCount returns the number of months in a year.
func (s *Spec) MonthCount() int { return len(s.monthLengths) }

// MonthName returns the name of month m, or its number when unnamed.
func (s *Spec) MonthName(m int) string {
	if m >= 1 && m <= len(s.monthNames) {
		return s.monthNames[m-1]
	}
	return fmt.Sprintf("%d", m)
}

// LeapMonth returns the month that gains a day in leap years, or 0.
func (s *Spec) LeapMonth() int { return s.leapMonth }

// WeekStart returns the first weekday of the week (0 = Saturday).
func (s *Spec) WeekStart() int { return s.weekStart }

// Weekend returns a copy of the weekend weekday set.
func (s *Spec) Weekend() []int { return append([]int(nil), s.weekend...) }

// Anchor returns the spec's anchor correspondence.
func (s *Spec) Anchor() Anchor { return s.anchor }

// MaxMonthLength returns the longest possible month, leap day included.
func (s *Spec) MaxMonthLength() int { return s.maxMonthLength }

// IsLeapYear reports whether year is a leap year.
func (s *Spec) IsLeapYear(year int) bool {
	return s.leap.IsLeap(year)
}

// MonthLength returns the length of month m in year, leap day included.
func (s *Spec) MonthLength(year, m int) int {
	l := s.monthLengths[m-1]
	if m == s.leapMonth && s.IsLeapYear(year) {
		l++
	}
	return l
}

// YearLength returns the number of days in year.
func (s *Spec) YearLength(year int) int {
	if s.IsLeapYear(year) {
		return s.yearLength + 1
	}
	return s.yearLength
}

// IsValidDate reports whether (year, month, day) exists.
func (s *Spec) IsValidDate(year, month, day int) bool {
	if month < 1 || month > s.MonthCount() {
		return false
	}
	return day >= 1 && day <= s.MonthLength(year, month)
}

// IsHoliday reports whether the given day is in the holiday table. Entries
// past the end of a short month fall on its last day.
func (s *Spec) IsHoliday(year, month, day int) bool {
	last := day == s.MonthLength(year, month)
	for _, d := range s.holidays[month] {
		if d == day || last && d > day {
			return true
		}
	}
	return false
}

// Annotations returns the notes for the given day in table order. Entries past
// the end of a short month are appended on its last day.
func (s *Spec) Annotations(year, month, day int) []string {
	byDay := s.annotations[month]
	if len(byDay) == 0 {
		return nil
	}
	out := append([]string(nil), byDay[day]...)
	if day == s.MonthLength(year, month) {
		for d := day + 1; d <= s.maxMonthLength; d++ {
			out = append(out, byDay[d]...)
		}
	}
	return out
}

// derive returns a copy of s renamed to variant with extra holidays and
// annotations merged in.
func (s *Spec) derive(variant string, holidays map[int][]int, annotations map[int]map[int][]string) (*Spec, error) {
	cfg := SpecConfig{
		System:       s.system,
		Variant:      variant,
		MonthNames:   s.monthNames,
		MonthLengths: s.monthLengths,
		LeapMonth:    s.leapMonth,
		Leap:         s.leap,
		WeekStart:    s.weekStart,
		Weekend:      s.weekend,
		Holidays:     make(map[int][]int),
		Annotations:  make(map[int]map[int][]string),
		Anchor:       s.anchor,
	}
	for m, days := range s.holidays {
		cfg.Holidays[m] = append(cfg.Holidays[m], days...)
	}
	for m, days := range holidays {
		cfg.Holidays[m] = append(cfg.Holidays[m], days...)
	}
	for _, src := range []map[int]map[int][]string{s.annotations, annotations} {
		for m, byDay := range src {
			if cfg.Annotations[m] == nil {
				cfg.Annotations[m] = make(map[int][]string)
			}
			for d, notes := range byDay {
				cfg.Annotations[m][d] = append(cfg.Annotations[m][d], notes...)
			}
		}
	}
	return NewSpec(cfg)
}

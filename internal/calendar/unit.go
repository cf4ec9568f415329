package calendar

import (
	"fmt"
	"strings"
)

// Unit is the step size of a move.
type Unit int

const (
	UnitDay Unit = iota + 1
	UnitMonth
	UnitYear
)

func (u Unit) String() string {
	switch u {
	case UnitDay:
		return "day"
	case UnitMonth:
		return "month"
	case UnitYear:
		return "year"
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Field names a readable component of a date. Each field moves in one unit.
type Field int

const (
	FieldIndex Field = iota + 1
	FieldWeekday
	FieldDay
	FieldMonth
	FieldYear
)

var fieldUnits = map[Field]Unit{
	FieldIndex:   UnitDay,
	FieldWeekday: UnitDay,
	FieldDay:     UnitDay,
	FieldMonth:   UnitMonth,
	FieldYear:    UnitYear,
}

var fieldNames = map[Field]string{
	FieldIndex:   "index",
	FieldWeekday: "weekday",
	FieldDay:     "day",
	FieldMonth:   "month",
	FieldYear:    "year",
}

// Unit returns the unit a field moves in.
func (f Field) Unit() (Unit, error) {
	u, ok := fieldUnits[f]
	if !ok {
		return 0, fmt.Errorf("%w: field %d", ErrInvalidUnit, int(f))
	}
	return u, nil
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ParseField accepts a full field name or its first letter
// ("i", "w", "d", "m", "y").
func ParseField(s string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidUnit)
	}
	for f, name := range fieldNames {
		if key == name || key == name+"s" {
			return f, nil
		}
	}
	if len(key) == 1 {
		switch key[0] {
		case 'i':
			return FieldIndex, nil
		case 'w':
			return FieldWeekday, nil
		case 'd':
			return FieldDay, nil
		case 'm':
			return FieldMonth, nil
		case 'y':
			return FieldYear, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, s)
}

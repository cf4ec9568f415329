package calendar

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Operation is a named navigation command taking one optional parameter.
type Operation func(nav Navigator, param string) error

// Selector is implemented by navigators with selectable members.
type Selector interface {
	Select(name string) error
}

func intParam(op func(Navigator, int) error) Operation {
	return func(nav Navigator, param string) error {
		n, err := strconv.Atoi(strings.TrimSpace(param))
		if err != nil {
			return fmt.Errorf("invalid parameter %q: %w", param, err)
		}
		return op(nav, n)
	}
}

func moveBy(field Field) Operation {
	return intParam(func(nav Navigator, n int) error {
		return nav.Move(n, field, false)
	})
}

var movePattern = regexp.MustCompile(`^([+-]?\d+)\s*([a-zA-Z]*)$`)

// parseMove accepts "N" (days) or "N<unit>", e.g. "-3m" or "2 years".
func parseMove(param string) (int, Field, error) {
	match := movePattern.FindStringSubmatch(strings.TrimSpace(param))
	if match == nil {
		return 0, 0, fmt.Errorf("invalid move %q", param)
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid move %q: %w", param, err)
	}
	if match[2] == "" {
		return n, FieldDay, nil
	}
	field, err := ParseField(match[2])
	if err != nil {
		return 0, 0, err
	}
	return n, field, nil
}

var operations = map[string]Operation{
	"move": func(nav Navigator, param string) error {
		n, field, err := parseMove(param)
		if err != nil {
			return err
		}
		return nav.Move(n, field, false)
	},
	"move_to": intParam(func(nav Navigator, n int) error {
		return nav.MoveTo(n, FieldIndex)
	}),
	"move_days":   moveBy(FieldDay),
	"move_months": moveBy(FieldMonth),
	"move_years":  moveBy(FieldYear),
	"move_today": func(nav Navigator, _ string) error {
		nav.MoveToday()
		return nil
	},
	"save": func(nav Navigator, _ string) error {
		nav.Save()
		return nil
	},
	"restore": func(nav Navigator, _ string) error {
		return nav.Restore()
	},
	"set_week_start": intParam(func(nav Navigator, n int) error {
		return nav.SetWeekStart(n)
	}),
	"select": func(nav Navigator, param string) error {
		s, ok := nav.(Selector)
		if !ok {
			return fmt.Errorf("%w: select on a single calendar", ErrUnknownOperation)
		}
		return s.Select(strings.TrimSpace(param))
	},
}

// Dispatch runs the named operation against nav.
func Dispatch(nav Navigator, op, param string) error {
	fn, ok := operations[strings.ToLower(strings.TrimSpace(op))]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	return fn(nav, param)
}

// Operations lists the dispatchable operation names.
func Operations() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MemberResult is the outcome of a fan-out operation on one member.
type MemberResult struct {
	Member string
	Err    error
}

// ApplyToAll runs the named operation on every member date in order, then
// resynchronizes from the selected member so the shared index stays common.
func (m *Multi) ApplyToAll(order Order, op, param string) ([]MemberResult, error) {
	fn, ok := operations[strings.ToLower(strings.TrimSpace(op))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}

	members := m.MemberList(order)
	results := make([]MemberResult, 0, len(members))
	for _, mem := range members {
		results = append(results, MemberResult{Member: mem.Name, Err: fn(mem.Date, param)})
	}
	m.synch()
	return results, nil
}

package calendar

// NamedDate is one member's view of the shared index.
type NamedDate struct {
	Name  string
	Spec  *Spec
	Parts Parts
}

// Navigator is the read and navigation surface shared by single dates and
// multi-system calendars. Collaborators render through it without knowing
// which one they hold; Active names the member that drives month layout.
type Navigator interface {
	Parts() Parts
	Index() int
	Weekday() int
	WeekStart() int
	SetWeekStart(weekday int) error

	IsWeekend() bool
	IsOtherHoliday() bool
	IsHoliday() bool
	IsInactive() bool
	Annotations() []string

	Move(n int, field Field, minimal bool) error
	MoveTo(n int, field Field) error
	MoveToDate(year, month, day int) error
	MoveToday()
	Today() int
	Save()
	Restore() error

	Active() *Date
	Members() []NamedDate
}

var (
	_ Navigator = (*Date)(nil)
	_ Navigator = (*Multi)(nil)
)

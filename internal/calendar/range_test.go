package calendar

import (
	"testing"
	"time"

	"github.com/username/multicalendar/pkg/dateutil"
)

func gregorianIndex(y int, m time.Month, d int) int {
	return dateutil.DayIndex(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestDate_Range(t *testing.T) {
	i1 := gregorianIndex(2024, 1, 15)
	i2 := gregorianIndex(2024, 4, 10)

	tests := []struct {
		name  string
		start [3]int
		field Field
		want  []RangeEntry
	}{
		{
			name:  "months from inside",
			start: [3]int{2024, 2, 10},
			field: FieldMonth,
			want: []RangeEntry{
				{Index: gregorianIndex(2024, 1, 31), Value: 1},
				{Index: gregorianIndex(2024, 2, 10), Value: 2},
				{Index: gregorianIndex(2024, 3, 1), Value: 3},
				{Index: gregorianIndex(2024, 4, 1), Value: 4},
			},
		},
		{
			name:  "months from after",
			start: [3]int{2024, 6, 1},
			field: FieldMonth,
			want: []RangeEntry{
				{Index: gregorianIndex(2024, 1, 31), Value: 1},
				{Index: gregorianIndex(2024, 2, 29), Value: 2},
				{Index: gregorianIndex(2024, 3, 31), Value: 3},
				{Index: i2, Value: 4},
			},
		},
		{
			name:  "months from before",
			start: [3]int{2023, 11, 5},
			field: FieldMonth,
			want: []RangeEntry{
				{Index: i1, Value: 1},
				{Index: gregorianIndex(2024, 2, 1), Value: 2},
				{Index: gregorianIndex(2024, 3, 1), Value: 3},
				{Index: gregorianIndex(2024, 4, 1), Value: 4},
			},
		},
		{
			name:  "years",
			start: [3]int{2024, 2, 10},
			field: FieldYear,
			want: []RangeEntry{
				{Index: gregorianIndex(2024, 2, 10), Value: 2024},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dateAt(t, "Gregorian", "", tt.start[0], tt.start[1], tt.start[2])
			before := d.Parts()

			got, err := d.Range(tt.field, i1, i2)
			if err != nil {
				t.Fatalf("Range() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Range() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
			if d.Parts() != before {
				t.Errorf("date moved to %s", d.Parts())
			}
			if d.SaveDepth() != 0 {
				t.Errorf("SaveDepth() = %d, want 0", d.SaveDepth())
			}
		})
	}
}

func TestDate_Range_IslamicMonthsOfNowruz(t *testing.T) {
	// Farvardin 1403 spans Ramadan and Shawwal 1445.
	d := NewDate(mustSpec(t, "Islamic", "Iran"))
	if err := d.MoveTo(19802, FieldIndex); err != nil {
		t.Fatalf("MoveTo() error = %v", err)
	}

	got, err := d.Range(FieldMonth, 19802, 19802+30)
	if err != nil {
		t.Fatalf("Range() error = %v", err)
	}
	if len(got) != 2 || got[0].Value != 9 || got[1].Value != 10 {
		t.Errorf("Range() = %v, want Ramadan and Shawwal", got)
	}
	if got[1].Index != 19819 {
		t.Errorf("Shawwal starts at %d, want 19819", got[1].Index)
	}
}

func TestDate_Range_EmptyInterval(t *testing.T) {
	d := dateAt(t, "Gregorian", "", 2024, 2, 10)
	got, err := d.Range(FieldDay, 100, 50)
	if err != nil {
		t.Fatalf("Range() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Range() = %v, want empty", got)
	}
}

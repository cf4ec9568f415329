package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/multicalendar/internal/calendar"
)

// Weekday 0 is Saturday.
var weekdayNames = [calendar.WeekLength]string{
	"Saturday", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday",
}

func printNavigator(w io.Writer, nav calendar.Navigator) {
	fmt.Fprintf(w, "%s, day %d\n", weekdayNames[nav.Weekday()], nav.Index())
	for i, nd := range nav.Members() {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-16s %-11s %d %s %d\n",
			marker, nd.Spec.Name(), nd.Parts, nd.Parts.Day, nd.Spec.MonthName(nd.Parts.Month), nd.Parts.Year)
	}

	var flags []string
	if nav.IsWeekend() {
		flags = append(flags, "weekend")
	}
	if nav.IsOtherHoliday() {
		flags = append(flags, "holiday")
	}
	if len(flags) > 0 {
		fmt.Fprintf(w, "  (%s)\n", strings.Join(flags, ", "))
	}
	for _, note := range nav.Annotations() {
		fmt.Fprintf(w, "  - %s\n", note)
	}
}

func printMonth(w io.Writer, mv *calendar.MonthView) {
	fmt.Fprintf(w, "%s %d  [%s]\n", mv.MonthName, mv.Year, mv.System)
	for _, wd := range mv.Weekdays {
		fmt.Fprintf(w, " %-3s", weekdayNames[wd][:2])
	}
	fmt.Fprintln(w)

	var notes []string
	for _, week := range mv.Weeks {
		for _, cell := range week {
			day := cell.Dates[0].Parts.Day
			switch {
			case cell.Outside:
				fmt.Fprint(w, "  . ")
			case cell.Selected:
				fmt.Fprintf(w, "[%2d]", day)
			case cell.Holiday:
				fmt.Fprintf(w, " %2d*", day)
			default:
				fmt.Fprintf(w, " %2d ", day)
			}
			if !cell.Outside && len(cell.Annotations) > 0 {
				notes = append(notes, fmt.Sprintf("%2d: %s", day, strings.Join(cell.Annotations, "; ")))
			}
		}
		fmt.Fprintln(w)
	}
	for _, note := range notes {
		fmt.Fprintf(w, "  %s\n", note)
	}
}

func printSpans(w io.Writer, spans []calendar.MonthSpan) {
	parts := make([]string, 0, len(spans))
	for _, span := range spans {
		months := make([]string, 0, len(span.Months))
		for _, m := range span.Months {
			months = append(months, span.Spec.MonthName(m.Value))
		}
		years := make([]string, 0, len(span.Years))
		for _, y := range span.Years {
			years = append(years, fmt.Sprint(y.Value))
		}
		parts = append(parts, strings.Join(months, "-")+" "+strings.Join(years, "-"))
	}
	fmt.Fprintln(w, strings.Join(parts, " | "))
}

func printRange(w io.Writer, spec *calendar.Spec, field calendar.Field, entries []calendar.RangeEntry) {
	for _, e := range entries {
		label := fmt.Sprint(e.Value)
		switch field {
		case calendar.FieldMonth:
			label = spec.MonthName(e.Value)
		case calendar.FieldWeekday:
			label = weekdayNames[e.Value]
		}
		fmt.Fprintf(w, "%d\t%s\n", e.Index, label)
	}
}

func printSystems(w io.Writer, specs []*calendar.Spec) {
	for _, spec := range specs {
		weekend := make([]string, 0, len(spec.Weekend()))
		for _, wd := range spec.Weekend() {
			weekend = append(weekend, weekdayNames[wd])
		}
		a := spec.Anchor()
		fmt.Fprintf(w, "%-16s %2d months, week starts %s, weekend %s, %d-%02d-%02d = day %d\n",
			spec.Name(), spec.MonthCount(), weekdayNames[spec.WeekStart()],
			strings.Join(weekend, "+"), a.Year, a.Month, a.Day, a.Index)
	}
}

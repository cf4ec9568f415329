package calendar

// Built-in rule tables. Day index 0 is 1970-01-01 and weekday 0 is Saturday.

var gregorianMonths = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var persianMonths = []string{
	"Farvardin", "Ordibehesht", "Khordad", "Tir", "Mordad", "Shahrivar",
	"Mehr", "Aban", "Azar", "Dey", "Bahman", "Esfand",
}

var islamicMonths = []string{
	"Muharram", "Safar", "Rabi' I", "Rabi' II", "Jumada I", "Jumada II",
	"Rajab", "Sha'ban", "Ramadan", "Shawwal", "Dhu al-Qi'dah", "Dhu al-Hijjah",
}

func gregorianConfig() SpecConfig {
	return SpecConfig{
		System:       Gregorian,
		MonthNames:   gregorianMonths,
		MonthLengths: []int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31},
		LeapMonth:    2,
		Leap:         LeapGregorian,
		WeekStart:    1,
		Weekend:      []int{0, 1},
		Holidays:     map[int][]int{12: {25}},
		Annotations:  map[int]map[int][]string{12: {25: {"Christmas"}}},
		Anchor:       Anchor{Year: 2005, Month: 2, Day: 27, Index: 12841},
	}
}

func persianConfig(variant string, leap LeapRule) SpecConfig {
	return SpecConfig{
		System:       Persian,
		Variant:      variant,
		MonthNames:   persianMonths,
		MonthLengths: []int{31, 31, 31, 31, 31, 31, 30, 30, 30, 30, 30, 29},
		LeapMonth:    12,
		Leap:         leap,
		WeekStart:    0,
		Weekend:      []int{6},
		Anchor:       Anchor{Year: 1383, Month: 12, Day: 9, Index: 12841},
	}
}

func persianIranConfig() SpecConfig {
	cfg := persianConfig("Iran", LeapPersian33)
	cfg.Holidays = map[int][]int{
		1:  {1, 2, 3, 4, 12, 13},
		3:  {14, 15},
		11: {22},
		12: {29},
	}
	cfg.Annotations = map[int]map[int][]string{
		1: {
			1:  {"Nowrooz"},
			2:  {"Nowrooz"},
			3:  {"Nowrooz"},
			4:  {"Nowrooz"},
			12: {"Islamic Republic Day"},
			13: {"Nature Day"},
		},
		3: {
			14: {"Demise of Imam Khomeini"},
			15: {"Revolt of 15 Khordad"},
		},
		11: {22: {"Victory of Revolution of Iran"}},
		12: {29: {"Nationalization of Oil Industry"}},
	}
	return cfg
}

var islamicAnnotations = map[int]map[int][]string{
	1: {
		9:  {"Tasu'a of Imam Hussain"},
		10: {"Ashura of Imam Hussain"},
	},
	2: {
		20: {"Arba'in of Imam Hussain"},
		28: {"Demise of Prophet Muhammad", "Martyrdom of Imam Hassan (Mujtaba)"},
		30: {"Martyrdom of Imam Reza"},
	},
	3: {17: {"Birth of Prophet Muhammad", "Birth of Imam Jafar (Sadegh)"}},
	6: {3: {"Martyrdom of Fatima"}},
	7: {
		13: {"Birth of Imam Ali"},
		27: {"Mission of Prophet Muhammad"},
	},
	8: {15: {"Birth of Imam Mahdi"}},
	9: {21: {"Martyrdom of Imam Ali"}},
	10: {
		1:  {"Eid of Fitr"},
		25: {"Martyrdom of Imam Jafar (Sadegh)"},
	},
	12: {
		10: {"Eid of Adha (Ghurban)"},
		18: {"Eid of Ghadeer"},
	},
}

func islamicConfig() SpecConfig {
	return SpecConfig{
		System:       Islamic,
		MonthNames:   islamicMonths,
		MonthLengths: []int{30, 29, 30, 29, 30, 29, 30, 29, 30, 29, 30, 29},
		LeapMonth:    12,
		Leap:         LeapIslamicTabular,
		WeekStart:    0,
		Weekend:      []int{6},
		Annotations:  islamicAnnotations,
		Anchor:       Anchor{Year: 1429, Month: 8, Day: 4, Index: 14096},
	}
}

// islamicIranConfig follows Iranian sighting practice: adjusted month lengths,
// no leap day, and the anchor shifted by four days.
func islamicIranConfig() SpecConfig {
	cfg := islamicConfig()
	cfg.Variant = "Iran"
	cfg.MonthLengths = []int{30, 30, 29, 29, 30, 29, 30, 29, 29, 30, 30, 29}
	cfg.LeapMonth = 0
	cfg.Leap = LeapNone
	cfg.Anchor.Index = 14100
	cfg.Holidays = map[int][]int{
		1:  {9, 10},
		2:  {20, 28, 30},
		3:  {17},
		6:  {3},
		7:  {13, 27},
		8:  {15},
		9:  {21},
		10: {1, 25},
		12: {10, 18},
	}
	return cfg
}

// builtinSpecs lists every variant known without configuration. The first
// entry per system is its default.
func builtinSpecs() []SpecConfig {
	return []SpecConfig{
		gregorianConfig(),
		persianConfig("", LeapPersian33),
		persianConfig("33", LeapPersian33),
		persianConfig("2820", LeapPersian2820),
		persianIranConfig(),
		islamicConfig(),
		islamicIranConfig(),
	}
}

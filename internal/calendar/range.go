package calendar

// RangeEntry is one key of a range query: the index of the day nearest to the
// starting position that carries Value.
type RangeEntry struct {
	Index int `json:"index"`
	Value int `json:"value"`
}

// Range lists the values field takes over [i1, i2] in ascending index order,
// one entry per distinct unit. The date's position is unchanged afterwards.
func (d *Date) Range(field Field, i1, i2 int) ([]RangeEntry, error) {
	unit, err := field.Unit()
	if err != nil {
		return nil, err
	}
	step := moveTable[unit]

	d.Save()
	defer func() {
		// Save above guarantees a matching entry.
		_ = d.Restore()
	}()

	var past []RangeEntry
	d.MoveDays(min(d.index, i2) - d.index)
	for i1 <= d.index {
		v, _ := d.Field(field)
		past = append(past, RangeEntry{Index: d.index, Value: v})
		step(d, -1, true)
	}

	result := make([]RangeEntry, 0, len(past))
	for i := len(past) - 1; i >= 0; i-- {
		result = append(result, past[i])
	}

	if err := d.Restore(); err != nil {
		return nil, err
	}
	d.Save()

	d.MoveDays(max(d.index, i1) - d.index)
	for d.index <= i2 {
		v, _ := d.Field(field)
		if n := len(result); n == 0 || result[n-1].Index < d.index {
			result = append(result, RangeEntry{Index: d.index, Value: v})
		}
		step(d, 1, true)
	}

	return result, nil
}

package calendar

// PositionStack is a LIFO of saved absolute day indices.
type PositionStack struct {
	items []int
}

// Push saves index.
func (s *PositionStack) Push(index int) {
	s.items = append(s.items, index)
}

// Pop removes and returns the most recently saved index.
func (s *PositionStack) Pop() (int, error) {
	if len(s.items) == 0 {
		return 0, ErrStackUnderflow
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return last, nil
}

// Len returns the nesting depth.
func (s *PositionStack) Len() int {
	return len(s.items)
}

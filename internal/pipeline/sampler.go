package pipeline

// ErrorSampler counts row errors and keeps only the most recent ones, so a
// file full of bad rows does not grow memory.
type ErrorSampler struct {
	limit int
	count int
	ring  []*RowError
	next  int
}

// NewErrorSampler keeps up to limit samples. A limit below one keeps none.
func NewErrorSampler(limit int) *ErrorSampler {
	if limit < 0 {
		limit = 0
	}
	return &ErrorSampler{limit: limit, ring: make([]*RowError, 0, limit)}
}

// Add records one row error.
func (s *ErrorSampler) Add(err *RowError) {
	s.count++
	if s.limit == 0 {
		return
	}
	if len(s.ring) < s.limit {
		s.ring = append(s.ring, err)
		return
	}
	s.ring[s.next] = err
	s.next = (s.next + 1) % s.limit
}

// Count returns how many errors were added in total.
func (s *ErrorSampler) Count() int {
	return s.count
}

// Samples returns the kept errors, oldest first.
func (s *ErrorSampler) Samples() []*RowError {
	out := make([]*RowError, 0, len(s.ring))
	out = append(out, s.ring[s.next:]...)
	out = append(out, s.ring[:s.next]...)
	return out
}

package trim

// Stats counts what happened to processed pairs. Stats of disjoint sets of
// pairs combine with Add in any order.
type Stats struct {
	Pairs        int
	Overlap      int
	InvalidMate0 int
	InvalidMate1 int
	EmptyMate    int
	Accepted     int
	Rejected     int

	// Lengths[i][n] is the number of accepted pairs whose mate i was
	// written with n bases.
	Lengths [2][]int
}

// Add merges o into s.
func (s *Stats) Add(o Stats) {
	s.Pairs += o.Pairs
	s.Overlap += o.Overlap
	s.InvalidMate0 += o.InvalidMate0
	s.InvalidMate1 += o.InvalidMate1
	s.EmptyMate += o.EmptyMate
	s.Accepted += o.Accepted
	s.Rejected += o.Rejected
	for i := range s.Lengths {
		for n, c := range o.Lengths[i] {
			if c != 0 {
				s.addLengths(i, n, c)
			}
		}
	}
}

// AddLength records one written mate i of length n.
func (s *Stats) AddLength(i, n int) {
	s.addLengths(i, n, 1)
}

func (s *Stats) addLengths(i, n, c int) {
	for len(s.Lengths[i]) <= n {
		s.Lengths[i] = append(s.Lengths[i], 0)
	}
	s.Lengths[i][n] += c
}

// Percent returns n as a percentage of all processed pairs.
func (s Stats) Percent(n int) float64 {
	if s.Pairs == 0 {
		return 0
	}
	return 100 * float64(n) / float64(s.Pairs)
}

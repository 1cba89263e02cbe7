package gillespie

// scripted replays fixed draws and counts how many were taken.
type scripted struct {
	units   []float64
	indices []uint64
	bounds  []uint64

	unitCalls  int
	indexCalls int
}

func (s *scripted) UniformUnit() float64 {
	u := 0.0
	if len(s.units) > 0 {
		u = s.units[s.unitCalls%len(s.units)]
	}
	s.unitCalls++
	return u
}

func (s *scripted) UniformIndex(bound uint64) uint64 {
	s.bounds = append(s.bounds, bound)
	i := uint64(0)
	if len(s.indices) > 0 {
		i = s.indices[s.indexCalls%len(s.indices)] % bound
	}
	s.indexCalls++
	return i
}

func (s *scripted) draws() int {
	return s.unitCalls + s.indexCalls
}

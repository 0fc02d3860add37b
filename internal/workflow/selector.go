package workflow

// Selector tracks which facet of the analysis is focused. The zero value
// focuses the chart.
type Selector struct {
	active Facet
}

// Select focuses f. Unknown facets are ignored.
func (s *Selector) Select(f Facet) {
	if !f.Valid() {
		return
	}
	s.active = f
}

// Active returns the focused facet.
func (s *Selector) Active() Facet {
	if s.active == "" {
		return FacetChart
	}
	return s.active
}

// Reset focuses the chart again.
func (s *Selector) Reset() { s.active = FacetChart }

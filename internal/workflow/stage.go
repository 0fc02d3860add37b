package workflow

// Stage is the coarse screen the client is on.
type Stage string

const (
	StageQuery    Stage = "query"
	StagePending  Stage = "pending"
	StageAnalysis Stage = "analysis"
)

func (s Stage) String() string { return string(s) }

// Facet is one of the three presentations of a full analysis.
type Facet string

const (
	FacetChart       Facet = "chart"
	FacetSummary     Facet = "summary"
	FacetSuggestions Facet = "suggestions"
)

var facetOrder = []Facet{FacetChart, FacetSummary, FacetSuggestions}

// Facets lists the facets in tab order.
func Facets() []Facet {
	out := make([]Facet, len(facetOrder))
	copy(out, facetOrder)
	return out
}

// Valid reports whether f is a known facet.
func (f Facet) Valid() bool {
	return f.index() >= 0
}

// Title is the tab label.
func (f Facet) Title() string {
	switch f {
	case FacetChart:
		return "Chart"
	case FacetSummary:
		return "Summary"
	case FacetSuggestions:
		return "Suggestions"
	default:
		return string(f)
	}
}

// Next wraps around to the first facet.
func (f Facet) Next() Facet {
	i := f.index()
	if i < 0 {
		return FacetChart
	}
	return facetOrder[(i+1)%len(facetOrder)]
}

// Prev wraps around to the last facet.
func (f Facet) Prev() Facet {
	i := f.index()
	if i < 0 {
		return FacetChart
	}
	return facetOrder[(i+len(facetOrder)-1)%len(facetOrder)]
}

func (f Facet) index() int {
	for i, v := range facetOrder {
		if v == f {
			return i
		}
	}
	return -1
}

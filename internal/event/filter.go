package event

// TraceAll matches every trace.
const TraceAll = "all"

// Filter restricts the stream by trace lineage and enabled domains before
// it reaches the engine. A zero Filter matches everything.
type Filter struct {
	TraceID string
	Domains map[Domain]bool
}

// Matches reports whether a single event passes the filter.
func (f Filter) Matches(e Event) bool {
	if f.TraceID != "" && f.TraceID != TraceAll && e.TraceID != f.TraceID {
		return false
	}
	if len(f.Domains) == 0 {
		return true // no domain filter = show all
	}
	return f.Domains[e.Domain()]
}

// Apply returns the matching subset, preserving original relative order.
func (f Filter) Apply(events []Event) []Event {
	var out []Event
	for _, e := range events {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

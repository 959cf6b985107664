// Package curation decides what happens to an oracle candidate based on its
// confidence score. Every candidate takes exactly one of three paths: discard,
// human review queue, or automatic merge into the graph.
package curation

// Confidence gates. Below Min a candidate is dropped without a trace; at or
// above Auto it merges without human involvement; in between it waits in the
// review queue.
const (
	ConfidenceMin  = 0.70
	ConfidenceAuto = 0.85
)

type Decision int

const (
	Discard Decision = iota
	Queue
	AutoMerge
)

func (d Decision) String() string {
	switch d {
	case Discard:
		return "discard"
	case Queue:
		return "queue"
	case AutoMerge:
		return "auto_merge"
	default:
		return "unknown"
	}
}

// Router holds the two thresholds. Zero-value construction is invalid; use
// NewRouter or NewRouterWith.
type Router struct {
	min  float64
	auto float64
}

func NewRouter() Router {
	return Router{min: ConfidenceMin, auto: ConfidenceAuto}
}

// NewRouterWith builds a router with explicit thresholds. An unset pair
// (both zero), values outside [0, 1], or an inverted pair fall back to the
// defaults. A zero auto threshold would merge every candidate unseen, so it
// is never honored.
func NewRouterWith(min, auto float64) Router {
	if auto == 0 || min < 0 || auto > 1 || min > auto {
		return NewRouter()
	}
	return Router{min: min, auto: auto}
}

// Route maps a confidence score to a decision. Boundaries are inclusive on
// the accepting side: exactly min queues, exactly auto merges.
func (r Router) Route(confidence float64) Decision {
	switch {
	case confidence >= r.auto:
		return AutoMerge
	case confidence >= r.min:
		return Queue
	default:
		return Discard
	}
}

// RouteClassification routes a positive case classification. Classification
// candidates are never silently dropped: anything under the auto threshold
// goes to review so a human sees every borderline case the feed surfaced.
func (r Router) RouteClassification(confidence float64) Decision {
	if confidence >= r.auto {
		return AutoMerge
	}
	return Queue
}

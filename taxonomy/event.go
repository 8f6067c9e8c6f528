package taxonomy

// Event classifies an internal gene-tree node after reconciliation.
// It is a plain tagged value; the reconciliation result owns the counters.
type Event int

const (
	// EventNone marks a node not yet classified.
	EventNone Event = iota

	// EventSpeciation marks a node where the two lineages diverged together
	// with a species split.
	EventSpeciation

	// EventDuplication marks a node where both child lineages trace back
	// into the same species subtree.
	EventDuplication

	// EventSpeciationOrDuplication marks a node whose classification cannot
	// be uniquely decided at a multifurcating species-tree node.
	EventSpeciationOrDuplication
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventSpeciation:
		return "speciation"
	case EventDuplication:
		return "duplication"
	case EventSpeciationOrDuplication:
		return "speciation_or_duplication"
	}
	return "unknown"
}

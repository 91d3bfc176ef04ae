package resolver

// State is a phase of a single resolution pass.
//
//	Unresolved → Validating → Merging → RegisteringPlugins → Resolved
//
// Any failure moves the pass to the terminal Failed state.
type State int

// Resolution states.
const (
	Unresolved State = iota
	Validating
	Merging
	RegisteringPlugins
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Validating:
		return "validating"
	case Merging:
		return "merging"
	case RegisteringPlugins:
		return "registering-plugins"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == Resolved || s == Failed
}

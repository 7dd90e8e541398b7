package dispatch

// Status classifies a Progress event.
type Status int

const (
	// StatusSent reports successful delivery to one recipient.
	StatusSent Status = iota + 1
	// StatusFailed reports a per-recipient failure (build, address, or send).
	StatusFailed
	// StatusDone is the terminal event; nothing follows it.
	StatusDone
)

// String implements fmt.Stringer for log output.
func (s Status) String() string {
	switch s {
	case StatusSent:
		return "sent"
	case StatusFailed:
		return "failed"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}

// Progress is one event on the dispatch progress stream. Index is the
// recipient's position in the template snapshot (0-based, stable for the
// whole batch). Error carries a human-readable diagnostic for failed events;
// it is opaque text for the operator, not a machine-parsable code.
type Progress struct {
	Status Status `json:"status"`
	Index  int    `json:"index"`
	Email  string `json:"email"`
	Error  string `json:"error,omitempty"`
}

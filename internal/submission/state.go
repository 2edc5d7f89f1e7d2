package submission

import "github.com/sergeknystautas/commitdetective/internal/view"

// Status is the lifecycle phase of a submission.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// State is a snapshot of the controller. Rows is set only in StatusSuccess
// and Message only in StatusFailure.
type State struct {
	Status   Status
	SaveOnly bool
	Rows     []view.DisplayRow
	Message  string
}

// InFlight reports whether a request is outstanding.
func (s State) InFlight() bool {
	return s.Status == StatusPending
}

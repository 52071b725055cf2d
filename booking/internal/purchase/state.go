package purchase

// State is the phase of the purchase flow.
type State int

const (
	Idle State = iota
	FlightSelected
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FlightSelected:
		return "flight_selected"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

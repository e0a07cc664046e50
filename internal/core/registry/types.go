package registry

// State is the lifecycle position of a scheduled component.
type State uint8

const (
	StateUnregistered State = iota
	StatePending
	StateStarting
	StateActive
	StateFinished
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StatePending:
		return "pending"
	case StateStarting:
		return "starting"
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stats is a point-in-time view of the registry counters.
type Stats struct {
	Pending    int
	Active     int
	Started    uint64
	Stopped    uint64
	Ticks      uint64
	Passes     uint64
	Duplicates uint64
}

package container

// SlotState is the lifecycle of a single name in a container.
// A name moves Absent -> InProgress -> Ready when built, or Absent -> Ready when set.
type SlotState int

const (
	Absent SlotState = iota
	InProgress
	Ready
)

func (s SlotState) String() string {
	switch s {
	case Absent:
		return "absent"
	case InProgress:
		return "in-progress"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

type Slot[V any] struct {
	State SlotState
	Value V
}

func inProgress[V any]() Slot[V] {
	return Slot[V]{State: InProgress}
}

func ready[V any](v V) Slot[V] {
	return Slot[V]{State: Ready, Value: v}
}

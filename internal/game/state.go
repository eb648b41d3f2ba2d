package game

// GameStatus represents the lifecycle state of a match
type GameStatus string

const (
	StatusWaiting    GameStatus = "WAITING"
	StatusInProgress GameStatus = "IN_PROGRESS"
	StatusCompleted  GameStatus = "COMPLETED"
	StatusCancelled  GameStatus = "CANCELLED"
)

// Side identifies one half of the field.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ParseSide validates a side name coming from a client.
func ParseSide(s string) (Side, bool) {
	switch Side(s) {
	case SideLeft:
		return SideLeft, true
	case SideRight:
		return SideRight, true
	}
	return "", false
}

// Direction is the horizontal sign a ball takes when leaving this side's paddle.
func (s Side) Direction() float64 {
	if s == SideLeft {
		return 1
	}
	return -1
}

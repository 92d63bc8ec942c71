package lifecycle

// State is the draw/fade phase of a segment.
type State uint8

const (
	Pending State = iota
	Drawing
	Held
	FadingOut
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Drawing:
		return "drawing"
	case Held:
		return "held"
	case FadingOut:
		return "fading"
	default:
		return "unknown"
	}
}

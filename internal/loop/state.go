package loop

// State represents the current session phase.
type State int

const (
	StateMenu     State = iota // Title screen, nothing ticks
	StatePlaying               // Active gameplay
	StateGameOver              // Lives ran out, show replay prompt
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Key is a movement key the simulation reacts to while held.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	numKeys
)

// intent is a queued input request applied at the start of the next tick.
type intent struct {
	fire    bool
	key     Key
	pressed bool
}

// Package event carries simulation notifications to reactive collaborators
// such as the audio director.
package event

// Kind identifies what happened.
type Kind int

const (
	ShotFired      Kind = iota // Player fired a bullet
	EnemyDestroyed             // A bullet hit an enemy
	PlayerHit                  // An enemy rammed the player
	EngineHum                  // Cosmetic engine noise while moving
	SessionStarted
	SessionPaused
	SessionResumed
	GameOver
	ReturnedToMenu
)

var kindNames = [...]string{
	ShotFired:      "shot_fired",
	EnemyDestroyed: "enemy_destroyed",
	PlayerHit:      "player_hit",
	EngineHum:      "engine_hum",
	SessionStarted: "session_started",
	SessionPaused:  "session_paused",
	SessionResumed: "session_resumed",
	GameOver:       "game_over",
	ReturnedToMenu: "returned_to_menu",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Event is a single notification. Position fields are set for events that
// happen somewhere on the playfield.
type Event struct {
	Kind   Kind
	X, Y   float64
	Points int // Points awarded, EnemyDestroyed only
	Score  int // Session score after the event
}

// Listener receives events synchronously on the tick goroutine.
// Implementations must not block.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnEvent calls f(e).
func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}

// Bus fans an event out to every registered listener in order.
type Bus []Listener

// OnEvent delivers e to all listeners.
func (b Bus) OnEvent(e Event) {
	for _, l := range b {
		if l != nil {
			l.OnEvent(e)
		}
	}
}

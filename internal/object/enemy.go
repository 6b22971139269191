package object

import (
	"image/color"

	"github.com/tomz197/space-defender/internal/draw"
)

// EnemyKind identifies an enemy archetype.
type EnemyKind int

const (
	EnemyStandard EnemyKind = iota // Medium size, default speed
	EnemyHeavy                     // Large and slow
	EnemyFast                      // Small and fast
)

func (k EnemyKind) String() string {
	switch k {
	case EnemyStandard:
		return "standard"
	case EnemyHeavy:
		return "heavy"
	case EnemyFast:
		return "fast"
	default:
		return "unknown"
	}
}

// Archetype is the template an enemy is spawned from.
type Archetype struct {
	Kind     EnemyKind
	Width    float64
	Height   float64
	MinSpeed float64
	MaxSpeed float64 // exclusive
	Color    color.RGBA
	Points   int
}

// Archetypes lists the spawnable enemies; each is equally likely.
var Archetypes = [...]Archetype{
	{Kind: EnemyStandard, Width: 40, Height: 30, MinSpeed: 1, MaxSpeed: 3, Color: draw.RGB(0xff, 0x44, 0x44), Points: 10},
	{Kind: EnemyHeavy, Width: 60, Height: 40, MinSpeed: 0.5, MaxSpeed: 2, Color: draw.RGB(0xff, 0x88, 0x44), Points: 20},
	{Kind: EnemyFast, Width: 30, Height: 25, MinSpeed: 2, MaxSpeed: 5, Color: draw.RGB(0xff, 0x44, 0xff), Points: 15},
}

// ArchetypeOf returns the template for kind.
func ArchetypeOf(kind EnemyKind) Archetype {
	for _, a := range Archetypes {
		if a.Kind == kind {
			return a
		}
	}
	return Archetypes[0]
}

// Package config centralizes all tunable game parameters.
package config

import "time"

// Playfield resolution in logical units.
// Actual rendering scales to fit the terminal or window.
const (
	ViewWidth  = 800
	ViewHeight = 600
)

// Player
const (
	InitialLives = 3
)

// Difficulty: multiplier = DifficultyBase + score*DifficultyPerPoint.
const (
	DifficultyBase     = 1.0
	DifficultyPerPoint = 0.001
)

// EngineHumChance is the per-tick probability of an engine sound while moving.
const EngineHumChance = 0.02

// Background
const (
	StarCount = 150
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Max terminal render size; larger terminals get a centered playfield.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 75
)

// Volume step for the +/- style keys.
const VolumeStep = 0.1

package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session has not been started or was left.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrGameOver is returned when an answer is submitted after the last life was lost.
	ErrGameOver = errors.New("game is over")
	// ErrGameInProgress is returned when a game-over action is attempted while still playing.
	ErrGameInProgress = errors.New("game still in progress")
)

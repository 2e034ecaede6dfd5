package store

import (
	"time"

	"github.com/google/uuid"

	"termzero/types"
)

// Result is one finished game.
type Result struct {
	ID        uuid.UUID
	Variant   types.Variant
	BoardSize int
	PlayerOne string
	PlayerTwo string
	Outcome   types.Outcome
	Score     [2]float64 // player one, player two
	Moves     int
	Record    string // SGF path, may be empty
	PlayedAt  time.Time
}

type ErrNotFound struct{}

func (e *ErrNotFound) Error() string {
	return "not found"
}

func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}

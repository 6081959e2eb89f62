package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Skill is a canonical skill entry. Names are stored uppercase; lookups
// normalize before hitting the catalog.
type Skill struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

var ErrSkillNotFound = errors.New("skill not found")

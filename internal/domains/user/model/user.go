package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User is referenced, never owned, by portfolios. Identity issuance and
// session handling live outside this service; the portfolio domain only
// needs existence checks and the display name for search.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

var ErrUserNotFound = errors.New("user not found")

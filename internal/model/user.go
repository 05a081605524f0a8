package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleProfessor Role = "PROFESSOR"
	RoleStudent   Role = "STUDENT"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleProfessor || r == RoleStudent
}

type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           Role      `json:"role"`
	TelegramChatID *int64    `json:"telegramChatId,omitempty"` // nil - notifications disabled
	CreatedAt      time.Time `json:"createdAt"`
}

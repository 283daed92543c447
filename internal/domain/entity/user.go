package entity

import "time"

// Roles válidos para User.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User representa una cuenta que envía textos o administra casos.
type User struct {
	ID           string
	Username     string // número de teléfono o alias, único
	PasswordHash string // bcrypt, nunca plano
	Role         string
	CreatedAt    time.Time
}

package domain

import "time"

// Profile is the closed set of account roles.
type Profile string

const (
	ProfileUser  Profile = "USUARIO"
	ProfileAdmin Profile = "ADMINISTRADOR"
)

// Valid reports whether p is a known profile.
func (p Profile) Valid() bool {
	return p == ProfileUser || p == ProfileAdmin
}

// User is the domain model for accounts. Username and Email are both unique
// and either works as the login.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Profile      Profile
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

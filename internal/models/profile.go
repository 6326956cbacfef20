package models

// Profile is a named sub-identity under a user. Every user owns at least
// one profile (the default, marked main) before a session can be issued.
type Profile struct {
	ID     int64
	UserID int64
	Name   string
	Main   int
	Icon   string
}

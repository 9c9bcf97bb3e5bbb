package domain

import "time"

// User is the identity record behind a session.
type User struct {
	ID        string
	Email     string
	Username  string
	CreatedAt time.Time
}

// Profile is the user-editable row keyed by the user's identifier,
// created remotely as a side effect of sign-up.
type Profile struct {
	ID       string
	Username string
	FullName string
	Address  string
	Phone    string
}

package models

// User represents a participant in the shared ledger.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user. Names are unique.
	Name string

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}

package types

import "time"

// User is a console account. Accounts live in an in-memory demo credential
// table, not in Postgres; passwords are plaintext demo values.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

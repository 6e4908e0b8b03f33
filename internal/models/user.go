package models

// User is the read projection of a users row. The password column is never part of it.
type User struct {
	ID       int64  `json:"id" db:"id"`             // Primary key
	Username string `json:"username" db:"username"` // Unique username
	Name     string `json:"name" db:"name"`         // Display name
	Location string `json:"location" db:"location"` // Free-form location
	Active   bool   `json:"active" db:"active"`     // Soft-delete flag
}

// UserCredentials carries the stored password hash, used only by login.
type UserCredentials struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"`
	Active   bool   `db:"active"`
}

// CreateUserParams holds the fields required to register a user.
type CreateUserParams struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,max=255"`
	Location string `json:"location" validate:"required,max=255"`
}

// UpdateUserParams holds the fields of a partial user update.
// A nil field keeps its stored value.
type UpdateUserParams struct {
	Username *string `json:"username,omitempty" validate:"omitnil,min=1,max=255"`
	Password *string `json:"password,omitempty" validate:"omitnil,min=1"`
	Name     *string `json:"name,omitempty" validate:"omitnil,min=1,max=255"`
	Location *string `json:"location,omitempty" validate:"omitnil,min=1,max=255"`
	Active   *bool   `json:"active,omitempty"`
}

package models

import "time"

// User is an account row in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Profile carries the display name and role attached to a user.
type Profile struct {
	UserID     string    `db:"user_id" json:"user_id"`
	FullName   string    `db:"full_name" json:"full_name"`
	SchoolName *string   `db:"school_name" json:"school_name,omitempty"`
	Role       Role      `db:"role" json:"role"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// UserWithProfile joins a user with its profile for login.
type UserWithProfile struct {
	User
	FullName string `db:"full_name"`
	Role     Role   `db:"role"`
}

package model

// User represents an application user record as stored in the `users`
// table.  Users are created at registration and never updated or deleted
// by the application.
//
// Fields:
//  Email        – primary key; the identity carried by the session.
//  Username     – display name shown on the booking and payment pages.
//  Roll         – student roll number, exactly seven digits, unique.
//  PasswordHash – bcrypt hash of the password (users.password).
type User struct {
    Email        string `db:"email"`    // users.email
    Username     string `db:"username"` // users.username
    Roll         string `db:"roll"`     // users.roll
    PasswordHash string `db:"password"` // users.password
}

// Identity is the part of a user kept in the session after sign-in.
type Identity struct {
    Email    string `json:"email"`
    Username string `json:"username"`
    Roll     string `json:"roll"`
}

// Identity returns the session identity of u.
func (u User) Identity() Identity {
    return Identity{Email: u.Email, Username: u.Username, Roll: u.Roll}
}

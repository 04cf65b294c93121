// Package user defines the interfaces for accessing account entities.
// These repositories abstract the data persistence details, ensuring the core
// application is clean and decoupled from the database.
// Note: Sessions are handled by the cache layer, not persistence.
package user

import "time"

// Account represents an authenticated user in the system.
type Account struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialize password hash
	DisplayName  string     `json:"displayName"`
	Created      time.Time  `json:"created"`
	Changed      *time.Time `json:"changed,omitempty"`
}

// Profile represents a view of Account data for frontend consumption.
// This is a derived entity, not persisted directly.
type Profile struct {
	AccountID   string `json:"accountId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// AccountRepository defines the operations for persisting Account entities.
type AccountRepository interface {
	FindByID(id string) (*Account, error)
	FindByEmail(email string) (*Account, error)
	Store(account *Account) error
	Update(account *Account) error
	ValidateCredentials(email, password string) (*Account, error)
}

// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is the single-tenant scoping unit. Every customer, estimate,
// inventory item and settings row belongs to exactly one account.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	CompanyName  string
	CreatedAt    time.Time
}

// SessionUser is the authenticated view of an account returned to the
// presentation layer. It never carries credentials.
type SessionUser struct {
	Username string `json:"username"`
	Company  string `json:"company"`
}

package models

import "time"

// Customer is a CRM record owned by one account. IDs are caller-generated
// UUIDs assigned before persistence.
type Customer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"companyName,omitempty"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Zip         string    `json:"zip"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
}

package models

import (
	"encoding/json"
	"time"
)

// JobStatus is the lifecycle status of an estimate. The storage layer never
// validates transitions; any status may be set at any time.
type JobStatus string

const (
	StatusDraft     JobStatus = "Draft"
	StatusWorkOrder JobStatus = "Work Order"
	StatusInvoiced  JobStatus = "Invoiced"
	StatusPaid      JobStatus = "Paid"
	StatusArchived  JobStatus = "Archived"
)

// Estimate is a job estimate owned by one account.
//
// CalcData is the opaque pricing-engine payload: it is stored and returned
// verbatim and never interpreted here. Items is the serialized line-item
// sequence, likewise owned by the calling layer. CustomerID may reference a
// customer that no longer exists; consumers must fall back to "Unknown".
type Estimate struct {
	ID         string    `json:"id"`
	Number     string    `json:"number"`
	CustomerID string    `json:"customerId,omitempty"`
	Date       time.Time `json:"date"`
	Status     JobStatus `json:"status"`

	JobName    string          `json:"jobName"`
	JobAddress string          `json:"jobAddress"`
	Location   json.RawMessage `json:"location,omitempty"`
	Images     json.RawMessage `json:"images,omitempty"`

	CalcData json.RawMessage `json:"calcData"`

	TotalBoardFeetOpen   float64 `json:"totalBoardFeetOpen"`
	TotalBoardFeetClosed float64 `json:"totalBoardFeetClosed"`
	SetsRequiredOpen     float64 `json:"setsRequiredOpen"`
	SetsRequiredClosed   float64 `json:"setsRequiredClosed"`

	Items    json.RawMessage `json:"items"`
	Subtotal float64         `json:"subtotal"`
	Tax      float64         `json:"tax"`
	Total    float64         `json:"total"`
	Notes    string          `json:"notes"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
}

package models

import "time"

// Snapshot is the composite, timestamped document holding the full
// exportable state of one account.
type Snapshot struct {
	Customers []Customer      `json:"customers"`
	Estimates []Estimate      `json:"estimates"`
	Inventory []InventoryItem `json:"inventory"`
	Settings  *Settings       `json:"settings,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// FileName returns the artifact name offered for download,
// e.g. "spf_backup_2026-08-30.json".
func (s Snapshot) FileName() string {
	return "spf_backup_" + s.Timestamp.Format("2006-01-02") + ".json"
}

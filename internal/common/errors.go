// Package common defines shared constants and sentinel errors used across
// the FoamDesk server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound  = errors.New("not found")
	ErrOwnership = errors.New("record belongs to another account")

	// Configuration / connectivity errors.
	ErrConfigMissing = errors.New("database dsn is not configured")

	// Bulk operation errors.
	ErrSnapshotParse  = errors.New("snapshot parse error")
	ErrPartialImport  = errors.New("import applied partially")
	ErrExportDisabled = errors.New("snapshot storage is not configured")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid token")
)

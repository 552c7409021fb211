// Package banksync links bank accounts through an aggregation provider
// and pulls their transactions into the ledger incrementally.
package banksync

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("bank connection not found")

// Connection statuses. Disconnected connections keep their imported
// history but are excluded from syncs.
const (
	StatusActive       = "active"
	StatusDisconnected = "disconnected"
)

// Connection is one linked bank item. The provider access token is stored
// separately and never leaves the server side.
type Connection struct {
	ID              string
	UserID          uuid.UUID
	Provider        string
	InstitutionName string
	Status          string
	Accounts        []LinkedAccount
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	LastSyncedAt    *time.Time
}

// LinkedAccount describes one account under a connection, as reported by
// the provider during linking.
type LinkedAccount struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Mask    string `json:"mask,omitempty"`
	Type    string `json:"type,omitempty"`
	Subtype string `json:"subtype,omitempty"`
}

// SyncResult tallies one sync run across connections.
type SyncResult struct {
	Imported   int
	Skipped    int
	Errors     int
	LastSyncAt time.Time
}

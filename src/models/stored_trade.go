package models

import "time"

// StoredTrade is a CanonicalTrade enriched with ownership and import context,
// ready to be written by a trade sink.
type StoredTrade struct {
	ID        int64      `json:"id,omitempty"`
	AccountID string     `json:"account_id"`
	ImportID  string     `json:"import_id"`
	Format    FormatKind `json:"format"`
	HashID    string     `json:"hash_id"`
	CreatedAt time.Time  `json:"created_at"`

	CanonicalTrade
}

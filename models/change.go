package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Change kind, one per logical edit. Price and inventory edits are
// tracked separately even when they come from the same product save.
type ChangeKind string

const (
	ChangeNew       ChangeKind = "new"
	ChangeDelete    ChangeKind = "delete"
	ChangePrice     ChangeKind = "price"
	ChangeInventory ChangeKind = "inventory"
	ChangeStatus    ChangeKind = "status"
	ChangeDetails   ChangeKind = "details"
)

// PendingChange is one diff unit awaiting publish or discard. Entries
// accumulate per edit and are never coalesced, so the audit trail keeps
// every discrete step.
type PendingChange struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Kind        ChangeKind `json:"kind" gorm:"size:20"`
	ProductID   int64      `json:"product_id" gorm:"index"`
	ProductName string     `json:"product_name" gorm:"size:255"`
	Before      string     `json:"before" gorm:"size:512"`
	After       string     `json:"after" gorm:"size:512"`
	CreatedAt   time.Time  `json:"created_at"`
}

// PublishLogEntry is one publish folded into the append-only history.
// Immutable once written.
type PublishLogEntry struct {
	ID          string         `json:"id" gorm:"primaryKey;size:36"`
	OperatorID  string         `json:"operator_id" gorm:"size:64"`
	PublishedAt time.Time      `json:"published_at"`
	Changes     datatypes.JSON `json:"changes"` // frozen ordered []PendingChange
}

// ChangeList decodes the frozen change list of this publish.
func (e *PublishLogEntry) ChangeList() ([]PendingChange, error) {
	var changes []PendingChange
	if err := json.Unmarshal(e.Changes, &changes); err != nil {
		return nil, err
	}
	return changes, nil
}

// MenuSnapshot holds the catalog as of the last publish. A single row;
// Discard restores from it and Publish rewrites it.
type MenuSnapshot struct {
	ID         int64          `json:"id" gorm:"primaryKey"`
	Products   datatypes.JSON `json:"products"`   // []MenuProduct
	Categories datatypes.JSON `json:"categories"` // []MenuCategory
	UpdatedAt  time.Time      `json:"updated_at"`
}

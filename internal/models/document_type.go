package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DocumentLayer identifies which tier of the tenant hierarchy a document
// type (or a requirement override) applies to.
type DocumentLayer string

const (
	DocumentLayerPlatform     DocumentLayer = "PLATFORM"
	DocumentLayerOrganization DocumentLayer = "ORGANIZATION"
	DocumentLayerUser         DocumentLayer = "USER"
)

// Valid reports whether the layer is one of the known tiers.
func (l DocumentLayer) Valid() bool {
	switch l {
	case DocumentLayerPlatform, DocumentLayerOrganization, DocumentLayerUser:
		return true
	}
	return false
}

// LayerRequirement is a per-entity override of the document type's default
// required flag. At most one entry may exist per (ForLayer, ForLayerID) pair.
type LayerRequirement struct {
	ForLayer   DocumentLayer `json:"for_layer"`
	ForLayerID string        `json:"for_layer_id"`
	Required   bool          `json:"required"`
	SetBy      string        `json:"set_by"`
	SetAt      time.Time     `json:"set_at"`
}

// LayerRequirementList is persisted as a JSONB column. Mutations go through
// Set/Remove which keep the per-key uniqueness invariant by construction.
type LayerRequirementList []LayerRequirement

// Value implements driver.Valuer.
func (l LayerRequirementList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *LayerRequirementList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for LayerRequirementList", src)
	}
}

// Find returns the override for the given key, if any. The list is scanned in
// order so a first match wins, but Set guarantees at most one entry per key.
func (l LayerRequirementList) Find(layer DocumentLayer, layerID string) (LayerRequirement, bool) {
	for _, entry := range l {
		if entry.ForLayer == layer && entry.ForLayerID == layerID {
			return entry, true
		}
	}
	return LayerRequirement{}, false
}

// Set removes any existing entry for the key and appends the new one.
func (l LayerRequirementList) Set(entry LayerRequirement) LayerRequirementList {
	result := l.Remove(entry.ForLayer, entry.ForLayerID)
	return append(result, entry)
}

// Remove filters out entries matching the key.
func (l LayerRequirementList) Remove(layer DocumentLayer, layerID string) LayerRequirementList {
	result := make(LayerRequirementList, 0, len(l))
	for _, entry := range l {
		if entry.ForLayer == layer && entry.ForLayerID == layerID {
			continue
		}
		result = append(result, entry)
	}
	return result
}

// DocumentType defines a document requirement at one hierarchy layer.
// Key is globally unique; Required is the default unless an override in
// LayerRequirements matches the target entity.
type DocumentType struct {
	ID                string               `db:"id" json:"id"`
	Name              string               `db:"name" json:"name"`
	Key               string               `db:"key" json:"key"`
	Layer             DocumentLayer        `db:"layer" json:"layer"`
	Required          bool                 `db:"required" json:"required"`
	Description       *string              `db:"description" json:"description,omitempty"`
	Active            bool                 `db:"active" json:"active"`
	SortOrder         int                  `db:"sort_order" json:"sort_order"`
	MaxSizeBytes      int64                `db:"max_size_bytes" json:"max_size_bytes"`
	AllowedMimeTypes  StringSlice          `db:"allowed_mime_types" json:"allowed_mime_types"`
	LayerRequirements LayerRequirementList `db:"layer_requirements" json:"layer_requirements"`
	CreatedAt         time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time            `db:"updated_at" json:"updated_at"`
}

// IsRequiredFor resolves the effective required flag for a target entity:
// the override wins when present, otherwise the type default applies.
func (t *DocumentType) IsRequiredFor(layer DocumentLayer, layerID string) bool {
	if entry, ok := t.LayerRequirements.Find(layer, layerID); ok {
		return entry.Required
	}
	return t.Required
}

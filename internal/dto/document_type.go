package dto

// CreateDocumentTypeRequest describes payload for defining a document type.
type CreateDocumentTypeRequest struct {
	Name             string   `json:"name" validate:"required,min=2,max=120"`
	Key              string   `json:"key" validate:"required,min=2,max=64,lowercase"`
	Layer            string   `json:"layer" validate:"required,oneof=PLATFORM ORGANIZATION USER"`
	Required         bool     `json:"required"`
	Description      string   `json:"description"`
	SortOrder        int      `json:"sort_order"`
	MaxSizeBytes     int64    `json:"max_size_bytes" validate:"omitempty,min=1"`
	AllowedMimeTypes []string `json:"allowed_mime_types"`
}

// UpdateDocumentTypeRequest carries mutable document-type fields.
type UpdateDocumentTypeRequest struct {
	Name             *string  `json:"name" validate:"omitempty,min=2,max=120"`
	Required         *bool    `json:"required"`
	Description      *string  `json:"description"`
	Active           *bool    `json:"active"`
	SortOrder        *int     `json:"sort_order"`
	MaxSizeBytes     *int64   `json:"max_size_bytes" validate:"omitempty,min=1"`
	AllowedMimeTypes []string `json:"allowed_mime_types"`
}

// SetRequirementOverrideRequest pins the required flag for one target entity.
type SetRequirementOverrideRequest struct {
	ForLayer   string `json:"for_layer" validate:"required,oneof=PLATFORM ORGANIZATION USER"`
	ForLayerID string `json:"for_layer_id" validate:"required"`
	Required   bool   `json:"required"`
}

// RemoveRequirementOverrideRequest clears an override for one target entity.
type RemoveRequirementOverrideRequest struct {
	ForLayer   string `json:"for_layer" validate:"required,oneof=PLATFORM ORGANIZATION USER"`
	ForLayerID string `json:"for_layer_id" validate:"required"`
}

// RequirementResolution reports the effective required flag for a target.
type RequirementResolution struct {
	TypeID     string `json:"type_id"`
	Key        string `json:"key"`
	ForLayer   string `json:"for_layer"`
	ForLayerID string `json:"for_layer_id"`
	Required   bool   `json:"required"`
	Overridden bool   `json:"overridden"`
}

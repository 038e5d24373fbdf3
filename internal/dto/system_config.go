package dto

// SystemConfigItem represents a configuration entry exposed via API.
type SystemConfigItem struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// UpdateSystemConfigRequest describes payload for updating a single entry.
type UpdateSystemConfigRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// BulkUpdateSystemConfigRequest holds multiple update requests.
type BulkUpdateSystemConfigRequest struct {
	Items []UpdateSystemConfigRequest `json:"items" validate:"required,min=1,dive"`
}

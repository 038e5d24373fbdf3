package models

import "time"

// Document is an uploaded file fulfilling a document-type requirement for an
// owner entity. TypeKey references DocumentType.Key; live documents block
// deletion of their type.
type Document struct {
	ID         string        `db:"id" json:"id"`
	TypeKey    string        `db:"type_key" json:"type_key"`
	OwnerLayer DocumentLayer `db:"owner_layer" json:"owner_layer"`
	OwnerID    string        `db:"owner_id" json:"owner_id"`
	FileName   string        `db:"file_name" json:"file_name"`
	FilePath   string        `db:"file_path" json:"-"`
	MimeType   string        `db:"mime_type" json:"mime_type"`
	SizeBytes  int64         `db:"size_bytes" json:"size_bytes"`
	UploadedBy string        `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}

package models

import (
	"time"
)

// DocumentFile is one versioned binary attachment of a document. At most one
// row per document is conventionally active; the write path deactivates the
// previous rows before inserting a new active one.
type DocumentFile struct {
	ID            int       `gorm:"primaryKey;column:id" json:"id"`
	DocumentID    int       `gorm:"column:document_id" json:"document_id"`
	FileName      string    `gorm:"column:file_name" json:"file_name"`
	FilePath      string    `gorm:"column:file_path" json:"file_path"`
	MimeType      string    `gorm:"column:mime_type" json:"mime_type"`
	FileSize      int64     `gorm:"column:file_size" json:"file_size"`
	VersionNumber int       `gorm:"column:version_number;default:1" json:"version_number"`
	UploadedBy    int       `gorm:"column:uploaded_by" json:"uploaded_by"`
	IsActive      bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Document *Document `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
	Uploader *User     `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

func (DocumentFile) TableName() string {
	return "document_files"
}

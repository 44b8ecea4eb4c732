package models

import (
	"time"
)

// Document status defaults to "draft" on insert.
const DocumentStatusDraft = "draft"

type Document struct {
	ID           int       `gorm:"primaryKey;column:id" json:"id"`
	KodeDocument string    `gorm:"column:kode_document;unique" json:"kode_document"`
	Title        string    `gorm:"column:title" json:"title"`
	Description  *string   `gorm:"column:description" json:"description,omitempty"`
	BidangID     int       `gorm:"column:bidang_id" json:"bidang_id"`
	LocationID   int       `gorm:"column:location_id" json:"location_id"`
	CreatedBy    int       `gorm:"column:created_by" json:"created_by"`
	Status       string    `gorm:"column:status;default:draft" json:"status"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Bidang     *Bidang        `gorm:"foreignKey:BidangID" json:"bidang,omitempty"`
	Location   *Location      `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Creator    *User          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Files      []DocumentFile `gorm:"foreignKey:DocumentID" json:"files,omitempty"`
	Categories []Category     `gorm:"many2many:document_categories" json:"categories,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}

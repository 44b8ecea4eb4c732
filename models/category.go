package models

import (
	"time"
)

type Category struct {
	ID        int       `gorm:"primaryKey;column:id" json:"id"`
	Nama      string    `gorm:"column:nama" json:"nama"`
	Deskripsi *string   `gorm:"column:deskripsi" json:"deskripsi,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Documents []Document `gorm:"many2many:document_categories" json:"documents,omitempty"`
}

// DocumentCategory is the explicit join row between documents and categories.
type DocumentCategory struct {
	ID         int       `gorm:"primaryKey;column:id" json:"id"`
	DocumentID int       `gorm:"column:document_id" json:"document_id"`
	CategoryID int       `gorm:"column:category_id" json:"category_id"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides
func (Category) TableName() string {
	return "categories"
}

func (DocumentCategory) TableName() string {
	return "document_categories"
}

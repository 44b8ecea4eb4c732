package models

import (
	"time"
)

// Location is a physical storage rack (rak) documents are filed under.
// BidangID is nullable: older deployments ran without the column, so the
// write path resolves it through services.SchemaInfo instead of assuming it.
type Location struct {
	ID        int       `gorm:"primaryKey;column:id" json:"id"`
	KodeRak   string    `gorm:"column:kode_rak;unique" json:"kode_rak"`
	NamaRak   string    `gorm:"column:nama_rak" json:"nama_rak"`
	Ruang     *string   `gorm:"column:ruang" json:"ruang,omitempty"`
	Deskripsi *string   `gorm:"column:deskripsi" json:"deskripsi,omitempty"`
	BidangID  *int      `gorm:"column:bidang_id" json:"bidang_id,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Bidang    *Bidang    `gorm:"foreignKey:BidangID" json:"bidang,omitempty"`
	Documents []Document `gorm:"foreignKey:LocationID" json:"documents,omitempty"`
}

func (Location) TableName() string {
	return "locations"
}

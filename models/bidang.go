package models

import (
	"time"
)

// Bidang is an organizational department owning documents and locations.
type Bidang struct {
	ID             int       `gorm:"primaryKey;column:id" json:"id"`
	Kode           string    `gorm:"column:kode;unique" json:"kode"`
	Nama           string    `gorm:"column:nama" json:"nama"`
	Deskripsi      *string   `gorm:"column:deskripsi" json:"deskripsi,omitempty"`
	KepalaBidangID *int      `gorm:"column:kepala_bidang_id" json:"kepala_bidang_id,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	KepalaBidang *User      `gorm:"foreignKey:KepalaBidangID" json:"kepala_bidang,omitempty"`
	Users        []User     `gorm:"foreignKey:BidangID" json:"users,omitempty"`
	Documents    []Document `gorm:"foreignKey:BidangID" json:"documents,omitempty"`
}

func (Bidang) TableName() string {
	return "bidang"
}

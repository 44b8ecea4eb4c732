package models

import (
	"time"
)

// DownloadsLog records one download or preview access. Append-only, written
// only when the DOWNLOAD_LOG feature toggle is on.
type DownloadsLog struct {
	ID             int       `gorm:"primaryKey;column:id" json:"id"`
	UserID         int       `gorm:"column:user_id" json:"user_id"`
	DocumentFileID int       `gorm:"column:document_file_id" json:"document_file_id"`
	DownloadedAt   time.Time `gorm:"column:downloaded_at" json:"downloaded_at"`
	IPAddress      *string   `gorm:"column:ip_address" json:"ip_address,omitempty"`
	UserAgent      *string   `gorm:"column:user_agent" json:"user_agent,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	DocumentFile *DocumentFile `gorm:"foreignKey:DocumentFileID" json:"document_file,omitempty"`
}

// ActivityLog records a free-text audit entry. Append-only.
type ActivityLog struct {
	ID         int       `gorm:"primaryKey;column:id" json:"id"`
	UserID     int       `gorm:"column:user_id" json:"user_id"`
	Action     string    `gorm:"column:action" json:"action"`
	DocumentID *int      `gorm:"column:document_id" json:"document_id,omitempty"`
	Detail     *string   `gorm:"column:detail" json:"detail,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Document *Document `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
}

// TableName overrides
func (DownloadsLog) TableName() string {
	return "downloads_log"
}

func (ActivityLog) TableName() string {
	return "activity_log"
}

package services

import (
	"log"
	"os"
	"time"

	"arsip-dlh-api/models"

	"gorm.io/gorm"
)

// Activity log actions.
const (
	ActionDocumentCreated = "document.created"
	ActionDocumentUpdated = "document.updated"
	ActionDocumentDeleted = "document.deleted"
	ActionUserCreated     = "user.created"
	ActionUserUpdated     = "user.updated"
	ActionUserDeleted     = "user.deleted"
)

// LogActivity appends an activity_log row. Auditing must never fail the
// request, so errors are only logged.
func LogActivity(db *gorm.DB, userID int, action string, documentID *int, detail string) {
	entry := models.ActivityLog{
		UserID:     userID,
		Action:     action,
		DocumentID: documentID,
	}
	if detail != "" {
		entry.Detail = &detail
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("Warning: failed to write activity log (%s): %v", action, err)
	}
}

// DownloadLogEnabled reports whether download/preview accesses should be
// recorded. The feature ships off: the previous system carried the table
// without ever writing to it, so recording is an explicit opt-in.
func DownloadLogEnabled() bool {
	return os.Getenv("DOWNLOAD_LOG") == "1"
}

// LogDownload appends a downloads_log row for an authenticated access.
func LogDownload(db *gorm.DB, userID, documentFileID int, ip, userAgent string) {
	if !DownloadLogEnabled() || userID == 0 {
		return
	}
	entry := models.DownloadsLog{
		UserID:         userID,
		DocumentFileID: documentFileID,
		DownloadedAt:   time.Now(),
	}
	if ip != "" {
		entry.IPAddress = &ip
	}
	if userAgent != "" {
		entry.UserAgent = &userAgent
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("Warning: failed to write downloads log: %v", err)
	}
}

package services

import (
	"sync"

	"gorm.io/gorm"
)

// Candidate column names probed in priority order. The order is load-bearing:
// existing deployments stored file metadata under whichever column the old
// system found first, so changing it would silently read the wrong column.
var (
	FilePathColumns     = []string{"file_path", "path", "file"}
	FileNameColumns     = []string{"original_name", "origin_name", "file_name", "name", "filename"}
	FileMimeColumns     = []string{"mime_type", "mime", "file_mime", "mimetype"}
	FileSizeColumns     = []string{"file_size", "size", "filesize"}
	FileActiveColumns   = []string{"is_active", "active", "status"}
	FileUploaderColumns = []string{"uploaded_by", "user_id", "created_by"}
	FileVersionColumns  = []string{"version_number", "version"}
	LocationBidangCols  = []string{"bidang_id", "id_bidang", "bidang"}
)

// Schema answers table/column existence questions for the write path.
type Schema interface {
	HasTable(table string) bool
	ResolveColumn(table string, candidates ...string) string
}

// SchemaInfo resolves logical fields to physical columns by probing the
// database catalog, caching each answer for the life of the process.
type SchemaInfo struct {
	db *gorm.DB

	mu      sync.Mutex
	tables  map[string]bool
	columns map[string]bool
}

func NewSchemaInfo(db *gorm.DB) *SchemaInfo {
	return &SchemaInfo{
		db:      db,
		tables:  make(map[string]bool),
		columns: make(map[string]bool),
	}
}

func (s *SchemaInfo) HasTable(table string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if got, ok := s.tables[table]; ok {
		return got
	}

	var count int64
	s.db.Raw(
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?",
		table,
	).Scan(&count)

	s.tables[table] = count > 0
	return count > 0
}

func (s *SchemaInfo) hasColumn(table, column string) bool {
	key := table + "." + column
	if got, ok := s.columns[key]; ok {
		return got
	}

	var count int64
	s.db.Raw(
		"SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?",
		table, column,
	).Scan(&count)

	s.columns[key] = count > 0
	return count > 0
}

// ResolveColumn returns the first candidate that exists as a column on
// table, or "" when none do.
func (s *SchemaInfo) ResolveColumn(table string, candidates ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, col := range candidates {
		if s.hasColumn(table, col) {
			return col
		}
	}
	return ""
}

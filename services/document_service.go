package services

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"arsip-dlh-api/models"

	"gorm.io/gorm"
)

const documentNamespace = "documents"

// Upload limits, matching what the records office accepts.
const maxUploadSize = 20 << 20 // 20MB

var allowedUploadExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".ppt":  true,
	".pptx": true,
}

// UploadedFile describes an incoming attachment. Open must be re-callable:
// the create path re-reads the file when a generated code collides at commit
// time and the insert is retried.
type UploadedFile struct {
	OriginalName string
	MimeType     string
	Size         int64
	Open         func() (io.ReadCloser, error)
}

type CreateDocumentInput struct {
	Title        string
	Description  *string
	LocationID   int
	BidangID     *int
	KodeDocument *string
	File         *UploadedFile
	CategoryIDs  []int // nil means no associations
	ActorID      int
}

// UpdateDocumentInput carries partial-update fields: nil pointers are left
// untouched. ClearDescription distinguishes "description sent as null" from
// "description absent". CategoryIDs nil leaves associations alone; an empty
// slice clears them.
type UpdateDocumentInput struct {
	Title            *string
	Description      *string
	ClearDescription bool
	LocationID       *int
	BidangID         *int
	KodeDocument     *string // empty string regenerates from the title
	File             *UploadedFile
	CategoryIDs      *[]int
	ActorID          int
}

// ActiveFile is the current authoritative attachment of a document.
type ActiveFile struct {
	FileID       int
	Path         string
	OriginalName *string
	MimeType     *string
}

// DocumentService owns the transactional document/file write path.
type DocumentService struct {
	db      *gorm.DB
	storage Storage
	schema  Schema
}

func NewDocumentService(db *gorm.DB, storage Storage, schema Schema) *DocumentService {
	return &DocumentService{db: db, storage: storage, schema: schema}
}

// Create inserts a document with its first file attachment and category
// associations in one transaction. The stored blob is removed again if
// anything after the upload fails.
func (s *DocumentService) Create(in CreateDocumentInput) (*models.Document, error) {
	if in.File == nil {
		return nil, newFieldError("file is required", "file", "A document file must be uploaded.")
	}
	if err := validateUpload(in.File); err != nil {
		return nil, err
	}
	if err := s.requireLocation(in.LocationID); err != nil {
		return nil, err
	}
	if in.BidangID != nil {
		if err := s.requireBidang(*in.BidangID); err != nil {
			return nil, err
		}
	}

	explicitKode := in.KodeDocument != nil && strings.TrimSpace(*in.KodeDocument) != ""
	if explicitKode {
		taken, err := kodeDocumentExists(s.db, strings.TrimSpace(*in.KodeDocument), 0)
		if err != nil {
			return nil, newStorageError("failed to save document", err)
		}
		if taken {
			return nil, newFieldError("document code already in use", "kode_document", "The supplied document code is already taken.")
		}
	}

	doc, err := s.createOnce(in, explicitKode)
	if err != nil && !explicitKode && isDuplicateKode(err) {
		// Generated code collided at commit time with a concurrent insert.
		// Regenerate once against the fresh state and retry.
		doc, err = s.createOnce(in, false)
		if err != nil && isDuplicateKode(err) {
			// Still losing the race after a regeneration: surface it as a
			// field conflict the client can act on, not a server fault.
			return nil, newFieldError("document code already in use", "kode_document", "Could not allocate a unique document code, please retry.")
		}
	}
	return doc, err
}

func (s *DocumentService) createOnce(in CreateDocumentInput, explicitKode bool) (*models.Document, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, newStorageError("failed to save document", tx.Error)
	}

	storedPath := ""
	fail := func(err error) error {
		tx.Rollback()
		if storedPath != "" {
			s.storage.Delete(storedPath)
		}
		if se, ok := AsServiceError(err); ok {
			return se
		}
		return newStorageError("failed to save document", err)
	}

	bidangID := 0
	if in.BidangID != nil {
		bidangID = *in.BidangID
	} else {
		resolved, err := s.resolveBidangFromLocation(tx, in.LocationID)
		if err != nil {
			return nil, fail(err)
		}
		if resolved == 0 {
			return nil, fail(newFieldError(
				"rak has no valid bidang",
				"bidang_id",
				"Bidang cannot be determined from the selected rak.",
			))
		}
		bidangID = resolved
	}

	kode := ""
	if explicitKode {
		kode = strings.TrimSpace(*in.KodeDocument)
	} else {
		generated, err := GenerateCode(in.Title, CodeFallbackDocument, func(candidate string) (bool, error) {
			return kodeDocumentExists(tx, candidate, 0)
		})
		if err != nil {
			return nil, fail(err)
		}
		kode = generated
	}

	doc := models.Document{
		KodeDocument: kode,
		Title:        in.Title,
		Description:  in.Description,
		BidangID:     bidangID,
		LocationID:   in.LocationID,
		CreatedBy:    in.ActorID,
		Status:       models.DocumentStatusDraft,
	}
	if err := tx.Create(&doc).Error; err != nil {
		return nil, fail(err)
	}

	src, err := in.File.Open()
	if err != nil {
		return nil, fail(err)
	}
	storedPath, err = s.storage.Store(src, documentNamespace, in.File.OriginalName)
	src.Close()
	if err != nil {
		storedPath = ""
		return nil, fail(err)
	}

	if err := s.insertFileMeta(tx, doc.ID, storedPath, in.File, in.ActorID); err != nil {
		return nil, fail(err)
	}

	if in.CategoryIDs != nil {
		if err := s.syncCategories(tx, doc.ID, in.CategoryIDs); err != nil {
			return nil, fail(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		if storedPath != "" {
			s.storage.Delete(storedPath)
		}
		return nil, newStorageError("failed to save document", err)
	}

	return s.reload(doc.ID)
}

// Update applies a partial patch. A location change without an explicit
// bidang re-resolves it from the new rak, but unlike Create a resolution
// failure keeps the previous bidang instead of rejecting the request.
func (s *DocumentService) Update(id int, in UpdateDocumentInput) (*models.Document, error) {
	var doc models.Document
	if err := s.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("document")
		}
		return nil, newStorageError("failed to update document", err)
	}

	if in.File != nil {
		if err := validateUpload(in.File); err != nil {
			return nil, err
		}
	}
	if in.LocationID != nil {
		if err := s.requireLocation(*in.LocationID); err != nil {
			return nil, err
		}
	}
	if in.BidangID != nil {
		if err := s.requireBidang(*in.BidangID); err != nil {
			return nil, err
		}
	}
	if in.KodeDocument != nil && strings.TrimSpace(*in.KodeDocument) != "" {
		taken, err := kodeDocumentExists(s.db, strings.TrimSpace(*in.KodeDocument), doc.ID)
		if err != nil {
			return nil, newStorageError("failed to update document", err)
		}
		if taken {
			return nil, newFieldError("document code already in use", "kode_document", "The supplied document code is already taken.")
		}
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, newStorageError("failed to update document", tx.Error)
	}

	storedPath := ""
	fail := func(err error) error {
		tx.Rollback()
		if storedPath != "" {
			s.storage.Delete(storedPath)
		}
		if se, ok := AsServiceError(err); ok {
			return se
		}
		return newStorageError("failed to update document", err)
	}

	if in.Title != nil {
		doc.Title = *in.Title
	}
	if in.Description != nil {
		doc.Description = in.Description
	} else if in.ClearDescription {
		doc.Description = nil
	}

	if in.LocationID != nil {
		doc.LocationID = *in.LocationID
		if in.BidangID == nil {
			// Best effort only: the old bidang is kept when the new rak has
			// no resolvable bidang.
			if resolved, err := s.resolveBidangFromLocation(tx, *in.LocationID); err == nil && resolved != 0 {
				doc.BidangID = resolved
			}
		}
	}
	if in.BidangID != nil {
		doc.BidangID = *in.BidangID
	}

	if in.KodeDocument != nil {
		kode := strings.TrimSpace(*in.KodeDocument)
		if kode == "" {
			generated, err := GenerateCode(doc.Title, CodeFallbackDocument, func(candidate string) (bool, error) {
				return kodeDocumentExists(tx, candidate, doc.ID)
			})
			if err != nil {
				return nil, fail(err)
			}
			kode = generated
		}
		doc.KodeDocument = kode
	}

	if err := tx.Save(&doc).Error; err != nil {
		return nil, fail(err)
	}

	if in.File != nil {
		src, err := in.File.Open()
		if err != nil {
			return nil, fail(err)
		}
		storedPath, err = s.storage.Store(src, documentNamespace, in.File.OriginalName)
		src.Close()
		if err != nil {
			storedPath = ""
			return nil, fail(err)
		}

		// Supersede, never mutate: deactivate prior rows, insert a new
		// active one.
		if activeCol := s.schema.ResolveColumn(models.DocumentFile{}.TableName(), FileActiveColumns...); activeCol != "" {
			if err := tx.Table(models.DocumentFile{}.TableName()).
				Where("document_id = ?", doc.ID).
				Update(activeCol, 0).Error; err != nil {
				return nil, fail(err)
			}
		}
		if err := s.insertFileMeta(tx, doc.ID, storedPath, in.File, in.ActorID); err != nil {
			return nil, fail(err)
		}
	}

	if in.CategoryIDs != nil {
		if err := s.syncCategories(tx, doc.ID, *in.CategoryIDs); err != nil {
			return nil, fail(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		if storedPath != "" {
			s.storage.Delete(storedPath)
		}
		return nil, newStorageError("failed to update document", err)
	}

	return s.reload(doc.ID)
}

// Delete removes the document, its file rows, their blobs, and its category
// links. Blob deletion is best effort and happens outside the row
// transaction, so a crash can leave orphaned blobs but never dangling rows.
func (s *DocumentService) Delete(id int) error {
	var doc models.Document
	if err := s.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFoundError("document")
		}
		return newStorageError("failed to delete document", err)
	}

	table := models.DocumentFile{}.TableName()
	if s.schema.HasTable(table) {
		pathCol := s.schema.ResolveColumn(table, FilePathColumns...)
		if pathCol != "" {
			var rows []map[string]interface{}
			if err := s.db.Table(table).Where("document_id = ?", doc.ID).Find(&rows).Error; err != nil {
				return newStorageError("failed to delete document", err)
			}
			for _, row := range rows {
				if p := columnString(row, pathCol); p != nil && s.storage.Exists(*p) {
					s.storage.Delete(*p)
				}
			}
		}
		if err := s.db.Exec("DELETE FROM "+table+" WHERE document_id = ?", doc.ID).Error; err != nil {
			return newStorageError("failed to delete document", err)
		}
	}

	if err := s.db.Where("document_id = ?", doc.ID).Delete(&models.DocumentCategory{}).Error; err != nil {
		return newStorageError("failed to delete document", err)
	}
	if err := s.db.Delete(&doc).Error; err != nil {
		return newStorageError("failed to delete document", err)
	}
	return nil
}

// ActiveFile picks the current attachment of a document: active rows first
// (by the first resolvable active column), most recent insert breaking ties
// or standing in when no active column exists. Returns nil when the document
// has no usable file.
func (s *DocumentService) ActiveFile(documentID int) (*ActiveFile, error) {
	table := models.DocumentFile{}.TableName()
	if !s.schema.HasTable(table) {
		return nil, nil
	}
	pathCol := s.schema.ResolveColumn(table, FilePathColumns...)
	if pathCol == "" {
		return nil, nil
	}

	q := s.db.Table(table).Where("document_id = ?", documentID)
	if activeCol := s.schema.ResolveColumn(table, FileActiveColumns...); activeCol != "" {
		q = q.Order(activeCol + " DESC")
	}

	var rows []map[string]interface{}
	if err := q.Order("id DESC").Limit(1).Find(&rows).Error; err != nil {
		return nil, newStorageError("failed to load document file", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]

	p := columnString(row, pathCol)
	if p == nil || *p == "" {
		return nil, nil
	}

	file := &ActiveFile{Path: *p}
	if id := columnInt(row, "id"); id != nil {
		file.FileID = *id
	}
	file.OriginalName = columnString(row, s.schema.ResolveColumn(table, FileNameColumns...))
	file.MimeType = columnString(row, s.schema.ResolveColumn(table, FileMimeColumns...))
	return file, nil
}

// insertFileMeta writes a document_files row populating only the columns the
// deployed schema actually has. A schema without any path column records no
// file metadata at all.
func (s *DocumentService) insertFileMeta(tx *gorm.DB, documentID int, storedPath string, file *UploadedFile, actorID int) error {
	table := models.DocumentFile{}.TableName()
	if !s.schema.HasTable(table) {
		return nil
	}
	pathCol := s.schema.ResolveColumn(table, FilePathColumns...)
	if pathCol == "" {
		return nil
	}

	now := time.Now()
	insert := map[string]interface{}{
		"document_id": documentID,
		pathCol:       storedPath,
		"created_at":  now,
		"updated_at":  now,
	}
	if col := s.schema.ResolveColumn(table, FileNameColumns...); col != "" {
		insert[col] = file.OriginalName
	}
	if col := s.schema.ResolveColumn(table, FileMimeColumns...); col != "" {
		insert[col] = file.MimeType
	}
	if col := s.schema.ResolveColumn(table, FileSizeColumns...); col != "" {
		insert[col] = file.Size
	}
	if col := s.schema.ResolveColumn(table, FileActiveColumns...); col != "" {
		insert[col] = 1
	}
	if col := s.schema.ResolveColumn(table, FileUploaderColumns...); col != "" {
		insert[col] = actorID
	}
	if col := s.schema.ResolveColumn(table, FileVersionColumns...); col != "" {
		var maxVersion int
		if err := tx.Table(table).
			Where("document_id = ?", documentID).
			Select("COALESCE(MAX(" + col + "), 0)").
			Scan(&maxVersion).Error; err != nil {
			return err
		}
		insert[col] = maxVersion + 1
	}

	return tx.Table(table).Create(insert).Error
}

// syncCategories makes the association set equal to desired: rows outside
// the set are deleted, missing ones inserted, shared ones untouched.
func (s *DocumentService) syncCategories(tx *gorm.DB, documentID int, desired []int) error {
	var current []int
	if err := tx.Model(&models.DocumentCategory{}).
		Where("document_id = ?", documentID).
		Pluck("category_id", &current).Error; err != nil {
		return err
	}

	toAdd, toRemove := diffCategoryIDs(current, desired)

	if len(toRemove) > 0 {
		if err := tx.Where("document_id = ? AND category_id IN ?", documentID, toRemove).
			Delete(&models.DocumentCategory{}).Error; err != nil {
			return err
		}
	}
	for _, categoryID := range toAdd {
		link := models.DocumentCategory{DocumentID: documentID, CategoryID: categoryID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

// diffCategoryIDs computes the symmetric difference between the current and
// desired association sets. Duplicates in desired are ignored.
func diffCategoryIDs(current, desired []int) (toAdd, toRemove []int) {
	currentSet := make(map[int]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}

	desiredSet := make(map[int]bool, len(desired))
	for _, id := range desired {
		if desiredSet[id] {
			continue
		}
		desiredSet[id] = true
		if !currentSet[id] {
			toAdd = append(toAdd, id)
		}
	}

	for _, id := range current {
		if !desiredSet[id] {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

// resolveBidangFromLocation reads the rak's bidang reference through the
// column resolver. Returns 0 when the column is missing or its value null.
func (s *DocumentService) resolveBidangFromLocation(tx *gorm.DB, locationID int) (int, error) {
	col := s.schema.ResolveColumn(models.Location{}.TableName(), LocationBidangCols...)
	if col == "" {
		return 0, nil
	}

	var val sql.NullInt64
	err := tx.Table(models.Location{}.TableName()).
		Where("id = ?", locationID).
		Select(col).
		Limit(1).
		Scan(&val).Error
	if err != nil {
		return 0, err
	}
	if !val.Valid {
		return 0, nil
	}
	return int(val.Int64), nil
}

func kodeDocumentExists(db *gorm.DB, kode string, ignoreID int) (bool, error) {
	var count int64
	q := db.Model(&models.Document{}).Where("kode_document = ?", kode)
	if ignoreID != 0 {
		q = q.Where("id <> ?", ignoreID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *DocumentService) requireLocation(id int) error {
	var count int64
	if err := s.db.Model(&models.Location{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return newStorageError("failed to check rak", err)
	}
	if count == 0 {
		return newFieldError("rak not found", "rak_id", "The selected rak does not exist.")
	}
	return nil
}

func (s *DocumentService) requireBidang(id int) error {
	var count int64
	if err := s.db.Model(&models.Bidang{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return newStorageError("failed to check bidang", err)
	}
	if count == 0 {
		return newFieldError("bidang not found", "bidang_id", "The selected bidang does not exist.")
	}
	return nil
}

func (s *DocumentService) reload(id int) (*models.Document, error) {
	var doc models.Document
	if err := s.db.Preload("Bidang").Preload("Location").Preload("Categories").
		First(&doc, id).Error; err != nil {
		return nil, newStorageError("failed to load document", err)
	}
	return &doc, nil
}

func validateUpload(file *UploadedFile) *ServiceError {
	ext := strings.ToLower(filepath.Ext(file.OriginalName))
	if !allowedUploadExts[ext] {
		return newFieldError("file type not allowed", "file", "Allowed types: pdf, doc, docx, xls, xlsx, ppt, pptx.")
	}
	if file.Size > maxUploadSize {
		return newFieldError("file too large", "file", "The file may not be larger than 20MB.")
	}
	return nil
}

func isDuplicateKode(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") && strings.Contains(msg, "kode_document")
}

func columnString(row map[string]interface{}, col string) *string {
	if col == "" {
		return nil
	}
	v, ok := row[col]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		return &t
	case []byte:
		s := string(t)
		return &s
	}
	s := fmt.Sprint(v)
	return &s
}

func columnInt(row map[string]interface{}, col string) *int {
	if col == "" {
		return nil
	}
	v, ok := row[col]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case int64:
		n := int(t)
		return &n
	case int:
		return &t
	case uint64:
		n := int(t)
		return &n
	case []byte:
		if parsed, err := strconv.Atoi(string(t)); err == nil {
			return &parsed
		}
	}
	return nil
}

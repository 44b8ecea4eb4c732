package services

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"testing"
)

type fakeSchema struct {
	tables map[string]bool
	cols   map[string]map[string]bool
}

func (f *fakeSchema) HasTable(table string) bool {
	return f.tables[table]
}

func (f *fakeSchema) ResolveColumn(table string, candidates ...string) string {
	for _, col := range candidates {
		if f.cols[table][col] {
			return col
		}
	}
	return ""
}

// fullSchema mirrors the canonical migration set.
func fullSchema() *fakeSchema {
	return &fakeSchema{
		tables: map[string]bool{"document_files": true},
		cols: map[string]map[string]bool{
			"document_files": {
				"file_path":      true,
				"file_name":      true,
				"mime_type":      true,
				"file_size":      true,
				"is_active":      true,
				"uploaded_by":    true,
				"version_number": true,
			},
			"locations": {"bidang_id": true},
		},
	}
}

type fakeStorage struct {
	stored    []string
	deleted   []string
	failStore bool
}

func (f *fakeStorage) Store(src io.Reader, namespace, originalName string) (string, error) {
	if f.failStore {
		return "", errors.New("disk full")
	}
	p := fmt.Sprintf("%s/blob-%d.pdf", namespace, len(f.stored)+1)
	f.stored = append(f.stored, p)
	return p, nil
}

func (f *fakeStorage) Delete(storedPath string) bool {
	f.deleted = append(f.deleted, storedPath)
	return true
}

func (f *fakeStorage) Exists(storedPath string) bool {
	for _, p := range f.stored {
		if p == storedPath {
			for _, d := range f.deleted {
				if d == storedPath {
					return false
				}
			}
			return true
		}
	}
	return false
}

func (f *fakeStorage) FullPath(storedPath string) string {
	return "/blobs/" + storedPath
}

func pdfUpload(name string) *UploadedFile {
	return &UploadedFile{
		OriginalName: name,
		MimeType:     "application/pdf",
		Size:         1024,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("%PDF-1.4")), nil
		},
	}
}

func documentRow(id int64, kode, title string, bidangID, locationID int64) *stubStep {
	return &stubStep{
		kind:    stubQuery,
		pattern: regexp.MustCompile(`SELECT \* FROM .documents. WHERE`),
		columns: []string{"id", "kode_document", "title", "bidang_id", "location_id", "created_by", "status"},
		rows:    [][]driver.Value{{id, kode, title, bidangID, locationID, int64(5), "draft"}},
	}
}

// reloadSteps covers the post-commit fetch: the document plus its Bidang,
// Categories, and Location preloads (run in that, alphabetical, order).
func reloadSteps(id int64, kode, title string, bidangID, locationID int64) []*stubStep {
	return []*stubStep{
		documentRow(id, kode, title, bidangID, locationID),
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`FROM .bidang.`),
			columns: []string{"id", "kode", "nama"},
			rows:    [][]driver.Value{{bidangID, "TATA_RUANG", "Tata Ruang"}},
		},
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`document_categories`),
			columns: []string{"document_id", "category_id"},
			rows:    [][]driver.Value{},
		},
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`FROM .locations.`),
			columns: []string{"id", "kode_rak", "nama_rak"},
			rows:    [][]driver.Value{{locationID, "RAK-01", "Rak Arsip 1"}},
		},
	}
}

func TestCreateDocumentResolvesBidangAndStoresFile(t *testing.T) {
	steps := []*stubStep{
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT count\(\*\) FROM .locations. WHERE id = \?`),
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT bidang_id FROM .locations. WHERE id = \?`),
			columns: []string{"bidang_id"},
			rows:    [][]driver.Value{{int64(7)}},
		},
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT count\(\*\) FROM .documents. WHERE kode_document = \?`),
			args:    []driver.Value{"LAPORAN_2024"},
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`INSERT INTO .documents.`),
			lastInsertID: 42,
			rowsAffected: 1,
		},
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT COALESCE\(MAX\(version_number\), 0\) FROM .document_files.`),
			columns: []string{"coalesce"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`INSERT INTO .document_files.`),
			lastInsertID: 9,
			rowsAffected: 1,
		},
	}
	steps = append(steps, reloadSteps(42, "LAPORAN_2024", "Laporan 2024", 7, 3)...)

	state := &stubDB{steps: steps}
	db, cleanup := newStubGormDB(t, state)
	defer cleanup()

	storage := &fakeStorage{}
	svc := NewDocumentService(db, storage, fullSchema())

	doc, err := svc.Create(CreateDocumentInput{
		Title:      "Laporan 2024",
		LocationID: 3,
		File:       pdfUpload("laporan.pdf"),
		ActorID:    5,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if doc.ID != 42 {
		t.Fatalf("expected document id 42, got %d", doc.ID)
	}
	if doc.KodeDocument != "LAPORAN_2024" {
		t.Fatalf("expected generated code LAPORAN_2024, got %q", doc.KodeDocument)
	}
	if doc.BidangID != 7 {
		t.Fatalf("expected bidang resolved from rak (7), got %d", doc.BidangID)
	}
	if doc.Bidang == nil || doc.Bidang.Nama != "Tata Ruang" {
		t.Fatalf("expected Bidang preloaded, got %+v", doc.Bidang)
	}
	if len(storage.stored) != 1 {
		t.Fatalf("expected one stored blob, got %d", len(storage.stored))
	}
	if len(storage.deleted) != 0 {
		t.Fatalf("expected no deleted blobs, got %v", storage.deleted)
	}
	if state.rollbackCount() != 0 {
		t.Fatalf("expected no rollbacks, got %d", state.rollbackCount())
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateDocumentCleansUpBlobWhenInsertFails(t *testing.T) {
	steps := []*stubStep{
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT count\(\*\) FROM .locations. WHERE id = \?`),
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT bidang_id FROM .locations.`),
			columns: []string{"bidang_id"},
			rows:    [][]driver.Value{{int64(7)}},
		},
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT count\(\*\) FROM .documents. WHERE kode_document = \?`),
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`INSERT INTO .documents.`),
			lastInsertID: 42,
			rowsAffected: 1,
		},
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT COALESCE\(MAX\(version_number\), 0\)`),
			columns: []string{"coalesce"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:    stubExec,
			pattern: regexp.MustCompile(`INSERT INTO .document_files.`),
			err:     errors.New("lost connection"),
		},
	}

	state := &stubDB{steps: steps}
	db, cleanup := newStubGormDB(t, state)
	defer cleanup()

	storage := &fakeStorage{}
	svc := NewDocumentService(db, storage, fullSchema())

	_, err := svc.Create(CreateDocumentInput{
		Title:      "Laporan 2024",
		LocationID: 3,
		File:       pdfUpload("laporan.pdf"),
		ActorID:    5,
	})
	if err == nil {
		t.Fatal("expected Create to fail")
	}

	se, ok := AsServiceError(err)
	if !ok || se.Kind != KindStorage {
		t.Fatalf("expected storage error, got %v", err)
	}
	if state.rollbackCount() != 1 {
		t.Fatalf("expected one rollback, got %d", state.rollbackCount())
	}
	if len(storage.stored) != 1 || len(storage.deleted) != 1 || storage.stored[0] != storage.deleted[0] {
		t.Fatalf("expected the stored blob to be deleted again, stored=%v deleted=%v", storage.stored, storage.deleted)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateDocumentCleansUpBlobWhenCommitFails(t *testing.T) {
	steps := []*stubStep{
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT count\(\*\) FROM .locations. WHERE id = \?`),
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT bidang_id FROM .locations.`),
			columns: []string{"bidang_id"},
			rows:    [][]driver.Value{{int64(7)}},
		},
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT count\(\*\) FROM .documents. WHERE kode_document = \?`),
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`INSERT INTO .documents.`),
			lastInsertID: 42,
			rowsAffected: 1,
		},
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT COALESCE\(MAX\(version_number\), 0\)`),
			columns: []string{"coalesce"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`INSERT INTO .document_files.`),
			lastInsertID: 9,
			rowsAffected: 1,
		},
	}

	state := &stubDB{
		steps:      steps,
		commitErrs: []error{errors.New("invalid connection")},
	}
	db, cleanup := newStubGormDB(t, state)
	defer cleanup()

	storage := &fakeStorage{}
	svc := NewDocumentService(db, storage, fullSchema())

	_, err := svc.Create(CreateDocumentInput{
		Title:      "Laporan 2024",
		LocationID: 3,
		File:       pdfUpload("laporan.pdf"),
		ActorID:    5,
	})
	if err == nil {
		t.Fatal("expected Create to fail on commit")
	}

	se, ok := AsServiceError(err)
	if !ok || se.Kind != KindStorage {
		t.Fatalf("expected storage error, got %v", err)
	}
	// The blob made it to disk before the commit failed; it must be gone
	// again and no document row may survive (the transaction rolled back).
	if len(storage.stored) != 1 || len(storage.deleted) != 1 || storage.stored[0] != storage.deleted[0] {
		t.Fatalf("expected the stored blob to be deleted again, stored=%v deleted=%v", storage.stored, storage.deleted)
	}
	if state.rollbackCount() != 1 {
		t.Fatalf("expected one rollback, got %d", state.rollbackCount())
	}
	if state.commits != 1 {
		t.Fatalf("expected one commit attempt, got %d", state.commits)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateDocumentSurfacesConflictWhenRetryStillCollides(t *testing.T) {
	dupErr := errors.New("Error 1062 (23000): Duplicate entry 'LAPORAN_2024' for key 'documents.kode_document'")

	attempt := func() []*stubStep {
		return []*stubStep{
			{
				kind:    stubQuery,
				pattern: regexp.MustCompile(`SELECT bidang_id FROM .locations.`),
				columns: []string{"bidang_id"},
				rows:    [][]driver.Value{{int64(7)}},
			},
			{
				kind:    stubQuery,
				pattern: regexp.MustCompile(`SELECT count\(\*\) FROM .documents. WHERE kode_document = \?`),
				columns: []string{"count"},
				rows:    [][]driver.Value{{int64(0)}},
			},
			{
				kind:    stubExec,
				pattern: regexp.MustCompile(`INSERT INTO .documents.`),
				err:     dupErr,
			},
		}
	}

	steps := []*stubStep{
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT count\(\*\) FROM .locations. WHERE id = \?`),
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}
	steps = append(steps, attempt()...) // first insert loses the race
	steps = append(steps, attempt()...) // retry with a fresh code loses again

	state := &stubDB{steps: steps}
	db, cleanup := newStubGormDB(t, state)
	defer cleanup()

	storage := &fakeStorage{}
	svc := NewDocumentService(db, storage, fullSchema())

	_, err := svc.Create(CreateDocumentInput{
		Title:      "Laporan 2024",
		LocationID: 3,
		File:       pdfUpload("laporan.pdf"),
		ActorID:    5,
	})
	if err == nil {
		t.Fatal("expected Create to fail")
	}

	// Losing the code race twice is a conflict the client retries, not a
	// server fault.
	se, ok := AsServiceError(err)
	if !ok || se.Kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := se.Fields["kode_document"]; !ok {
		t.Fatalf("expected field detail for kode_document, got %v", se.Fields)
	}
	if state.rollbackCount() != 2 {
		t.Fatalf("expected two rollbacks, got %d", state.rollbackCount())
	}
	if len(storage.stored) != 0 {
		t.Fatalf("expected no blob writes, got %v", storage.stored)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateDocumentFailsWhenBidangUnresolvable(t *testing.T) {
	schema := fullSchema()
	delete(schema.cols, "locations") // deployment without locations.bidang_id

	state := &stubDB{steps: []*stubStep{
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT count\(\*\) FROM .locations. WHERE id = \?`),
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}}
	db, cleanup := newStubGormDB(t, state)
	defer cleanup()

	storage := &fakeStorage{}
	svc := NewDocumentService(db, storage, schema)

	_, err := svc.Create(CreateDocumentInput{
		Title:      "Laporan 2024",
		LocationID: 3,
		File:       pdfUpload("laporan.pdf"),
		ActorID:    5,
	})
	if err == nil {
		t.Fatal("expected Create to fail")
	}

	se, ok := AsServiceError(err)
	if !ok || se.Kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := se.Fields["bidang_id"]; !ok {
		t.Fatalf("expected field detail for bidang_id, got %v", se.Fields)
	}
	if len(storage.stored) != 0 {
		t.Fatalf("expected no blob writes, got %v", storage.stored)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestActiveFilePrefersActiveColumn(t *testing.T) {
	state := &stubDB{steps: []*stubStep{
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`WHERE document_id = \? ORDER BY is_active DESC,\s*id DESC`),
			columns: []string{"id", "file_path", "file_name", "mime_type"},
			rows:    [][]driver.Value{{int64(2), "documents/b.pdf", "b.pdf", "application/pdf"}},
		},
	}}
	db, cleanup := newStubGormDB(t, state)
	defer cleanup()

	svc := NewDocumentService(db, &fakeStorage{}, fullSchema())

	file, err := svc.ActiveFile(42)
	if err != nil {
		t.Fatalf("ActiveFile returned error: %v", err)
	}
	if file == nil {
		t.Fatal("expected a file, got nil")
	}
	if file.FileID != 2 || file.Path != "documents/b.pdf" {
		t.Fatalf("unexpected file: %+v", file)
	}
	if file.OriginalName == nil || *file.OriginalName != "b.pdf" {
		t.Fatalf("unexpected original name: %v", file.OriginalName)
	}
	if file.MimeType == nil || *file.MimeType != "application/pdf" {
		t.Fatalf("unexpected mime type: %v", file.MimeType)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestActiveFileFallsBackToLatestInsertWithoutActiveColumn(t *testing.T) {
	schema := fullSchema()
	delete(schema.cols["document_files"], "is_active")

	state := &stubDB{steps: []*stubStep{
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`WHERE document_id = \? ORDER BY id DESC`),
			columns: []string{"id", "file_path", "file_name", "mime_type"},
			rows:    [][]driver.Value{{int64(3), "documents/c.pdf", "c.pdf", "application/pdf"}},
		},
	}}
	db, cleanup := newStubGormDB(t, state)
	defer cleanup()

	svc := NewDocumentService(db, &fakeStorage{}, schema)

	file, err := svc.ActiveFile(42)
	if err != nil {
		t.Fatalf("ActiveFile returned error: %v", err)
	}
	if file == nil || file.Path != "documents/c.pdf" {
		t.Fatalf("expected latest insert, got %+v", file)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestActiveFileReturnsNilWithoutRowsOrTable(t *testing.T) {
	state := &stubDB{steps: []*stubStep{
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`WHERE document_id = \?`),
			columns: []string{"id", "file_path"},
			rows:    [][]driver.Value{},
		},
	}}
	db, cleanup := newStubGormDB(t, state)
	defer cleanup()

	svc := NewDocumentService(db, &fakeStorage{}, fullSchema())
	file, err := svc.ActiveFile(42)
	if err != nil || file != nil {
		t.Fatalf("expected nil file for empty table, got %+v, %v", file, err)
	}

	// No document_files table at all: answered without touching the DB.
	noTable := fullSchema()
	noTable.tables["document_files"] = false
	svc = NewDocumentService(db, &fakeStorage{}, noTable)
	file, err = svc.ActiveFile(42)
	if err != nil || file != nil {
		t.Fatalf("expected nil file without table, got %+v, %v", file, err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDiffCategoryIDs(t *testing.T) {
	cases := []struct {
		name       string
		current    []int
		desired    []int
		wantAdd    []int
		wantRemove []int
	}{
		{"identical sets are untouched", []int{1, 2}, []int{1, 2}, nil, nil},
		{"empty desired clears all", []int{1, 2}, []int{}, nil, []int{1, 2}},
		{"mixed add and remove", []int{1, 2}, []int{2, 3}, []int{3}, []int{1}},
		{"duplicates in desired ignored", []int{1}, []int{1, 1, 2, 2}, []int{2}, nil},
		{"empty current adds everything", nil, []int{4, 5}, []int{4, 5}, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			add, remove := diffCategoryIDs(c.current, c.desired)
			if !equalInts(add, c.wantAdd) {
				t.Errorf("toAdd = %v, want %v", add, c.wantAdd)
			}
			if !equalInts(remove, c.wantRemove) {
				t.Errorf("toRemove = %v, want %v", remove, c.wantRemove)
			}
		})
	}
}

func equalInts(got, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestSyncCategoriesAppliesSymmetricDifference(t *testing.T) {
	state := &stubDB{steps: []*stubStep{
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT .category_id. FROM .document_categories. WHERE document_id = \?`),
			columns: []string{"category_id"},
			rows:    [][]driver.Value{{int64(1)}, {int64(2)}},
		},
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`DELETE FROM .document_categories. WHERE document_id = \? AND category_id IN`),
			rowsAffected: 1,
		},
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`INSERT INTO .document_categories.`),
			lastInsertID: 10,
			rowsAffected: 1,
		},
	}}
	db, cleanup := newStubGormDB(t, state)
	defer cleanup()

	svc := NewDocumentService(db, &fakeStorage{}, fullSchema())
	if err := svc.syncCategories(db, 42, []int{2, 3}); err != nil {
		t.Fatalf("syncCategories returned error: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSyncCategoriesIsIdempotent(t *testing.T) {
	state := &stubDB{steps: []*stubStep{
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT .category_id. FROM .document_categories. WHERE document_id = \?`),
			columns: []string{"category_id"},
			rows:    [][]driver.Value{{int64(2)}, {int64(3)}},
		},
	}}
	db, cleanup := newStubGormDB(t, state)
	defer cleanup()

	svc := NewDocumentService(db, &fakeStorage{}, fullSchema())
	// Same set again: no deletes, no inserts.
	if err := svc.syncCategories(db, 42, []int{2, 3}); err != nil {
		t.Fatalf("syncCategories returned error: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateWithNewFileDeactivatesPriorVersions(t *testing.T) {
	steps := []*stubStep{
		documentRow(42, "LAPORAN_2024", "Laporan 2024", 7, 3),
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`UPDATE .documents. SET`),
			rowsAffected: 1,
		},
		// Prior versions are switched off before the replacement row goes in;
		// the scripted order proves the sequence.
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`UPDATE .document_files. SET .is_active.`),
			rowsAffected: 2,
		},
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT COALESCE\(MAX\(version_number\), 0\)`),
			columns: []string{"coalesce"},
			rows:    [][]driver.Value{{int64(2)}},
		},
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`INSERT INTO .document_files.`),
			lastInsertID: 9,
			rowsAffected: 1,
		},
	}
	steps = append(steps, reloadSteps(42, "LAPORAN_2024", "Laporan 2024", 7, 3)...)

	state := &stubDB{steps: steps}
	db, cleanup := newStubGormDB(t, state)
	defer cleanup()

	storage := &fakeStorage{}
	svc := NewDocumentService(db, storage, fullSchema())

	if _, err := svc.Update(42, UpdateDocumentInput{File: pdfUpload("laporan-v3.pdf"), ActorID: 5}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if len(storage.stored) != 1 {
		t.Fatalf("expected one stored blob, got %d", len(storage.stored))
	}
	if len(storage.deleted) != 0 {
		t.Fatalf("expected no deleted blobs, got %v", storage.deleted)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteDocumentRemovesFileRowsBlobsAndLinks(t *testing.T) {
	state := &stubDB{steps: []*stubStep{
		documentRow(42, "LAPORAN_2024", "Laporan 2024", 7, 3),
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .document_files. WHERE document_id = \?`),
			columns: []string{"id", "file_path"},
			rows: [][]driver.Value{
				{int64(1), "documents/a.pdf"},
				{int64(2), "documents/b.pdf"},
			},
		},
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`DELETE FROM document_files WHERE document_id = \?`),
			rowsAffected: 2,
		},
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`DELETE FROM .document_categories. WHERE document_id = \?`),
			rowsAffected: 1,
		},
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`DELETE FROM .documents. WHERE`),
			rowsAffected: 1,
		},
		// The post-delete lookup finds nothing.
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`WHERE document_id = \?`),
			columns: []string{"id", "file_path"},
			rows:    [][]driver.Value{},
		},
	}}
	db, cleanup := newStubGormDB(t, state)
	defer cleanup()

	storage := &fakeStorage{stored: []string{"documents/a.pdf", "documents/b.pdf"}}
	svc := NewDocumentService(db, storage, fullSchema())

	if err := svc.Delete(42); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if len(storage.deleted) != 2 {
		t.Fatalf("expected both blobs deleted, got %v", storage.deleted)
	}
	for i, want := range []string{"documents/a.pdf", "documents/b.pdf"} {
		if storage.deleted[i] != want {
			t.Fatalf("deleted[%d] = %q, want %q", i, storage.deleted[i], want)
		}
	}

	file, err := svc.ActiveFile(42)
	if err != nil || file != nil {
		t.Fatalf("expected no active file after delete, got %+v, %v", file, err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateWithoutCategoriesLeavesAssociationsAlone(t *testing.T) {
	steps := []*stubStep{
		documentRow(42, "LAPORAN_2024", "Laporan 2024", 7, 3),
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`UPDATE .documents. SET`),
			rowsAffected: 1,
		},
	}
	steps = append(steps, reloadSteps(42, "LAPORAN_2024", "Laporan 2024 (rev)", 7, 3)...)

	state := &stubDB{steps: steps}
	db, cleanup := newStubGormDB(t, state)
	defer cleanup()

	svc := NewDocumentService(db, &fakeStorage{}, fullSchema())

	title := "Laporan 2024 (rev)"
	if _, err := svc.Update(42, UpdateDocumentInput{Title: &title, ActorID: 5}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	// No document_categories statements were scripted, so touching them
	// would have failed the run.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateWithEmptyCategoriesClearsAssociations(t *testing.T) {
	steps := []*stubStep{
		documentRow(42, "LAPORAN_2024", "Laporan 2024", 7, 3),
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`UPDATE .documents. SET`),
			rowsAffected: 1,
		},
		{
			kind:    stubQuery,
			pattern: regexp.MustCompile(`SELECT .category_id. FROM .document_categories.`),
			columns: []string{"category_id"},
			rows:    [][]driver.Value{{int64(1)}, {int64(2)}},
		},
		{
			kind:         stubExec,
			pattern:      regexp.MustCompile(`DELETE FROM .document_categories.`),
			rowsAffected: 2,
		},
	}
	steps = append(steps, reloadSteps(42, "LAPORAN_2024", "Laporan 2024", 7, 3)...)

	state := &stubDB{steps: steps}
	db, cleanup := newStubGormDB(t, state)
	defer cleanup()

	svc := NewDocumentService(db, &fakeStorage{}, fullSchema())

	empty := []int{}
	if _, err := svc.Update(42, UpdateDocumentInput{CategoryIDs: &empty, ActorID: 5}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

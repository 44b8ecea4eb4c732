package controllers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"arsip-dlh-api/config"
	"arsip-dlh-api/models"
	"arsip-dlh-api/services"

	"github.com/gin-gonic/gin"
)

// GetDocuments lists documents with q/rak_id/bidang_id/category_id filters
func GetDocuments(c *gin.Context) {
	page, perPage := paginationParams(c)

	query := config.DB.Model(&models.Document{})
	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("title LIKE ? OR kode_document LIKE ?", like, like)
	}
	if v := c.Query("rak_id"); v != "" {
		rakID, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rak_id"})
			return
		}
		query = query.Where("location_id = ?", rakID)
	}
	if v := c.Query("bidang_id"); v != "" {
		bidangID, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bidang_id"})
			return
		}
		query = query.Where("bidang_id = ?", bidangID)
	}
	if v := c.Query("category_id"); v != "" {
		categoryID, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}
		query = query.Where(
			"id IN (SELECT document_id FROM document_categories WHERE category_id = ?)",
			categoryID,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}

	var documents []models.Document
	if err := query.
		Preload("Bidang").Preload("Location").Preload("Categories").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&documents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"page":      page,
		"per_page":  perPage,
		"total":     total,
	})
}

// GetDocument returns one document with its relations and file versions
func GetDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var document models.Document
	if err := config.DB.
		Preload("Bidang").Preload("Location").Preload("Categories").Preload("Creator").
		First(&document, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	// File rows go through the resolver-backed service, not the model, so
	// legacy column layouts still answer.
	activeFile, err := documentService().ActiveFile(document.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch document file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document":    document,
		"active_file": activeFile,
	})
}

// CreateDocument accepts a multipart form with the file and metadata
func CreateDocument(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Title is required",
			"errors": gin.H{"title": []string{"The title field is required."}},
		})
		return
	}

	rakID, err := formInt(c, "rak_id", "location_id")
	if err != nil || rakID == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Rak is required",
			"errors": gin.H{"rak_id": []string{"The rak field is required."}},
		})
		return
	}

	in := services.CreateDocumentInput{
		Title:      title,
		LocationID: rakID,
		ActorID:    currentUserID(c),
	}

	if v, ok := c.GetPostForm("description"); ok && v != "" {
		in.Description = &v
	}
	if v, ok := c.GetPostForm("bidang_id"); ok && v != "" {
		bidangID, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bidang_id"})
			return
		}
		in.BidangID = &bidangID
	}
	if v, ok := c.GetPostForm("kode_document"); ok && v != "" {
		in.KodeDocument = &v
	}
	if ids, ok := formCategoryIDs(c); ok {
		in.CategoryIDs = ids
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "File is required",
			"errors": gin.H{"file": []string{"A document file must be uploaded."}},
		})
		return
	}
	in.File = uploadedFromHeader(fh)

	document, err := documentService().Create(in)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	services.LogActivity(config.DB, in.ActorID, services.ActionDocumentCreated, &document.ID,
		fmt.Sprintf("created document %s", document.KodeDocument))

	c.JSON(http.StatusCreated, gin.H{"message": "Document created successfully", "document": document})
}

// UpdateDocument applies a partial multipart update; fields absent from the
// form are left untouched
func UpdateDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	in := services.UpdateDocumentInput{ActorID: currentUserID(c)}

	if v, ok := c.GetPostForm("title"); ok && v != "" {
		in.Title = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		if v == "" {
			in.ClearDescription = true
		} else {
			in.Description = &v
		}
	}
	if v, ok := c.GetPostForm("rak_id"); ok && v != "" {
		rakID, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rak_id"})
			return
		}
		in.LocationID = &rakID
	}
	if v, ok := c.GetPostForm("bidang_id"); ok && v != "" {
		bidangID, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bidang_id"})
			return
		}
		in.BidangID = &bidangID
	}
	if v, ok := c.GetPostForm("kode_document"); ok {
		// Present but empty regenerates the code from the title.
		in.KodeDocument = &v
	}
	if ids, ok := formCategoryIDs(c); ok {
		in.CategoryIDs = &ids
	}
	if fh, err := c.FormFile("file"); err == nil {
		in.File = uploadedFromHeader(fh)
	}

	document, err := documentService().Update(id, in)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	services.LogActivity(config.DB, in.ActorID, services.ActionDocumentUpdated, &document.ID,
		fmt.Sprintf("updated document %s", document.KodeDocument))

	c.JSON(http.StatusOK, gin.H{"message": "Document updated successfully", "document": document})
}

// DeleteDocument removes a document, its file rows, and their blobs
func DeleteDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := documentService().Delete(id); err != nil {
		abortWithServiceError(c, err)
		return
	}

	services.LogActivity(config.DB, currentUserID(c), services.ActionDocumentDeleted, &id,
		fmt.Sprintf("deleted document #%d", id))

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

// DownloadDocument streams the active file as an attachment
func DownloadDocument(c *gin.Context) {
	serveDocumentFile(c, true)
}

// PreviewDocument streams the active file inline
func PreviewDocument(c *gin.Context) {
	serveDocumentFile(c, false)
}

func serveDocumentFile(c *gin.Context, asAttachment bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var document models.Document
	if err := config.DB.First(&document, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	file, err := documentService().ActiveFile(document.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch document file"})
		return
	}
	if file == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document has no file"})
		return
	}

	fullPath := blobStorage().FullPath(file.Path)
	if !blobStorage().Exists(file.Path) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found on storage"})
		return
	}

	name := filepath.Base(file.Path)
	if file.OriginalName != nil && *file.OriginalName != "" {
		name = *file.OriginalName
	}

	services.LogDownload(config.DB, currentUserID(c), file.FileID, c.ClientIP(), c.Request.UserAgent())

	if asAttachment {
		c.FileAttachment(fullPath, name)
		return
	}

	if file.MimeType != nil && *file.MimeType != "" {
		c.Header("Content-Type", *file.MimeType)
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	c.File(fullPath)
}

func uploadedFromHeader(fh *multipart.FileHeader) *services.UploadedFile {
	return &services.UploadedFile{
		OriginalName: fh.Filename,
		MimeType:     fh.Header.Get("Content-Type"),
		Size:         fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// formInt reads the first present form field from names.
func formInt(c *gin.Context, names ...string) (int, error) {
	for _, name := range names {
		if v, ok := c.GetPostForm(name); ok && v != "" {
			return strconv.Atoi(v)
		}
	}
	return 0, nil
}

// formCategoryIDs reads category_ids from the form, reporting whether the
// field was present at all: an absent field means "leave associations alone"
// while a present empty one clears them.
func formCategoryIDs(c *gin.Context) ([]int, bool) {
	values, present := c.GetPostFormArray("category_ids")
	if !present {
		values, present = c.GetPostFormArray("category_ids[]")
	}
	if !present {
		return nil, false
	}

	ids := make([]int, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if id, err := strconv.Atoi(v); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, true
}

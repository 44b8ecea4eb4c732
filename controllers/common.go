package controllers

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"

	"arsip-dlh-api/config"
	"arsip-dlh-api/services"

	"github.com/gin-gonic/gin"
)

var (
	docInitOnce sync.Once
	docSvc      *services.DocumentService
	blobStore   services.Storage
)

func initDocumentService() {
	docInitOnce.Do(func() {
		storage, err := services.NewLocalStorage(os.Getenv("STORAGE_PATH"))
		if err != nil {
			log.Fatalf("Failed to initialize blob storage: %v", err)
		}
		blobStore = storage
		docSvc = services.NewDocumentService(config.DB, storage, services.NewSchemaInfo(config.DB))
	})
}

// documentService returns the shared document write service.
func documentService() *services.DocumentService {
	initDocumentService()
	return docSvc
}

// blobStorage returns the shared blob store.
func blobStorage() services.Storage {
	initDocumentService()
	return blobStore
}

// abortWithServiceError maps a services error onto the HTTP response:
// validation failures carry a field -> messages map the frontend renders
// next to the form fields.
func abortWithServiceError(c *gin.Context, err error) {
	if se, ok := services.AsServiceError(err); ok {
		body := gin.H{"error": se.Message}
		if len(se.Fields) > 0 {
			body["errors"] = se.Fields
		}
		c.JSON(se.HTTPStatus(), body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// paginationParams reads page/per_page query params with sane bounds.
func paginationParams(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "15"))
	if perPage < 1 {
		perPage = 15
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

// currentUserID returns the authenticated user id, 0 when anonymous.
func currentUserID(c *gin.Context) int {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(int); ok {
			return id
		}
	}
	return 0
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

package controllers

import (
	"net/http"
	"strconv"

	"arsip-dlh-api/config"
	"arsip-dlh-api/models"

	"github.com/gin-gonic/gin"
)

// GetRaks lists storage racks, optionally filtered by bidang
func GetRaks(c *gin.Context) {
	query := config.DB.Preload("Bidang").Order("kode_rak")
	if v := c.Query("bidang_id"); v != "" {
		bidangID, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bidang_id"})
			return
		}
		query = query.Where("bidang_id = ?", bidangID)
	}

	var raks []models.Location
	if err := query.Find(&raks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch raks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"raks": raks})
}

// GetRak returns one rack
func GetRak(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var rak models.Location
	if err := config.DB.Preload("Bidang").First(&rak, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rak not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rak": rak})
}

// GetRakDocuments lists the documents filed under a rack
func GetRakDocuments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var rak models.Location
	if err := config.DB.First(&rak, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rak not found"})
		return
	}

	page, perPage := paginationParams(c)

	var total int64
	if err := config.DB.Model(&models.Document{}).Where("location_id = ?", rak.ID).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}

	var documents []models.Document
	if err := config.DB.Preload("Bidang").Preload("Categories").
		Where("location_id = ?", rak.ID).
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&documents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rak":       rak,
		"documents": documents,
		"page":      page,
		"per_page":  perPage,
		"total":     total,
	})
}

// GetBidangRaks lists the racks assigned to a bidang
func GetBidangRaks(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var bidang models.Bidang
	if err := config.DB.First(&bidang, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bidang not found"})
		return
	}

	var raks []models.Location
	if err := config.DB.Where("bidang_id = ?", bidang.ID).Order("kode_rak").Find(&raks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch raks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bidang": bidang, "raks": raks})
}

type RakRequest struct {
	KodeRak   string  `json:"kode_rak" binding:"required"`
	NamaRak   string  `json:"nama_rak" binding:"required"`
	Ruang     *string `json:"ruang"`
	Deskripsi *string `json:"deskripsi"`
	BidangID  *int    `json:"bidang_id"`
}

// CreateRak creates a storage rack
func CreateRak(c *gin.Context) {
	var req RakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.BidangID != nil {
		var count int64
		if err := config.DB.Model(&models.Bidang{}).Where("id = ?", *req.BidangID).Count(&count).Error; err != nil || count == 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "Bidang not found",
				"errors": gin.H{"bidang_id": []string{"The selected bidang does not exist."}},
			})
			return
		}
	}

	var taken int64
	if err := config.DB.Model(&models.Location{}).Where("kode_rak = ?", req.KodeRak).Count(&taken).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check kode_rak"})
		return
	}
	if taken > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Kode rak already in use",
			"errors": gin.H{"kode_rak": []string{"The kode rak has already been taken."}},
		})
		return
	}

	rak := models.Location{
		KodeRak:   req.KodeRak,
		NamaRak:   req.NamaRak,
		Ruang:     req.Ruang,
		Deskripsi: req.Deskripsi,
		BidangID:  req.BidangID,
	}
	if err := config.DB.Create(&rak).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rak"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Rak created successfully", "rak": rak})
}

// UpdateRak applies a partial update
func UpdateRak(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var rak models.Location
	if err := config.DB.First(&rak, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rak not found"})
		return
	}

	type UpdateRequest struct {
		KodeRak   *string `json:"kode_rak"`
		NamaRak   *string `json:"nama_rak"`
		Ruang     *string `json:"ruang"`
		Deskripsi *string `json:"deskripsi"`
		BidangID  *int    `json:"bidang_id"`
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.KodeRak != nil && *req.KodeRak != rak.KodeRak {
		var taken int64
		if err := config.DB.Model(&models.Location{}).
			Where("kode_rak = ? AND id <> ?", *req.KodeRak, rak.ID).
			Count(&taken).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check kode_rak"})
			return
		}
		if taken > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "Kode rak already in use",
				"errors": gin.H{"kode_rak": []string{"The kode rak has already been taken."}},
			})
			return
		}
		rak.KodeRak = *req.KodeRak
	}
	if req.NamaRak != nil {
		rak.NamaRak = *req.NamaRak
	}
	if req.Ruang != nil {
		rak.Ruang = req.Ruang
	}
	if req.Deskripsi != nil {
		rak.Deskripsi = req.Deskripsi
	}
	if req.BidangID != nil {
		var count int64
		if err := config.DB.Model(&models.Bidang{}).Where("id = ?", *req.BidangID).Count(&count).Error; err != nil || count == 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "Bidang not found",
				"errors": gin.H{"bidang_id": []string{"The selected bidang does not exist."}},
			})
			return
		}
		rak.BidangID = req.BidangID
	}

	if err := config.DB.Save(&rak).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rak"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rak updated successfully", "rak": rak})
}

// DeleteRak removes a rack that holds no documents
func DeleteRak(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var rak models.Location
	if err := config.DB.First(&rak, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rak not found"})
		return
	}

	var docCount int64
	if err := config.DB.Model(&models.Document{}).Where("location_id = ?", rak.ID).Count(&docCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check documents"})
		return
	}
	if docCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Rak still holds documents"})
		return
	}

	if err := config.DB.Delete(&rak).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rak"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rak deleted successfully"})
}

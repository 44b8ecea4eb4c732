package controllers

import (
	"net/http"
	"strings"

	"arsip-dlh-api/config"
	"arsip-dlh-api/models"
	"arsip-dlh-api/services"

	"github.com/gin-gonic/gin"
)

// GetBidangList returns all bidang ordered by name
func GetBidangList(c *gin.Context) {
	var bidang []models.Bidang
	if err := config.DB.Preload("KepalaBidang").Order("nama").Find(&bidang).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bidang"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bidang": bidang})
}

// GetBidang returns one bidang with its raks
func GetBidang(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var bidang models.Bidang
	if err := config.DB.Preload("KepalaBidang").First(&bidang, id).Error; err != nil {
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

type BidangRequest struct {
	Nama           string  `json:"nama" binding:"required"`
	Kode           *string `json:"kode"`
	Deskripsi      *string `json:"deskripsi"`
	KepalaBidangID *int    `json:"kepala_bidang_id"`
}

// CreateBidang creates a bidang, generating its kode from the name when absent
func CreateBidang(c *gin.Context) {
	var req BidangRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kode := ""
	if req.Kode != nil {
		kode = strings.TrimSpace(*req.Kode)
	}
	if kode == "" {
		generated, err := services.GenerateCode(req.Nama, services.CodeFallbackBidang, bidangKodeExists(0))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate kode"})
			return
		}
		kode = generated
	} else if taken, err := bidangKodeExists(0)(kode); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check kode"})
		return
	} else if taken {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Kode already in use",
			"errors": gin.H{"kode": []string{"The kode has already been taken."}},
		})
		return
	}

	bidang := models.Bidang{
		Kode:           kode,
		Nama:           req.Nama,
		Deskripsi:      req.Deskripsi,
		KepalaBidangID: req.KepalaBidangID,
	}
	if err := config.DB.Create(&bidang).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bidang"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Bidang created successfully", "bidang": bidang})
}

// UpdateBidang applies a partial update
func UpdateBidang(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var bidang models.Bidang
	if err := config.DB.First(&bidang, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bidang not found"})
		return
	}

	type UpdateRequest struct {
		Nama           *string `json:"nama"`
		Kode           *string `json:"kode"`
		Deskripsi      *string `json:"deskripsi"`
		KepalaBidangID *int    `json:"kepala_bidang_id"`
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Nama != nil {
		bidang.Nama = *req.Nama
	}
	if req.Kode != nil {
		kode := strings.TrimSpace(*req.Kode)
		if kode == "" {
			// Empty kode regenerates from the (possibly new) name.
			generated, err := services.GenerateCode(bidang.Nama, services.CodeFallbackBidang, bidangKodeExists(bidang.ID))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate kode"})
				return
			}
			kode = generated
		} else if taken, err := bidangKodeExists(bidang.ID)(kode); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check kode"})
			return
		} else if taken {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "Kode already in use",
				"errors": gin.H{"kode": []string{"The kode has already been taken."}},
			})
			return
		}
		bidang.Kode = kode
	}
	if req.Deskripsi != nil {
		bidang.Deskripsi = req.Deskripsi
	}
	if req.KepalaBidangID != nil {
		bidang.KepalaBidangID = req.KepalaBidangID
	}

	if err := config.DB.Save(&bidang).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bidang"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bidang updated successfully", "bidang": bidang})
}

// DeleteBidang removes a bidang that owns no documents
func DeleteBidang(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var bidang models.Bidang
	if err := config.DB.First(&bidang, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bidang not found"})
		return
	}

	var docCount int64
	if err := config.DB.Model(&models.Document{}).Where("bidang_id = ?", bidang.ID).Count(&docCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check documents"})
		return
	}
	if docCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Bidang still owns documents"})
		return
	}

	if err := config.DB.Delete(&bidang).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete bidang"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bidang deleted successfully"})
}

// bidangKodeExists builds the uniqueness probe for kode generation,
// excluding ignoreID when updating.
func bidangKodeExists(ignoreID int) func(string) (bool, error) {
	return func(candidate string) (bool, error) {
		var count int64
		q := config.DB.Model(&models.Bidang{}).Where("kode = ?", candidate)
		if ignoreID != 0 {
			q = q.Where("id <> ?", ignoreID)
		}
		if err := q.Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}
}

package controllers

import (
	"net/http"

	"arsip-dlh-api/config"

	"github.com/gin-gonic/gin"
)

// Dropdown data for the frontend forms. Public, id/label pairs only.

type metaOption struct {
	ID    int    `json:"id"`
	Kode  string `json:"kode,omitempty"`
	Label string `json:"label"`
}

// GetMetaBidang lists bidang options
func GetMetaBidang(c *gin.Context) {
	var options []metaOption
	if err := config.DB.Table("bidang").
		Select("id, kode, nama AS label").
		Order("nama").
		Scan(&options).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bidang"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bidang": options})
}

// GetMetaCategories lists category options
func GetMetaCategories(c *gin.Context) {
	var options []metaOption
	if err := config.DB.Table("categories").
		Select("id, nama AS label").
		Order("nama").
		Scan(&options).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": options})
}

// GetMetaLocations lists rak options
func GetMetaLocations(c *gin.Context) {
	var options []metaOption
	if err := config.DB.Table("locations").
		Select("id, kode_rak AS kode, nama_rak AS label").
		Order("kode_rak").
		Scan(&options).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch locations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": options})
}

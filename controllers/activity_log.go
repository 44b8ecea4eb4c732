package controllers

import (
	"net/http"
	"strconv"

	"arsip-dlh-api/config"
	"arsip-dlh-api/models"

	"github.com/gin-gonic/gin"
)

// GetMyActivityLog lists the authenticated user's own audit entries
func GetMyActivityLog(c *gin.Context) {
	page, perPage := paginationParams(c)
	userID := currentUserID(c)

	var total int64
	if err := config.DB.Model(&models.ActivityLog{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity log"})
		return
	}

	var entries []models.ActivityLog
	if err := config.DB.Preload("Document").
		Where("user_id = ?", userID).
		Order("id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":  entries,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}

// GetActivityLog lists all audit entries, filterable by user and action
func GetActivityLog(c *gin.Context) {
	page, perPage := paginationParams(c)

	query := config.DB.Model(&models.ActivityLog{})
	if v := c.Query("user_id"); v != "" {
		userID, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
			return
		}
		query = query.Where("user_id = ?", userID)
	}
	if v := c.Query("action"); v != "" {
		query = query.Where("action = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity log"})
		return
	}

	var entries []models.ActivityLog
	if err := query.Preload("User").Preload("Document").
		Order("id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":  entries,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}

// GetDownloadsLog lists recorded download/preview accesses
func GetDownloadsLog(c *gin.Context) {
	page, perPage := paginationParams(c)

	query := config.DB.Model(&models.DownloadsLog{})
	if v := c.Query("user_id"); v != "" {
		userID, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
			return
		}
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch downloads log"})
		return
	}

	var entries []models.DownloadsLog
	if err := query.Preload("User").Preload("DocumentFile").
		Order("id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch downloads log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":  entries,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}

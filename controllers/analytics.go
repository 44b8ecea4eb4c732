package controllers

import (
	"net/http"
	"strconv"
	"time"

	"arsip-dlh-api/config"
	"arsip-dlh-api/models"

	"github.com/gin-gonic/gin"
)

// Read-only aggregations for the dashboard. All queries are raw SQL scans;
// nothing here writes.

// GetAnalyticsOverview returns the global counters
func GetAnalyticsOverview(c *gin.Context) {
	var overview struct {
		TotalBidang  int64 `json:"total_bidang"`
		TotalRak     int64 `json:"total_rak"`
		TotalDokumen int64 `json:"total_dokumen"`
		TotalUser    int64 `json:"total_user"`
	}

	err := config.DB.Raw(`
		SELECT
			(SELECT COUNT(*) FROM bidang)    AS total_bidang,
			(SELECT COUNT(*) FROM locations) AS total_rak,
			(SELECT COUNT(*) FROM documents) AS total_dokumen,
			(SELECT COUNT(*) FROM users)     AS total_user
	`).Scan(&overview).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch overview"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"overview": overview})
}

// GetAnalyticsBidangSummary returns per-bidang document and rak counts
func GetAnalyticsBidangSummary(c *gin.Context) {
	var summary []struct {
		BidangID     int        `json:"bidang_id"`
		Kode         string     `json:"kode"`
		Nama         string     `json:"nama"`
		TotalDokumen int64      `json:"total_dokumen"`
		TotalRak     int64      `json:"total_rak"`
		LastUpdated  *time.Time `json:"last_updated"`
	}

	err := config.DB.Raw(`
		SELECT
			b.id   AS bidang_id,
			b.kode AS kode,
			b.nama AS nama,
			COUNT(d.id)                 AS total_dokumen,
			COUNT(DISTINCT d.location_id) AS total_rak,
			MAX(d.created_at)           AS last_updated
		FROM bidang b
		LEFT JOIN documents d ON d.bidang_id = b.id
		GROUP BY b.id, b.kode, b.nama
		ORDER BY b.nama
	`).Scan(&summary).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bidang summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetAnalyticsBidangRaks returns per-rak document counts within one bidang.
// Empty raks are hidden unless include_empty=1.
func GetAnalyticsBidangRaks(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var bidang models.Bidang
	if err := config.DB.First(&bidang, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bidang not found"})
		return
	}

	includeEmpty := c.Query("include_empty") == "1"

	var raks []struct {
		RakID        int        `json:"rak_id"`
		KodeRak      string     `json:"kode_rak"`
		NamaRak      string     `json:"nama_rak"`
		TotalDokumen int64      `json:"total_dokumen"`
		LastUpdated  *time.Time `json:"last_updated"`
	}

	query := `
		SELECT
			l.id       AS rak_id,
			l.kode_rak AS kode_rak,
			l.nama_rak AS nama_rak,
			COUNT(d.id)       AS total_dokumen,
			MAX(d.created_at) AS last_updated
		FROM locations l
		LEFT JOIN documents d ON d.location_id = l.id
		WHERE l.bidang_id = ?
		GROUP BY l.id, l.kode_rak, l.nama_rak`
	if !includeEmpty {
		query += `
		HAVING COUNT(d.id) > 0`
	}
	query += `
		ORDER BY l.kode_rak`

	if err := config.DB.Raw(query, bidang.ID).Scan(&raks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rak summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bidang": bidang, "raks": raks})
}

// GetAnalyticsDocumentsPerMonth returns 12 zero-filled monthly buckets for
// one bidang and year
func GetAnalyticsDocumentsPerMonth(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var bidang models.Bidang
	if err := config.DB.First(&bidang, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bidang not found"})
		return
	}

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil || year < 1970 || year > 9999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}

	var rows []struct {
		Month int
		Total int64
	}
	err = config.DB.Raw(`
		SELECT MONTH(created_at) AS month, COUNT(*) AS total
		FROM documents
		WHERE bidang_id = ? AND YEAR(created_at) = ?
		GROUP BY MONTH(created_at)
	`, bidang.ID, year).Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch monthly counts"})
		return
	}

	months := make([]int64, 12)
	for _, row := range rows {
		if row.Month >= 1 && row.Month <= 12 {
			months[row.Month-1] = row.Total
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"bidang": bidang,
		"year":   year,
		"months": months,
	})
}

// GetAnalyticsTopCategories returns the most used categories, optionally
// scoped to one bidang. limit is clamped to [1,50], default 10.
func GetAnalyticsTopCategories(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	var categories []struct {
		CategoryID   int    `json:"category_id"`
		Nama         string `json:"nama"`
		TotalDokumen int64  `json:"total_dokumen"`
	}

	query := `
		SELECT
			c.id   AS category_id,
			c.nama AS nama,
			COUNT(dc.document_id) AS total_dokumen
		FROM categories c
		JOIN document_categories dc ON dc.category_id = c.id`
	args := []interface{}{}

	if v := c.Query("bidang_id"); v != "" {
		bidangID, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bidang_id"})
			return
		}
		query += `
		JOIN documents d ON d.id = dc.document_id AND d.bidang_id = ?`
		args = append(args, bidangID)
	}

	query += `
		GROUP BY c.id, c.nama
		ORDER BY total_dokumen DESC, c.nama
		LIMIT ?`
	args = append(args, limit)

	if err := config.DB.Raw(query, args...).Scan(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

package routes

import (
	"arsip-dlh-api/controllers"
	"arsip-dlh-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// Public routes
		public := api.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Arsip DLH API is running",
				})
			})

			// Document library is readable without an account; OptionalAuth
			// attributes downloads when a token is supplied anyway.
			documents := public.Group("/documents")
			documents.Use(middleware.OptionalAuth())
			{
				documents.GET("", controllers.GetDocuments)
				documents.GET("/:id", controllers.GetDocument)
				documents.GET("/:id/download", controllers.DownloadDocument)
				documents.GET("/:id/preview", controllers.PreviewDocument)
			}

			// Dropdown data
			meta := public.Group("/meta")
			{
				meta.GET("/bidang", controllers.GetMetaBidang)
				meta.GET("/categories", controllers.GetMetaCategories)
				meta.GET("/locations", controllers.GetMetaLocations)
			}

			// Dashboard aggregations
			analytics := public.Group("/analytics")
			{
				analytics.GET("/overview", controllers.GetAnalyticsOverview)
				analytics.GET("/bidang-summary", controllers.GetAnalyticsBidangSummary)
				analytics.GET("/bidang/:id/raks", controllers.GetAnalyticsBidangRaks)
				analytics.GET("/bidang/:id/documents-per-month", controllers.GetAnalyticsDocumentsPerMonth)
				analytics.GET("/top-categories", controllers.GetAnalyticsTopCategories)
			}
		}

		// Protected routes (require authentication)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/user", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Browsing by rak/bidang
			protected.GET("/raks", controllers.GetRaks)
			protected.GET("/raks/:id", controllers.GetRak)
			protected.GET("/raks/:id/documents", controllers.GetRakDocuments)
			protected.GET("/bidang/:id/raks", controllers.GetBidangRaks)

			// Document management (any authenticated staff)
			protected.POST("/documents", controllers.CreateDocument)
			protected.PUT("/documents/:id", controllers.UpdateDocument)
			protected.DELETE("/documents/:id", controllers.DeleteDocument)

			// Own audit trail
			protected.GET("/activity-log", controllers.GetMyActivityLog)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
		{
			// User management
			admin.GET("/users", controllers.GetUsers)
			admin.GET("/users/:id", controllers.GetUser)
			admin.POST("/users", controllers.CreateUser)
			admin.PUT("/users/:id", controllers.UpdateUser)
			admin.DELETE("/users/:id", controllers.DeleteUser)

			// Bidang management
			admin.GET("/bidang", controllers.GetBidangList)
			admin.GET("/bidang/:id", controllers.GetBidang)
			admin.POST("/bidang", controllers.CreateBidang)
			admin.PUT("/bidang/:id", controllers.UpdateBidang)
			admin.DELETE("/bidang/:id", controllers.DeleteBidang)

			// Rak management (locations kept as an alias for older clients)
			for _, prefix := range []string{"/raks", "/locations"} {
				group := admin.Group(prefix)
				group.GET("", controllers.GetRaks)
				group.GET("/:id", controllers.GetRak)
				group.POST("", controllers.CreateRak)
				group.PUT("/:id", controllers.UpdateRak)
				group.DELETE("/:id", controllers.DeleteRak)
			}

			// Category management
			admin.GET("/categories", controllers.GetCategories)
			admin.POST("/categories", controllers.CreateCategory)
			admin.PUT("/categories/:id", controllers.UpdateCategory)
			admin.DELETE("/categories/:id", controllers.DeleteCategory)

			// Document management
			admin.POST("/documents", controllers.CreateDocument)
			admin.PUT("/documents/:id", controllers.UpdateDocument)
			admin.DELETE("/documents/:id", controllers.DeleteDocument)

			// Audit
			admin.GET("/activity-log", controllers.GetActivityLog)
			admin.GET("/downloads-log", controllers.GetDownloadsLog)
		}
	}
}

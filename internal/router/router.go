// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kitvault/kitvault-backend/internal/cache"
	"github.com/kitvault/kitvault-backend/internal/config"
	"github.com/kitvault/kitvault-backend/internal/handlers"
	"github.com/kitvault/kitvault-backend/internal/middleware"
	"github.com/kitvault/kitvault-backend/internal/models"
	"github.com/kitvault/kitvault-backend/internal/services"
	"github.com/kitvault/kitvault-backend/internal/utils"
)

func Initialize(db *gorm.DB, cacheClient *cache.Client, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Storage backend unavailable, uploads will fail")
	}

	authService := services.NewAuthService(db, cfg, notificationService)
	profileService := services.NewProfileService(db, storageService)
	jerseyService := services.NewJerseyService(db, cacheClient)
	submissionService := services.NewSubmissionService(db, cfg, storageService, notificationService)
	moderationService := services.NewModerationService(db, notificationService)
	collectionService := services.NewCollectionService(db, cacheClient, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService, collectionService)
	jerseyHandler := handlers.NewJerseyHandler(jerseyService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	collectionHandler := handlers.NewCollectionHandler(collectionService)
	adminHandler := handlers.NewAdminHandler(moderationService, notificationService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Profile routes
		profiles := v1.Group("/profiles")
		{
			// Authenticated profile management
			me := profiles.Group("/me")
			me.Use(middleware.AuthRequired())
			{
				me.GET("", profileHandler.GetOwnProfile)
				me.PUT("", profileHandler.UpdateProfile)
				me.DELETE("", profileHandler.DeleteAccount)
				me.PUT("/visibility", profileHandler.SetVisibility)
				me.PUT("/liked-visibility", profileHandler.SetLikedVisibility)
				me.PUT("/showcase", profileHandler.SetShowcase)
				me.POST("/avatar", middleware.SubmitRateLimit(), profileHandler.UploadAvatar)
			}

			// Public profile pages
			profiles.GET("/:username", profileHandler.GetPublicProfile)
			profiles.GET("/:username/collections/:kind", collectionHandler.GetPublic)
			profiles.GET("/:username/collections/:kind/:id", collectionHandler.GetPublic)
		}

		// Catalog routes
		kits := v1.Group("/kits")
		{
			kits.GET("", middleware.OptionalAuth(), jerseyHandler.Browse)
			kits.GET("/:id", middleware.OptionalAuth(), jerseyHandler.GetByID)

			// Authenticated collection actions on a kit
			protected := kits.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/:id/own", collectionHandler.AddOwnership)
				protected.POST("/:id/like", collectionHandler.Like)
				protected.DELETE("/:id/like", collectionHandler.Unlike)
				protected.POST("/:id/wishlist", collectionHandler.AddToWishlist)
				protected.DELETE("/:id/wishlist", collectionHandler.RemoveFromWishlist)
			}
		}

		// Ownership record routes
		ownerships := v1.Group("/ownerships")
		ownerships.Use(middleware.AuthRequired())
		{
			ownerships.PUT("/:id", collectionHandler.UpdateOwnership)
			ownerships.DELETE("/:id", collectionHandler.RemoveOwnership)
		}

		// Collection routes
		collections := v1.Group("/collections")
		collections.Use(middleware.AuthRequired())
		{
			collections.GET("", collectionHandler.ListOwn)
			collections.POST("", collectionHandler.Create)
			collections.GET("/:kind", collectionHandler.GetOwn)
			collections.GET("/:kind/:id", collectionHandler.GetOwn)
			collections.PUT("/custom/:id", collectionHandler.Update)
			collections.DELETE("/custom/:id", collectionHandler.Delete)
			collections.POST("/custom/:id/items", collectionHandler.AddItem)
			collections.DELETE("/custom/:id/items/:ownershipId", collectionHandler.RemoveItem)
		}

		// Submission routes
		submissions := v1.Group("/submissions")
		submissions.Use(middleware.AuthRequired())
		{
			submissions.GET("", submissionHandler.ListOwn)
			submissions.GET("/quota", submissionHandler.CheckQuota)
			submissions.POST("", middleware.SubmitRateLimit(), submissionHandler.Submit)
			submissions.POST("/batch", middleware.SubmitRateLimit(), submissionHandler.SubmitBatch)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)

			adminSubmissions := admin.Group("/submissions")
			{
				adminSubmissions.GET("", adminHandler.ListPendingSubmissions)
				adminSubmissions.POST("/:id/approve", adminHandler.ApproveSubmission)
				adminSubmissions.POST("/:id/reject", adminHandler.RejectSubmission)
				adminSubmissions.POST("/reconcile", adminHandler.Reconcile)
			}

			adminProfiles := admin.Group("/profiles")
			{
				adminProfiles.PUT("/:id/status", adminHandler.SetProfileStatus)
			}

			adminKits := admin.Group("/kits")
			{
				adminKits.PUT("/:id", jerseyHandler.Update)
			}

			adminNotifications := admin.Group("/notifications")
			{
				adminNotifications.GET("", adminHandler.ListNotifications)
				adminNotifications.PUT("/:id/read", adminHandler.MarkNotificationRead)
			}
		}

		// Metadata routes (public)
		meta := v1.Group("/meta")
		{
			meta.GET("/kit-types", getKitTypesHandler)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}

// Helper handlers for simple endpoints
func getKitTypesHandler(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"kit_types":  []models.KitType{models.KitTypeHome, models.KitTypeAway, models.KitTypeThird, models.KitTypeGoalkeeper, models.KitTypeSpecial},
		"categories": []models.KitCategory{models.KitCategoryClub, models.KitCategoryNationalTeam, models.KitCategoryTraining, models.KitCategoryCommemorative},
		"genders":    []models.CompetitionGender{models.GenderMens, models.GenderWomens, models.GenderUnisex},
		"fits":       []models.FitType{models.FitRegular, models.FitSlim, models.FitPlayerIssue, models.FitOversized},
	})
}

package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clinic-records-server/internal/ai"
	"clinic-records-server/internal/config"
	"clinic-records-server/internal/handlers"
	"clinic-records-server/internal/metrics"
	"clinic-records-server/internal/stats"
	"clinic-records-server/internal/store"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, log *zap.Logger, collector *metrics.Collector) {
	// Initialize stores and services
	patientStore := store.NewPatientStore(db)
	treatmentStore := store.NewTreatmentStore(db)
	statsService := stats.NewService(patientStore, treatmentStore, log)
	aiClient := ai.New(cfg.AI, log)

	// Initialize handlers
	patientHandler := handlers.NewPatientHandler(db, collector)
	treatmentHandler := handlers.NewTreatmentHandler(db, patientStore, collector)
	appointmentHandler := handlers.NewAppointmentHandler(db, collector)
	statsHandler := handlers.NewStatsHandler(statsService, collector)
	summaryHandler := handlers.NewSummaryHandler(db, aiClient, collector)

	api := router.Group("/api/v1")
	{
		// Patient routes
		patientRoutes := api.Group("/patients")
		{
			patientRoutes.POST("", patientHandler.CreatePatient)
			patientRoutes.GET("", patientHandler.GetPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatientByID)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)
			patientRoutes.DELETE("/:id", patientHandler.DeletePatient)

			// A patient's treatment history and its AI summary
			patientRoutes.GET("/:id/treatments", treatmentHandler.GetTreatmentsForPatient)
			patientRoutes.POST("/:id/summary", summaryHandler.GenerateSummary)
		}

		// Treatment routes
		treatmentRoutes := api.Group("/treatments")
		{
			treatmentRoutes.POST("", treatmentHandler.CreateTreatment)
			treatmentRoutes.GET("", treatmentHandler.GetTreatments)
			treatmentRoutes.GET("/:id", treatmentHandler.GetTreatmentByID)
			treatmentRoutes.PUT("/:id", treatmentHandler.UpdateTreatment)
			treatmentRoutes.DELETE("/:id", treatmentHandler.DeleteTreatment)

			// Attachment upload for a specific treatment
			treatmentRoutes.POST("/:id/attachments", treatmentHandler.UploadTreatmentAttachment)

			// Attachment download by its own ID. This sits outside the /:id
			// group because attachment IDs are globally unique.
			treatmentRoutes.GET("/attachments/:attachmentId", treatmentHandler.GetTreatmentAttachment)
		}

		// Appointment routes
		appointmentRoutes := api.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.PATCH("/:id/reschedule", appointmentHandler.RescheduleAppointment)
			appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteAppointment)
		}

		// Statistics routes
		statsRoutes := api.Group("/stats")
		{
			statsRoutes.GET("/patients", statsHandler.GetPatientStats)
			statsRoutes.GET("/treatments", statsHandler.GetTreatmentStats)
			statsRoutes.GET("/overview", statsHandler.GetOverviewStats)
		}
	}

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	// Simple health check endpoint with a database ping
	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(503, gin.H{"status": "DOWN", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "UP"})
	})
}

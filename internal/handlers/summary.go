package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-records-server/internal/ai"
	"clinic-records-server/internal/metrics"
	"clinic-records-server/internal/models"
	"clinic-records-server/internal/utils"
)

// SummaryHandler generates AI summaries of a patient's treatment history.
type SummaryHandler struct {
	DB      *gorm.DB
	AI      *ai.Client
	Metrics *metrics.Collector
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(db *gorm.DB, client *ai.Client, collector *metrics.Collector) *SummaryHandler {
	return &SummaryHandler{DB: db, AI: client, Metrics: collector}
}

// SummaryResponse is the payload returned for a generated summary.
type SummaryResponse struct {
	Summary     string    `json:"summary"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// GenerateSummary handles producing a narrative summary of one patient's
// treatment history via the configured inference API.
func (h *SummaryHandler) GenerateSummary(c *gin.Context) {
	patientID := c.Param("id")

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var treatments []models.Treatment
	if err := h.DB.Where("patient_id = ?", patientID).Order("created_at asc").Find(&treatments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch treatments: "+err.Error())
		return
	}

	if len(treatments) == 0 {
		utils.BadRequest(c, "Patient has no treatment history to summarize")
		return
	}

	prompt := ai.BuildSummaryPrompt(patient, treatments)

	summary, err := h.AI.Summarize(c.Request.Context(), prompt)
	if err != nil {
		if errors.Is(err, ai.ErrDisabled) {
			utils.ServiceUnavailable(c, err.Error())
		} else {
			utils.InternalServerError(c, "Failed to generate summary: "+err.Error())
		}
		return
	}

	h.Metrics.SummariesGeneratedTotal.Inc()
	utils.Success(c, "Summary generated successfully", SummaryResponse{
		Summary:     summary,
		Model:       h.AI.Model(),
		GeneratedAt: time.Now(),
	})
}

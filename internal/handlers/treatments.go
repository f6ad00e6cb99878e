package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"clinic-records-server/internal/metrics"
	"clinic-records-server/internal/models"
	"clinic-records-server/internal/stats"
	"clinic-records-server/internal/store"
	"clinic-records-server/internal/utils"
)

// maxAttachmentSize bounds uploaded attachment files.
const maxAttachmentSize = 20 << 20 // 20 MiB

// TreatmentHandler handles treatment entry requests.
type TreatmentHandler struct {
	DB       *gorm.DB
	Patients *store.PatientStore
	Metrics  *metrics.Collector
}

// NewTreatmentHandler creates a new TreatmentHandler.
func NewTreatmentHandler(db *gorm.DB, patients *store.PatientStore, collector *metrics.Collector) *TreatmentHandler {
	return &TreatmentHandler{DB: db, Patients: patients, Metrics: collector}
}

// CreateTreatmentRequest represents the request body for recording a treatment.
type CreateTreatmentRequest struct {
	PatientID     string          `json:"patientId" binding:"required,uuid"`
	TreatmentType string          `json:"treatmentType" binding:"required,oneof=consultation procedure medication lab-test imaging followup"`
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	Notes         string          `json:"notes"`
	TreatmentDate string          `json:"treatmentDate" binding:"required"`
	Cost          decimal.Decimal `json:"cost"`
}

// CreateTreatment handles recording a new treatment for a patient.
func (h *TreatmentHandler) CreateTreatment(c *gin.Context) {
	var req CreateTreatmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		utils.BadRequest(c, "Invalid Patient ID format")
		return
	}

	// Verify patient exists
	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	// The date is stored as submitted; it only has to be a form the
	// statistics normalizer can resolve later.
	if _, ok := stats.NormalizeDate(req.TreatmentDate); !ok {
		utils.BadRequest(c, "Invalid treatmentDate. Please use an ISO 8601 date or datetime")
		return
	}

	treatment := models.Treatment{
		PatientID:     req.PatientID,
		TreatmentType: models.TreatmentType(req.TreatmentType),
		Title:         req.Title,
		Description:   req.Description,
		Notes:         req.Notes,
		TreatmentDate: req.TreatmentDate,
		Cost:          req.Cost,
	}

	if err := h.DB.Create(&treatment).Error; err != nil {
		utils.InternalServerError(c, "Failed to create treatment: "+err.Error())
		return
	}

	h.Metrics.TreatmentsCreatedTotal.Inc()
	utils.Created(c, "Treatment created successfully", treatment)
}

// TreatmentWithPatient decorates a treatment with its patient's display name
// for list views.
type TreatmentWithPatient struct {
	models.Treatment
	PatientName string `json:"patientName"`
}

// GetTreatments handles fetching all treatments, each annotated with the
// patient's name resolved in a single batched query.
func (h *TreatmentHandler) GetTreatments(c *gin.Context) {
	var treatments []models.Treatment
	if err := h.DB.Order("created_at desc").Find(&treatments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch treatments: "+err.Error())
		return
	}

	seen := make(map[string]bool)
	patientIDs := make([]string, 0, len(treatments))
	for _, t := range treatments {
		if !seen[t.PatientID] {
			seen[t.PatientID] = true
			patientIDs = append(patientIDs, t.PatientID)
		}
	}

	patients, err := h.Patients.ByIDs(c.Request.Context(), patientIDs)
	if err != nil {
		utils.InternalServerError(c, "Failed to resolve patient names: "+err.Error())
		return
	}
	names := make(map[string]string, len(patients))
	for _, p := range patients {
		names[p.ID] = p.FullName()
	}

	result := make([]TreatmentWithPatient, len(treatments))
	for i, t := range treatments {
		result[i] = TreatmentWithPatient{Treatment: t, PatientName: names[t.PatientID]}
	}

	utils.Success(c, "Treatments fetched successfully", result)
}

// GetTreatmentByID handles fetching a single treatment with its attachments.
func (h *TreatmentHandler) GetTreatmentByID(c *gin.Context) {
	treatmentID := c.Param("id")

	var treatment models.Treatment
	if err := h.DB.Preload("Attachments").First(&treatment, "id = ?", treatmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Treatment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Treatment fetched successfully", treatment)
}

// GetTreatmentsForPatient handles fetching all treatments of one patient.
func (h *TreatmentHandler) GetTreatmentsForPatient(c *gin.Context) {
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
	if err := h.DB.Preload("Attachments").Where("patient_id = ?", patientID).Order("created_at desc").Find(&treatments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch treatments: "+err.Error())
		return
	}

	utils.Success(c, "Treatments fetched successfully", treatments)
}

// UpdateTreatmentRequest represents the request body for updating a treatment.
type UpdateTreatmentRequest struct {
	TreatmentType string           `json:"treatmentType,omitempty"`
	Title         string           `json:"title,omitempty"`
	Description   string           `json:"description,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	TreatmentDate string           `json:"treatmentDate,omitempty"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`
}

// UpdateTreatment handles updating an existing treatment entry.
func (h *TreatmentHandler) UpdateTreatment(c *gin.Context) {
	treatmentID := c.Param("id")

	var req UpdateTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var treatment models.Treatment
	if err := h.DB.First(&treatment, "id = ?", treatmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Treatment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.TreatmentType != "" {
		treatment.TreatmentType = models.TreatmentType(req.TreatmentType)
	}
	if req.Title != "" {
		treatment.Title = req.Title
	}
	if req.Description != "" {
		treatment.Description = req.Description
	}
	if req.Notes != "" {
		treatment.Notes = req.Notes
	}
	if req.TreatmentDate != "" {
		if _, ok := stats.NormalizeDate(req.TreatmentDate); !ok {
			utils.BadRequest(c, "Invalid treatmentDate. Please use an ISO 8601 date or datetime")
			return
		}
		treatment.TreatmentDate = req.TreatmentDate
	}
	if req.Cost != nil {
		treatment.Cost = *req.Cost
	}

	if err := h.DB.Save(&treatment).Error; err != nil {
		utils.InternalServerError(c, "Failed to update treatment: "+err.Error())
		return
	}

	utils.Success(c, "Treatment updated successfully", treatment)
}

// DeleteTreatment handles deleting a treatment and its attachments.
func (h *TreatmentHandler) DeleteTreatment(c *gin.Context) {
	treatmentID := c.Param("id")

	var treatment models.Treatment
	if err := h.DB.First(&treatment, "id = ?", treatmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Treatment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.TreatmentAttachment{}, "treatment_id = ?", treatmentID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Treatment{}, "id = ?", treatmentID).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to delete treatment: "+err.Error())
		return
	}

	utils.Success(c, "Treatment deleted successfully", nil)
}

// UploadTreatmentAttachment handles uploading a file for a specific treatment.
// The file is stored as binary data in the database.
func (h *TreatmentHandler) UploadTreatmentAttachment(c *gin.Context) {
	treatmentID := c.Param("id")

	// Verify the treatment exists
	var treatment models.Treatment
	if err := h.DB.First(&treatment, "id = ?", treatmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Treatment not found")
		} else {
			utils.InternalServerError(c, "Database error verifying treatment: "+err.Error())
		}
		return
	}

	file, header, err := c.Request.FormFile("file") // "file" is the name of the form field
	if err != nil {
		utils.BadRequest(c, "Error retrieving file from form: "+err.Error())
		return
	}
	defer file.Close()

	if header.Size > maxAttachmentSize {
		utils.BadRequest(c, "File exceeds the 20 MiB attachment limit")
		return
	}

	fileData, err := io.ReadAll(file)
	if err != nil {
		utils.InternalServerError(c, "Error reading file content: "+err.Error())
		return
	}

	attachment := models.TreatmentAttachment{
		TreatmentID: treatment.ID,
		FileName:    header.Filename,
		FileType:    header.Header.Get("Content-Type"),
		FileData:    fileData,
	}

	if err := h.DB.Create(&attachment).Error; err != nil {
		utils.InternalServerError(c, "Failed to create attachment entry: "+err.Error())
		return
	}

	// Return a slimmed down version of the attachment, without the FileData
	responseAttachment := struct {
		ID          string    `json:"id"`
		TreatmentID string    `json:"treatmentId"`
		FileName    string    `json:"fileName"`
		FileType    string    `json:"fileType"`
		CreatedAt   time.Time `json:"createdAt"`
	}{
		ID:          attachment.ID,
		TreatmentID: attachment.TreatmentID,
		FileName:    attachment.FileName,
		FileType:    attachment.FileType,
		CreatedAt:   attachment.CreatedAt,
	}

	utils.Success(c, "File uploaded and linked to treatment successfully", responseAttachment)
}

// GetTreatmentAttachment handles retrieving an attachment by its ID and
// serving its file data for download.
func (h *TreatmentHandler) GetTreatmentAttachment(c *gin.Context) {
	attachmentID := c.Param("attachmentId")

	var attachment models.TreatmentAttachment
	if err := h.DB.First(&attachment, "id = ?", attachmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Attachment not found")
		} else {
			utils.InternalServerError(c, "Database error fetching attachment: "+err.Error())
		}
		return
	}

	c.Writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	c.Data(http.StatusOK, attachment.FileType, attachment.FileData)
}

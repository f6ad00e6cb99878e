package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-records-server/internal/metrics"
	"clinic-records-server/internal/models"
	"clinic-records-server/internal/utils"
)

// PatientHandler handles patient record requests.
type PatientHandler struct {
	DB      *gorm.DB
	Metrics *metrics.Collector
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB, collector *metrics.Collector) *PatientHandler {
	return &PatientHandler{DB: db, Metrics: collector}
}

// CreatePatientRequest represents the request body for registering a patient.
type CreatePatientRequest struct {
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`
	Gender         string `json:"gender" binding:"omitempty,oneof=male female other"`
	DateOfBirth    string `json:"dateOfBirth"` // YYYY-MM-DD
	Address        string `json:"address"`
	Allergies      string `json:"allergies"`
	MedicalHistory string `json:"medicalHistory"`
}

// CreatePatient handles registering a new patient.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.Patient
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.BadRequest(c, "Patient with this email already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	var dateOfBirth time.Time
	if req.DateOfBirth != "" {
		var err error
		dateOfBirth, err = time.ParseInLocation("2006-01-02", req.DateOfBirth, time.Local)
		if err != nil {
			utils.BadRequest(c, "Invalid dateOfBirth format. Please use YYYY-MM-DD")
			return
		}
	}

	patient := models.Patient{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Gender:         models.Gender(req.Gender),
		DateOfBirth:    dateOfBirth,
		Address:        req.Address,
		Allergies:      req.Allergies,
		MedicalHistory: req.MedicalHistory,
	}

	if err := h.DB.Create(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to create patient: "+err.Error())
		return
	}

	h.Metrics.PatientsCreatedTotal.Inc()
	utils.Created(c, "Patient created successfully", patient)
}

// GetPatients handles fetching all patients, optionally filtered by a search term
// matched against name and email.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	query := h.DB.Order("last_name asc, first_name asc")

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}

	var patients []models.Patient
	if err := query.Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}

	utils.Success(c, "Patients fetched successfully", patients)
}

// GetPatientByID handles fetching a single patient by ID.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
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

	utils.Success(c, "Patient fetched successfully", patient)
}

// UpdatePatientRequest represents the request body for updating a patient.
// All fields are optional; only provided fields are applied.
type UpdatePatientRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone"`
	Gender         string `json:"gender,omitempty"`
	DateOfBirth    string `json:"dateOfBirth,omitempty"`
	Address        string `json:"address"`
	Allergies      string `json:"allergies"`
	MedicalHistory string `json:"medicalHistory"`
}

// UpdatePatient handles updating a patient by ID.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	patientID := c.Param("id")

	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil { // Use ShouldBindJSON for partial updates
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.FirstName != "" {
		patient.FirstName = req.FirstName
	}
	if req.LastName != "" {
		patient.LastName = req.LastName
	}
	if req.Email != "" && req.Email != patient.Email {
		// Check if new email is already taken
		var existing models.Patient
		if err := h.DB.Where("email = ? AND id != ?", req.Email, patient.ID).First(&existing).Error; err == nil {
			utils.BadRequest(c, "New email is already in use")
			return
		} else if err != gorm.ErrRecordNotFound {
			utils.InternalServerError(c, "Database error checking email: "+err.Error())
			return
		}
		patient.Email = req.Email
	}
	if req.Phone != "" {
		patient.Phone = req.Phone
	}
	if req.Gender != "" {
		patient.Gender = models.Gender(req.Gender)
	}
	if req.DateOfBirth != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.DateOfBirth, time.Local)
		if err != nil {
			utils.BadRequest(c, "Invalid dateOfBirth format. Please use YYYY-MM-DD")
			return
		}
		patient.DateOfBirth = parsed
	}
	if req.Address != "" {
		patient.Address = req.Address
	}
	if req.Allergies != "" {
		patient.Allergies = req.Allergies
	}
	if req.MedicalHistory != "" {
		patient.MedicalHistory = req.MedicalHistory
	}

	if err := h.DB.Save(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to update patient: "+err.Error())
		return
	}

	utils.Success(c, "Patient updated successfully", patient)
}

// DeletePatient handles deleting a patient and all dependent records.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
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

	// Treatments, their attachments, and appointments go with the patient.
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var treatmentIDs []string
		if err := tx.Model(&models.Treatment{}).Where("patient_id = ?", patientID).Pluck("id", &treatmentIDs).Error; err != nil {
			return err
		}
		if len(treatmentIDs) > 0 {
			if err := tx.Delete(&models.TreatmentAttachment{}, "treatment_id IN ?", treatmentIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.Treatment{}, "patient_id = ?", patientID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Appointment{}, "patient_id = ?", patientID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Patient{}, "id = ?", patientID).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to delete patient: "+err.Error())
		return
	}

	utils.Success(c, "Patient deleted successfully", nil)
}

package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinic-records-server/internal/metrics"
	"clinic-records-server/internal/models"
	"clinic-records-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB      *gorm.DB
	Metrics *metrics.Collector
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, collector *metrics.Collector) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Metrics: collector}
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	PatientID  string    `json:"patientId" binding:"required,uuid"`
	Provider   string    `json:"provider" binding:"required"`
	StartTime  time.Time `json:"startTime" binding:"required"`
	EndTime    time.Time `json:"endTime" binding:"required"`
	Reason     string    `json:"reason" binding:"required"`
	Notes      string    `json:"notes"`
	IsFollowUp bool      `json:"isFollowUp"`
}

// CreateAppointment handles booking a new appointment.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
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

	if req.StartTime.Before(time.Now()) {
		utils.BadRequest(c, "Appointment date must be in the future.")
		return
	}
	if !req.EndTime.After(req.StartTime) {
		utils.BadRequest(c, "Appointment end time must be after its start time.")
		return
	}

	appointment := models.Appointment{
		PatientID:  req.PatientID,
		Provider:   req.Provider,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Reason:     req.Reason,
		Notes:      req.Notes,
		IsFollowUp: req.IsFollowUp,
		Status:     models.StatusPending, // Default status
	}

	if err := h.DB.Create(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	h.Metrics.AppointmentsTotal.WithLabelValues(string(appointment.Status)).Inc()
	utils.Created(c, "Appointment created successfully", appointment)
}

// GetAppointments handles fetching appointments, optionally filtered by patient.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	query := h.DB.Order("start_time asc")

	if patientID := c.Query("patientId"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointmentID := c.Param("id")

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// UpdateAppointmentStatusRequest represents the request body for updating an appointment's status.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed cancelled completed rescheduled"`
	Notes  string                   `json:"notes"` // Optional notes for status change (e.g., cancellation reason)
}

// UpdateAppointmentStatus handles updating the status of an appointment.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	appointmentID := c.Param("id")

	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if appointment.Status.IsTerminal() {
		utils.BadRequest(c, "Appointment is already "+string(appointment.Status)+" and can no longer change status")
		return
	}

	appointment.Status = req.Status
	if req.Notes != "" {
		appointment.Notes = req.Notes
	}

	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to update appointment status: "+err.Error())
		return
	}

	h.Metrics.AppointmentsTotal.WithLabelValues(string(appointment.Status)).Inc()
	utils.Success(c, "Appointment status updated successfully", appointment)
}

// RescheduleAppointmentRequest represents the request body for rescheduling an appointment.
type RescheduleAppointmentRequest struct {
	NewStartTime time.Time `json:"newStartTime" binding:"required"`
	NewEndTime   time.Time `json:"newEndTime"`
	Notes        string    `json:"notes"` // Optional notes for rescheduling
}

// RescheduleAppointment handles moving an appointment to a new time slot.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	appointmentID := c.Param("id")

	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if req.NewStartTime.Before(time.Now()) {
		utils.BadRequest(c, "New appointment date must be in the future.")
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if appointment.Status.IsTerminal() {
		utils.BadRequest(c, "Appointment is already "+string(appointment.Status)+" and can no longer be rescheduled")
		return
	}

	// Keep the original slot length when no new end time is given.
	duration := appointment.EndTime.Sub(appointment.StartTime)
	appointment.StartTime = req.NewStartTime
	if req.NewEndTime.IsZero() {
		appointment.EndTime = req.NewStartTime.Add(duration)
	} else {
		if !req.NewEndTime.After(req.NewStartTime) {
			utils.BadRequest(c, "Appointment end time must be after its start time.")
			return
		}
		appointment.EndTime = req.NewEndTime
	}
	appointment.Status = models.StatusRescheduled

	if req.Notes != "" {
		appointment.Notes = req.Notes
	}

	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to reschedule appointment: "+err.Error())
		return
	}

	h.Metrics.AppointmentsTotal.WithLabelValues(string(appointment.Status)).Inc()
	utils.Success(c, "Appointment rescheduled successfully", appointment)
}

// DeleteAppointment handles removing an appointment.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	appointmentID := c.Param("id")

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&models.Appointment{}, "id = ?", appointmentID).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment deleted successfully", nil)
}

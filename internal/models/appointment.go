package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusCompleted   AppointmentStatus = "completed"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// IsTerminal reports whether the status permits no further transitions.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Appointment represents a scheduled visit for a patient
type Appointment struct {
	BaseModel
	PatientID  string            `gorm:"size:36;index" json:"patientId"`
	Provider   string            `gorm:"size:100" json:"provider"`
	StartTime  time.Time         `json:"startTime"`
	EndTime    time.Time         `json:"endTime"`
	Status     AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	Reason     string            `gorm:"size:255" json:"reason"`
	Notes      string            `gorm:"type:text" json:"notes"`
	IsFollowUp bool              `gorm:"default:false" json:"isFollowUp"`

	// Relations
	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
}

package models

import (
	"github.com/shopspring/decimal"
)

// TreatmentType represents the type of treatment entry
type TreatmentType string

const (
	TreatmentConsultation TreatmentType = "consultation"
	TreatmentProcedure    TreatmentType = "procedure"
	TreatmentMedication   TreatmentType = "medication"
	TreatmentLabTest      TreatmentType = "lab-test"
	TreatmentImaging      TreatmentType = "imaging"
	TreatmentFollowUp     TreatmentType = "followup"
)

// Treatment represents one entry in a patient's treatment history.
//
// TreatmentDate is deliberately a string column: rows imported from the
// clinic's previous system carry bare "YYYY-MM-DD" values while newer rows
// carry full ISO date-times. The stats layer normalizes both forms; the raw
// value is stored and returned untouched.
type Treatment struct {
	BaseModel
	PatientID     string          `gorm:"size:36;index;not null" json:"patientId"`
	TreatmentType TreatmentType   `gorm:"size:50" json:"treatmentType"`
	Title         string          `gorm:"size:255;not null" json:"title"`
	Description   string          `gorm:"type:text" json:"description"`
	Notes         string          `gorm:"type:text" json:"notes"`
	TreatmentDate string          `gorm:"size:64" json:"treatmentDate"`
	Cost          decimal.Decimal `gorm:"type:decimal(10,2)" json:"cost"`

	// Relations
	Patient     Patient               `gorm:"foreignKey:PatientID" json:"-"`
	Attachments []TreatmentAttachment `gorm:"foreignKey:TreatmentID" json:"attachments,omitempty"`
}

// TreatmentAttachment represents a file attached to a treatment entry
type TreatmentAttachment struct {
	BaseModel
	TreatmentID string `json:"treatmentId" gorm:"not null;type:varchar(36)"`
	FileName    string `json:"fileName" gorm:"not null"`
	FileType    string `json:"fileType" gorm:"not null"` // MIME type of the file
	FileData    []byte `json:"-" gorm:"type:longblob;not null"`
}

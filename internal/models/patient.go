package models

import (
	"time"
)

// Gender represents a patient's recorded gender
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Patient represents a patient registered with the clinic
type Patient struct {
	BaseModel
	FirstName      string    `gorm:"size:100;not null" json:"firstName"`
	LastName       string    `gorm:"size:100;not null" json:"lastName"`
	Email          string    `gorm:"size:255;uniqueIndex" json:"email"`
	Phone          string    `gorm:"size:30" json:"phone"`
	Gender         Gender    `gorm:"size:20" json:"gender"`
	DateOfBirth    time.Time `gorm:"type:date" json:"dateOfBirth"`
	Address        string    `gorm:"size:255" json:"address"`
	Allergies      string    `gorm:"type:text" json:"allergies"`
	MedicalHistory string    `gorm:"type:text" json:"medicalHistory"`
}

// FullName returns the patient's display name.
func (p Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

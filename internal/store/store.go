package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinic-records-server/internal/models"
)

// PatientStore reads patient rows for the stats service and for batch
// name lookups.
type PatientStore struct {
	db *gorm.DB
}

// NewPatientStore creates a PatientStore backed by db.
func NewPatientStore(db *gorm.DB) *PatientStore {
	return &PatientStore{db: db}
}

// Patients returns every patient row. The stats layer partitions and counts
// in memory, so no window predicate is pushed down here.
func (s *PatientStore) Patients(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	if err := s.db.WithContext(ctx).Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("querying patients: %w", err)
	}
	return patients, nil
}

// ByIDs fetches the patients matching ids in one query. Values that are not
// well-formed UUIDs are dropped from the IN clause rather than failing it.
func (s *PatientStore) ByIDs(ctx context.Context, ids []string) ([]models.Patient, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	var patients []models.Patient
	if err := s.db.WithContext(ctx).Where("id IN ?", valid).Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("querying patients by id: %w", err)
	}
	return patients, nil
}

// TreatmentStore reads treatment rows for the stats service.
type TreatmentStore struct {
	db *gorm.DB
}

// NewTreatmentStore creates a TreatmentStore backed by db.
func NewTreatmentStore(db *gorm.DB) *TreatmentStore {
	return &TreatmentStore{db: db}
}

// Treatments returns every treatment row, attachments excluded.
func (s *TreatmentStore) Treatments(ctx context.Context) ([]models.Treatment, error) {
	var treatments []models.Treatment
	if err := s.db.WithContext(ctx).Find(&treatments).Error; err != nil {
		return nil, fmt.Errorf("querying treatments: %w", err)
	}
	return treatments, nil
}

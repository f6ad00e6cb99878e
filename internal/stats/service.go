package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"clinic-records-server/internal/models"
)

const tracerName = "clinic-records-server/internal/stats"

// PatientSource fetches the raw patient rows stats are derived from.
type PatientSource interface {
	Patients(ctx context.Context) ([]models.Patient, error)
}

// TreatmentSource fetches the raw treatment rows stats are derived from.
type TreatmentSource interface {
	Treatments(ctx context.Context) ([]models.Treatment, error)
}

// Service computes the reporting endpoints' statistics. Every call captures
// the reference instant exactly once and threads it through all window and
// grouping math, so the values inside one response are mutually consistent.
type Service struct {
	patients   PatientSource
	treatments TreatmentSource
	log        *zap.Logger
	now        func() time.Time
}

// NewService wires the record sources into a stats service.
func NewService(patients PatientSource, treatments TreatmentSource, log *zap.Logger) *Service {
	return &Service{
		patients:   patients,
		treatments: treatments,
		log:        log,
		now:        time.Now,
	}
}

// PatientStats buckets patient registrations (creation dates) for frame.
func (s *Service) PatientStats(ctx context.Context, frame TimeFrame) (*TimeSeriesStats, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "stats.PatientStats")
	defer span.End()
	span.SetAttributes(attribute.String("stats.time_frame", string(frame)))

	if _, ok := Frames[frame]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeFrame, frame)
	}
	if s.patients == nil {
		return nil, ErrDataSourceUnavailable
	}

	records, err := s.patients.Patients(ctx)
	if err != nil {
		s.log.Error("fetching patients for stats", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDataSourceUnavailable, err)
	}

	return Aggregate(records, patientDate, frame, s.now())
}

// TreatmentStats buckets treatments by their recorded treatment date, which
// may be a bare date or a full ISO date-time depending on the row's origin.
func (s *Service) TreatmentStats(ctx context.Context, frame TimeFrame) (*TimeSeriesStats, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "stats.TreatmentStats")
	defer span.End()
	span.SetAttributes(attribute.String("stats.time_frame", string(frame)))

	if _, ok := Frames[frame]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeFrame, frame)
	}
	if s.treatments == nil {
		return nil, ErrDataSourceUnavailable
	}

	records, err := s.treatments.Treatments(ctx)
	if err != nil {
		s.log.Error("fetching treatments for stats", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDataSourceUnavailable, err)
	}

	return Aggregate(records, treatmentDate, frame, s.now())
}

// Overview compares scalar patient and treatment volumes for frame. The two
// record sets are independent, so they are fetched concurrently.
func (s *Service) Overview(ctx context.Context, frame TimeFrame) (*OverviewStats, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "stats.Overview")
	defer span.End()
	span.SetAttributes(attribute.String("stats.time_frame", string(frame)))

	if _, ok := Frames[frame]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeFrame, frame)
	}
	if s.patients == nil || s.treatments == nil {
		return nil, ErrDataSourceUnavailable
	}

	r, err := ComputeRange(frame, s.now())
	if err != nil {
		return nil, err
	}

	var (
		wg            sync.WaitGroup
		patients      []models.Patient
		treatments    []models.Treatment
		patientsErr   error
		treatmentsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		patients, patientsErr = s.patients.Patients(ctx)
	}()
	go func() {
		defer wg.Done()
		treatments, treatmentsErr = s.treatments.Treatments(ctx)
	}()
	wg.Wait()

	if patientsErr != nil {
		s.log.Error("fetching patients for overview", zap.Error(patientsErr))
		return nil, fmt.Errorf("%w: %v", ErrDataSourceUnavailable, patientsErr)
	}
	if treatmentsErr != nil {
		s.log.Error("fetching treatments for overview", zap.Error(treatmentsErr))
		return nil, fmt.Errorf("%w: %v", ErrDataSourceUnavailable, treatmentsErr)
	}

	return &OverviewStats{
		TimeFrame:  frame,
		Patients:   Compare(patients, patientDate, r),
		Treatments: Compare(treatments, treatmentDate, r),
	}, nil
}

func patientDate(p models.Patient) any { return p.CreatedAt }

func treatmentDate(t models.Treatment) any { return t.TreatmentDate }

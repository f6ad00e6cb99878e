package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clinic-records-server/internal/metrics"
	"clinic-records-server/internal/models"
	"clinic-records-server/internal/stats"
)

// One collector for the whole test binary. promauto registers on the global
// registry, so constructing a second collector with the same namespace panics.
var testMetrics = metrics.NewCollector("clinic_test")

type stubPatientSource struct {
	patients []models.Patient
	calls    int
	err      error
}

func (s *stubPatientSource) Patients(ctx context.Context) ([]models.Patient, error) {
	s.calls++
	return s.patients, s.err
}

type stubTreatmentSource struct {
	treatments []models.Treatment
	calls      int
	err        error
}

func (s *stubTreatmentSource) Treatments(ctx context.Context) ([]models.Treatment, error) {
	s.calls++
	return s.treatments, s.err
}

func newStatsRouter(patients stats.PatientSource, treatments stats.TreatmentSource) *gin.Engine {
	gin.SetMode(gin.TestMode)

	service := stats.NewService(patients, treatments, zap.NewNop())
	handler := NewStatsHandler(service, testMetrics)

	router := gin.New()
	router.GET("/api/v1/stats/patients", handler.GetPatientStats)
	router.GET("/api/v1/stats/treatments", handler.GetTreatmentStats)
	router.GET("/api/v1/stats/overview", handler.GetOverviewStats)
	return router
}

func doStatsRequest(t *testing.T, router *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func patientAt(created time.Time) models.Patient {
	p := models.Patient{}
	p.CreatedAt = created
	return p
}

// The sources serve dates relative to the wall clock so the assertions hold
// regardless of when the tests run.
func TestGetPatientStatsDefaultsToOneMonth(t *testing.T) {
	patients := &stubPatientSource{patients: []models.Patient{
		patientAt(time.Now().Add(-2 * time.Hour)),
		patientAt(time.Now().AddDate(0, 0, -3)),
		// 45 days back is inside the previous window for every month length.
		patientAt(time.Now().AddDate(0, 0, -45)),
	}}
	router := newStatsRouter(patients, &stubTreatmentSource{})

	w := doStatsRequest(t, router, "/api/v1/stats/patients")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int                   `json:"status"`
		Data   stats.TimeSeriesStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, stats.Frame1Month, resp.Data.TimeFrame)
	assert.Equal(t, 2, resp.Data.Current.Total)
	assert.Equal(t, 1, resp.Data.Previous.Total)
	assert.InDelta(t, 100.0, resp.Data.Change, 0.001)
}

func TestGetStatsRejectsInvalidFrameBeforeFetching(t *testing.T) {
	patients := &stubPatientSource{}
	treatments := &stubTreatmentSource{}
	router := newStatsRouter(patients, treatments)

	w := doStatsRequest(t, router, "/api/v1/stats/patients?timeFrame=2w")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "invalid time frame")

	w = doStatsRequest(t, router, "/api/v1/stats/overview?timeFrame=weekly")
	require.Equal(t, http.StatusBadRequest, w.Code)

	assert.Zero(t, patients.calls, "patient source consulted for a rejected frame")
	assert.Zero(t, treatments.calls, "treatment source consulted for a rejected frame")
}

func TestGetTreatmentStatsHonorsFrameParam(t *testing.T) {
	treatments := &stubTreatmentSource{treatments: []models.Treatment{
		{TreatmentDate: time.Now().Add(-time.Hour).Format("2006-01-02 15:04:05")},
		{TreatmentDate: time.Now().AddDate(0, 0, -2).Format("2006-01-02")},
	}}
	router := newStatsRouter(&stubPatientSource{}, treatments)

	w := doStatsRequest(t, router, "/api/v1/stats/treatments?timeFrame=1w")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data stats.TimeSeriesStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, stats.Frame1Week, resp.Data.TimeFrame)
	assert.Equal(t, 2, resp.Data.Current.Total)
}

func TestGetStatsSourceFailure(t *testing.T) {
	patients := &stubPatientSource{err: errors.New("connection refused")}
	router := newStatsRouter(patients, &stubTreatmentSource{})

	w := doStatsRequest(t, router, "/api/v1/stats/patients")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "data source unavailable")
}

func TestGetOverviewStats(t *testing.T) {
	patients := &stubPatientSource{patients: []models.Patient{
		patientAt(time.Now().Add(-time.Hour)),
		patientAt(time.Now().AddDate(0, 0, -45)),
	}}
	treatments := &stubTreatmentSource{treatments: []models.Treatment{
		{TreatmentDate: time.Now().AddDate(0, 0, -1).Format("2006-01-02")},
	}}
	router := newStatsRouter(patients, treatments)

	w := doStatsRequest(t, router, "/api/v1/stats/overview?timeFrame=1m")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data stats.OverviewStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, stats.Frame1Month, resp.Data.TimeFrame)
	assert.Equal(t, 1, resp.Data.Patients.Current)
	assert.Equal(t, 1, resp.Data.Patients.Previous)
	assert.InDelta(t, 0.0, resp.Data.Patients.Change, 0.001)
	assert.Equal(t, 1, resp.Data.Treatments.Current)
	assert.Equal(t, 0, resp.Data.Treatments.Previous)
	assert.InDelta(t, 100.0, resp.Data.Treatments.Change, 0.001)
}

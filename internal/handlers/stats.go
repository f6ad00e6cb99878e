package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"clinic-records-server/internal/metrics"
	"clinic-records-server/internal/stats"
	"clinic-records-server/internal/utils"
)

// StatsHandler serves the statistics endpoints.
type StatsHandler struct {
	Service *stats.Service
	Metrics *metrics.Collector
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service *stats.Service, collector *metrics.Collector) *StatsHandler {
	return &StatsHandler{Service: service, Metrics: collector}
}

// timeFrameParam resolves the timeFrame query parameter, falling back to the
// default frame when the caller omits it. Unrecognized tokens are rejected
// here, before any data source is consulted.
func timeFrameParam(c *gin.Context) (stats.TimeFrame, error) {
	return stats.ParseTimeFrame(c.DefaultQuery("timeFrame", string(stats.DefaultTimeFrame)))
}

// GetPatientStats handles computing patient registration statistics.
func (h *StatsHandler) GetPatientStats(c *gin.Context) {
	frame, err := timeFrameParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.Service.PatientStats(c.Request.Context(), frame)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Metrics.StatsRequestsTotal.WithLabelValues("patients", string(frame)).Inc()
	utils.Success(c, "Patient statistics computed successfully", result)
}

// GetTreatmentStats handles computing treatment statistics.
func (h *StatsHandler) GetTreatmentStats(c *gin.Context) {
	frame, err := timeFrameParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.Service.TreatmentStats(c.Request.Context(), frame)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Metrics.StatsRequestsTotal.WithLabelValues("treatments", string(frame)).Inc()
	utils.Success(c, "Treatment statistics computed successfully", result)
}

// GetOverviewStats handles computing the combined dashboard overview.
func (h *StatsHandler) GetOverviewStats(c *gin.Context) {
	frame, err := timeFrameParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.Service.Overview(c.Request.Context(), frame)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Metrics.StatsRequestsTotal.WithLabelValues("overview", string(frame)).Inc()
	utils.Success(c, "Overview statistics computed successfully", result)
}

// respondError maps service errors onto HTTP statuses: bad input is the
// caller's fault, an unreachable data source is a dependency outage.
func (h *StatsHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, stats.ErrInvalidTimeFrame):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, stats.ErrDataSourceUnavailable):
		utils.ServiceUnavailable(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}

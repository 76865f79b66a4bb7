package handler

import (
	"net/http"
	"strconv"
	"time"

	appbacklog "github.com/MAsTer0103-byte/eqb-platform/internal/application/backlog"
	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/scheduler"
	"github.com/MAsTer0103-byte/eqb-platform/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// BacklogHandler handles backlog reporting and processing requests
type BacklogHandler struct {
	BaseHandler
	reportingService *appbacklog.ReportingService
	scheduler        *scheduler.Scheduler
}

// NewBacklogHandler creates a new backlog handler
func NewBacklogHandler(reportingService *appbacklog.ReportingService, sched *scheduler.Scheduler) *BacklogHandler {
	return &BacklogHandler{reportingService: reportingService, scheduler: sched}
}

// ProcessRequest triggers backlog aggregation for a date or a date range.
// Either date, or both start_date and end_date, must be set.
type ProcessRequest struct {
	Date      string `json:"date"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ProcessResponse reports how many aggregation jobs were enqueued
type ProcessResponse struct {
	JobsEnqueued int `json:"jobs_enqueued"`
}

// parseDateRange extracts the shared start/end/coworker query parameters.
// Both dates default to the last 30 days when absent.
func (h *BacklogHandler) parseDateRange(c *gin.Context) (start, end time.Time, coworkerID *uuid.UUID, ok bool) {
	now := time.Now()
	start = now.AddDate(0, 0, -30)
	end = now

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return start, end, nil, false
		}
		start = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return start, end, nil, false
		}
		end = parsed
	}
	if raw := c.Query("coworker_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid coworker_id")
			return start, end, nil, false
		}
		coworkerID = &id
	}
	return start, end, coworkerID, true
}

// Entries godoc
// @Summary      List backlog entries
// @Description  Daily per-coworker hour totals in a date range
// @Tags         backlog
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "Range start (YYYY-MM-DD)"
// @Param        end_date query string false "Range end (YYYY-MM-DD)"
// @Param        coworker_id query string false "Filter by coworker"
// @Success      200 {object} dto.Response{data=[]backlog.Entry}
// @Router       /backlog/entries [get]
func (h *BacklogHandler) Entries(c *gin.Context) {
	start, end, coworkerID, ok := h.parseDateRange(c)
	if !ok {
		return
	}

	entries, err := h.reportingService.Entries(c.Request.Context(), start, end, coworkerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// Statistics godoc
// @Summary      Backlog statistics
// @Description  Totals and per-day averages over a date range
// @Tags         backlog
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "Range start (YYYY-MM-DD)"
// @Param        end_date query string false "Range end (YYYY-MM-DD)"
// @Param        coworker_id query string false "Filter by coworker"
// @Success      200 {object} dto.Response{data=backlog.Statistics}
// @Router       /backlog/statistics [get]
func (h *BacklogHandler) Statistics(c *gin.Context) {
	start, end, coworkerID, ok := h.parseDateRange(c)
	if !ok {
		return
	}

	stats, err := h.reportingService.GetStatistics(c.Request.Context(), start, end, coworkerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Recaps godoc
// @Summary      List monthly recaps
// @Description  All monthly recaps, most recent month first
// @Tags         backlog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]backlog.RecapReport}
// @Router       /backlog/recaps [get]
func (h *BacklogHandler) Recaps(c *gin.Context) {
	recaps, err := h.reportingService.GetAllMonthlyRecaps(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recaps)
}

// Recap godoc
// @Summary      Get monthly recap
// @Tags         backlog
// @Produce      json
// @Security     BearerAuth
// @Param        year path int true "Year"
// @Param        month path int true "Month (1-12)"
// @Success      200 {object} dto.Response{data=backlog.RecapReport}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /backlog/recaps/{year}/{month} [get]
func (h *BacklogHandler) Recap(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2200 {
		h.BadRequest(c, "Invalid year")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		h.BadRequest(c, "Invalid month")
		return
	}

	recap, err := h.reportingService.GetMonthlyRecap(c.Request.Context(), year, time.Month(month))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recap)
}

// Capacity godoc
// @Summary      Capacity report
// @Description  Remaining hours against the monthly capacity ceiling
// @Tags         backlog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=backlog.CapacityReport}
// @Router       /backlog/capacity [get]
func (h *BacklogHandler) Capacity(c *gin.Context) {
	report, err := h.reportingService.GetCapacity(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Process godoc
// @Summary      Trigger backlog processing
// @Description  Enqueue aggregation for one date or one job per day in a range
// @Tags         backlog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ProcessRequest true "Date or date range"
// @Success      202 {object} dto.Response{data=ProcessResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /backlog/process [post]
func (h *BacklogHandler) Process(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if req.Date != "" {
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		if err := h.scheduler.ScheduleBacklogDate(date); err != nil {
			h.HandleError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, dto.NewSuccessResponse(ProcessResponse{JobsEnqueued: 1}))
		return
	}

	if req.StartDate == "" || req.EndDate == "" {
		h.BadRequest(c, "Provide either date, or both start_date and end_date")
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		h.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		h.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		h.BadRequest(c, "end_date is before start_date")
		return
	}

	count, err := h.scheduler.ScheduleBacklogRange(start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(ProcessResponse{JobsEnqueued: count}))
}

// Failures godoc
// @Summary      List failed jobs
// @Description  Jobs that exhausted their retries, newest last
// @Tags         backlog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]scheduler.FailedJob}
// @Router       /backlog/failures [get]
func (h *BacklogHandler) Failures(c *gin.Context) {
	h.Success(c, h.scheduler.FailureLog().All())
}

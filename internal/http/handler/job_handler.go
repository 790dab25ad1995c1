package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verdantworks/crm-api/internal/domain"
	"github.com/verdantworks/crm-api/internal/service"
)

// JobHandler handles HTTP requests for work orders
type JobHandler struct {
	jobService *service.JobService
	logger     *zap.Logger
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(jobService *service.JobService, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		logger:     logger,
	}
}

// ListJobs godoc
// @Summary List jobs
// @Description Get paginated list of work orders with optional filters
// @Tags Jobs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param propertyId query string false "Filter by property ID"
// @Param status query string false "Filter by status" Enums(scheduled, in_progress, completed, cancelled)
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs [get]
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var propertyID *uuid.UUID
	if p := r.URL.Query().Get("propertyId"); p != "" {
		id, err := uuid.Parse(p)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid propertyId: must be a valid UUID")
			return
		}
		propertyID = &id
	}

	var status *domain.JobStatus
	if s := r.URL.Query().Get("status"); s != "" {
		js := domain.JobStatus(s)
		if !js.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of scheduled, in_progress, completed, cancelled")
			return
		}
		status = &js
	}

	jobs, total, err := h.jobService.List(r.Context(), page, pageSize, propertyID, status)
	if err != nil {
		respondServiceError(w, h.logger, err, "list jobs")
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPaginatedResponse(jobs, total, page, pageSize))
}

// GetJob godoc
// @Summary Get job
// @Description Get a work order by ID
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} domain.JobDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID: must be a valid UUID")
		return
	}

	job, err := h.jobService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get job")
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// CreateJob godoc
// @Summary Create job
// @Description Create a new work order
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body domain.CreateJobRequest true "Job data"
// @Success 201 {object} domain.JobDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs [post]
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.jobService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create job")
		return
	}

	w.Header().Set("Location", "/api/v1/jobs/"+job.ID.String())
	respondJSON(w, http.StatusCreated, job)
}

// UpdateJob godoc
// @Summary Update job
// @Description Update an existing work order
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.UpdateJobRequest true "Job data"
// @Success 200 {object} domain.JobDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs/{id} [put]
func (h *JobHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID: must be a valid UUID")
		return
	}

	var req domain.UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.jobService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update job")
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// DeleteJob godoc
// @Summary Delete job
// @Description Delete a work order
// @Tags Jobs
// @Param id path string true "Job ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs/{id} [delete]
func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID: must be a valid UUID")
		return
	}

	if err := h.jobService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete job")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

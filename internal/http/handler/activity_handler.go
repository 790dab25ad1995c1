package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verdantworks/crm-api/internal/domain"
	"github.com/verdantworks/crm-api/internal/service"
)

// ActivityHandler handles HTTP requests for the activity log
type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// ListRecentActivities godoc
// @Summary List recent activities
// @Description Get the most recent activity log entries across all entities
// @Tags Activities
// @Produce json
// @Param limit query int false "Max results" default(50)
// @Success 200 {array} domain.ActivityDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /activities [get]
func (h *ActivityHandler) ListRecentActivities(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	activities, err := h.activityService.ListRecent(r.Context(), limit)
	if err != nil {
		respondServiceError(w, h.logger, err, "list activities")
		return
	}

	respondJSON(w, http.StatusOK, activities)
}

// ListActivitiesForTarget godoc
// @Summary List activities for entity
// @Description Get activity log entries for one entity
// @Tags Activities
// @Produce json
// @Param targetType query string true "Target type" Enums(Company, Contact, Deal, Property, Job, Proposal, File)
// @Param targetId query string true "Target ID"
// @Param limit query int false "Max results" default(50)
// @Success 200 {array} domain.ActivityDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /activities/target [get]
func (h *ActivityHandler) ListActivitiesForTarget(w http.ResponseWriter, r *http.Request) {
	targetType := domain.ActivityTargetType(r.URL.Query().Get("targetType"))
	switch targetType {
	case domain.ActivityTargetCompany, domain.ActivityTargetContact, domain.ActivityTargetDeal,
		domain.ActivityTargetProperty, domain.ActivityTargetJob, domain.ActivityTargetProposal,
		domain.ActivityTargetFile:
	default:
		respondWithError(w, http.StatusBadRequest, "Invalid targetType")
		return
	}

	targetID, err := uuid.Parse(r.URL.Query().Get("targetId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid targetId: must be a valid UUID")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	activities, err := h.activityService.ListByTarget(r.Context(), targetType, targetID, limit)
	if err != nil {
		respondServiceError(w, h.logger, err, "list activities for target")
		return
	}

	respondJSON(w, http.StatusOK, activities)
}

// CreateActivity godoc
// @Summary Create activity
// @Description Record a manual activity log entry
// @Tags Activities
// @Accept json
// @Produce json
// @Param request body domain.CreateActivityRequest true "Activity data"
// @Success 201 {object} domain.ActivityDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /activities [post]
func (h *ActivityHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	activity, err := h.activityService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create activity")
		return
	}

	respondJSON(w, http.StatusCreated, activity)
}

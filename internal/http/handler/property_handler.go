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

// PropertyHandler handles HTTP requests for service properties
type PropertyHandler struct {
	propertyService *service.PropertyService
	logger          *zap.Logger
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(propertyService *service.PropertyService, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		logger:          logger,
	}
}

// ListProperties godoc
// @Summary List properties
// @Description Get paginated list of service properties, optionally filtered by company
// @Tags Properties
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param companyId query string false "Filter by company ID"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /properties [get]
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var companyID *uuid.UUID
	if c := r.URL.Query().Get("companyId"); c != "" {
		id, err := uuid.Parse(c)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid companyId: must be a valid UUID")
			return
		}
		companyID = &id
	}

	properties, total, err := h.propertyService.List(r.Context(), page, pageSize, companyID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list properties")
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPaginatedResponse(properties, total, page, pageSize))
}

// GetProperty godoc
// @Summary Get property
// @Description Get a property by ID
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} domain.PropertyDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /properties/{id} [get]
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid property ID: must be a valid UUID")
		return
	}

	property, err := h.propertyService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get property")
		return
	}

	respondJSON(w, http.StatusOK, property)
}

// CreateProperty godoc
// @Summary Create property
// @Description Create a new service property
// @Tags Properties
// @Accept json
// @Produce json
// @Param request body domain.CreatePropertyRequest true "Property data"
// @Success 201 {object} domain.PropertyDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /properties [post]
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	property, err := h.propertyService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create property")
		return
	}

	w.Header().Set("Location", "/api/v1/properties/"+property.ID.String())
	respondJSON(w, http.StatusCreated, property)
}

// UpdateProperty godoc
// @Summary Update property
// @Description Update an existing property
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body domain.UpdatePropertyRequest true "Property data"
// @Success 200 {object} domain.PropertyDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /properties/{id} [put]
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid property ID: must be a valid UUID")
		return
	}

	var req domain.UpdatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	property, err := h.propertyService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update property")
		return
	}

	respondJSON(w, http.StatusOK, property)
}

// DeleteProperty godoc
// @Summary Delete property
// @Description Delete a property
// @Tags Properties
// @Param id path string true "Property ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /properties/{id} [delete]
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid property ID: must be a valid UUID")
		return
	}

	if err := h.propertyService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete property")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

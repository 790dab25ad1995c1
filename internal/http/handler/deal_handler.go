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

// DealHandler handles HTTP requests for deals
type DealHandler struct {
	dealService *service.DealService
	logger      *zap.Logger
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(dealService *service.DealService, logger *zap.Logger) *DealHandler {
	return &DealHandler{
		dealService: dealService,
		logger:      logger,
	}
}

// ListDeals godoc
// @Summary List deals
// @Description Get paginated list of deals with optional company and stage filters
// @Tags Deals
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param companyId query string false "Filter by company ID"
// @Param stage query string false "Filter by stage" Enums(lead, qualified, proposal_sent, won, lost)
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals [get]
func (h *DealHandler) ListDeals(w http.ResponseWriter, r *http.Request) {
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

	var stage *domain.DealStage
	if s := r.URL.Query().Get("stage"); s != "" {
		ds := domain.DealStage(s)
		if !ds.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid stage: must be one of lead, qualified, proposal_sent, won, lost")
			return
		}
		stage = &ds
	}

	deals, total, err := h.dealService.List(r.Context(), page, pageSize, companyID, stage)
	if err != nil {
		respondServiceError(w, h.logger, err, "list deals")
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPaginatedResponse(deals, total, page, pageSize))
}

// GetPipelineValue godoc
// @Summary Get pipeline value
// @Description Get the summed amount of every open deal
// @Tags Deals
// @Produce json
// @Success 200 {object} map[string]float64
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/pipeline-value [get]
func (h *DealHandler) GetPipelineValue(w http.ResponseWriter, r *http.Request) {
	value, err := h.dealService.PipelineValue(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "get pipeline value")
		return
	}

	respondJSON(w, http.StatusOK, map[string]float64{"pipelineValue": value})
}

// GetDeal godoc
// @Summary Get deal
// @Description Get a deal by ID
// @Tags Deals
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {object} domain.DealDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id} [get]
func (h *DealHandler) GetDeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	deal, err := h.dealService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// CreateDeal godoc
// @Summary Create deal
// @Description Create a new deal
// @Tags Deals
// @Accept json
// @Produce json
// @Param request body domain.CreateDealRequest true "Deal data"
// @Success 201 {object} domain.DealDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals [post]
func (h *DealHandler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create deal")
		return
	}

	w.Header().Set("Location", "/api/v1/deals/"+deal.ID.String())
	respondJSON(w, http.StatusCreated, deal)
}

// UpdateDeal godoc
// @Summary Update deal
// @Description Update an existing deal
// @Tags Deals
// @Accept json
// @Produce json
// @Param id path string true "Deal ID"
// @Param request body domain.UpdateDealRequest true "Deal data"
// @Success 200 {object} domain.DealDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id} [put]
func (h *DealHandler) UpdateDeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	var req domain.UpdateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// DeleteDeal godoc
// @Summary Delete deal
// @Description Delete a deal
// @Tags Deals
// @Param id path string true "Deal ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id} [delete]
func (h *DealHandler) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	if err := h.dealService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete deal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

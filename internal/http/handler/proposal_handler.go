package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verdantworks/crm-api/internal/domain"
	"github.com/verdantworks/crm-api/internal/pricing"
	"github.com/verdantworks/crm-api/internal/service"
)

// ProposalHandler handles HTTP requests for proposals, their line items and
// their exported PDF artifacts
type ProposalHandler struct {
	proposalService *service.ProposalService
	logger          *zap.Logger
}

// NewProposalHandler creates a new ProposalHandler
func NewProposalHandler(proposalService *service.ProposalService, logger *zap.Logger) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
		logger:          logger,
	}
}

// ListProposals godoc
// @Summary List proposals
// @Description Get paginated list of proposals with optional filters
// @Tags Proposals
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param companyId query string false "Filter by company ID"
// @Param status query string false "Filter by status" Enums(draft, sent, viewed, accepted, rejected, expired)
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proposals [get]
func (h *ProposalHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
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

	var status *domain.ProposalStatus
	if s := r.URL.Query().Get("status"); s != "" {
		ps := domain.ProposalStatus(s)
		if !ps.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of draft, sent, viewed, accepted, rejected, expired")
			return
		}
		status = &ps
	}

	proposals, total, err := h.proposalService.List(r.Context(), page, pageSize, companyID, status)
	if err != nil {
		respondServiceError(w, h.logger, err, "list proposals")
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPaginatedResponse(proposals, total, page, pageSize))
}

// SearchProposals godoc
// @Summary Search proposals
// @Description Search proposals by title
// @Tags Proposals
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Max results" default(10)
// @Success 200 {array} domain.ProposalDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proposals/search [get]
func (h *ProposalHandler) SearchProposals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	proposals, err := h.proposalService.Search(r.Context(), query, limit)
	if err != nil {
		respondServiceError(w, h.logger, err, "search proposals")
		return
	}

	respondJSON(w, http.StatusOK, proposals)
}

// GetProposal godoc
// @Summary Get proposal
// @Description Get a proposal by ID with its line items
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} domain.ProposalDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proposals/{id} [get]
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	proposal, err := h.proposalService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get proposal")
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// CreateProposal godoc
// @Summary Create proposal
// @Description Create a new proposal
// @Tags Proposals
// @Accept json
// @Produce json
// @Param request body domain.CreateProposalRequest true "Proposal data"
// @Success 201 {object} domain.ProposalDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proposals [post]
func (h *ProposalHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	proposal, err := h.proposalService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create proposal")
		return
	}

	w.Header().Set("Location", "/api/v1/proposals/"+proposal.ID.String())
	respondJSON(w, http.StatusCreated, proposal)
}

// UpdateProposal godoc
// @Summary Update proposal
// @Description Update an existing proposal
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param request body domain.UpdateProposalRequest true "Proposal data"
// @Success 200 {object} domain.ProposalDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proposals/{id} [put]
func (h *ProposalHandler) UpdateProposal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	var req domain.UpdateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	proposal, err := h.proposalService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update proposal")
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// DeleteProposal godoc
// @Summary Delete proposal
// @Description Delete a proposal and its line items
// @Tags Proposals
// @Param id path string true "Proposal ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proposals/{id} [delete]
func (h *ProposalHandler) DeleteProposal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	if err := h.proposalService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete proposal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SyncItems godoc
// @Summary Sync proposal items
// @Description Replace the proposal's line item set. Existing rows referenced by
// @Description ID are updated, inputs without ID are created and existing rows
// @Description not mentioned are removed, all in one transaction.
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param request body domain.SyncProposalItemsRequest true "Item set"
// @Success 200 {array} domain.ProposalItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proposals/{id}/items [put]
func (h *ProposalHandler) SyncItems(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	var req domain.SyncProposalItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	items, err := h.proposalService.SyncItems(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "sync proposal items")
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// GetPricing godoc
// @Summary Get proposal pricing
// @Description Get the recomputed pricing breakdown grouped into sections.
// @Description Client mode hides internal-only items; neither mode carries cost data.
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Param mode query string false "View mode" Enums(internal, client) default(internal)
// @Success 200 {object} domain.ProposalPricingDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proposals/{id}/pricing [get]
func (h *ProposalHandler) GetPricing(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	mode := pricing.ViewModeInternal
	if m := r.URL.Query().Get("mode"); m != "" {
		mode = pricing.ViewMode(m)
	}

	breakdown, err := h.proposalService.GetPricing(r.Context(), id, mode)
	if err != nil {
		respondServiceError(w, h.logger, err, "get proposal pricing")
		return
	}

	respondJSON(w, http.StatusOK, breakdown)
}

// ExportProposal godoc
// @Summary Export proposal to PDF
// @Description Render the client view of the proposal to a PDF, store it and
// @Description record the artifact path on the proposal
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} domain.ExportProposalResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proposals/{id}/export [post]
func (h *ProposalHandler) ExportProposal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	resp, err := h.proposalService.Export(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "export proposal")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ListArtifacts godoc
// @Summary List proposal artifacts
// @Description List the stored PDF artifacts for a proposal, newest first
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {array} domain.ArtifactDTO
// @Failure 404 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proposals/{id}/artifacts [get]
func (h *ProposalHandler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	artifacts, err := h.proposalService.ListArtifacts(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "list proposal artifacts")
		return
	}

	respondJSON(w, http.StatusOK, artifacts)
}

// GetArtifactURL godoc
// @Summary Get artifact download URL
// @Description Get a time-limited download URL for one of the proposal's stored PDFs
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Param path query string true "Artifact path"
// @Success 200 {object} domain.ArtifactURLResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proposals/{id}/artifacts/url [get]
func (h *ProposalHandler) GetArtifactURL(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter path is required")
		return
	}

	resp, err := h.proposalService.ArtifactURL(r.Context(), id, path)
	if err != nil {
		respondServiceError(w, h.logger, err, "get artifact URL")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

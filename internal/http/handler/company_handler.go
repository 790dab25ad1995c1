package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verdantworks/crm-api/internal/domain"
	"github.com/verdantworks/crm-api/internal/service"
)

// CompanyHandler handles HTTP requests for client companies
type CompanyHandler struct {
	companyService *service.CompanyService
	logger         *zap.Logger
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *service.CompanyService, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		logger:         logger,
	}
}

// ListCompanies godoc
// @Summary List companies
// @Description Get paginated list of client companies with optional status filter
// @Tags Companies
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param status query string false "Filter by status" Enums(active, inactive, lead)
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /companies [get]
func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var status *domain.CompanyStatus
	if s := r.URL.Query().Get("status"); s != "" {
		cs := domain.CompanyStatus(s)
		if cs != domain.CompanyStatusActive && cs != domain.CompanyStatusInactive && cs != domain.CompanyStatusLead {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of active, inactive, lead")
			return
		}
		status = &cs
	}

	companies, total, err := h.companyService.List(r.Context(), page, pageSize, status)
	if err != nil {
		respondServiceError(w, h.logger, err, "list companies")
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPaginatedResponse(companies, total, page, pageSize))
}

// SearchCompanies godoc
// @Summary Search companies
// @Description Search companies by name or city
// @Tags Companies
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Max results" default(10)
// @Success 200 {array} domain.CompanyDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /companies/search [get]
func (h *CompanyHandler) SearchCompanies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	companies, err := h.companyService.Search(r.Context(), query, limit)
	if err != nil {
		respondServiceError(w, h.logger, err, "search companies")
		return
	}

	respondJSON(w, http.StatusOK, companies)
}

// GetCompany godoc
// @Summary Get company
// @Description Get a company by ID with its contacts, properties and proposals
// @Tags Companies
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} domain.CompanyWithDetailsDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /companies/{id} [get]
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid company ID: must be a valid UUID")
		return
	}

	company, err := h.companyService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get company")
		return
	}

	respondJSON(w, http.StatusOK, company)
}

// CreateCompany godoc
// @Summary Create company
// @Description Create a new client company
// @Tags Companies
// @Accept json
// @Produce json
// @Param request body domain.CreateCompanyRequest true "Company data"
// @Success 201 {object} domain.CompanyDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /companies [post]
func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	company, err := h.companyService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create company")
		return
	}

	w.Header().Set("Location", "/api/v1/companies/"+company.ID.String())
	respondJSON(w, http.StatusCreated, company)
}

// UpdateCompany godoc
// @Summary Update company
// @Description Update an existing company
// @Tags Companies
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param request body domain.UpdateCompanyRequest true "Company data"
// @Success 200 {object} domain.CompanyDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid company ID: must be a valid UUID")
		return
	}

	var req domain.UpdateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	company, err := h.companyService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update company")
		return
	}

	respondJSON(w, http.StatusOK, company)
}

// DeleteCompany godoc
// @Summary Delete company
// @Description Delete a company and its dependent records
// @Tags Companies
// @Param id path string true "Company ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /companies/{id} [delete]
func (h *CompanyHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid company ID: must be a valid UUID")
		return
	}

	if err := h.companyService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete company")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

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

// ContactHandler handles HTTP requests for contacts
type ContactHandler struct {
	contactService *service.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// ListContacts godoc
// @Summary List contacts
// @Description Get paginated list of contacts, optionally filtered by company
// @Tags Contacts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param companyId query string false "Filter by company ID"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contacts [get]
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
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

	contacts, total, err := h.contactService.List(r.Context(), page, pageSize, companyID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list contacts")
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPaginatedResponse(contacts, total, page, pageSize))
}

// SearchContacts godoc
// @Summary Search contacts
// @Description Search contacts by name or email
// @Tags Contacts
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Max results" default(10)
// @Success 200 {array} domain.ContactDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contacts/search [get]
func (h *ContactHandler) SearchContacts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	contacts, err := h.contactService.Search(r.Context(), query, limit)
	if err != nil {
		respondServiceError(w, h.logger, err, "search contacts")
		return
	}

	respondJSON(w, http.StatusOK, contacts)
}

// GetContact godoc
// @Summary Get contact
// @Description Get a contact by ID
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} domain.ContactDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contacts/{id} [get]
func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID: must be a valid UUID")
		return
	}

	contact, err := h.contactService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get contact")
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

// CreateContact godoc
// @Summary Create contact
// @Description Create a new contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param request body domain.CreateContactRequest true "Contact data"
// @Success 201 {object} domain.ContactDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contacts [post]
func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	contact, err := h.contactService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create contact")
		return
	}

	w.Header().Set("Location", "/api/v1/contacts/"+contact.ID.String())
	respondJSON(w, http.StatusCreated, contact)
}

// UpdateContact godoc
// @Summary Update contact
// @Description Update an existing contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param request body domain.UpdateContactRequest true "Contact data"
// @Success 200 {object} domain.ContactDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contacts/{id} [put]
func (h *ContactHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID: must be a valid UUID")
		return
	}

	var req domain.UpdateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	contact, err := h.contactService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update contact")
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

// DeleteContact godoc
// @Summary Delete contact
// @Description Delete a contact
// @Tags Contacts
// @Param id path string true "Contact ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID: must be a valid UUID")
		return
	}

	if err := h.contactService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete contact")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verdantworks/crm-api/internal/service"
)

// FileHandler handles HTTP requests for uploaded attachments
type FileHandler struct {
	fileService     *service.FileService
	maxUploadSizeMB int64
	logger          *zap.Logger
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(fileService *service.FileService, maxUploadSizeMB int64, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService:     fileService,
		maxUploadSizeMB: maxUploadSizeMB,
		logger:          logger,
	}
}

// UploadFile godoc
// @Summary Upload file
// @Description Upload a file attachment, optionally linked to a proposal
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param proposalId formData string false "Proposal to attach the file to"
// @Success 201 {object} domain.FileDTO
// @Failure 400 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files [post]
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.maxUploadSizeMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Upload exceeds the %d MB limit", h.maxUploadSizeMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file field in multipart form")
		return
	}
	defer file.Close()

	var proposalID *uuid.UUID
	if p := r.FormValue("proposalId"); p != "" {
		id, err := uuid.Parse(p)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid proposalId: must be a valid UUID")
			return
		}
		proposalID = &id
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	dto, err := h.fileService.Upload(r.Context(), header.Filename, contentType, file, proposalID)
	if err != nil {
		respondServiceError(w, h.logger, err, "upload file")
		return
	}

	w.Header().Set("Location", "/api/v1/files/"+dto.ID.String())
	respondJSON(w, http.StatusCreated, dto)
}

// DownloadFile godoc
// @Summary Download file
// @Description Stream a stored file back to the client
// @Tags Files
// @Produce octet-stream
// @Param id path string true "File ID"
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id} [get]
func (h *FileHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file ID: must be a valid UUID")
		return
	}

	file, rc, err := h.fileService.Download(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "download file")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("file download interrupted",
			zap.String("file_id", id.String()),
			zap.Error(err),
		)
	}
}

// DeleteFile godoc
// @Summary Delete file
// @Description Delete a stored file and its metadata
// @Tags Files
// @Param id path string true "File ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id} [delete]
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file ID: must be a valid UUID")
		return
	}

	if err := h.fileService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete file")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListProposalFiles godoc
// @Summary List proposal files
// @Description List the attachments on one proposal
// @Tags Files
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {array} domain.FileDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proposals/{id}/files [get]
func (h *FileHandler) ListProposalFiles(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	files, err := h.fileService.ListByProposal(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "list proposal files")
		return
	}

	respondJSON(w, http.StatusOK, files)
}

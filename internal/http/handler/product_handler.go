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

// ProductHandler handles HTTP requests for the product and service catalog
type ProductHandler struct {
	productService *service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// ListProducts godoc
// @Summary List products
// @Description Get paginated list of catalog products with optional filters
// @Tags Products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param category query string false "Filter by category" Enums(planting, hardscape, irrigation, lighting, maintenance, materials, labor, other)
// @Param activeOnly query bool false "Only active products" default(false)
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var category *domain.ProductCategory
	if c := r.URL.Query().Get("category"); c != "" {
		pc := domain.ProductCategory(c)
		if !pc.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid category")
			return
		}
		category = &pc
	}
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("activeOnly"))

	products, total, err := h.productService.List(r.Context(), page, pageSize, category, activeOnly)
	if err != nil {
		respondServiceError(w, h.logger, err, "list products")
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPaginatedResponse(products, total, page, pageSize))
}

// SearchProducts godoc
// @Summary Search products
// @Description Search catalog products by name or SKU
// @Tags Products
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Max results" default(10)
// @Success 200 {array} domain.ProductDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products/search [get]
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.productService.Search(r.Context(), query, limit)
	if err != nil {
		respondServiceError(w, h.logger, err, "search products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// GetProduct godoc
// @Summary Get product
// @Description Get a catalog product by ID
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.ProductDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID: must be a valid UUID")
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// CreateProduct godoc
// @Summary Create product
// @Description Create a new catalog product
// @Tags Products
// @Accept json
// @Produce json
// @Param request body domain.CreateProductRequest true "Product data"
// @Success 201 {object} domain.ProductDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.productService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create product")
		return
	}

	w.Header().Set("Location", "/api/v1/products/"+product.ID.String())
	respondJSON(w, http.StatusCreated, product)
}

// UpdateProduct godoc
// @Summary Update product
// @Description Update an existing catalog product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body domain.UpdateProductRequest true "Product data"
// @Success 200 {object} domain.ProductDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID: must be a valid UUID")
		return
	}

	var req domain.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.productService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete product
// @Description Delete a catalog product
// @Tags Products
// @Param id path string true "Product ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID: must be a valid UUID")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

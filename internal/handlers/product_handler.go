package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/product-catalog/internal/models"
	"github.com/Lixing-Zhang/product-catalog/internal/query"
	"github.com/Lixing-Zhang/product-catalog/internal/service"
	"github.com/Lixing-Zhang/product-catalog/internal/validation"
)

const maxBodyBytes = 1 << 20

// ResponseOptions selects between response shapes of earlier and later
// revisions of the API
type ResponseOptions struct {
	// ListEnvelope wraps list results as {count, products}
	ListEnvelope bool
	// ExposeErrorDetails adds the underlying error text to 500 responses
	ExposeErrorDetails bool
}

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
	opts    ResponseOptions
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger, opts ResponseOptions) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
		opts:    opts,
	}
}

// ListProducts handles GET /api/products
// Supports category, minPrice, sort=price and fields query parameters.
// The full matching set is returned.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := query.Parse(r.URL.Query())

	products, err := h.service.ListProducts(r.Context(), q)
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeServerError(w, err)
		return
	}

	if !h.opts.ListEnvelope {
		WriteJSON(w, http.StatusOK, products, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, models.ProductList{
		Count:    len(products),
		Products: products,
	}, h.logger)
}

// GetProduct handles GET /api/products/{productId}
// - 200: successful operation
// - 400: Invalid ID format
// - 404: Product not found
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	product, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		h.handleError(w, err, "get", productID)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	id, err := h.service.CreateProduct(r.Context(), body)
	if err != nil {
		h.handleError(w, err, "create", "")
		return
	}

	h.logger.Info("product created", "productId", id.Hex())
	WriteJSON(w, http.StatusCreated, models.CreatedResponse{
		Message:   "Product created",
		ProductID: id.Hex(),
	}, h.logger)
}

// ReplaceProduct handles PUT /api/products/{productId}
func (h *ProductHandler) ReplaceProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if !validation.IsValidID(productID) {
		h.handleError(w, service.ErrInvalidID, "replace", productID)
		return
	}

	body, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	if err := h.service.ReplaceProduct(r.Context(), productID, body); err != nil {
		h.handleError(w, err, "replace", productID)
		return
	}

	WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Product replaced"}, h.logger)
}

// PatchProduct handles PATCH /api/products/{productId}
func (h *ProductHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if !validation.IsValidID(productID) {
		h.handleError(w, service.ErrInvalidID, "patch", productID)
		return
	}

	body, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	if err := h.service.PatchProduct(r.Context(), productID, body); err != nil {
		h.handleError(w, err, "patch", productID)
		return
	}

	WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Product updated"}, h.logger)
}

// DeleteProduct handles DELETE /api/products/{productId}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	if err := h.service.DeleteProduct(r.Context(), productID); err != nil {
		h.handleError(w, err, "delete", productID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeBody reads a JSON object from the request body. On failure the 400
// response has already been written.
func (h *ProductHandler) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var body map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil || body == nil {
		h.logger.Warn("failed to decode request body", "error", err)
		WriteError(w, http.StatusBadRequest, validation.MsgInvalidPayload, h.logger)
		return nil, false
	}
	return body, true
}

// handleError maps service errors onto status codes
func (h *ProductHandler) handleError(w http.ResponseWriter, err error, op, productID string) {
	var verr *validation.Error

	switch {
	case errors.Is(err, service.ErrInvalidID):
		h.logger.Warn("invalid product ID format", "op", op, "productId", productID)
		WriteError(w, http.StatusBadRequest, validation.MsgInvalidID, h.logger)
	case errors.As(err, &verr):
		h.logger.Warn("invalid product payload", "op", op, "productId", productID, "error", verr)
		WriteError(w, http.StatusBadRequest, verr.Error(), h.logger)
	case errors.Is(err, service.ErrProductNotFound):
		h.logger.Info("product not found", "op", op, "productId", productID)
		WriteError(w, http.StatusNotFound, "Product not found", h.logger)
	default:
		h.logger.Error("product store failure", "op", op, "productId", productID, "error", err)
		h.writeServerError(w, err)
	}
}

func (h *ProductHandler) writeServerError(w http.ResponseWriter, err error) {
	if h.opts.ExposeErrorDetails {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Details: err.Error(),
		}, h.logger)
		return
	}
	WriteError(w, http.StatusInternalServerError, "Internal Server Error", h.logger)
}

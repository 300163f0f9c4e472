package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Lixing-Zhang/product-catalog/internal/models"
	"github.com/Lixing-Zhang/product-catalog/internal/query"
	"github.com/Lixing-Zhang/product-catalog/internal/repository"
	"github.com/Lixing-Zhang/product-catalog/internal/validation"
)

var (
	ErrInvalidID       = validation.ErrInvalidID
	ErrProductNotFound = repository.ErrProductNotFound
)

// ProductService handles business logic for products.
// Input is fully validated before the single repository call of each
// operation; invalid input never reaches the store.
type ProductService struct {
	repo      repository.ProductRepository
	validator *validation.Validator
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository, validator *validation.Validator) *ProductService {
	return &ProductService{
		repo:      repo,
		validator: validator,
	}
}

// ListProducts returns every product matching q
func (s *ProductService) ListProducts(ctx context.Context, q query.ProductQuery) ([]models.Document, error) {
	return s.repo.List(ctx, q)
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := validation.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates body and inserts it, returning the new identifier
func (s *ProductService) CreateProduct(ctx context.Context, body map[string]any) (primitive.ObjectID, error) {
	product, err := s.validator.ValidateCreate(body)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return s.repo.Create(ctx, product)
}

// ReplaceProduct overwrites the product with body
func (s *ProductService) ReplaceProduct(ctx context.Context, rawID string, body map[string]any) error {
	id, err := validation.ParseID(rawID)
	if err != nil {
		return err
	}
	product, err := s.validator.ValidateReplace(body)
	if err != nil {
		return err
	}
	return s.repo.Replace(ctx, id, product)
}

// PatchProduct merges the supplied fields of body into the product
func (s *ProductService) PatchProduct(ctx context.Context, rawID string, body map[string]any) error {
	id, err := validation.ParseID(rawID)
	if err != nil {
		return err
	}
	patch, err := s.validator.ValidatePatch(body)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, id, patch)
}

// DeleteProduct removes a product
func (s *ProductService) DeleteProduct(ctx context.Context, rawID string) error {
	id, err := validation.ParseID(rawID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Ping reports whether the store is reachable
func (s *ProductService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

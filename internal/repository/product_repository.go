package repository

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Lixing-Zhang/product-catalog/internal/models"
	"github.com/Lixing-Zhang/product-catalog/internal/query"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access.
// Each method maps onto exactly one store call.
type ProductRepository interface {
	List(ctx context.Context, q query.ProductQuery) ([]models.Document, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, product models.Product) (primitive.ObjectID, error)
	Replace(ctx context.Context, id primitive.ObjectID, product models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Ping(ctx context.Context) error
}

// InMemoryProductRepository implements ProductRepository with in-memory storage.
// Insertion order stands in for the store's natural order.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]models.Product
	order    []primitive.ObjectID
}

// NewInMemoryProductRepository creates an in-memory repository holding seed
func NewInMemoryProductRepository(seed ...models.Product) *InMemoryProductRepository {
	r := &InMemoryProductRepository{
		products: make(map[primitive.ObjectID]models.Product, len(seed)),
	}
	for _, p := range seed {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		r.products[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

// SampleProducts returns a small catalogue for local runs
func SampleProducts() []models.Product {
	return []models.Product{
		{Name: "Chicken Waffle", Price: 12.99, Category: "Waffle"},
		{Name: "Belgian Waffle", Price: 10.99, Category: "Waffle"},
		{Name: "Caesar Salad", Price: 8.99, Category: "Salad"},
		{Name: "Greek Salad", Price: 9.49, Category: "Salad"},
		{Name: "Margherita Pizza", Price: 14.99, Category: "Pizza"},
		{Name: "Pepperoni Pizza", Price: 16.99, Category: "Pizza"},
		{Name: "Classic Burger", Price: 13.99, Category: "Burger"},
		{Name: "The Go Programming Language", Price: 34.5, Category: "books"},
	}
}

// List returns every product matching q
func (r *InMemoryProductRepository) List(ctx context.Context, q query.ProductQuery) ([]models.Document, error) {
	r.mu.RLock()
	products := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id])
	}
	r.mu.RUnlock()

	return q.Evaluate(products), nil
}

// GetByID returns a product by its ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// Create stores product under a fresh identifier
func (r *InMemoryProductRepository) Create(ctx context.Context, product models.Product) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = primitive.NewObjectID()
	r.products[product.ID] = product
	r.order = append(r.order, product.ID)
	return product.ID, nil
}

// Replace overwrites every field of the product except its identifier
func (r *InMemoryProductRepository) Replace(ctx context.Context, id primitive.ObjectID, product models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; !exists {
		return ErrProductNotFound
	}
	product.ID = id
	r.products[id] = product
	return nil
}

// Update merges patch into the stored product
func (r *InMemoryProductRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, exists := r.products[id]
	if !exists {
		return ErrProductNotFound
	}
	patch.Apply(&product)
	r.products[id] = product
	return nil
}

// Delete removes the product
func (r *InMemoryProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; !exists {
		return ErrProductNotFound
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping always succeeds
func (r *InMemoryProductRepository) Ping(ctx context.Context) error {
	return nil
}

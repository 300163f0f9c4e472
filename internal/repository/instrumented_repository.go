package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Lixing-Zhang/product-catalog/internal/metrics"
	"github.com/Lixing-Zhang/product-catalog/internal/models"
	"github.com/Lixing-Zhang/product-catalog/internal/query"
)

// InstrumentedRepository records operation counts and latencies for the
// wrapped repository. A not-found result counts as "not_found", not "error".
type InstrumentedRepository struct {
	next    ProductRepository
	metrics *metrics.Metrics
}

// NewInstrumentedRepository wraps next
func NewInstrumentedRepository(next ProductRepository, m *metrics.Metrics) *InstrumentedRepository {
	return &InstrumentedRepository{next: next, metrics: m}
}

func (r *InstrumentedRepository) observe(operation string, start time.Time, err error) {
	status := "success"
	switch {
	case errors.Is(err, ErrProductNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	r.metrics.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	r.metrics.StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (r *InstrumentedRepository) List(ctx context.Context, q query.ProductQuery) ([]models.Document, error) {
	start := time.Now()
	docs, err := r.next.List(ctx, q)
	r.observe("list", start, err)
	return docs, err
}

func (r *InstrumentedRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	start := time.Now()
	product, err := r.next.GetByID(ctx, id)
	r.observe("get", start, err)
	return product, err
}

func (r *InstrumentedRepository) Create(ctx context.Context, product models.Product) (primitive.ObjectID, error) {
	start := time.Now()
	id, err := r.next.Create(ctx, product)
	r.observe("create", start, err)
	return id, err
}

func (r *InstrumentedRepository) Replace(ctx context.Context, id primitive.ObjectID, product models.Product) error {
	start := time.Now()
	err := r.next.Replace(ctx, id, product)
	r.observe("replace", start, err)
	return err
}

func (r *InstrumentedRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) error {
	start := time.Now()
	err := r.next.Update(ctx, id, patch)
	r.observe("update", start, err)
	return err
}

func (r *InstrumentedRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	start := time.Now()
	err := r.next.Delete(ctx, id)
	r.observe("delete", start, err)
	return err
}

func (r *InstrumentedRepository) Ping(ctx context.Context) error {
	start := time.Now()
	err := r.next.Ping(ctx)
	r.observe("ping", start, err)
	return err
}

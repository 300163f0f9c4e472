package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Lixing-Zhang/product-catalog/internal/models"
	"github.com/Lixing-Zhang/product-catalog/internal/query"
)

// MongoProductRepository implements ProductRepository on a MongoDB collection
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository wraps coll
func NewMongoProductRepository(coll *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{coll: coll}
}

func byID(id primitive.ObjectID) bson.M {
	return bson.M{models.FieldID: id}
}

// List runs a find with the query's filter, sort and projection.
// The full result set is returned.
func (r *MongoProductRepository) List(ctx context.Context, q query.ProductQuery) ([]models.Document, error) {
	opts := options.Find()
	if sort := q.Sort(); sort != nil {
		opts.SetSort(sort)
	}
	if projection := q.Projection(); projection != nil {
		opts.SetProjection(projection)
	}

	cur, err := r.coll.Find(ctx, q.Filter(), opts)
	if err != nil {
		return nil, errors.Wrap(err, "finding products")
	}

	docs := []models.Document{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding products")
	}
	return docs, nil
}

// GetByID finds one product by identifier
func (r *MongoProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.coll.FindOne(ctx, byID(id)).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "finding product '%s'", id.Hex())
	}
	return &product, nil
}

// Create inserts product and returns its identifier
func (r *MongoProductRepository) Create(ctx context.Context, product models.Product) (primitive.ObjectID, error) {
	product.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "inserting product")
	}
	return product.ID, nil
}

// Replace overwrites the whole document, keeping its identifier
func (r *MongoProductRepository) Replace(ctx context.Context, id primitive.ObjectID, product models.Product) error {
	product.ID = id
	res, err := r.coll.ReplaceOne(ctx, byID(id), product)
	if err != nil {
		return errors.Wrapf(err, "replacing product '%s'", id.Hex())
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Update sets only the fields present in patch
func (r *MongoProductRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) error {
	res, err := r.coll.UpdateOne(ctx, byID(id), bson.M{"$set": patch.SetDocument()})
	if err != nil {
		return errors.Wrapf(err, "updating product '%s'", id.Hex())
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes one product
func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return errors.Wrapf(err, "deleting product '%s'", id.Hex())
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Ping checks connectivity to the primary
func (r *MongoProductRepository) Ping(ctx context.Context) error {
	return errors.Wrap(r.coll.Database().Client().Ping(ctx, readpref.Primary()), "pinging database")
}

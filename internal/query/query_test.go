package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Lixing-Zhang/product-catalog/internal/models"
)

func mustParse(t *testing.T, raw string) ProductQuery {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return Parse(values)
}

func TestParse_Filter(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bson.M
	}{
		{"no params", "", bson.M{}},
		{"category only", "category=books", bson.M{"category": "books"}},
		{"min price only", "minPrice=10", bson.M{"price": bson.M{"$gte": 10.0}}},
		{"decimal min price", "minPrice=9.5", bson.M{"price": bson.M{"$gte": 9.5}}},
		{
			name: "category and min price",
			raw:  "category=books&minPrice=10",
			want: bson.M{"category": "books", "price": bson.M{"$gte": 10.0}},
		},
		{"empty category", "category=", bson.M{}},
		{"non numeric min price", "minPrice=cheap", bson.M{}},
		{"nan min price", "minPrice=NaN", bson.M{}},
		{"infinite min price", "minPrice=Inf", bson.M{}},
		{"unknown parameter", "color=red", bson.M{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustParse(t, tt.raw).Filter())
		})
	}
}

func TestParse_Sort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, mustParse(t, "sort=price").Sort())
	assert.Nil(t, mustParse(t, "sort=name").Sort())
	assert.Nil(t, mustParse(t, "sort=-price").Sort())
	assert.Nil(t, mustParse(t, "").Sort())
}

func TestParse_Projection(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantFields []string
		want       bson.M
	}{
		{"none", "", nil, nil},
		{"single", "fields=name", []string{"name"}, bson.M{"name": 1}},
		{"trimmed", "fields=name,%20price%20", []string{"name", "price"}, bson.M{"name": 1, "price": 1}},
		{"empty entries skipped", "fields=name,,%20,", []string{"name"}, bson.M{"name": 1}},
		{"only separators", "fields=,,", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mustParse(t, tt.raw)
			assert.Equal(t, tt.wantFields, q.Fields)
			assert.Equal(t, tt.want, q.Projection())
		})
	}
}

func TestEvaluate(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	products := []models.Product{
		{ID: ids[0], Name: "Dune", Price: 25, Category: "books"},
		{ID: ids[1], Name: "Pencil", Price: 1.5, Category: "stationery"},
		{ID: ids[2], Name: "Emma", Price: 10, Category: "books"},
		{ID: ids[3], Name: "Leaflet", Price: 2, Category: "books"},
	}

	t.Run("category, min price and sort", func(t *testing.T) {
		docs := mustParse(t, "category=books&minPrice=10&sort=price").Evaluate(products)
		require.Len(t, docs, 2)
		assert.Equal(t, "Emma", docs[0]["name"])
		assert.Equal(t, "Dune", docs[1]["name"])
		for _, doc := range docs {
			assert.Equal(t, "books", doc["category"])
			assert.GreaterOrEqual(t, doc["price"].(float64), 10.0)
		}
	})

	t.Run("natural order without sort", func(t *testing.T) {
		docs := mustParse(t, "").Evaluate(products)
		require.Len(t, docs, 4)
		for i, doc := range docs {
			assert.Equal(t, ids[i], doc["_id"])
		}
	})

	t.Run("projection keeps id", func(t *testing.T) {
		docs := mustParse(t, "fields=name,missing").Evaluate(products)
		require.Len(t, docs, 4)
		assert.Equal(t, models.Document{"_id": ids[0], "name": "Dune"}, docs[0])
	})

	t.Run("no matches", func(t *testing.T) {
		docs := mustParse(t, "category=toys").Evaluate(products)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})
}

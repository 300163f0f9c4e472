// Package query translates list-endpoint query parameters into a store
// filter, sort order and projection.
//
// The same ProductQuery drives both backends: the Mongo repository sends
// Filter, Sort and Projection to the server, the in-memory repository calls
// Evaluate which applies identical semantics to a slice of products.
package query

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Lixing-Zhang/product-catalog/internal/models"
)

// Recognised query parameters
const (
	ParamCategory = "category"
	ParamMinPrice = "minPrice"
	ParamSort     = "sort"
	ParamFields   = "fields"

	// SortPrice is the only recognised sort key; ordering is ascending.
	SortPrice = "price"
)

// ProductQuery is the parsed form of the list endpoint parameters.
// Zero values mean "no constraint".
type ProductQuery struct {
	Category    string
	MinPrice    *float64
	SortByPrice bool
	Fields      []string
}

// Parse builds a ProductQuery from URL query values. Absent, empty or
// unrecognised parameters add no constraint.
func Parse(values url.Values) ProductQuery {
	var q ProductQuery

	q.Category = values.Get(ParamCategory)

	if raw := strings.TrimSpace(values.Get(ParamMinPrice)); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			q.MinPrice = &v
		}
	}

	q.SortByPrice = values.Get(ParamSort) == SortPrice

	if raw := values.Get(ParamFields); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			if field = strings.TrimSpace(field); field != "" {
				q.Fields = append(q.Fields, field)
			}
		}
	}

	return q
}

// Filter returns the conjunction of the category and price constraints
func (q ProductQuery) Filter() bson.M {
	filter := bson.M{}
	if q.Category != "" {
		filter[models.FieldCategory] = q.Category
	}
	if q.MinPrice != nil {
		filter[models.FieldPrice] = bson.M{"$gte": *q.MinPrice}
	}
	return filter
}

// Sort returns the sort document, or nil for natural order
func (q ProductQuery) Sort() bson.D {
	if !q.SortByPrice {
		return nil
	}
	return bson.D{{Key: models.FieldPrice, Value: 1}}
}

// Projection returns an inclusion projection, or nil for all fields
func (q ProductQuery) Projection() bson.M {
	if len(q.Fields) == 0 {
		return nil
	}
	projection := bson.M{}
	for _, field := range q.Fields {
		projection[field] = 1
	}
	return projection
}

// Matches reports whether p satisfies the filter
func (q ProductQuery) Matches(p models.Product) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	return true
}

// Project applies the projection to doc. _id is always kept.
func (q ProductQuery) Project(doc models.Document) models.Document {
	if len(q.Fields) == 0 {
		return doc
	}
	out := models.Document{}
	if id, ok := doc[models.FieldID]; ok {
		out[models.FieldID] = id
	}
	for _, field := range q.Fields {
		if v, ok := doc[field]; ok {
			out[field] = v
		}
	}
	return out
}

// Evaluate filters, sorts and projects products in memory. The input order
// is preserved when no sort is requested.
func (q ProductQuery) Evaluate(products []models.Product) []models.Document {
	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q.Matches(p) {
			matched = append(matched, p)
		}
	}

	if q.SortByPrice {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Price < matched[j].Price
		})
	}

	docs := make([]models.Document, 0, len(matched))
	for _, p := range matched {
		docs = append(docs, q.Project(p.ToDocument()))
	}
	return docs
}

package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field names as stored in the products collection
const (
	FieldID       = "_id"
	FieldName     = "name"
	FieldPrice    = "price"
	FieldCategory = "category"
)

// Product represents a catalogue entry stored in the products collection.
// The identifier is assigned by the store and never changes afterwards.
type Product struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Price    float64            `json:"price" bson:"price"`
	Category string             `json:"category" bson:"category"`
}

// Document is a product as returned by the list endpoint. Projections may
// drop fields, so list results are not decoded into Product.
type Document map[string]any

// ToDocument converts p into its stored document form
func (p Product) ToDocument() Document {
	return Document{
		FieldID:       p.ID,
		FieldName:     p.Name,
		FieldPrice:    p.Price,
		FieldCategory: p.Category,
	}
}

// ProductPatch holds the fields supplied in a partial update.
// A nil field is left untouched.
type ProductPatch struct {
	Name     *string
	Price    *float64
	Category *string
}

// IsEmpty reports whether the patch changes nothing
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Category == nil
}

// SetDocument returns the $set document for the supplied fields
func (p ProductPatch) SetDocument() bson.M {
	set := bson.M{}
	if p.Name != nil {
		set[FieldName] = *p.Name
	}
	if p.Price != nil {
		set[FieldPrice] = *p.Price
	}
	if p.Category != nil {
		set[FieldCategory] = *p.Category
	}
	return set
}

// Apply merges the patch into product
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
}

package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Lixing-Zhang/product-catalog/internal/models"
)

// DefaultCategory is assigned on create when category is optional and absent
const DefaultCategory = "general"

// Client-facing messages
const (
	MsgInvalidID      = "Invalid ID format"
	MsgMissingFields  = "Missing required fields"
	MsgInvalidPrice   = "Invalid price"
	MsgNegativePrice  = "Price must be a non-negative number"
	MsgNoFieldsToSet  = "No fields to update"
	MsgInvalidPayload = "Invalid request body"
)

// ErrInvalidID is returned for identifiers that are not 24-char hex ObjectIDs
var ErrInvalidID = errors.New("invalid id format")

// Error is a client input error. Message is safe to return to callers.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// IsValidID reports whether s is a well-formed document identifier
func IsValidID(s string) bool {
	return primitive.IsValidObjectID(s)
}

// ParseID converts s to an ObjectID, returning ErrInvalidID when malformed
func ParseID(s string) (primitive.ObjectID, error) {
	if !IsValidID(s) {
		return primitive.NilObjectID, ErrInvalidID
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// Options selects between the behaviours earlier and later revisions of the
// API shipped with.
type Options struct {
	// RequireCategory rejects creates without a category instead of
	// defaulting it.
	RequireCategory bool
	// DefaultCategory replaces DefaultCategory when non-empty.
	DefaultCategory string
	// StrictPrice rejects negative prices.
	StrictPrice bool
}

// Validator checks write request bodies
type Validator struct {
	opts Options
}

// New creates a Validator
func New(opts Options) *Validator {
	if opts.DefaultCategory == "" {
		opts.DefaultCategory = DefaultCategory
	}
	return &Validator{opts: opts}
}

// ValidateCreate checks a POST body. name and price are required; category
// is required or defaulted depending on Options.RequireCategory.
func (v *Validator) ValidateCreate(body map[string]any) (models.Product, error) {
	required := []string{models.FieldName, models.FieldPrice}
	if v.opts.RequireCategory {
		required = append(required, models.FieldCategory)
	}
	if !allPresent(body, required...) {
		return models.Product{}, newError("", MsgMissingFields)
	}

	p, err := v.decodeFields(body)
	if err != nil {
		return models.Product{}, err
	}
	if p.Category == "" {
		p.Category = v.opts.DefaultCategory
	}
	return p, nil
}

// ValidateReplace checks a PUT body. All of name, price and category are
// required because the stored document is overwritten.
func (v *Validator) ValidateReplace(body map[string]any) (models.Product, error) {
	if !allPresent(body, models.FieldName, models.FieldPrice, models.FieldCategory) {
		return models.Product{}, newError("", MsgMissingFields)
	}
	return v.decodeFields(body)
}

// ValidatePatch checks a PATCH body. Identifier keys are dropped, the
// remaining keys must be mutable product fields.
func (v *Validator) ValidatePatch(body map[string]any) (models.ProductPatch, error) {
	var patch models.ProductPatch

	keys := make([]string, 0, len(body))
	for k := range body {
		if k == models.FieldID || k == "id" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := body[key]
		if !present(value) {
			return models.ProductPatch{}, newError(key, "must not be empty")
		}

		switch key {
		case models.FieldName:
			s, err := stringField(key, value)
			if err != nil {
				return models.ProductPatch{}, err
			}
			patch.Name = &s
		case models.FieldCategory:
			s, err := stringField(key, value)
			if err != nil {
				return models.ProductPatch{}, err
			}
			patch.Category = &s
		case models.FieldPrice:
			price, err := v.ParsePrice(value)
			if err != nil {
				return models.ProductPatch{}, err
			}
			patch.Price = &price
		default:
			return models.ProductPatch{}, newError(key, "unknown field")
		}
	}

	if patch.IsEmpty() {
		return models.ProductPatch{}, newError("", MsgNoFieldsToSet)
	}
	return patch, nil
}

// ParsePrice coerces a JSON number or numeric string into a float64.
// NaN and infinities are never accepted since they cannot be rendered as
// JSON; negatives are rejected only in strict mode.
func (v *Validator) ParsePrice(value any) (float64, error) {
	var price float64

	switch val := value.(type) {
	case float64:
		price = val
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, newError(models.FieldPrice, MsgInvalidPrice)
		}
		price = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, newError(models.FieldPrice, MsgInvalidPrice)
		}
		price = f
	default:
		return 0, newError(models.FieldPrice, MsgInvalidPrice)
	}

	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, newError(models.FieldPrice, MsgInvalidPrice)
	}
	if v.opts.StrictPrice && price < 0 {
		return 0, newError(models.FieldPrice, MsgNegativePrice)
	}
	return price, nil
}

func (v *Validator) decodeFields(body map[string]any) (models.Product, error) {
	var p models.Product

	name, err := stringField(models.FieldName, body[models.FieldName])
	if err != nil {
		return models.Product{}, err
	}
	p.Name = name

	if p.Price, err = v.ParsePrice(body[models.FieldPrice]); err != nil {
		return models.Product{}, err
	}

	if raw, ok := body[models.FieldCategory]; ok && present(raw) {
		if p.Category, err = stringField(models.FieldCategory, raw); err != nil {
			return models.Product{}, err
		}
	}
	return p, nil
}

func stringField(field string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", newError(field, "must be a string")
	}
	return s, nil
}

// present: key set, not null, and not a blank string
func present(value any) bool {
	switch val := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	default:
		return true
	}
}

func allPresent(body map[string]any, fields ...string) bool {
	for _, f := range fields {
		if !present(body[f]) {
			return false
		}
	}
	return true
}

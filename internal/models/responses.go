package models

// ProductList is the enveloped list response
type ProductList struct {
	Count    int        `json:"count"`
	Products []Document `json:"products"`
}

// CreatedResponse is returned after a product is inserted
type CreatedResponse struct {
	Message   string `json:"message"`
	ProductID string `json:"productId"`
}

// MessageResponse is returned by replace and patch
type MessageResponse struct {
	Message string `json:"message"`
}

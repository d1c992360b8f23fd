package types

import "time"

// Product is an inventory item persisted in the products table.
// ID and CreatedAt are assigned by the store and never change.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Quantity    int64     `json:"quantity"`
	Price       float64   `json:"price"`
	Description *string   `json:"description"`
	ImageURI    *string   `json:"image_uri"`
	CreatedAt   time.Time `json:"created_at"`
}

// Input returns the mutable fields of p.
func (p *Product) Input() ProductInput {
	return ProductInput{
		Name:        p.Name,
		Quantity:    p.Quantity,
		Price:       p.Price,
		Description: p.Description,
		ImageURI:    p.ImageURI,
	}
}

// ProductInput carries the fields a caller supplies on create and update.
// The store persists them as given; callers validate first.
type ProductInput struct {
	Name        string  `json:"name"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
	Description *string `json:"description"`
	ImageURI    *string `json:"image_uri"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences p, returning "" for nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is one sale line item entered by a user.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Date        time.Time          `bson:"date" json:"date"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LineTotal is price * quantity. It is derived, never stored.
func (p Product) LineTotal() float64 {
	return p.Price * float64(p.Quantity)
}

// MarshalJSON adds the derived line total as "total".
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Total float64 `json:"total"`
	}{product(p), p.LineTotal()})
}

// ProductsTotal sums the line totals of products.
func ProductsTotal(products []Product) float64 {
	var total float64
	for _, p := range products {
		total += p.LineTotal()
	}
	return total
}

// ProductUpdate carries the fields of a partial product edit; nil means keep.
type ProductUpdate struct {
	Name        *string
	Description *string
	Category    *string
	Price       *float64
	Quantity    *int
}

// Empty reports whether none of the editable fields is supplied.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.Quantity == nil
}

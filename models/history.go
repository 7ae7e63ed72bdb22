package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryEntry is a denormalized copy of a product at the time it was sold.
type HistoryEntry struct {
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Total       float64            `bson:"total" json:"total"`
}

// History is the append-only roll-up of one user's sales for one day.
type History struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User     primitive.ObjectID `bson:"user" json:"user"`
	Date     time.Time          `bson:"date" json:"date"`
	Products []HistoryEntry     `bson:"products" json:"products"`
}

// NewHistoryEntry snapshots p.
func NewHistoryEntry(p Product) HistoryEntry {
	return HistoryEntry{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ProductID:   p.ID,
		Category:    p.Category,
		Quantity:    p.Quantity,
		Total:       p.LineTotal(),
	}
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LiabilityStatus string

const (
	LiabilityPending  LiabilityStatus = "pending"
	LiabilityPaid     LiabilityStatus = "paid"
	LiabilityReversed LiabilityStatus = "reversed"
)

// Liability is goods given on credit to a named person.
type Liability struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Price       float64            `bson:"price" json:"price"`
	Status      LiabilityStatus    `bson:"status" json:"status"`
	CreatedBy   primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	SettledAt   *time.Time         `bson:"settledAt,omitempty" json:"settledAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsPaid mirrors the dashboard's paid flag.
func (l Liability) IsPaid() bool {
	return l.Status == LiabilityPaid
}

// Amount is price * quantity owed.
func (l Liability) Amount() float64 {
	return l.Price * float64(l.Quantity)
}

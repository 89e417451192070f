package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Seller accounts start unapproved; login is blocked until an admin approves.
type Seller struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	ShopName     string             `bson:"shopName,omitempty" json:"shopName,omitempty"`
	Region       string             `bson:"region,omitempty" json:"region,omitempty"`
	IsApproved   bool               `bson:"isApproved" json:"isApproved"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dimensions describes a product's physical size in the given unit ("cm" or "inch").
type Dimensions struct {
	Length float64 `bson:"length,omitempty" json:"length,omitempty"`
	Width  float64 `bson:"width,omitempty" json:"width,omitempty"`
	Height float64 `bson:"height,omitempty" json:"height,omitempty"`
	Unit   string  `bson:"unit,omitempty" json:"unit,omitempty"`
}

// Weight is the product weight in the given unit ("g" or "kg").
type Weight struct {
	Value float64 `bson:"value,omitempty" json:"value,omitempty"`
	Unit  string  `bson:"unit,omitempty" json:"unit,omitempty"`
}

type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Seller       primitive.ObjectID `bson:"seller" json:"seller"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	Images       []string           `bson:"images" json:"images"`
	Videos       []string           `bson:"videos,omitempty" json:"videos,omitempty"`
	Category     primitive.ObjectID `bson:"category" json:"category"`
	CountInStock int                `bson:"countInStock" json:"countInStock"`
	Rating       float64            `bson:"rating" json:"rating"`
	NumReviews   int                `bson:"numReviews" json:"numReviews"`
	IsFeatured   bool               `bson:"isFeatured" json:"isFeatured"`
	IsApproved   bool               `bson:"isApproved" json:"isApproved"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	Materials    []string           `bson:"materials,omitempty" json:"materials,omitempty"`
	Dimensions   *Dimensions        `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Weight       *Weight            `bson:"weight,omitempty" json:"weight,omitempty"`
	Tags         []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	CraftType    string             `bson:"craftType" json:"craftType"`
	Region       string             `bson:"region" json:"region"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

package handlers

import "go.mongodb.org/mongo-driver/bson/primitive"

// outOfStockError aborts a checkout when a requested quantity exceeds the
// available stock at check time.
type outOfStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e outOfStockError) Error() string {
	return "product out of stock"
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

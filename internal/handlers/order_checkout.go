package handlers

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

// snapshotOrderItem freezes the purchasable state of one line: unit price,
// seller and lead image are captured now and never re-read from the live
// product. It fails with outOfStockError when the requested quantity exceeds
// the stock seen at check time.
func snapshotOrderItem(product models.Product, requested int) (models.OrderItem, error) {
	if product.CountInStock < requested {
		return models.OrderItem{}, outOfStockError{
			ProductID: product.ID,
			Available: product.CountInStock,
			Requested: requested,
		}
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}

	return models.OrderItem{
		Product:  product.ID,
		Seller:   product.Seller,
		Name:     product.Name,
		Image:    image,
		Price:    product.Price,
		Quantity: requested,
	}, nil
}

// stockDecrement builds the guarded write for one checkout line. The filter
// re-checks the stock level, so a concurrent checkout that took the last unit
// makes this write match nothing instead of overselling; the caller treats a
// zero match count as out of stock and aborts the transaction.
func stockDecrement(productID primitive.ObjectID, quantity int, now time.Time) (bson.M, bson.M) {
	filter := bson.M{
		"_id":          productID,
		"isActive":     true,
		"countInStock": bson.M{"$gte": quantity},
	}
	update := bson.M{
		"$inc": bson.M{"countInStock": -quantity},
		"$set": bson.M{"updatedAt": now},
	}
	return filter, update
}

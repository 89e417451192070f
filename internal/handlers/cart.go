package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"qty" binding:"required"`
}

type updateCartItemRequest struct {
	Quantity int `json:"qty" binding:"required"`
}

/* =========================
   ITEM LIST HELPERS
========================= */

// lineQuantity returns the quantity already carted for a product, zero when
// the product has no line yet.
func lineQuantity(items []models.CartItem, productID primitive.ObjectID) int {
	for _, item := range items {
		if item.Product == productID {
			return item.Quantity
		}
	}
	return 0
}

// mergeCartItem adds quantity to an existing line or appends a new one.
func mergeCartItem(items []models.CartItem, productID primitive.ObjectID, quantity int) []models.CartItem {
	for i := range items {
		if items[i].Product == productID {
			items[i].Quantity += quantity
			return items
		}
	}
	return append(items, models.CartItem{Product: productID, Quantity: quantity})
}

// setCartQuantity overwrites a line's quantity in place.
func setCartQuantity(items []models.CartItem, productID primitive.ObjectID, quantity int) ([]models.CartItem, bool) {
	for i := range items {
		if items[i].Product == productID {
			items[i].Quantity = quantity
			return items, true
		}
	}
	return items, false
}

func removeCartItem(items []models.CartItem, productID primitive.ObjectID) ([]models.CartItem, bool) {
	updated := make([]models.CartItem, 0, len(items))
	found := false
	for _, item := range items {
		if item.Product == productID {
			found = true
			continue
		}
		updated = append(updated, item)
	}
	return updated, found
}

func loadCart(ctx context.Context, db *mongo.Database, customerID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	err := db.Collection("carts").FindOne(ctx, bson.M{"customer": customerID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return models.Cart{Customer: customerID, Items: []models.CartItem{}}, nil
	}
	return cart, err
}

// cartSaveAttempts bounds the optimistic retry loop on version conflicts.
const cartSaveAttempts = 3

// buildCartSave produces the filter and update for an optimistic cart write.
// The filter carries the version read at load time, so a concurrent mutation
// makes this write miss instead of silently overwriting it.
func buildCartSave(customerID primitive.ObjectID, version int64, items []models.CartItem, now time.Time) (bson.M, bson.M) {
	filter := bson.M{"customer": customerID, "version": version}
	update := bson.M{
		"$set":         bson.M{"items": items, "updatedAt": now},
		"$inc":         bson.M{"version": 1},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	return filter, update
}

// saveCartItems writes the item list guarded by the version the caller loaded.
// It reports false when another writer got there first; callers reload and
// retry. A version miss surfaces as a duplicate-key error because the upsert
// collides with the unique customer index.
func saveCartItems(ctx context.Context, db *mongo.Database, customerID primitive.ObjectID, version int64, items []models.CartItem) (bool, error) {
	filter, update := buildCartSave(customerID, version, items, time.Now())
	_, err := db.Collection("carts").UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

/* =========================
   HANDLERS
========================= */

func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart"
		defer handlePanic(c, route)

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadCart(ctx, db, principal.ID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, cart)
	}
}

// POST /api/cart: lazily creates the cart on the first add.
func AddToCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart"
		defer handlePanic(c, route)

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}
		if req.Quantity < 1 {
			respondWithError(c, http.StatusBadRequest, route, "qty must be at least 1")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":      productID,
			"isActive": true,
		}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		for attempt := 0; attempt < cartSaveAttempts; attempt++ {
			cart, err := loadCart(ctx, db, principal.ID)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}

			// The carted total for this line must fit the current stock.
			requested := lineQuantity(cart.Items, productID) + req.Quantity
			if requested > product.CountInStock {
				log.Printf("[%s] not enough stock product=%s available=%d requested=%d",
					route, productID.Hex(), product.CountInStock, requested)
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "not enough stock",
					"productId": productID.Hex(),
					"available": product.CountInStock,
					"requested": requested,
				})
				return
			}

			items := mergeCartItem(cart.Items, productID, req.Quantity)
			saved, err := saveCartItems(ctx, db, principal.ID, cart.Version, items)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			if saved {
				log.Printf("[%s] item added product=%s qty=%d", route, productID.Hex(), req.Quantity)
				cart.Items = items
				c.JSON(http.StatusOK, cart)
				return
			}
		}

		respondWithError(c, http.StatusConflict, route, "cart was modified concurrently, retry")
	}
}

func UpdateCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/:productId"
		defer handlePanic(c, route)

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("productId")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Quantity < 1 {
			respondWithError(c, http.StatusBadRequest, route, "qty must be at least 1")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		for attempt := 0; attempt < cartSaveAttempts; attempt++ {
			cart, err := loadCart(ctx, db, principal.ID)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}

			items, found := setCartQuantity(cart.Items, productID, req.Quantity)
			if !found {
				respondWithError(c, http.StatusNotFound, route, "item not in cart")
				return
			}

			saved, err := saveCartItems(ctx, db, principal.ID, cart.Version, items)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			if saved {
				cart.Items = items
				c.JSON(http.StatusOK, cart)
				return
			}
		}

		respondWithError(c, http.StatusConflict, route, "cart was modified concurrently, retry")
	}
}

func RemoveCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/:productId"
		defer handlePanic(c, route)

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("productId")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		for attempt := 0; attempt < cartSaveAttempts; attempt++ {
			cart, err := loadCart(ctx, db, principal.ID)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}

			items, found := removeCartItem(cart.Items, productID)
			if !found {
				respondWithError(c, http.StatusNotFound, route, "item not in cart")
				return
			}

			saved, err := saveCartItems(ctx, db, principal.ID, cart.Version, items)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			if saved {
				cart.Items = items
				c.JSON(http.StatusOK, cart)
				return
			}
		}

		respondWithError(c, http.StatusConflict, route, "cart was modified concurrently, retry")
	}
}

// DELETE /api/cart: empties the item list, keeping the cart document.
func ClearCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart"
		defer handlePanic(c, route)

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		for attempt := 0; attempt < cartSaveAttempts; attempt++ {
			cart, err := loadCart(ctx, db, principal.ID)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}

			saved, err := saveCartItems(ctx, db, principal.ID, cart.Version, []models.CartItem{})
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			if saved {
				c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
				return
			}
		}

		respondWithError(c, http.StatusConflict, route, "cart was modified concurrently, retry")
	}
}

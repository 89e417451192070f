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

/* =======================
   REQUEST MODELS
======================= */

type ProductUpdateRequest struct {
	Name         *string            `json:"name"`
	Description  *string            `json:"description"`
	Price        *float64           `json:"price"`
	Category     *string            `json:"category"`
	CountInStock *int               `json:"countInStock"`
	Materials    *[]string          `json:"materials"`
	Dimensions   *models.Dimensions `json:"dimensions"`
	Weight       *models.Weight     `json:"weight"`
	Tags         *[]string          `json:"tags"`
	CraftType    *string            `json:"craftType"`
	Region       *string            `json:"region"`
}

/* =======================
   CREATE
======================= */

// POST /api/products: sellers submit products via multipart form; new
// products start unapproved.
func CreateProduct(db *mongo.Database, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		input, err := parseProductForm(c, uploadDir)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		categoryID, err := primitive.ObjectIDFromHex(input.Category)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid category")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := db.Collection("categories").FindOne(ctx, bson.M{
			"_id":      categoryID,
			"isActive": true,
		}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusBadRequest, route, "invalid category")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		now := time.Now()
		product := models.Product{
			Seller:       principal.ID,
			Name:         input.Name,
			Description:  input.Description,
			Price:        input.Price,
			Images:       input.Images,
			Videos:       input.Videos,
			Category:     categoryID,
			CountInStock: input.CountInStock,
			Materials:    input.Materials,
			Dimensions:   input.Dimensions,
			Weight:       input.Weight,
			Tags:         input.Tags,
			CraftType:    input.CraftType,
			Region:       input.Region,
			IsApproved:   false,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if product.Images == nil {
			product.Images = []string{}
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}

		log.Printf("[%s] product %s created by seller %s", route, product.ID.Hex(), principal.ID.Hex())
		c.JSON(http.StatusCreated, product)
	}
}

/* =======================
   UPDATE
======================= */

// PUT /api/products/:id: partial update. For sellers the write is filtered
// on ownership, so a non-owner match count of zero doubles as the
// authorization check. Admins may update any product.
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"
		defer handlePanic(c, route)

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if !principal.IsAdmin() && !principal.Owns(existing.Seller) {
			respondWithError(c, http.StatusForbidden, route, "you can only update your own products")
			return
		}

		set := bson.M{"updatedAt": time.Now()}

		if req.Name != nil {
			if strings.TrimSpace(*req.Name) == "" {
				respondWithError(c, http.StatusBadRequest, route, "name must not be empty")
				return
			}
			set["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Price != nil {
			if *req.Price < 0 {
				respondWithError(c, http.StatusBadRequest, route, "price must not be negative")
				return
			}
			set["price"] = *req.Price
		}
		if req.CountInStock != nil {
			if *req.CountInStock < 0 {
				respondWithError(c, http.StatusBadRequest, route, "countInStock must not be negative")
				return
			}
			set["countInStock"] = *req.CountInStock
		}
		if req.Category != nil {
			categoryID, err := primitive.ObjectIDFromHex(strings.TrimSpace(*req.Category))
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid category")
				return
			}
			if err := db.Collection("categories").FindOne(ctx, bson.M{
				"_id":      categoryID,
				"isActive": true,
			}).Err(); err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid category")
				return
			}
			set["category"] = categoryID
		}
		if req.Materials != nil {
			set["materials"] = trimAll(*req.Materials)
		}
		if req.Dimensions != nil {
			set["dimensions"] = req.Dimensions
		}
		if req.Weight != nil {
			set["weight"] = req.Weight
		}
		if req.Tags != nil {
			set["tags"] = trimAll(*req.Tags)
		}
		if req.CraftType != nil {
			set["craftType"] = strings.TrimSpace(*req.CraftType)
		}
		if req.Region != nil {
			set["region"] = strings.TrimSpace(*req.Region)
		}

		// The filter repeats the ownership constraint so a concurrent transfer
		// or delete cannot slip an update through.
		filter := bson.M{"_id": productID}
		if !principal.IsAdmin() {
			filter["seller"] = principal.ID
		}

		res, err := db.Collection("products").UpdateOne(ctx, filter, bson.M{"$set": set})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusForbidden, route, "you can only update your own products")
			return
		}

		var updated models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&updated); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

/* =======================
   DELETE (SOFT)
======================= */

// DELETE /api/products/:id: soft delete; the document stays for order history.
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:id"
		defer handlePanic(c, route)

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := bson.M{"_id": productID}
		if !principal.IsAdmin() {
			filter["seller"] = principal.ID
		}

		res, err := db.Collection("products").UpdateOne(ctx, filter, bson.M{
			"$set": bson.M{"isActive": false, "updatedAt": time.Now()},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Err(); err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "product not found")
				return
			}
			respondWithError(c, http.StatusForbidden, route, "you can only delete your own products")
			return
		}

		log.Printf("[%s] product %s deactivated", route, productID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "product removed"})
	}
}

/* =======================
   SELLER LISTING
======================= */

// GET /api/products/seller: the seller's own products, paged.
func GetSellerProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/seller"
		defer handlePanic(c, route)

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		page := parsePageNumber(c.Query("pageNumber"))

		filter := bson.M{"seller": principal.ID}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * sellerPageSize).
			SetLimit(sellerPageSize)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"page":     page,
			"pages":    totalPages(count, sellerPageSize),
			"count":    count,
		})
	}
}

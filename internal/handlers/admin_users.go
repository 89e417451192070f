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

	"backend/internal/auth"
	"backend/internal/models"
)

type AccountUpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"isActive"`
}

// accountCollection maps the role path parameter onto its collection. Each
// account lives in exactly one collection, so there is no cross-collection
// probing.
func accountCollection(role string) (string, bool) {
	switch role {
	case auth.RoleCustomer:
		return "customers", true
	case auth.RoleSeller:
		return "sellers", true
	}
	return "", false
}

// GET /api/admin/users?role=customer|seller: paged account listing.
func GetAccounts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/users"
		defer handlePanic(c, route)

		role := strings.TrimSpace(c.DefaultQuery("role", auth.RoleCustomer))
		collection, ok := accountCollection(role)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "role must be customer or seller")
			return
		}

		page := parsePageNumber(c.Query("pageNumber"))

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * adminPageSize).
			SetLimit(adminPageSize)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection(collection).CountDocuments(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cursor, err := db.Collection(collection).Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		switch role {
		case auth.RoleSeller:
			accounts := make([]models.Seller, 0)
			if err := cursor.All(ctx, &accounts); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "decode error")
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"users": accounts,
				"page":  page,
				"pages": totalPages(count, adminPageSize),
				"count": count,
			})
		default:
			accounts := make([]models.Customer, 0)
			if err := cursor.All(ctx, &accounts); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "decode error")
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"users": accounts,
				"page":  page,
				"pages": totalPages(count, adminPageSize),
				"count": count,
			})
		}
	}
}

// accountUpdateError maps a failed account write onto a response. An email
// change colliding with the unique email index is a conflict, not a server
// fault.
func accountUpdateError(err error) (int, string) {
	if mongo.IsDuplicateKeyError(err) {
		return http.StatusConflict, "email already registered"
	}
	return http.StatusInternalServerError, "db error"
}

// PUT /api/admin/users/:role/:id
func UpdateAccount(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/users/:role/:id"
		defer handlePanic(c, route)

		collection, ok := accountCollection(c.Param("role"))
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "role must be customer or seller")
			return
		}

		accountID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req AccountUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
			set["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
			set["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
		}
		if req.Phone != nil {
			set["phone"] = strings.TrimSpace(*req.Phone)
		}
		if req.IsActive != nil {
			set["isActive"] = *req.IsActive
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection(collection).UpdateByID(ctx, accountID, bson.M{"$set": set})
		if err != nil {
			status, message := accountUpdateError(err)
			respondWithError(c, status, route, message)
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "account not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "account updated"})
	}
}

// DELETE /api/admin/users/:role/:id: deactivates instead of deleting, so past
// orders keep resolving.
func DeactivateAccount(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/users/:role/:id"
		defer handlePanic(c, route)

		collection, ok := accountCollection(c.Param("role"))
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "role must be customer or seller")
			return
		}

		accountID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection(collection).UpdateByID(ctx, accountID, bson.M{
			"$set": bson.M{"isActive": false, "updatedAt": time.Now()},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "account not found")
			return
		}

		log.Printf("[%s] account %s deactivated", route, accountID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "account deactivated"})
	}
}

// GET /api/admin/sellers/pending
func GetPendingSellers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/sellers/pending"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("sellers").Find(ctx, bson.M{
			"isApproved": false,
			"isActive":   true,
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		sellers := make([]models.Seller, 0)
		if err := cursor.All(ctx, &sellers); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, sellers)
	}
}

// PUT /api/admin/sellers/:id/approve
func ApproveSeller(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/sellers/:id/approve"
		defer handlePanic(c, route)

		sellerID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req approvalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var seller models.Seller
		err = db.Collection("sellers").FindOneAndUpdate(
			ctx,
			bson.M{"_id": sellerID},
			bson.M{"$set": bson.M{"isApproved": *req.Approved, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&seller)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "seller not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		message := "seller rejected"
		if *req.Approved {
			message = "seller approved"
		}

		log.Printf("[%s] seller %s approved=%v", route, sellerID.Hex(), *req.Approved)
		c.JSON(http.StatusOK, gin.H{"message": message, "seller": seller})
	}
}

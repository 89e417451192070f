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
	"golang.org/x/crypto/bcrypt"

	"backend/internal/auth"
	"backend/internal/models"
)

type RegisterSellerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	ShopName string `json:"shopName"`
	Region   string `json:"region"`
}

// POST /api/sellers/register: new sellers wait for admin approval before
// they can log in.
func RegisterSeller(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterSellerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("sellers").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			log.Println("[AUTH] [ERROR] seller register db error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if count > 0 {
			log.Println("[AUTH] [ERROR] seller register email exists:", email)
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] seller register password hash failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
			return
		}

		now := time.Now()
		seller := models.Seller{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			Phone:        strings.TrimSpace(req.Phone),
			PasswordHash: string(hash),
			ShopName:     strings.TrimSpace(req.ShopName),
			Region:       strings.TrimSpace(req.Region),
			IsApproved:   false,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("sellers").InsertOne(ctx, seller)
		if err != nil {
			log.Println("[AUTH] [ERROR] seller register insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		id, _ := res.InsertedID.(primitive.ObjectID)
		log.Println("[AUTH] [INFO] seller registered, pending approval:", email)
		c.JSON(http.StatusCreated, gin.H{
			"message": "seller registered, pending approval",
			"seller": gin.H{
				"id":         id.Hex(),
				"name":       seller.Name,
				"email":      seller.Email,
				"isApproved": false,
			},
		})
	}
}

func LoginSeller(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || strings.TrimSpace(req.Password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var seller models.Seller
		if err := db.Collection("sellers").FindOne(ctx, bson.M{"email": email}).Decode(&seller); err != nil {
			log.Println("[AUTH] [ERROR] login invalid credentials for seller")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if !seller.IsActive {
			log.Println("[AUTH] [ERROR] seller inactive:", email)
			c.JSON(http.StatusForbidden, gin.H{"error": "account is inactive"})
			return
		}
		if !seller.IsApproved {
			log.Println("[AUTH] [ERROR] seller not approved yet:", email)
			c.JSON(http.StatusForbidden, gin.H{"error": "seller account pending approval"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte(req.Password)); err != nil {
			log.Println("[AUTH] [ERROR] login invalid credentials for seller")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		tokens, err := issueTokens(c, db, seller.ID, auth.RoleSeller, seller.Email, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			return
		}

		log.Println("[AUTH] [INFO] seller login succeeded:", seller.Email)
		c.JSON(http.StatusOK, gin.H{
			"accessToken":  tokens.AccessToken,
			"refreshToken": tokens.RefreshToken,
			"expiresIn":    tokens.ExpiresIn,
			"user": gin.H{
				"id":       seller.ID.Hex(),
				"name":     seller.Name,
				"email":    seller.Email,
				"shopName": seller.ShopName,
				"role":     auth.RoleSeller,
			},
		})
	}
}

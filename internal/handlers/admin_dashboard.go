package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

// GET /api/admin/dashboard: headline totals plus recent orders and top
// rated products for the console landing page.
func GetDashboardStats(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/dashboard"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		totalCustomers, err := db.Collection("customers").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		totalSellers, err := db.Collection("sellers").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		totalProducts, err := db.Collection("products").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		totalOrders, err := db.Collection("orders").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		// Revenue is summed over paid orders only.
		revenueCursor, err := db.Collection("orders").Aggregate(ctx, mongo.Pipeline{
			bson.D{{Key: "$match", Value: bson.M{"isPaid": true}}},
			bson.D{{Key: "$group", Value: bson.M{
				"_id":   nil,
				"total": bson.M{"$sum": "$totalPrice"},
			}}},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer revenueCursor.Close(ctx)

		totalRevenue := 0.0
		var revenueRow struct {
			Total float64 `bson:"total"`
		}
		if revenueCursor.Next(ctx) {
			if err := revenueCursor.Decode(&revenueRow); err == nil {
				totalRevenue = revenueRow.Total
			}
		}

		recentCursor, err := db.Collection("orders").Find(ctx, bson.M{}, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(5))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer recentCursor.Close(ctx)

		recentOrders := make([]models.Order, 0, 5)
		if err := recentCursor.All(ctx, &recentOrders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		topCursor, err := db.Collection("products").Find(ctx, bson.M{}, options.Find().
			SetSort(bson.D{{Key: "rating", Value: -1}}).
			SetLimit(5))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer topCursor.Close(ctx)

		topProducts := make([]models.Product, 0, 5)
		if err := topCursor.All(ctx, &topProducts); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"totalCustomers": totalCustomers,
			"totalSellers":   totalSellers,
			"totalProducts":  totalProducts,
			"totalOrders":    totalOrders,
			"totalRevenue":   totalRevenue,
			"recentOrders":   recentOrders,
			"topProducts":    topProducts,
		})
	}
}

package handlers

import (
	"context"
	"errors"
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

/* =========================
   REQUEST DTOs
========================= */

type createOrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"qty" binding:"required"`
}

type shippingAddressRequest struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

type createOrderRequest struct {
	Items           []createOrderItemRequest `json:"orderItems" binding:"required"`
	ShippingAddress shippingAddressRequest   `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                   `json:"paymentMethod" binding:"required"`
	TaxPrice        float64                  `json:"taxPrice"`
	ShippingPrice   float64                  `json:"shippingPrice"`
	CustomerNotes   string                   `json:"customerNotes"`
}

type paymentResultRequest struct {
	ID           string `json:"id" binding:"required"`
	Status       string `json:"status" binding:"required"`
	UpdateTime   string `json:"updateTime"`
	EmailAddress string `json:"emailAddress"`
}

type updateStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber"`
	SellerNotes    string `json:"sellerNotes"`
}

/* =========================
   CREATE ORDER
========================= */

// CreateOrder runs the whole checkout in one transaction: per-item stock check
// and conditional decrement, order insert with price snapshots, cart clear.
// The stock guard (countInStock >= qty on the decrement) makes concurrent
// checkouts for the last unit lose cleanly instead of overselling.
func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		order, err := buildOrderFromRequest(req, principal.ID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var orderID primitive.ObjectID
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			snapshotted := make([]models.OrderItem, 0, len(order.Items))

			for _, item := range order.Items {
				var product models.Product
				err := db.Collection("products").FindOne(
					sessCtx,
					bson.M{
						"_id":      item.Product,
						"isActive": true,
					},
				).Decode(&product)
				if err == mongo.ErrNoDocuments {
					return nil, productNotFoundError{ProductID: item.Product}
				}
				if err != nil {
					return nil, err
				}

				snapshot, err := snapshotOrderItem(product, item.Quantity)
				if err != nil {
					return nil, err
				}
				snapshotted = append(snapshotted, snapshot)

				filter, update := stockDecrement(product.ID, item.Quantity, time.Now())
				res, err := db.Collection("products").UpdateOne(sessCtx, filter, update)
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					return nil, outOfStockError{
						ProductID: product.ID,
						Available: product.CountInStock,
						Requested: item.Quantity,
					}
				}
			}

			order.Items = snapshotted
			order.ItemsPrice = computeItemsPrice(snapshotted)
			order.TotalPrice = computeTotalPrice(order.ItemsPrice, order.TaxPrice, order.ShippingPrice)

			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				orderID = id
			}

			// Clearing the cart inside the transaction keeps checkout all-or-nothing.
			// The version bump invalidates any optimistic cart write in flight.
			_, err = db.Collection("carts").UpdateOne(
				sessCtx,
				bson.M{"customer": principal.ID},
				bson.M{
					"$set": bson.M{"items": []models.CartItem{}, "updatedAt": time.Now()},
					"$inc": bson.M{"version": 1},
				},
			)
			if err != nil {
				return nil, err
			}

			return nil, nil
		})
		if err != nil {
			var stockErr outOfStockError
			if errors.As(err, &stockErr) {
				log.Printf("[%s] out of stock product=%s available=%d requested=%d",
					route, stockErr.ProductID.Hex(), stockErr.Available, stockErr.Requested)
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "not enough stock",
					"productId": stockErr.ProductID.Hex(),
					"available": stockErr.Available,
					"requested": stockErr.Requested,
				})
				return
			}
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "product not found",
					"productId": notFoundErr.ProductID.Hex(),
				})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if !orderID.IsZero() {
			order.ID = orderID
		}

		log.Printf("[%s] order %s created for customer %s", route, order.ID.Hex(), principal.ID.Hex())
		c.JSON(http.StatusCreated, order)
	}
}

func buildOrderFromRequest(req createOrderRequest, customerID primitive.ObjectID) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, errors.New("at least one order item is required")
	}
	if req.TaxPrice < 0 || req.ShippingPrice < 0 {
		return models.Order{}, errors.New("taxPrice and shippingPrice must not be negative")
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.ProductID))
		if err != nil {
			return models.Order{}, errors.New("invalid productId")
		}
		if item.Quantity <= 0 {
			return models.Order{}, errors.New("qty must be greater than zero")
		}
		items = append(items, models.OrderItem{Product: productID, Quantity: item.Quantity})
	}

	now := time.Now()
	return models.Order{
		Customer: customerID,
		Items:    items,
		ShippingAddress: models.ShippingAddress{
			Address:    strings.TrimSpace(req.ShippingAddress.Address),
			City:       strings.TrimSpace(req.ShippingAddress.City),
			PostalCode: strings.TrimSpace(req.ShippingAddress.PostalCode),
			Country:    strings.TrimSpace(req.ShippingAddress.Country),
		},
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		TaxPrice:      roundPrice(req.TaxPrice),
		ShippingPrice: roundPrice(req.ShippingPrice),
		CustomerNotes: strings.TrimSpace(req.CustomerNotes),
		Status:        "Pending",
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

/* =========================
   READ
========================= */

// GET /api/orders/:id: owner, seller of an item, or admin.
func GetOrderByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"
		defer handlePanic(c, route)

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if !canViewOrder(principal, order) {
			respondWithError(c, http.StatusForbidden, route, "not authorized to view this order")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// GET /api/orders/myorders
func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/myorders"
		defer handlePanic(c, route)

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"customer": principal.ID}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/orders/sellerorders: orders containing the seller's items, with
// line items narrowed to that seller.
func GetSellerOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/sellerorders"
		defer handlePanic(c, route)

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"items.seller": principal.ID}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		for i := range orders {
			orders[i].Items = filterItemsBySeller(orders[i].Items, principal.ID)
		}

		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/orders: admin, paged.
func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, route)

		page := parsePageNumber(c.Query("pageNumber"))

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * adminPageSize).
			SetLimit(adminPageSize)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("orders").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cursor, err := db.Collection("orders").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": orders,
			"page":   page,
			"pages":  totalPages(count, adminPageSize),
			"count":  count,
		})
	}
}

/* =========================
   MUTATIONS
========================= */

// PUT /api/orders/:id/pay: stores the payment processor's result verbatim;
// no authenticity check happens here.
func MarkOrderPaid(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/pay"
		defer handlePanic(c, route)

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req paymentResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if !principal.Owns(order.Customer) {
			respondWithError(c, http.StatusForbidden, route, "not authorized to pay this order")
			return
		}

		now := time.Now()
		order.IsPaid = true
		order.PaidAt = &now
		order.PaymentResult = &models.PaymentResult{
			ID:           req.ID,
			Status:       req.Status,
			UpdateTime:   req.UpdateTime,
			EmailAddress: req.EmailAddress,
		}
		order.UpdatedAt = now

		_, err = db.Collection("orders").UpdateByID(ctx, orderID, bson.M{
			"$set": bson.M{
				"isPaid":        order.IsPaid,
				"paidAt":        order.PaidAt,
				"paymentResult": order.PaymentResult,
				"updatedAt":     order.UpdatedAt,
			},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] order %s marked paid", route, orderID.Hex())
		c.JSON(http.StatusOK, order)
	}
}

// PUT /api/orders/:id/status: seller of an item or admin.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/status"
		defer handlePanic(c, route)

		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if !canUpdateOrderStatus(principal, order) {
			respondWithError(c, http.StatusForbidden, route, "not authorized to update this order")
			return
		}

		applyStatusUpdate(&order, req.Status, req.TrackingNumber, req.SellerNotes, time.Now())

		_, err = db.Collection("orders").UpdateByID(ctx, orderID, bson.M{
			"$set": bson.M{
				"status":         order.Status,
				"trackingNumber": order.TrackingNumber,
				"sellerNotes":    order.SellerNotes,
				"deliveredAt":    order.DeliveredAt,
				"updatedAt":      order.UpdatedAt,
			},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] order %s status set to %s", route, orderID.Hex(), order.Status)
		c.JSON(http.StatusOK, order)
	}
}

// DELETE /api/admin/orders/:id: admin console only; everything else keeps
// orders forever.
func DeleteOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("orders").DeleteOne(ctx, bson.M{"_id": orderID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}

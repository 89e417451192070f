package handlers

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/auth"
	"backend/internal/models"
)

// statusDelivered is the only status value that stamps a timestamp.
const statusDelivered = "Delivered"

func roundPrice(value float64) float64 {
	return math.Round(value*100) / 100
}

// computeItemsPrice sums unit price times quantity over the snapshotted items.
func computeItemsPrice(items []models.OrderItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return roundPrice(total)
}

// computeTotalPrice is computed once at creation and never recomputed.
func computeTotalPrice(itemsPrice, taxPrice, shippingPrice float64) float64 {
	return roundPrice(itemsPrice + taxPrice + shippingPrice)
}

// applyStatusUpdate overwrites the status unconditionally (there is no
// transition state machine), sets tracking/notes only when provided, and
// stamps deliveredAt on "Delivered". Re-stamping is permitted.
func applyStatusUpdate(order *models.Order, newStatus, trackingNumber, sellerNotes string, now time.Time) {
	order.Status = newStatus

	if strings.TrimSpace(trackingNumber) != "" {
		order.TrackingNumber = strings.TrimSpace(trackingNumber)
	}
	if strings.TrimSpace(sellerNotes) != "" {
		order.SellerNotes = strings.TrimSpace(sellerNotes)
	}

	if newStatus == statusDelivered {
		stamped := now
		order.DeliveredAt = &stamped
	}

	order.UpdatedAt = now
}

// sellerOfAny reports whether sellerID sold at least one line item.
func sellerOfAny(items []models.OrderItem, sellerID primitive.ObjectID) bool {
	for _, item := range items {
		if item.Seller == sellerID {
			return true
		}
	}
	return false
}

// filterItemsBySeller keeps only the line items sold by sellerID.
func filterItemsBySeller(items []models.OrderItem, sellerID primitive.ObjectID) []models.OrderItem {
	filtered := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Seller == sellerID {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// canViewOrder: the owning customer, a seller of any line item, or an admin.
func canViewOrder(principal auth.Principal, order models.Order) bool {
	if principal.IsAdmin() {
		return true
	}
	if principal.Role == auth.RoleCustomer && principal.Owns(order.Customer) {
		return true
	}
	return principal.Role == auth.RoleSeller && sellerOfAny(order.Items, principal.ID)
}

// canUpdateOrderStatus: admins, or sellers with an item in the order.
func canUpdateOrderStatus(principal auth.Principal, order models.Order) bool {
	if principal.IsAdmin() {
		return true
	}
	return principal.Role == auth.RoleSeller && sellerOfAny(order.Items, principal.ID)
}

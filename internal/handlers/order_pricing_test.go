package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/auth"
	"backend/internal/models"
)

func TestComputeItemsPriceSumsLineTotals(t *testing.T) {
	items := []models.OrderItem{
		{Price: 19.99, Quantity: 2},
		{Price: 5.50, Quantity: 1},
	}
	if got := computeItemsPrice(items); got != 45.48 {
		t.Fatalf("expected items price 45.48, got %v", got)
	}
}

func TestComputeItemsPriceEmptyOrderIsZero(t *testing.T) {
	if got := computeItemsPrice(nil); got != 0 {
		t.Fatalf("expected 0 for empty items, got %v", got)
	}
}

func TestComputeTotalPriceAddsTaxAndShipping(t *testing.T) {
	if got := computeTotalPrice(45.48, 3.64, 9.90); got != 59.02 {
		t.Fatalf("expected total 59.02, got %v", got)
	}
}

func TestApplyStatusUpdateStampsDeliveredAt(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	order := models.Order{Status: "Shipped"}

	applyStatusUpdate(&order, "Delivered", "", "", now)

	if order.Status != "Delivered" {
		t.Fatalf("expected status Delivered, got %q", order.Status)
	}
	if order.DeliveredAt == nil || !order.DeliveredAt.Equal(now) {
		t.Fatalf("expected deliveredAt stamped at %v, got %v", now, order.DeliveredAt)
	}
}

func TestApplyStatusUpdateLeavesDeliveredAtForOtherStatuses(t *testing.T) {
	now := time.Now()
	order := models.Order{Status: "Pending"}

	applyStatusUpdate(&order, "Shipped", "TRK-42", "left at depot", now)

	if order.DeliveredAt != nil {
		t.Fatalf("expected deliveredAt unset for Shipped, got %v", order.DeliveredAt)
	}
	if order.TrackingNumber != "TRK-42" {
		t.Fatalf("expected tracking number to be set, got %q", order.TrackingNumber)
	}
	if order.SellerNotes != "left at depot" {
		t.Fatalf("expected seller notes to be set, got %q", order.SellerNotes)
	}
}

func TestApplyStatusUpdateKeepsExistingTrackingWhenBlank(t *testing.T) {
	order := models.Order{Status: "Shipped", TrackingNumber: "TRK-1", SellerNotes: "fragile"}

	applyStatusUpdate(&order, "Delivered", "   ", "", time.Now())

	if order.TrackingNumber != "TRK-1" {
		t.Fatalf("expected existing tracking number preserved, got %q", order.TrackingNumber)
	}
	if order.SellerNotes != "fragile" {
		t.Fatalf("expected existing seller notes preserved, got %q", order.SellerNotes)
	}
}

func TestFilterItemsBySeller(t *testing.T) {
	sellerA := primitive.NewObjectID()
	sellerB := primitive.NewObjectID()
	items := []models.OrderItem{
		{Seller: sellerA, Name: "bowl"},
		{Seller: sellerB, Name: "vase"},
		{Seller: sellerA, Name: "mug"},
	}

	filtered := filterItemsBySeller(items, sellerA)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 items for seller A, got %d", len(filtered))
	}
	for _, item := range filtered {
		if item.Seller != sellerA {
			t.Fatalf("expected only seller A items, got %v", item.Seller)
		}
	}

	if !sellerOfAny(items, sellerB) {
		t.Fatal("expected seller B to be found in items")
	}
	if sellerOfAny(items, primitive.NewObjectID()) {
		t.Fatal("expected unknown seller not to be found")
	}
}

func TestCanViewOrder(t *testing.T) {
	customerID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()
	order := models.Order{
		Customer: customerID,
		Items:    []models.OrderItem{{Seller: sellerID}},
	}

	owner := auth.Principal{ID: customerID, Role: auth.RoleCustomer}
	if !canViewOrder(owner, order) {
		t.Fatal("expected owning customer to view the order")
	}

	otherCustomer := auth.Principal{ID: primitive.NewObjectID(), Role: auth.RoleCustomer}
	if canViewOrder(otherCustomer, order) {
		t.Fatal("expected other customers to be denied")
	}

	seller := auth.Principal{ID: sellerID, Role: auth.RoleSeller}
	if !canViewOrder(seller, order) {
		t.Fatal("expected seller of a line item to view the order")
	}

	otherSeller := auth.Principal{ID: primitive.NewObjectID(), Role: auth.RoleSeller}
	if canViewOrder(otherSeller, order) {
		t.Fatal("expected unrelated sellers to be denied")
	}

	admin := auth.Principal{ID: primitive.NewObjectID(), Role: auth.RoleAdmin}
	if !canViewOrder(admin, order) {
		t.Fatal("expected admins to view any order")
	}
}

func TestCanUpdateOrderStatusExcludesCustomers(t *testing.T) {
	customerID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()
	order := models.Order{
		Customer: customerID,
		Items:    []models.OrderItem{{Seller: sellerID}},
	}

	owner := auth.Principal{ID: customerID, Role: auth.RoleCustomer}
	if canUpdateOrderStatus(owner, order) {
		t.Fatal("expected customers not to update status, even on their own order")
	}

	seller := auth.Principal{ID: sellerID, Role: auth.RoleSeller}
	if !canUpdateOrderStatus(seller, order) {
		t.Fatal("expected the order's seller to update status")
	}
}

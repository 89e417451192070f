package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func TestMergeCartItemAppendsNewLine(t *testing.T) {
	productID := primitive.NewObjectID()
	items := mergeCartItem(nil, productID, 2)

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Product != productID || items[0].Quantity != 2 {
		t.Fatalf("unexpected line: %+v", items[0])
	}
}

func TestMergeCartItemAddsToExistingQuantity(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{{Product: productID, Quantity: 1}}

	items = mergeCartItem(items, productID, 3)

	if len(items) != 1 {
		t.Fatalf("expected merge into the existing line, got %d lines", len(items))
	}
	if items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4 after merge, got %d", items[0].Quantity)
	}
}

func TestSetCartQuantityOverwrites(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{{Product: productID, Quantity: 5}}

	updated, found := setCartQuantity(items, productID, 2)
	if !found {
		t.Fatal("expected the line to be found")
	}
	if updated[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", updated[0].Quantity)
	}

	_, found = setCartQuantity(items, primitive.NewObjectID(), 2)
	if found {
		t.Fatal("expected unknown product not to be found")
	}
}

func TestLineQuantity(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{
		{Product: primitive.NewObjectID(), Quantity: 3},
		{Product: productID, Quantity: 2},
	}

	if got := lineQuantity(items, productID); got != 2 {
		t.Fatalf("expected quantity 2, got %d", got)
	}
	if got := lineQuantity(items, primitive.NewObjectID()); got != 0 {
		t.Fatalf("expected 0 for absent product, got %d", got)
	}
	if got := lineQuantity(nil, productID); got != 0 {
		t.Fatalf("expected 0 for empty cart, got %d", got)
	}
}

func TestLineQuantityTracksMerge(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{{Product: productID, Quantity: 1}}

	merged := mergeCartItem(items, productID, 4)
	if got := lineQuantity(merged, productID); got != 5 {
		t.Fatalf("expected merged quantity 5, got %d", got)
	}
}

func TestBuildCartSaveGuardsOnVersion(t *testing.T) {
	customerID := primitive.NewObjectID()
	now := time.Now()

	filter, update := buildCartSave(customerID, 7, nil, now)

	if filter["customer"] != customerID {
		t.Fatalf("expected customer in filter, got %v", filter)
	}
	if filter["version"] != int64(7) {
		t.Fatalf("expected version 7 in filter, got %v", filter["version"])
	}

	inc, ok := update["$inc"].(bson.M)
	if !ok || inc["version"] != 1 {
		t.Fatalf("expected version increment in update, got %v", update["$inc"])
	}

	// On insert the customer is seeded from the filter; setting it again in
	// $setOnInsert would make the upsert conflict with itself.
	onInsert, ok := update["$setOnInsert"].(bson.M)
	if !ok {
		t.Fatalf("expected $setOnInsert in update, got %v", update)
	}
	if _, present := onInsert["customer"]; present {
		t.Fatal("customer must not appear in $setOnInsert")
	}
}

func TestRemoveCartItem(t *testing.T) {
	keep := primitive.NewObjectID()
	drop := primitive.NewObjectID()
	items := []models.CartItem{
		{Product: keep, Quantity: 1},
		{Product: drop, Quantity: 2},
	}

	updated, found := removeCartItem(items, drop)
	if !found {
		t.Fatal("expected the line to be removed")
	}
	if len(updated) != 1 || updated[0].Product != keep {
		t.Fatalf("expected only the kept line, got %+v", updated)
	}

	_, found = removeCartItem(items, primitive.NewObjectID())
	if found {
		t.Fatal("expected unknown product not to be removed")
	}
}

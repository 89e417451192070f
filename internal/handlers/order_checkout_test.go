package handlers

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func TestSnapshotOrderItemFreezesProductState(t *testing.T) {
	product := models.Product{
		ID:           primitive.NewObjectID(),
		Seller:       primitive.NewObjectID(),
		Name:         "ceramic vase",
		Price:        49.90,
		Images:       []string{"/public/uploads/vase-front.jpg", "/public/uploads/vase-side.jpg"},
		CountInStock: 5,
	}

	item, err := snapshotOrderItem(product, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Product != product.ID || item.Seller != product.Seller {
		t.Fatal("snapshot must carry product and seller ids")
	}
	if item.Name != "ceramic vase" || item.Price != 49.90 || item.Quantity != 2 {
		t.Fatalf("unexpected snapshot: %+v", item)
	}
	if item.Image != "/public/uploads/vase-front.jpg" {
		t.Fatalf("expected lead image, got %q", item.Image)
	}
}

func TestSnapshotOrderItemNoImages(t *testing.T) {
	product := models.Product{ID: primitive.NewObjectID(), CountInStock: 1}

	item, err := snapshotOrderItem(product, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Image != "" {
		t.Fatalf("expected empty image, got %q", item.Image)
	}
}

func TestSnapshotOrderItemRejectsOversell(t *testing.T) {
	product := models.Product{ID: primitive.NewObjectID(), CountInStock: 2}

	_, err := snapshotOrderItem(product, 3)
	if err == nil {
		t.Fatal("expected an error when requesting more than stock")
	}

	var oos outOfStockError
	if !errors.As(err, &oos) {
		t.Fatalf("expected outOfStockError, got %T", err)
	}
	if oos.ProductID != product.ID || oos.Available != 2 || oos.Requested != 3 {
		t.Fatalf("unexpected error detail: %+v", oos)
	}
}

func TestSnapshotOrderItemExactStock(t *testing.T) {
	product := models.Product{ID: primitive.NewObjectID(), CountInStock: 3}

	item, err := snapshotOrderItem(product, 3)
	if err != nil {
		t.Fatalf("taking the full stock must succeed: %v", err)
	}
	if item.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", item.Quantity)
	}
}

func TestStockDecrementGuardsRemainingStock(t *testing.T) {
	productID := primitive.NewObjectID()
	now := time.Now()

	filter, update := stockDecrement(productID, 2, now)

	if filter["_id"] != productID {
		t.Fatalf("expected product id in filter, got %v", filter)
	}
	if filter["isActive"] != true {
		t.Fatal("decrement must only match active products")
	}

	// The stock floor in the filter is what turns a concurrent last-unit sale
	// into a zero-match write instead of a negative stock count.
	guard, ok := filter["countInStock"].(bson.M)
	if !ok || guard["$gte"] != 2 {
		t.Fatalf("expected stock guard $gte 2, got %v", filter["countInStock"])
	}

	inc, ok := update["$inc"].(bson.M)
	if !ok || inc["countInStock"] != -2 {
		t.Fatalf("expected decrement of 2, got %v", update["$inc"])
	}
}

package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildCatalogFilterAlwaysRequiresActive(t *testing.T) {
	filter := buildCatalogFilter(catalogFilterInput{})
	if filter["isActive"] != true {
		t.Fatalf("expected isActive=true in base filter, got %v", filter)
	}
	if len(filter) != 1 {
		t.Fatalf("expected only the base constraint for empty input, got %v", filter)
	}
}

func TestBuildCatalogFilterCombinesWithAnd(t *testing.T) {
	categoryID := primitive.NewObjectID()
	filter := buildCatalogFilter(catalogFilterInput{
		Keyword:  "vase",
		Category: categoryID.Hex(),
		PriceMin: "10",
		PriceMax: "50",
		Rating:   "4",
	})

	if filter["category"] != categoryID {
		t.Fatalf("expected category %v, got %v", categoryID, filter["category"])
	}

	price, ok := filter["price"].(bson.M)
	if !ok {
		t.Fatalf("expected price range in filter, got %v", filter["price"])
	}
	if price["$gte"] != 10.0 || price["$lte"] != 50.0 {
		t.Fatalf("expected price range [10,50], got %v", price)
	}

	or, ok := filter["$or"].([]bson.M)
	if !ok || len(or) != 3 {
		t.Fatalf("expected keyword to search name, description and tags, got %v", filter["$or"])
	}

	rating, ok := filter["rating"].(bson.M)
	if !ok || rating["$gte"] != 4.0 {
		t.Fatalf("expected rating $gte 4, got %v", filter["rating"])
	}
}

func TestBuildCatalogFilterSkipsMalformedValues(t *testing.T) {
	filter := buildCatalogFilter(catalogFilterInput{
		Category: "not-an-object-id",
		PriceMin: "cheap",
		PriceMax: "-5",
		Rating:   "many",
	})

	for _, key := range []string{"category", "price", "rating"} {
		if _, present := filter[key]; present {
			t.Fatalf("expected malformed %s to be skipped, got %v", key, filter[key])
		}
	}
}

func TestResolveCatalogSortDefaultsToNewest(t *testing.T) {
	tests := []string{"", "  ", "unknownField", "countInStock"}
	for _, sortBy := range tests {
		sort := resolveCatalogSort(sortBy, "")
		if sort[0].Key != "createdAt" || sort[0].Value != -1 {
			t.Fatalf("expected createdAt desc for sortBy=%q, got %v", sortBy, sort)
		}
	}
}

func TestResolveCatalogSortHonorsWhitelistedFields(t *testing.T) {
	sort := resolveCatalogSort("price", "")
	if sort[0].Key != "price" || sort[0].Value != 1 {
		t.Fatalf("expected price asc, got %v", sort)
	}

	sort = resolveCatalogSort("rating", "desc")
	if sort[0].Key != "rating" || sort[0].Value != -1 {
		t.Fatalf("expected rating desc, got %v", sort)
	}
}

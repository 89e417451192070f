package handlers

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// catalogFilterInput carries the raw, untrusted query values for the public
// product listing. Every field is optional; empty means "no constraint".
type catalogFilterInput struct {
	Keyword   string
	Category  string
	PriceMin  string
	PriceMax  string
	Rating    string
	CraftType string
	Region    string
}

// buildCatalogFilter combines the supplied predicates with AND on top of the
// base isActive=true constraint. Malformed numeric values are skipped rather
// than failing the request.
func buildCatalogFilter(input catalogFilterInput) bson.M {
	filter := bson.M{"isActive": true}

	if keyword := strings.TrimSpace(input.Keyword); keyword != "" {
		regex := bson.M{"$regex": keyword, "$options": "i"}
		filter["$or"] = []bson.M{
			{"name": regex},
			{"description": regex},
			{"tags": regex},
		}
	}

	if category := strings.TrimSpace(input.Category); category != "" {
		if categoryID, err := primitive.ObjectIDFromHex(category); err == nil {
			filter["category"] = categoryID
		}
	}

	price := bson.M{}
	if min, ok := parsePositiveFloat(input.PriceMin); ok {
		price["$gte"] = min
	}
	if max, ok := parsePositiveFloat(input.PriceMax); ok {
		price["$lte"] = max
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if rating, ok := parsePositiveFloat(input.Rating); ok {
		filter["rating"] = bson.M{"$gte": rating}
	}

	if craftType := strings.TrimSpace(input.CraftType); craftType != "" {
		filter["craftType"] = craftType
	}

	if region := strings.TrimSpace(input.Region); region != "" {
		filter["region"] = region
	}

	return filter
}

func parsePositiveFloat(raw string) (float64, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}

// resolveCatalogSort maps the caller's sort request onto a whitelisted field,
// defaulting to newest first. Unknown fields fall back to the default.
func resolveCatalogSort(sortBy, order string) bson.D {
	field := ""
	switch strings.TrimSpace(sortBy) {
	case "price", "rating", "name", "createdAt":
		field = strings.TrimSpace(sortBy)
	}

	if field == "" {
		return bson.D{{Key: "createdAt", Value: -1}}
	}

	direction := 1
	if strings.TrimSpace(order) == "desc" {
		direction = -1
	}
	return bson.D{{Key: field, Value: direction}}
}

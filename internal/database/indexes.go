package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	searchIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "description", Value: "text"},
			{Key: "tags", Value: "text"},
			{Key: "craftType", Value: "text"},
			{Key: "region", Value: "text"},
		},
		Options: options.Index().SetName("product_search"),
	}

	sellerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "seller", Value: 1}},
		Options: options.Index().SetName("seller_index"),
	}

	log.Println("EnsureProductIndexes: creating product_search and seller_index")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{searchIndex, sellerIndex})
	if err != nil {
		log.Println("EnsureProductIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsurePrincipalIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := func() mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		}
	}

	for _, collection := range []string{"customers", "sellers", "admins"} {
		log.Printf("EnsurePrincipalIndexes: creating email_unique on %s", collection)
		if _, err := db.Collection(collection).Indexes().CreateOne(ctx, emailIndex()); err != nil {
			log.Printf("EnsurePrincipalIndexes: %s index error: %v", collection, err)
			return err
		}
	}
	return nil
}

func EnsureCartIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	customerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "customer", Value: 1}},
		Options: options.Index().SetName("customer_unique").SetUnique(true),
	}

	log.Println("EnsureCartIndexes: creating customer_unique index")
	_, err := db.Collection("carts").Indexes().CreateOne(ctx, customerIndex)
	if err != nil {
		log.Println("EnsureCartIndexes: customer index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	customerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "customer", Value: 1}},
		Options: options.Index().SetName("customer_index"),
	}

	itemSellerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "items.seller", Value: 1}},
		Options: options.Index().SetName("item_seller_index"),
	}

	log.Println("EnsureOrderIndexes: creating customer_index and item_seller_index")
	_, err := db.Collection("orders").Indexes().CreateMany(ctx, []mongo.IndexModel{customerIndex, itemSellerIndex})
	if err != nil {
		log.Println("EnsureOrderIndexes: index error:", err)
		return err
	}
	return nil
}

package auth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

var (
	ErrUnknownRole      = errors.New("unknown role")
	ErrPrincipalMissing = errors.New("principal not found")
	ErrPrincipalBlocked = errors.New("principal is not active")
)

// Principal is the authenticated actor behind a request, resolved exactly once
// from the credential's role claim. The role decides which collection backs it,
// so there is no probing across collections.
type Principal struct {
	ID    primitive.ObjectID `json:"id"`
	Role  string             `json:"role"`
	Email string             `json:"email"`
	Name  string             `json:"name"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Owns reports whether the principal is the owner of a resource keyed by id.
func (p Principal) Owns(owner primitive.ObjectID) bool {
	return p.ID == owner
}

// Resolve loads the stored record behind an id+role pair and fails if it no
// longer exists or has been deactivated.
func Resolve(ctx context.Context, db *mongo.Database, id primitive.ObjectID, role string) (Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	switch role {
	case RoleCustomer:
		var customer models.Customer
		if err := db.Collection("customers").FindOne(ctx, bson.M{"_id": id}).Decode(&customer); err != nil {
			if err == mongo.ErrNoDocuments {
				return Principal{}, ErrPrincipalMissing
			}
			return Principal{}, err
		}
		if !customer.IsActive {
			return Principal{}, ErrPrincipalBlocked
		}
		return Principal{ID: customer.ID, Role: RoleCustomer, Email: customer.Email, Name: customer.Name}, nil

	case RoleSeller:
		var seller models.Seller
		if err := db.Collection("sellers").FindOne(ctx, bson.M{"_id": id}).Decode(&seller); err != nil {
			if err == mongo.ErrNoDocuments {
				return Principal{}, ErrPrincipalMissing
			}
			return Principal{}, err
		}
		if !seller.IsActive || !seller.IsApproved {
			return Principal{}, ErrPrincipalBlocked
		}
		return Principal{ID: seller.ID, Role: RoleSeller, Email: seller.Email, Name: seller.Name}, nil

	case RoleAdmin:
		var admin models.Admin
		if err := db.Collection("admins").FindOne(ctx, bson.M{"_id": id}).Decode(&admin); err != nil {
			if err == mongo.ErrNoDocuments {
				return Principal{}, ErrPrincipalMissing
			}
			return Principal{}, err
		}
		return Principal{ID: admin.ID, Role: RoleAdmin, Email: admin.Email}, nil
	}

	return Principal{}, ErrUnknownRole
}

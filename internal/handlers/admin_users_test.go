package handlers

import (
	"errors"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/auth"
)

func TestAccountCollection(t *testing.T) {
	if name, ok := accountCollection(auth.RoleCustomer); !ok || name != "customers" {
		t.Fatalf("expected customers, got %q ok=%v", name, ok)
	}
	if name, ok := accountCollection(auth.RoleSeller); !ok || name != "sellers" {
		t.Fatalf("expected sellers, got %q ok=%v", name, ok)
	}
	if _, ok := accountCollection(auth.RoleAdmin); ok {
		t.Fatal("admin accounts must not be reachable through the users endpoint")
	}
	if _, ok := accountCollection("bogus"); ok {
		t.Fatal("unknown role must be rejected")
	}
}

func TestAccountUpdateErrorDuplicateEmail(t *testing.T) {
	err := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}

	status, message := accountUpdateError(err)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate key, got %d", status)
	}
	if message != "email already registered" {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestAccountUpdateErrorGeneric(t *testing.T) {
	status, message := accountUpdateError(errors.New("connection reset"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500 for generic error, got %d", status)
	}
	if message != "db error" {
		t.Fatalf("unexpected message %q", message)
	}
}

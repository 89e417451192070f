package auth

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPrincipalOwns(t *testing.T) {
	id := primitive.NewObjectID()
	p := Principal{ID: id, Role: RoleCustomer}

	if !p.Owns(id) {
		t.Fatal("expected principal to own its own id")
	}
	if p.Owns(primitive.NewObjectID()) {
		t.Fatal("expected principal not to own a foreign id")
	}
}

func TestPrincipalIsAdmin(t *testing.T) {
	if (Principal{Role: RoleSeller}).IsAdmin() {
		t.Fatal("seller must not be admin")
	}
	if !(Principal{Role: RoleAdmin}).IsAdmin() {
		t.Fatal("admin role should report IsAdmin")
	}
}

package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashVerify(t *testing.T) {
	cost = bcrypt.MinCost

	hash, err := Hash("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash must not equal the plain password")
	}
	if !Verify("password123", hash) {
		t.Fatal("expected password to verify")
	}
	if Verify("password124", hash) {
		t.Fatal("expected wrong password to fail")
	}
}

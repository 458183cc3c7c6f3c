package auth

import (
	"strings"
	"testing"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher()

	password := "correct-horse-battery"
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == password {
		t.Error("Hash() returned the plaintext password")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() = %q, want bcrypt format", hash)
	}

	if !hasher.Verify(password, hash) {
		t.Error("Verify() = false for correct password")
	}
	if hasher.Verify("wrong-password", hash) {
		t.Error("Verify() = true for wrong password")
	}
}

func TestPasswordHasher_HashesDiffer(t *testing.T) {
	hasher := NewPasswordHasher()

	hash1, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	hash2, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// bcrypt salts every hash, so two hashes of the same input differ.
	if hash1 == hash2 {
		t.Error("two hashes of the same password should not be equal")
	}
}

func TestPasswordHasher_TooLongPassword(t *testing.T) {
	hasher := NewPasswordHasher()

	// bcrypt rejects inputs over 72 bytes.
	_, err := hasher.Hash(strings.Repeat("a", 73))
	if err == nil {
		t.Error("Hash() should fail for passwords over 72 bytes")
	}
}

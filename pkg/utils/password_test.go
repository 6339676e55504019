package utils

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.Contains(hash, ".") {
		t.Fatalf("hash %q missing salt separator", hash)
	}

	if err := VerifyPassword("s3cret-pass", hash); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := VerifyPassword("wrong-pass", hash); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("empty password should be rejected")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if err := VerifyPassword("whatever", "not-an-encoded-hash"); err == nil {
		t.Error("malformed hash should be rejected")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should not match")
	}
}

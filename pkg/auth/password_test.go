package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !CheckPassword("correct horse battery staple", hash) {
		t.Fatalf("expected matching password to validate")
	}
	if CheckPassword("wrong password", hash) {
		t.Fatalf("expected mismatched password to fail")
	}
	if CheckPassword("anything", "not-a-bcrypt-hash") {
		t.Fatalf("expected malformed stored hash to fail")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	b, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same password should differ")
	}
}

package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("HashPassword() returned the plaintext")
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Error("CheckPassword() rejected the correct password")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Error("CheckPassword() accepted a wrong password")
	}
}

func TestGeneratePassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		p, err := GeneratePassword(12)
		if err != nil {
			t.Fatalf("GeneratePassword() error = %v", err)
		}
		if len(p) != 12 {
			t.Fatalf("GeneratePassword() length = %d, want 12", len(p))
		}
		if seen[p] {
			t.Fatalf("GeneratePassword() produced a duplicate: %s", p)
		}
		seen[p] = true
	}

	// Short lengths are raised to the minimum.
	p, err := GeneratePassword(3)
	if err != nil {
		t.Fatalf("GeneratePassword() error = %v", err)
	}
	if len(p) != 8 {
		t.Errorf("GeneratePassword(3) length = %d, want 8", len(p))
	}
}

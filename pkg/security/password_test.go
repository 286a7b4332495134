package security_test

import (
	"testing"

	"github.com/angelmondragon/siteadmin-backend/pkg/config"
	"github.com/angelmondragon/siteadmin-backend/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}

	hash, err := security.HashPassword("very-secure-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestCheckPolicy(t *testing.T) {
	if err := security.CheckPolicy("short"); err == nil {
		t.Fatal("expected short password to be rejected")
	}
	if err := security.CheckPolicy("contraseña-ok"); err != nil {
		t.Fatalf("unexpected policy error: %v", err)
	}
}

func TestNeedsRehash(t *testing.T) {
	cfg := config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
	hash, err := security.HashPassword("very-secure-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if security.NeedsRehash(hash, cfg) {
		t.Fatal("hash with current params should not need rehash")
	}
	cfg.ArgonTime = 2
	if !security.NeedsRehash(hash, cfg) {
		t.Fatal("changed time cost should need rehash")
	}
	if !security.NeedsRehash("garbage", cfg) {
		t.Fatal("malformed hash should need rehash")
	}
}

func TestGeneratePassword(t *testing.T) {
	pw, err := security.GeneratePassword(16)
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	if len(pw) != 16 {
		t.Fatalf("expected 16 chars, got %d", len(pw))
	}
	if err := security.CheckPolicy(pw); err != nil {
		t.Fatalf("generated password fails policy: %v", err)
	}
	if _, err := security.GeneratePassword(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

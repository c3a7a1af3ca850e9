package util

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("secret", "finance-ledger", "cli", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ParseToken("secret", "finance-ledger", token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.Subject != "cli" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "cli")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret", "finance-ledger", "cli", time.Hour)
	if _, err := ParseToken("other", "finance-ledger", token); err == nil {
		t.Error("ParseToken with wrong secret should fail")
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	token, _ := GenerateToken("secret", "someone-else", "cli", time.Hour)
	if _, err := ParseToken("secret", "finance-ledger", token); err == nil {
		t.Error("ParseToken with wrong issuer should fail")
	}
}

func TestParseToken_FallbackTTLAndGarbage(t *testing.T) {
	token, _ := GenerateToken("secret", "finance-ledger", "cli", -time.Hour)
	// non-positive ttl falls back to 24h
	if _, err := ParseToken("secret", "finance-ledger", token); err != nil {
		t.Errorf("fallback ttl token should be valid: %v", err)
	}

	if _, err := ParseToken("secret", "finance-ledger", "not.a.token"); err == nil {
		t.Error("garbage token should fail")
	}
}

package security

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/SiteWright/sitewright-go/internal/domain/user"
)

const testAESKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := "https://pay.example.com/checkout/abc123"

	encrypted, err := Encrypt(plaintext, testAESKey)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encrypted == plaintext {
		t.Fatal("ciphertext equals plaintext")
	}

	decrypted, err := Decrypt(encrypted, testAESKey)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if decrypted != plaintext {
		t.Errorf("got %q, want %q", decrypted, plaintext)
	}
}

func TestEncryptProducesFreshNonce(t *testing.T) {
	a, err := Encrypt("same input", testAESKey)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encrypt("same input", testAESKey)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two encryptions of the same input produced identical ciphertext")
	}
}

func TestEncryptRejectsBadKey(t *testing.T) {
	if _, err := Encrypt("data", ""); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := Encrypt("data", "short"); err == nil {
		t.Error("expected error for short key")
	}
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	encrypted, err := Encrypt("secret", testAESKey)
	if err != nil {
		t.Fatal(err)
	}

	tampered := "A" + encrypted[1:]
	if tampered == encrypted {
		tampered = "B" + encrypted[1:]
	}
	if _, err := Decrypt(tampered, testAESKey); err == nil {
		t.Error("expected error for tampered ciphertext")
	}
}

func TestPaymentURLEmptyPassthrough(t *testing.T) {
	encrypted, err := EncryptPaymentURL("", testAESKey)
	if err != nil {
		t.Fatalf("EncryptPaymentURL: %v", err)
	}
	if encrypted != "" {
		t.Errorf("empty URL should stay empty, got %q", encrypted)
	}

	decrypted, err := DecryptPaymentURL("", testAESKey)
	if err != nil {
		t.Fatalf("DecryptPaymentURL: %v", err)
	}
	if decrypted != "" {
		t.Errorf("empty ciphertext should stay empty, got %q", decrypted)
	}
}

func TestAccountTokenRoundTrip(t *testing.T) {
	secret := "test-jwt-secret"
	account := &user.Account{
		ID:          "01J0000000000000000000TEST",
		Email:       "owner@example.com",
		DisplayName: "Site Owner",
	}

	token, err := GenerateAccountToken(account, secret)
	if err != nil {
		t.Fatalf("GenerateAccountToken: %v", err)
	}

	claims, err := ValidateJWT(token, secret)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}

	profile := GetProfileFromClaims(claims)
	if profile == nil {
		t.Fatal("no profile in claims")
	}
	if profile.AccountID != account.ID {
		t.Errorf("accountId = %q, want %q", profile.AccountID, account.ID)
	}
	if profile.Email != account.Email {
		t.Errorf("email = %q, want %q", profile.Email, account.Email)
	}
	if profile.DisplayName != account.DisplayName {
		t.Errorf("displayName = %q, want %q", profile.DisplayName, account.DisplayName)
	}
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	account := &user.Account{ID: "acct-1", Email: "a@b.c", DisplayName: "A"}
	token, err := GenerateAccountToken(account, "secret-one")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateJWT(token, "secret-two"); err == nil {
		t.Error("expected validation failure with wrong secret")
	}
}

// A 64-character generated key must decode to 32 bytes and be usable as both
// the JWT secret and the AES key that startup falls back to.
func TestGenerateSecureKey(t *testing.T) {
	key, err := GenerateSecureKey(64)
	if err != nil {
		t.Fatalf("GenerateSecureKey: %v", err)
	}
	if len(key) != 64 {
		t.Errorf("key length = %d, want 64", len(key))
	}
	raw, err := hex.DecodeString(key)
	if err != nil {
		t.Fatalf("key is not hex: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("decoded key length = %d, want 32", len(raw))
	}

	other, err := GenerateSecureKey(64)
	if err != nil {
		t.Fatal(err)
	}
	if key == other {
		t.Error("two generated keys are identical")
	}

	encrypted, err := Encrypt("generated-key smoke test", key)
	if err != nil {
		t.Fatalf("Encrypt with generated key: %v", err)
	}
	if _, err := Decrypt(encrypted, key); err != nil {
		t.Fatalf("Decrypt with generated key: %v", err)
	}
}

func TestGenerateULID(t *testing.T) {
	a := GenerateULID()
	b := GenerateULID()

	if len(a) != 26 {
		t.Errorf("ULID length = %d, want 26", len(a))
	}
	if a == b {
		t.Error("two generated ULIDs are identical")
	}
	if strings.ToUpper(a) != a {
		t.Errorf("ULID %q is not uppercase", a)
	}
}

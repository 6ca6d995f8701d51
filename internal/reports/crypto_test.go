package reports

import (
	"bytes"
	"strings"
	"testing"
)

func TestSecretRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)

	encrypted, err := encryptSecret("s3cr3t-value", key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if strings.Contains(encrypted, "s3cr3t") {
		t.Fatal("ciphertext must not contain the plaintext")
	}

	decrypted, err := decryptSecret(encrypted, key)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if decrypted != "s3cr3t-value" {
		t.Fatalf("round trip returned %q", decrypted)
	}
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	other := bytes.Repeat([]byte{0x24}, 32)

	encrypted, err := encryptSecret("s3cr3t-value", key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := decryptSecret(encrypted, other); err == nil {
		t.Fatal("decrypt with the wrong key must fail")
	}
}

func TestKeyLengthIsEnforced(t *testing.T) {
	if _, err := encryptSecret("x", []byte("short")); err == nil {
		t.Fatal("short key must be rejected")
	}
	if _, err := decryptSecret("00", []byte("short")); err == nil {
		t.Fatal("short key must be rejected")
	}
}

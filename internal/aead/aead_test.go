package aead

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	plaintext := []byte("username\npassword\nother info")

	ct, tag, err := Encrypt(key, FixedNonce[:], plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if len(ct) != len(plaintext) {
		t.Fatalf("len(ciphertext) = %d, want %d", len(ct), len(plaintext))
	}
	if len(tag) != TagSize {
		t.Fatalf("len(tag) = %d, want %d", len(tag), TagSize)
	}

	got, err := Decrypt(key, FixedNonce[:], ct, tag)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("Decrypt = %q, want %q", got, plaintext)
	}
}

func TestDecryptFailsOnFlippedCiphertextBit(t *testing.T) {
	key := make([]byte, KeySize)
	rand.Read(key) //nolint:errcheck

	ct, tag, err := Encrypt(key, FixedNonce[:], []byte("hello world"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	ct[0] ^= 0x01

	if _, err := Decrypt(key, FixedNonce[:], ct, tag); err == nil {
		t.Fatal("expected Decrypt to fail after flipping a ciphertext bit")
	}
}

func TestDecryptFailsOnFlippedTagBit(t *testing.T) {
	key := make([]byte, KeySize)
	rand.Read(key) //nolint:errcheck

	ct, tag, err := Encrypt(key, FixedNonce[:], []byte("hello world"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	tag[0] ^= 0x01

	if _, err := Decrypt(key, FixedNonce[:], ct, tag); err == nil {
		t.Fatal("expected Decrypt to fail after flipping a tag bit")
	}
}

func TestDecryptFailsWithWrongKey(t *testing.T) {
	key := make([]byte, KeySize)
	rand.Read(key) //nolint:errcheck
	wrongKey := make([]byte, KeySize)
	rand.Read(wrongKey) //nolint:errcheck

	ct, tag, err := Encrypt(key, FixedNonce[:], []byte("hello world"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if _, err := Decrypt(wrongKey, FixedNonce[:], ct, tag); err == nil {
		t.Fatal("expected Decrypt to fail with the wrong key")
	}
}

package kdf

import (
	"bytes"
	"testing"
)

// These tests exercise the real Argon2id parameters (8192 KiB, 100 passes),
// so each call costs real wall-clock time; keep the test count small.

func TestDeriveKeyIsDeterministic(t *testing.T) {
	secret := []byte("correct horse battery staple")
	salt := bytes.Repeat([]byte{0x42}, SaltSize)

	a, err := DeriveKey(secret, salt, LabelData, KeySize)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	b, err := DeriveKey(secret, salt, LabelData, KeySize)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("DeriveKey was not deterministic for identical inputs")
	}
	if len(a) != KeySize {
		t.Fatalf("len(key) = %d, want %d", len(a), KeySize)
	}
}

func TestDeriveKeyLabelChangesOutput(t *testing.T) {
	secret := []byte("correct horse battery staple")
	salt := bytes.Repeat([]byte{0x42}, SaltSize)

	dataKey, err := DeriveKey(secret, salt, LabelData, KeySize)
	if err != nil {
		t.Fatalf("DeriveKey(data): %v", err)
	}
	namesKey, err := DeriveKey(secret, salt, LabelNames, KeySize)
	if err != nil {
		t.Fatalf("DeriveKey(names): %v", err)
	}
	if bytes.Equal(dataKey, namesKey) {
		t.Fatal("two different labels over the same (secret, salt) produced the same key")
	}
}

func TestDeriveKeyRejectsEmptySalt(t *testing.T) {
	if _, err := DeriveKey([]byte("secret"), nil, LabelData, KeySize); err == nil {
		t.Fatal("expected an error for an empty salt")
	}
}

func TestDeriveNameProducesExpectedLength(t *testing.T) {
	secret := []byte("correct horse battery staple")
	salt := bytes.Repeat([]byte{0x07}, SaltSize)

	name, err := DeriveName(secret, salt, "itemFiles", 65)
	if err != nil {
		t.Fatalf("DeriveName: %v", err)
	}
	if len(name) != 64 {
		t.Fatalf("len(name) = %d, want 64", len(name))
	}
	for _, r := range name {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			t.Fatalf("name %q contains a non-lowercase-hex character", name)
		}
	}
}

func TestDeriveNameIsStableAcrossOtherItems(t *testing.T) {
	secret := []byte("correct horse battery staple")
	salt := bytes.Repeat([]byte{0x07}, SaltSize)

	first, err := DeriveName(secret, salt, "alpha"+LabelFiles, 65)
	if err != nil {
		t.Fatalf("DeriveName(alpha): %v", err)
	}
	// Deriving a name for an unrelated item must not change alpha's name.
	if _, err := DeriveName(secret, salt, "beta"+LabelFiles, 65); err != nil {
		t.Fatalf("DeriveName(beta): %v", err)
	}
	second, err := DeriveName(secret, salt, "alpha"+LabelFiles, 65)
	if err != nil {
		t.Fatalf("DeriveName(alpha) again: %v", err)
	}
	if first != second {
		t.Fatal("alpha's derived name changed after deriving an unrelated item's name")
	}
}

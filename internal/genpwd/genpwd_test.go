package genpwd

import (
	"strings"
	"testing"
)

func TestConfigSerializeRoundTrip(t *testing.T) {
	cfg := Config{UseNums: true, UseLetters: false, UseSpecials: true, PasswordLen: 40}
	buf := cfg.Serialize()

	got, err := ParseConfig(buf[:])
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if got != cfg {
		t.Fatalf("ParseConfig(Serialize(cfg)) = %+v, want %+v", got, cfg)
	}
}

func TestParseConfigRejectsWrongSize(t *testing.T) {
	if _, err := ParseConfig([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected an error for a 3-byte config record")
	}
}

func TestGenerateProducesRequestedLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PasswordLen = 30

	pwd, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len([]rune(pwd)) != 30 {
		t.Fatalf("len(pwd) = %d, want 30", len(pwd))
	}
}

func TestGenerateOnlyUsesEnabledPools(t *testing.T) {
	cfg := Config{UseNums: true, UseLetters: false, UseSpecials: false, PasswordLen: 50}

	pwd, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Trim(pwd, "0123456789") != "" {
		t.Fatalf("digits-only policy produced a non-digit character: %q", pwd)
	}
}

func TestGenerateFailsWithNoPoolsEnabled(t *testing.T) {
	cfg := Config{PasswordLen: 10}
	if _, err := Generate(cfg); err == nil {
		t.Fatal("expected an error when no symbol pool is enabled")
	}
}

func TestGenerateNeverProducesNonPrintable(t *testing.T) {
	cfg := DefaultConfig()
	for i := 0; i < 50; i++ {
		pwd, err := Generate(cfg)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !IsValid(pwd) {
			t.Fatalf("generated password failed IsValid: %q", pwd)
		}
	}
}

func TestIsValidBounds(t *testing.T) {
	tests := []struct {
		name string
		pwd  string
		want bool
	}{
		{"too short", "short1!", false},
		{"minimum length", "12345678", true},
		{"maximum length", strings.Repeat("a", MaxPasswordLen), true},
		{"too long", strings.Repeat("a", MaxPasswordLen+1), false},
		{"non-printable", "password\x00123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.pwd); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.pwd, got, tt.want)
			}
		})
	}
}

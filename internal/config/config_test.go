package config

import (
	"path/filepath"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	t.Setenv("PWM_STORE", "")
	t.Setenv("PWM_LOG_LEVEL", "")
	t.Setenv("PWM_LOG_FORMAT", "")
	t.Setenv("HOME", "/home/tester")

	rt, err := Resolve("", false, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rt.StoreRoot != filepath.Join("/home/tester", "PwmStore") {
		t.Fatalf("StoreRoot = %q, want %q", rt.StoreRoot, filepath.Join("/home/tester", "PwmStore"))
	}
	if rt.Verbose {
		t.Fatal("Verbose should default to false")
	}
	if rt.LogFormat != LogFormatText {
		t.Fatalf("LogFormat = %q, want %q", rt.LogFormat, LogFormatText)
	}
}

func TestResolveFlagBeatsEnv(t *testing.T) {
	t.Setenv("PWM_STORE", "/env/store")

	rt, err := Resolve("/flag/store", false, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rt.StoreRoot != "/flag/store" {
		t.Fatalf("StoreRoot = %q, want the flag value to win over the env var", rt.StoreRoot)
	}
}

func TestResolveEnvBeatsDefault(t *testing.T) {
	t.Setenv("PWM_STORE", "/env/store")

	rt, err := Resolve("", false, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rt.StoreRoot != "/env/store" {
		t.Fatalf("StoreRoot = %q, want the env var to win over the default", rt.StoreRoot)
	}
}

func TestResolveVerboseFromEnv(t *testing.T) {
	t.Setenv("PWM_STORE", "/env/store")
	t.Setenv("PWM_LOG_LEVEL", "debug")

	rt, err := Resolve("", false, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !rt.Verbose {
		t.Fatal("PWM_LOG_LEVEL=debug should set Verbose")
	}
}

func TestResolveLogFormatFlagBeatsEnv(t *testing.T) {
	t.Setenv("PWM_STORE", "/env/store")
	t.Setenv("PWM_LOG_FORMAT", "json")

	rt, err := Resolve("", false, "text")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rt.LogFormat != LogFormatText {
		t.Fatalf("LogFormat = %q, want the flag value %q to win", rt.LogFormat, LogFormatText)
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warden.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: 0.0.0.0:9000
auth:
  bcrypt_cost: 12
  not_after_offset: "-05:00"
database:
  path: /var/lib/warden/warden.db
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Listen != "0.0.0.0:9000" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d", cfg.Auth.BcryptCost)
	}
	// Unspecified keys keep their defaults.
	if cfg.Auth.TokenTTLSecs != 1800 {
		t.Errorf("TokenTTLSecs = %d, want default 1800", cfg.Auth.TokenTTLSecs)
	}
	if cfg.Server.ManagementListen != "127.0.0.1:8001" {
		t.Errorf("ManagementListen = %q, want default", cfg.Server.ManagementListen)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadRequiresEnv(t *testing.T) {
	t.Setenv("WARDEN_CONFIG", "")
	if _, err := Load(); err == nil {
		t.Error("Load should fail without WARDEN_CONFIG")
	}

	t.Setenv("WARDEN_CONFIG", writeConfig(t, "logging:\n  level: debug\n"))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Auth.BcryptCost = 31
	cfg.Auth.PublicKey = "tooshort"
	cfg.Auth.NotAfterOffset = "+7:00"
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate should fail")
	}
	for _, want := range []string{"bcrypt_cost", "public_key", "not_after_offset", "logging.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidateHorizonAtLeastTTL(t *testing.T) {
	cfg := Default()
	cfg.Auth.TokenTTLSecs = 3600
	cfg.Auth.MaxLoginSecs = 1800
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "max_login_secs") {
		t.Errorf("got %v, want max_login_secs error", err)
	}
}

func TestNotAfterLocation(t *testing.T) {
	tests := []struct {
		offset  string
		seconds int
		ok      bool
	}{
		{"+07:00", 7 * 3600, true},
		{"-05:30", -(5*3600 + 30*60), true},
		{"Z", 0, true},
		{"", 0, true},
		{"+7:00", 0, false},
		{"07:00", 0, false},
		{"+25:00", 0, false},
		{"+00:75", 0, false},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Auth.NotAfterOffset = tt.offset
		loc, err := cfg.NotAfterLocation()
		if tt.ok != (err == nil) {
			t.Errorf("offset %q: err = %v, want ok=%v", tt.offset, err, tt.ok)
			continue
		}
		if !tt.ok {
			continue
		}
		_, gotSeconds := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
		if gotSeconds != tt.seconds {
			t.Errorf("offset %q: zone offset = %d, want %d", tt.offset, gotSeconds, tt.seconds)
		}
	}
}

func TestMasked(t *testing.T) {
	cfg := Default()
	masked := cfg.Masked()
	if masked.Auth.PrivateKey != "<masked>" {
		t.Errorf("masked private key = %q", masked.Auth.PrivateKey)
	}
	if cfg.Auth.PrivateKey == "<masked>" {
		t.Error("Masked mutated the original config")
	}
	if masked.Auth.PublicKey != cfg.Auth.PublicKey {
		t.Error("public key should survive masking")
	}
}

func TestDurationAccessors(t *testing.T) {
	cfg := Default()
	if got := cfg.TokenTTL(); got != 30*time.Minute {
		t.Errorf("TokenTTL = %v", got)
	}
	if got := cfg.MaxLogin(); got != 12*time.Hour {
		t.Errorf("MaxLogin = %v", got)
	}
	if got := cfg.ShutdownTimeout(); got != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", got)
	}
}

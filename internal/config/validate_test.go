package config

import (
	"strings"
	"testing"
)

func TestValidateDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := validate(&cfg); err != nil {
		t.Fatalf("DefaultConfig() should pass validation, got: %v", err)
	}
}

func TestValidateInvalidMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Query.DefaultMode = "telepathy"

	err := validate(&cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid mode")
	}
	if !strings.Contains(err.Error(), "default_mode") {
		t.Errorf("expected error about default_mode, got: %v", err)
	}
}

func TestValidateBadBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.BaseURL = "localhost:8000"

	err := validate(&cfg)
	if err == nil {
		t.Fatal("expected validation error for relative base URL")
	}
	if !strings.Contains(err.Error(), "base_url") {
		t.Errorf("expected error about base_url, got: %v", err)
	}
}

func TestValidateZeroTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.TimeoutSeconds = 0

	err := validate(&cfg)
	if err == nil {
		t.Fatal("expected validation error for zero timeout")
	}
	if !strings.Contains(err.Error(), "timeout_seconds") {
		t.Errorf("expected error about timeout_seconds, got: %v", err)
	}
}

func TestValidateEmptyTheme(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UI.Theme = ""

	err := validate(&cfg)
	if err == nil {
		t.Fatal("expected validation error for empty theme")
	}
	if !strings.Contains(err.Error(), "ui.theme") {
		t.Errorf("expected error about ui.theme, got: %v", err)
	}
}

func TestValidateMultipleErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.BaseURL = "not a url"
	cfg.Server.TimeoutSeconds = -1
	cfg.Query.DefaultMode = "telepathy"

	err := validate(&cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	if len(ve.Errors) != 3 {
		t.Errorf("expected 3 validation errors, got %d: %v", len(ve.Errors), ve.Errors)
	}
}

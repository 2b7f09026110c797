package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError collects multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// validate checks the config for internal consistency and returns a
// ValidationError if any checks fail. All checks run; errors are collected,
// not short-circuited.
func validate(cfg *Config) error {
	var errs []string

	// Server URL must be absolute http(s)
	u, err := url.Parse(cfg.Server.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Sprintf("server.base_url %q must be an absolute http(s) URL", cfg.Server.BaseURL))
	}

	if cfg.Server.TimeoutSeconds <= 0 {
		errs = append(errs, "server.timeout_seconds must be positive")
	}

	// Query mode must be a known value
	switch cfg.Query.DefaultMode {
	case "naive", "local", "global", "mix", "agent":
	default:
		errs = append(errs, fmt.Sprintf("query.default_mode %q must be one of \"naive\", \"local\", \"global\", \"mix\", \"agent\"", cfg.Query.DefaultMode))
	}

	if cfg.UI.Theme == "" {
		errs = append(errs, "ui.theme must not be empty")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

package config

import (
	"fmt"
	"strings"

	pixerrors "github.com/alexisbeaulieu97/pixtheme/pkg/errors"
)

// ValidateConfig performs structural and cross-field validation on an entire configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return pixerrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]string, len(cfg.Colors))
	for name := range cfg.Colors {
		key := strings.ToLower(strings.ReplaceAll(name, " ", ""))
		if other, dup := seen[key]; dup {
			return pixerrors.NewValidationError(fmt.Sprintf("colors[%s]", name), fmt.Sprintf("duplicates color %q", other), nil)
		}
		seen[key] = name
	}

	return nil
}

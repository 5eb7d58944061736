// validate.go: validation of loaded settings
package conf

import (
	"errors"
	"fmt"
	"strconv"
)

// ValidationError represents a settings validation failure with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid setting %s: %s", e.Field, e.Message)
}

// ValidateSettings checks the loaded settings for inconsistencies that would
// prevent the server from starting.
func ValidateSettings(settings *Settings) error {
	var errs []error

	if settings.Server.Port != "" {
		port, err := strconv.Atoi(settings.Server.Port)
		if err != nil || port < 1 || port > 65535 {
			errs = append(errs, ValidationError{Field: "server.port", Message: "must be a number between 1 and 65535"})
		}
	}

	if settings.Output.SQLite.Enabled && settings.Output.MySQL.Enabled {
		errs = append(errs, ValidationError{Field: "output", Message: "only one output backend may be enabled"})
	}
	if settings.Output.SQLite.Enabled && settings.Output.SQLite.Path == "" {
		errs = append(errs, ValidationError{Field: "output.sqlite.path", Message: "path is required when sqlite output is enabled"})
	}
	if settings.Output.MySQL.Enabled {
		if settings.Output.MySQL.Database == "" {
			errs = append(errs, ValidationError{Field: "output.mysql.database", Message: "database name is required"})
		}
		if settings.Output.MySQL.Host == "" {
			errs = append(errs, ValidationError{Field: "output.mysql.host", Message: "host is required"})
		}
	}

	if settings.Vision.Provider != "" && settings.Vision.Provider != "gemini" {
		errs = append(errs, ValidationError{Field: "vision.provider", Message: "unsupported provider: " + settings.Vision.Provider})
	}
	if settings.Vision.MaxUploadSize <= 0 {
		errs = append(errs, ValidationError{Field: "vision.maxuploadsize", Message: "must be greater than zero"})
	}
	// A missing API key is deliberately not an error here: identify requests
	// will fail at the external call, matching the upstream behavior.

	return errors.Join(errs...)
}

package validation

import (
	"path/filepath"
	"regexp"
	"strings"

	"ush/internal/constants"
	"ush/internal/errors"
)

var (
	// envNameRegex validates environment names used in container and
	// session naming
	envNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

	// containerNameRegex validates container names to prevent injection
	containerNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)
)

// EnvironmentName validates an environment name
func EnvironmentName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "environment name cannot be empty")
	}

	if len(name) > 64 {
		return errors.NewWithDetails(errors.ErrInvalidInput, "environment name too long", name)
	}

	if !envNameRegex.MatchString(name) {
		return errors.NewWithDetails(errors.ErrInvalidInput, "environment name contains invalid characters", name)
	}

	return nil
}

// ContainerName validates a container name to prevent injection
func ContainerName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "container name cannot be empty")
	}

	if len(name) > 255 {
		return errors.NewWithDetails(errors.ErrInvalidInput, "container name too long", name)
	}

	if !containerNameRegex.MatchString(name) {
		return errors.NewWithDetails(errors.ErrInvalidInput, "container name contains invalid characters", name)
	}

	return nil
}

// Path validates and cleans a file path to prevent traversal attacks
func Path(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidPath, "path cannot be empty")
	}

	cleaned := filepath.Clean(path)

	if strings.HasPrefix(cleaned, "../") || cleaned == ".." || strings.Contains(cleaned, "/../") {
		return "", errors.NewWithDetails(errors.ErrInvalidPath, "path traversal detected", path)
	}

	if strings.Contains(path, "../") {
		return "", errors.NewWithDetails(errors.ErrInvalidPath, "path traversal detected", path)
	}

	return cleaned, nil
}

// Port validates a TCP port number
func Port(port int) error {
	if port < constants.MinPortNumber || port > constants.MaxPortNumber {
		return errors.NewWithDetails(errors.ErrInvalidPort, "port out of range", "must be between 1 and 65535")
	}
	return nil
}

// Package secrets resolves the API credentials (Adzuna, JSearch, Gemini)
// that skillmatch keeps out of its config file.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret comes from.
type Source struct {
	// Name is used in error messages to identify the secret.
	Name string
	// Value is an inline secret from configuration or flags.
	Value string
	// File points to a file holding the secret. It takes precedence
	// over Value.
	File string
}

// Load resolves the secret from the source, file over inline value. The
// result is trimmed; a blank secret is an error.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
		src.File = file
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if src.File != "" {
			return "", fmt.Errorf("%s file %q is empty", name, src.File)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}

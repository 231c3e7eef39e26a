//go:build !prod

// This file is compiled for development builds (default).
// Config is stored in .trace/ relative to the current working directory so
// that several project checkouts can keep their own settings.
// Override the directory with TRACE_CONFIG_DIR.

package config

import "os"

// BuildMode identifies the active build configuration.
const BuildMode = "dev"

// configDir returns the config directory for development builds.
func configDir() (string, error) {
	if dir := os.Getenv("TRACE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	return ".trace", nil
}

// Package env loads dotenv files into the process environment and reads
// typed values from it.
package env

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/tracehq/trace-cli/internal/crypto"
)

// DefaultFile is the dotenv file looked up when none is configured.
const DefaultFile = ".env"

// SealedSuffix is appended to a dotenv path for its encrypted variant.
const SealedSuffix = ".age"

// MissingError reports required variables that are not set.
type MissingError struct {
	Names       []string
	Description string
}

func (e *MissingError) Error() string {
	var b strings.Builder
	if len(e.Names) == 1 {
		fmt.Fprintf(&b, "required environment variable %q is not set", e.Names[0])
	} else {
		fmt.Fprintf(&b, "missing required environment variables: %s", strings.Join(e.Names, ", "))
	}
	if e.Description != "" {
		fmt.Fprintf(&b, " (%s)", e.Description)
	}
	return b.String()
}

// Find looks for name in the working directory and then in each parent
// directory. Absolute names are only checked in place.
func Find(name string) (string, bool) {
	if filepath.IsAbs(name) {
		return name, exists(name)
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		path := filepath.Join(dir, name)
		if exists(path) {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load finds name (see Find) and exports its variables. It reports the
// path that was loaded, or false when no file was found.
func Load(name string) (string, bool, error) {
	path, ok := Find(name)
	if !ok {
		return "", false, nil
	}
	if err := LoadFile(path); err != nil {
		return path, false, err
	}
	return path, true, nil
}

// LoadFile parses a dotenv file and exports its variables. Variables that
// are already set in the environment are left untouched.
func LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return load(data, path)
}

// LoadEncrypted opens an age-sealed dotenv file with passphrase and exports
// its variables the same way LoadFile does.
func LoadEncrypted(path, passphrase string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	plain, err := crypto.Open(string(data), passphrase)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	return load(plain, path)
}

func load(data []byte, path string) error {
	vals, err := Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	for k, v := range vals {
		if _, set := os.LookupEnv(k); set {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("setting %s: %w", k, err)
		}
	}
	return nil
}

// Parse decodes dotenv content. Keys are returned upper-cased.
func Parse(data []byte) (map[string]string, error) {
	v := viper.New()
	v.SetConfigType("env")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	vals := make(map[string]string)
	for _, key := range v.AllKeys() {
		vals[strings.ToUpper(key)] = v.GetString(key)
	}
	return vals, nil
}

// Required returns the value of name, or a *MissingError when it is unset.
// An empty value counts as set.
func Required(name, description string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", &MissingError{Names: []string{name}, Description: description}
	}
	return v, nil
}

// Optional returns the value of name, or def when it is unset.
func Optional(name, def string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return def
}

// Bool reports whether name is set to true, 1, yes or on (any case).
// Unset or empty values return def.
func Bool(name string, def bool) bool {
	v := strings.ToLower(os.Getenv(name))
	if v == "" {
		return def
	}
	switch v {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// Int returns name parsed as an integer, or def when it is unset or invalid.
func Int(name string, def int) int {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// Check reads several variables at once. Every missing required name is
// listed in the returned *MissingError; optional names default to "".
func Check(required, optional []string) (map[string]string, error) {
	result := make(map[string]string, len(required)+len(optional))
	var missing []string
	for _, name := range required {
		v, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		result[name] = v
	}
	if len(missing) > 0 {
		return nil, &MissingError{Names: missing}
	}
	for _, name := range optional {
		result[name] = os.Getenv(name)
	}
	return result, nil
}

// IsMissing reports whether err is a *MissingError.
func IsMissing(err error) bool {
	var m *MissingError
	return errors.As(err, &m)
}

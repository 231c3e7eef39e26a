//go:build linux

// Package keyring caches the passphrase of a sealed env file in the Linux
// kernel session keyring, so consecutive commands in one terminal session
// prompt only once. The entry is wiped by the kernel after TTL seconds.
package keyring

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

const (
	keyType = "user"
	keyName = "trace:env-passphrase"
)

// Store saves the passphrase in the session keyring with the given TTL
// (in seconds). It overwrites any existing entry and resets the TTL.
func Store(passphrase string, ttl int) error {
	id, err := unix.AddKey(keyType, keyName, []byte(passphrase), unix.KEY_SPEC_SESSION_KEYRING)
	if err != nil {
		return fmt.Errorf("add_key: %w", err)
	}
	if _, err = unix.KeyctlInt(unix.KEYCTL_SET_TIMEOUT, id, ttl, 0, 0); err != nil {
		return fmt.Errorf("set_timeout: %w", err)
	}
	return nil
}

// Load retrieves the cached passphrase from the session keyring.
// Returns ("", nil) if the key does not exist or has expired.
func Load() (string, error) {
	id, ok, err := find()
	if err != nil || !ok {
		return "", err
	}

	// First call with empty buffer to obtain the actual payload size.
	size, err := unix.KeyctlBuffer(unix.KEYCTL_READ, id, nil, 0)
	if err != nil {
		return "", fmt.Errorf("read (size): %w", err)
	}
	if size <= 0 {
		return "", nil
	}

	buf := make([]byte, size)
	defer clear(buf)
	n, err := unix.KeyctlBuffer(unix.KEYCTL_READ, id, buf, 0)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	// n is the total payload length; clamp to allocated buffer.
	if n > size {
		n = size
	}
	return string(buf[:n]), nil
}

// Forget invalidates the cached passphrase, e.g. after it failed to open
// the env file. It is not an error if nothing is cached.
func Forget() error {
	id, ok, err := find()
	if err != nil || !ok {
		return err
	}
	if _, err := unix.KeyctlInt(unix.KEYCTL_INVALIDATE, id, 0, 0, 0); err != nil && !isAbsent(err) {
		return fmt.Errorf("invalidate: %w", err)
	}
	return nil
}

// find looks the entry up in the session keyring.
func find() (int, bool, error) {
	id, err := unix.KeyctlSearch(unix.KEY_SPEC_SESSION_KEYRING, keyType, keyName, 0)
	if err != nil {
		if isAbsent(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("search: %w", err)
	}
	return id, true, nil
}

// isAbsent reports whether err means the key was not found or is no longer valid.
func isAbsent(err error) bool {
	return errors.Is(err, unix.ENOKEY) ||
		errors.Is(err, unix.EKEYEXPIRED) ||
		errors.Is(err, unix.EKEYREVOKED)
}

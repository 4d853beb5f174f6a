package adapter

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth is returned when the vault rejects the client identity or
	// signature (HTTP 401/403) or no usable server key is known.
	ErrAuth = errors.New("vault authentication failed")

	// ErrNetwork is returned for transport failures, throttling (HTTP 429)
	// and server errors (HTTP 5xx). It is the only retryable error.
	ErrNetwork = errors.New("vault unreachable")

	// ErrDecode is returned when a response cannot be decrypted or parsed.
	ErrDecode = errors.New("malformed vault response")

	// ErrConflict is returned when a change is based on a stale revision
	// (HTTP 409).
	ErrConflict = errors.New("revision conflict")

	// ErrNotFound is returned for HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrBadRequest is returned when the vault rejects the request as
	// malformed (HTTP 400).
	ErrBadRequest = errors.New("bad request")

	// ErrUpload is returned when a blob could not be delivered to file
	// storage.
	ErrUpload = errors.New("file upload failed")

	// ErrKeyRotation is wrapped by [KeyRotationError].
	ErrKeyRotation = errors.New("server public key rotated")
)

// KeyRotationError reports that the vault expects the transmission key to
// be wrapped with a different server public key. The request may be
// repeated once with KeyID.
type KeyRotationError struct {
	KeyID string
}

func (e *KeyRotationError) Error() string {
	return fmt.Sprintf("%s: use key id %s", ErrKeyRotation, e.KeyID)
}

func (e *KeyRotationError) Unwrap() error {
	return ErrKeyRotation
}

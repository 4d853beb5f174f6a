package service

import (
	"errors"

	"github.com/MKhiriev/go-secrets-manager/internal/adapter"
	"github.com/MKhiriev/go-secrets-manager/internal/crypto"
	"github.com/MKhiriev/go-secrets-manager/internal/store"
	"github.com/MKhiriev/go-secrets-manager/models"
)

// Errors surfaced by the services. Lower layer sentinels are re-exported so
// callers only need this package to classify a failure with errors.Is.
var (
	ErrStorage        = store.ErrStorage
	ErrConfigNotFound = store.ErrConfigNotFound
	ErrAuth           = adapter.ErrAuth
	ErrNetwork        = adapter.ErrNetwork
	ErrDecode         = adapter.ErrDecode
	ErrConflict       = adapter.ErrConflict
	ErrUpload         = adapter.ErrUpload
	ErrDecrypt        = crypto.ErrDecrypt
	ErrFieldNotFound  = models.ErrFieldNotFound
)

var (
	ErrNotBound       = errors.New("configuration is not bound to an application")
	ErrInvalidToken   = errors.New("invalid one-time token")
	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidRecord  = errors.New("record cannot be used for this operation")
)

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetwork)
}

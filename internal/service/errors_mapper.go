// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-secrets-manager/internal/adapter"
)

// mapAdapterError translates a failed record command into a service error.
func mapAdapterError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, adapter.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	case errors.Is(err, adapter.ErrKeyRotation):
		// the vault asked for another key even after switching once
		return fmt.Errorf("%w: %w", ErrAuth, err)
	case errors.Is(err, adapter.ErrBadRequest):
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return err
}

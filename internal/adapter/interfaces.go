// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer for communicating with the
// vault.
//
// The primary abstraction is [VaultAdapter], which decouples the service
// layer from the wire protocol. The package ships an HTTP implementation
// ([NewHTTPVaultAdapter]) that encrypts every payload with a fresh
// transmission key, wraps that key to the server public key and signs the
// request with the client private key.
//
// Error values defined in errors.go are mapped from HTTP status codes and
// error bodies by mapHTTPError so that callers can use [errors.Is] for
// transport-agnostic error handling (e.g. [ErrConflict] for 409, [ErrAuth]
// for 401/403).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-secrets-manager/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/vault_adapter_mock.go -package=mock

// VaultAdapter defines communication with the vault. Implementations are
// responsible for request encryption and signing, retries, and mapping
// transport-level errors to the sentinel values defined in this package.
//
// Responses are returned as decrypted JSON structures; record, folder and
// file keys inside them are still wrapped.
type VaultAdapter interface {
	// GetSecrets fetches records shared with the application.
	GetSecrets(ctx context.Context, cfg models.Configuration, payload models.GetPayload) (models.SecretsResponse, error)

	// GetFolders fetches the folder hierarchy.
	GetFolders(ctx context.Context, cfg models.Configuration, payload models.FoldersPayload) (models.FoldersResponse, error)

	// CreateSecret creates a record. The payload is already encrypted.
	CreateSecret(ctx context.Context, cfg models.Configuration, payload models.CreatePayload) error

	// UpdateSecret replaces a record's data. Fails with [ErrConflict] when
	// payload.Revision is stale.
	UpdateSecret(ctx context.Context, cfg models.Configuration, payload models.UpdatePayload) (models.UpdateResponse, error)

	// DeleteSecrets removes records.
	DeleteSecrets(ctx context.Context, cfg models.Configuration, payload models.DeletePayload) error

	// RequestUpload asks the vault for an upload slot for a new file.
	RequestUpload(ctx context.Context, cfg models.Configuration, payload models.FileUploadPayload) (models.FileUploadResponse, error)

	// AddFile registers an uploaded file against its owner record. Fails
	// with [ErrConflict] when the owner revision is stale.
	AddFile(ctx context.Context, cfg models.Configuration, payload models.AddFilePayload) (models.AddFileResponse, error)

	// UploadToStorage sends an encrypted blob to the slot returned by
	// RequestUpload. Any failure is reported as [ErrUpload].
	UploadToStorage(ctx context.Context, slot models.FileUploadResponse, fileName string, blob []byte) error

	// DownloadFromStorage fetches an encrypted blob from a file URL.
	DownloadFromStorage(ctx context.Context, url string) ([]byte, error)
}

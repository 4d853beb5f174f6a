// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service implements the secrets manager client operations on top
// of a configuration storage and a vault adapter.
//
// Services load the client configuration on every call, so a configuration
// updated by a token binding or a server key rotation is picked up without
// rebuilding them. Record, folder and file keys never leave this package
// in wrapped form: everything handed to callers is decrypted.
package service

import (
	"context"

	"github.com/MKhiriev/go-secrets-manager/models"
)

// SecretsService reads and changes records.
type SecretsService interface {
	// GetSecrets returns the records shared with the application, or only
	// those in uids when given. A configuration that still carries a
	// one-time token is bound first. When the vault is unreachable and a
	// response cache is configured, the last cached response is returned
	// with FromCache set.
	GetSecrets(ctx context.Context, uids ...string) (models.SecretBundle, error)

	// CreateSecret creates a record from data, optionally placed in
	// folderUID, and returns its uid.
	CreateSecret(ctx context.Context, folderUID string, data models.RecordData) (string, error)

	// UpdateSecret pushes the record's pending change. On success the change
	// is committed to the record; on failure the record is left untouched.
	// A record without pending changes is not sent, so edits must go
	// through the record setters. Direct changes to record.Data are ignored.
	UpdateSecret(ctx context.Context, record *models.Record) error

	// DeleteSecrets removes records.
	DeleteSecrets(ctx context.Context, uids ...string) error
}

// FolderService reads the folder hierarchy.
type FolderService interface {
	// GetFolders returns every folder, parents before children.
	GetFolders(ctx context.Context) ([]models.Folder, error)
}

// FileService transfers record attachments.
type FileService interface {
	// UploadFile encrypts and uploads a file and registers it against the
	// record. The record is updated only after the vault accepted the
	// registration.
	UploadFile(ctx context.Context, record *models.Record, upload models.FileUpload) (string, error)

	// DownloadFile fetches and decrypts a single attachment.
	DownloadFile(ctx context.Context, ref models.FileRef) ([]byte, error)

	// DownloadFiles fetches every attachment of record concurrently and
	// returns the contents by file uid.
	DownloadFiles(ctx context.Context, record *models.Record) (map[string][]byte, error)
}

// SecretsServiceWrapper decorates a SecretsService, e.g. with logging.
type SecretsServiceWrapper interface {
	Wrap(SecretsService) SecretsService
}

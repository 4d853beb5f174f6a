// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/go-secrets-manager/internal/utils"
	"github.com/MKhiriev/go-secrets-manager/internal/validators"
	"github.com/MKhiriev/go-secrets-manager/internal/workers"
	"github.com/MKhiriev/go-secrets-manager/models"
)

type fileService struct {
	*session
	uids        *utils.UIDGenerator
	concurrency int
	now         func() time.Time
}

func newFileService(s *session, concurrency int) FileService {
	return &fileService{session: s, uids: utils.NewUIDGenerator(), concurrency: concurrency, now: time.Now}
}

func (f *fileService) UploadFile(ctx context.Context, record *models.Record, upload models.FileUpload) (string, error) {
	if err := f.validate(ctx, record, validators.FieldUID, validators.FieldKey); err != nil {
		return "", err
	}
	if err := f.validate(ctx, upload, validators.FieldFileName); err != nil {
		return "", err
	}

	cfg, err := f.loadBound(ctx)
	if err != nil {
		return "", err
	}

	meta := models.FileMetadata{
		Name:         upload.Name,
		Title:        upload.Title,
		Type:         upload.MimeType,
		Size:         int64(len(upload.Data)),
		LastModified: f.now().UnixMilli(),
	}
	if meta.Title == "" {
		meta.Title = upload.Name
	}
	if meta.Type == "" {
		meta.Type = http.DetectContentType(upload.Data)
	}

	recordKey := record.Key()
	fileUID := f.uids.Generate()

	fileKey, err := f.keychain.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generate file key: %w", err)
	}
	content, err := f.keychain.Encrypt(upload.Data, fileKey)
	if err != nil {
		return "", fmt.Errorf("encrypt file: %w", err)
	}
	encryptedMeta, err := f.keychain.EncryptJSON(meta, fileKey)
	if err != nil {
		return "", fmt.Errorf("encrypt file metadata: %w", err)
	}
	wrappedKey, err := f.keychain.Encrypt(fileKey, recordKey)
	if err != nil {
		return "", fmt.Errorf("wrap file key: %w", err)
	}

	ownerData := withFileRef(record.Data, fileUID)
	encryptedOwner, err := f.keychain.EncryptJSON(ownerData, recordKey)
	if err != nil {
		return "", fmt.Errorf("encrypt owner record: %w", err)
	}

	log := f.logger.With().Str("func", "fileService.UploadFile").Str("record_uid", record.UID).Str("file_uid", fileUID).Logger()

	var slot models.FileUploadResponse
	err = f.withKeyRotation(ctx, &cfg, func(c models.Configuration) error {
		var callErr error
		slot, callErr = f.adapter.RequestUpload(ctx, c, models.FileUploadPayload{
			ClientVersion:  f.clientVersion,
			ClientID:       c.ClientID,
			FileUID:        fileUID,
			OwnerRecordUID: record.UID,
			FileSize:       int64(len(content)),
		})
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("%w: request upload slot: %w", ErrUpload, err)
	}

	if err := f.adapter.UploadToStorage(ctx, slot, upload.Name, content); err != nil {
		log.Err(err).Msg("upload to file storage failed")
		return "", fmt.Errorf("upload file: %w", err)
	}

	var added models.AddFileResponse
	err = f.withKeyRotation(ctx, &cfg, func(c models.Configuration) error {
		var callErr error
		added, callErr = f.adapter.AddFile(ctx, c, models.AddFilePayload{
			ClientVersion:       f.clientVersion,
			ClientID:            c.ClientID,
			FileUID:             fileUID,
			FileKey:             wrappedKey,
			Data:                encryptedMeta,
			OwnerRecordUID:      record.UID,
			OwnerRecordData:     encryptedOwner,
			OwnerRecordRevision: record.Revision,
		})
		return callErr
	})
	if err != nil {
		log.Err(err).Msg("file registration failed")
		return "", fmt.Errorf("register file: %w", err)
	}

	revision := added.Revision
	if revision == 0 {
		revision = record.Revision + 1
	}
	record.AttachFile(models.NewFileRef(fileUID, meta, added.URL, "", fileKey), ownerData, revision)

	log.Debug().Int64("size", meta.Size).Msg("file attached")
	return fileUID, nil
}

func (f *fileService) DownloadFile(ctx context.Context, ref models.FileRef) ([]byte, error) {
	blob, err := f.adapter.DownloadFromStorage(ctx, ref.URL)
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", ref.UID, err)
	}

	content, err := f.keychain.Decrypt(blob, ref.Key())
	if err != nil {
		if !errors.Is(err, ErrDecrypt) {
			err = fmt.Errorf("%w: %w", ErrDecrypt, err)
		}
		return nil, fmt.Errorf("decrypt file %s: %w", ref.UID, err)
	}
	return content, nil
}

func (f *fileService) DownloadFiles(ctx context.Context, record *models.Record) (map[string][]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: nil record", ErrInvalidRecord)
	}

	var mu sync.Mutex
	contents := make(map[string][]byte, len(record.Files))

	pool := workers.New(f.concurrency)
	for _, ref := range record.Files {
		pool.Add(workers.WorkerFunc(func(ctx context.Context) error {
			content, err := f.DownloadFile(ctx, ref)
			if err != nil {
				return err
			}
			mu.Lock()
			contents[ref.UID] = content
			mu.Unlock()
			return nil
		}))
	}

	if err := pool.Run(ctx); err != nil {
		return nil, err
	}
	return contents, nil
}

// withFileRef returns a copy of data whose fileRef field lists fileUID.
func withFileRef(data models.RecordData, fileUID string) models.RecordData {
	out := data.Clone()
	ref := models.StringValue(fileUID)
	for i, field := range out.Fields {
		if field.Type == models.FieldTypeFileRef {
			out.Fields[i].Value = append(out.Fields[i].Value, ref)
			return out
		}
	}
	out.Fields = append(out.Fields, models.Field{Type: models.FieldTypeFileRef, Value: []models.FieldValue{ref}})
	return out
}

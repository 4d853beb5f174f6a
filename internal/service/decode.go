// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-secrets-manager/internal/crypto"
	"github.com/MKhiriev/go-secrets-manager/models"
)

// decodeSecrets unwraps and decrypts every record of resp. Records
// delivered inside shared folders have their keys wrapped by the folder
// key. Any undecryptable value fails the whole response.
func decodeSecrets(keychain crypto.KeyChainService, resp models.SecretsResponse, appKey []byte) (models.SecretBundle, error) {
	bundle := models.SecretBundle{
		Records:  make([]*models.Record, 0, len(resp.Records)),
		Warnings: append([]string(nil), resp.Warnings...),
	}

	for _, r := range resp.Records {
		record, err := decodeRecord(keychain, r, appKey)
		if err != nil {
			return models.SecretBundle{}, err
		}
		bundle.Records = append(bundle.Records, record)
	}

	for _, sf := range resp.Folders {
		folderKey, err := keychain.Decrypt(sf.FolderKey, appKey)
		if err != nil {
			return models.SecretBundle{}, fmt.Errorf("%w: shared folder %s key: %w", ErrDecode, sf.FolderUID, err)
		}
		bundle.SharedFolderUIDs = append(bundle.SharedFolderUIDs, sf.FolderUID)

		for _, r := range sf.Records {
			record, err := decodeRecord(keychain, r, folderKey)
			if err != nil {
				return models.SecretBundle{}, err
			}
			if record.FolderUID == "" {
				record.FolderUID = sf.FolderUID
			}
			bundle.Records = append(bundle.Records, record)
		}
	}

	return bundle, nil
}

func decodeRecord(keychain crypto.KeyChainService, r models.RecordResponse, wrappingKey []byte) (*models.Record, error) {
	if r.RecordUID == "" {
		return nil, fmt.Errorf("%w: record without uid", ErrDecode)
	}

	recordKey, err := keychain.Decrypt(r.RecordKey, wrappingKey)
	if err != nil {
		return nil, fmt.Errorf("%w: record %s key: %w", ErrDecode, r.RecordUID, err)
	}

	var data models.RecordData
	if err := keychain.DecryptJSON(r.Data, recordKey, &data); err != nil {
		return nil, fmt.Errorf("%w: record %s data: %w", ErrDecode, r.RecordUID, err)
	}

	record := models.NewRecord(r.RecordUID, recordKey, data)
	record.FolderUID = r.FolderUID
	record.Revision = r.Revision
	record.Editable = r.IsEditable

	for _, f := range r.Files {
		fileKey, err := keychain.Decrypt(f.FileKey, recordKey)
		if err != nil {
			return nil, fmt.Errorf("%w: record %s file %s key: %w", ErrDecode, r.RecordUID, f.FileUID, err)
		}
		var meta models.FileMetadata
		if err := keychain.DecryptJSON(f.Data, fileKey, &meta); err != nil {
			return nil, fmt.Errorf("%w: record %s file %s metadata: %w", ErrDecode, r.RecordUID, f.FileUID, err)
		}
		record.Files = append(record.Files, models.NewFileRef(f.FileUID, meta, f.URL, f.ThumbnailURL, fileKey))
	}

	return record, nil
}

// decodeFolders rebuilds the folder forest. Every folder key is unwrapped
// with its parent's key, so parents are decoded first. The result keeps the
// response order except that a parent always precedes its children.
func decodeFolders(keychain crypto.KeyChainService, resp models.FoldersResponse, appKey []byte) ([]models.Folder, error) {
	byUID := make(map[string]models.FolderResponse, len(resp.Folders))
	for _, f := range resp.Folders {
		if f.FolderUID == "" {
			return nil, fmt.Errorf("%w: folder without uid", ErrDecode)
		}
		if _, dup := byUID[f.FolderUID]; dup {
			return nil, fmt.Errorf("%w: duplicate folder %s", ErrDecode, f.FolderUID)
		}
		byUID[f.FolderUID] = f
	}

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(byUID))
	keys := make(map[string][]byte, len(byUID))
	folders := make([]models.Folder, 0, len(byUID))

	var visit func(uid string) error
	visit = func(uid string) error {
		switch state[uid] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: folder %s is its own ancestor", ErrDecode, uid)
		}
		state[uid] = visiting

		f := byUID[uid]
		wrapping := appKey
		if f.Parent != "" {
			if _, ok := byUID[f.Parent]; !ok {
				return fmt.Errorf("%w: folder %s has unknown parent %s", ErrDecode, uid, f.Parent)
			}
			if err := visit(f.Parent); err != nil {
				return err
			}
			wrapping = keys[f.Parent]
		}

		folderKey, err := keychain.Decrypt(f.FolderKey, wrapping)
		if err != nil {
			return fmt.Errorf("%w: folder %s key: %w", ErrDecode, uid, err)
		}
		var data models.FolderData
		if err := keychain.DecryptJSON(f.Data, folderKey, &data); err != nil {
			return fmt.Errorf("%w: folder %s data: %w", ErrDecode, uid, err)
		}

		keys[uid] = folderKey
		folders = append(folders, models.NewFolder(uid, data.Name, f.Parent, folderKey))
		state[uid] = done
		return nil
	}

	for _, f := range resp.Folders {
		if err := visit(f.FolderUID); err != nil {
			return nil, err
		}
	}
	return folders, nil
}

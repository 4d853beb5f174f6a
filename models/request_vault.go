// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Wire payloads exchanged with the vault. Byte slices travel as standard
// base64; every encrypted value is an AES-GCM blob (nonce ‖ ciphertext)
// unless stated otherwise.

// GetPayload requests records. An empty RequestedRecords returns all
// records shared with the application. PublicKey is only sent while binding
// a one-time token.
type GetPayload struct {
	ClientVersion    string   `json:"clientVersion"`
	ClientID         []byte   `json:"clientId"`
	PublicKey        []byte   `json:"publicKey,omitempty"`
	RequestedRecords []string `json:"requestedRecords,omitempty"`
}

// FoldersPayload requests the folder hierarchy.
type FoldersPayload struct {
	ClientVersion string `json:"clientVersion"`
	ClientID      []byte `json:"clientId"`
}

// CreatePayload creates a record. RecordKey is wrapped by the app key,
// OwnerRecordKey is ECIES-wrapped to the app owner's public key, Data is
// encrypted by the record key.
type CreatePayload struct {
	ClientVersion  string `json:"clientVersion"`
	ClientID       []byte `json:"clientId"`
	RecordUID      string `json:"recordUid"`
	RecordKey      []byte `json:"recordKey"`
	OwnerRecordKey []byte `json:"ownerRecordKey,omitempty"`
	FolderUID      string `json:"folderUid,omitempty"`
	Data           []byte `json:"data"`
}

// UpdatePayload replaces a record's data. Revision is the revision the
// change was based on; the vault rejects stale revisions.
type UpdatePayload struct {
	ClientVersion string `json:"clientVersion"`
	ClientID      []byte `json:"clientId"`
	RecordUID     string `json:"recordUid"`
	Data          []byte `json:"data"`
	Revision      int64  `json:"revision"`
}

// DeletePayload removes records.
type DeletePayload struct {
	ClientVersion string   `json:"clientVersion"`
	ClientID      []byte   `json:"clientId"`
	RecordUIDs    []string `json:"recordUids"`
}

// FileUploadPayload asks the vault for a storage slot. It does not register
// anything against the owner record.
type FileUploadPayload struct {
	ClientVersion  string `json:"clientVersion"`
	ClientID       []byte `json:"clientId"`
	FileUID        string `json:"fileUid"`
	OwnerRecordUID string `json:"ownerRecordUid"`
	FileSize       int64  `json:"fileSize"`
}

// AddFilePayload registers an uploaded blob against its owner record.
// FileKey is wrapped by the owner record key, Data is the file metadata
// encrypted by the file key, OwnerRecordData is the owner's new data
// (with the fileRef appended) encrypted by the owner record key.
type AddFilePayload struct {
	ClientVersion       string `json:"clientVersion"`
	ClientID            []byte `json:"clientId"`
	FileUID             string `json:"fileUid"`
	FileKey             []byte `json:"fileKey"`
	Data                []byte `json:"data"`
	OwnerRecordUID      string `json:"ownerRecordUid"`
	OwnerRecordData     []byte `json:"ownerRecordData"`
	OwnerRecordRevision int64  `json:"ownerRecordRevision"`
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "bytes"

// FileMetadata is the decrypted descriptor of an attachment. It travels
// encrypted with the file key.
type FileMetadata struct {
	Name         string `json:"name"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	Size         int64  `json:"size"`
	LastModified int64  `json:"lastModified"`
}

// FileRef references an encrypted blob attached to a record. It does not
// hold content until downloaded.
type FileRef struct {
	UID          string
	Name         string
	Title        string
	MimeType     string
	Size         int64
	LastModified int64
	URL          string
	ThumbnailURL string

	key []byte
}

// NewFileRef builds a reference from decrypted metadata and file key.
func NewFileRef(uid string, meta FileMetadata, url, thumbnailURL string, key []byte) FileRef {
	return FileRef{
		UID:          uid,
		Name:         meta.Name,
		Title:        meta.Title,
		MimeType:     meta.Type,
		Size:         meta.Size,
		LastModified: meta.LastModified,
		URL:          url,
		ThumbnailURL: thumbnailURL,
		key:          bytes.Clone(key),
	}
}

// Key returns a copy of the file key.
func (f FileRef) Key() []byte {
	return bytes.Clone(f.key)
}

// FileUpload describes a local file to attach to a record.
type FileUpload struct {
	// Name is the file name, e.g. "my-file1.json".
	Name string
	// Title is the display title. Defaults to Name.
	Title string
	// MimeType defaults to content sniffing when empty.
	MimeType string
	// Data is the plaintext content.
	Data []byte
}

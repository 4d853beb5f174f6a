package models

// SecretsResponse is the decrypted body of a get_secret call. Record and
// folder keys are still wrapped.
type SecretsResponse struct {
	// EncryptedAppKey is only present in the response that completes a
	// one-time token binding; it is wrapped by the token.
	EncryptedAppKey   []byte                 `json:"encryptedAppKey,omitempty"`
	AppOwnerPublicKey []byte                 `json:"appOwnerPublicKey,omitempty"`
	Folders           []SharedFolderResponse `json:"folders,omitempty"`
	Records           []RecordResponse       `json:"records,omitempty"`
	Warnings          []string               `json:"warnings,omitempty"`
}

// SharedFolderResponse delivers records that reach the application through a
// shared folder. FolderKey is wrapped by the app key; the records' keys are
// wrapped by the folder key.
type SharedFolderResponse struct {
	FolderUID string           `json:"folderUid"`
	FolderKey []byte           `json:"folderKey"`
	Records   []RecordResponse `json:"records,omitempty"`
}

// RecordResponse is a single encrypted record.
type RecordResponse struct {
	RecordUID  string         `json:"recordUid"`
	RecordKey  []byte         `json:"recordKey"`
	Data       []byte         `json:"data"`
	Revision   int64          `json:"revision"`
	IsEditable bool           `json:"isEditable"`
	FolderUID  string         `json:"folderUid,omitempty"`
	Files      []FileResponse `json:"files,omitempty"`
}

// FileResponse is a single encrypted attachment descriptor. FileKey is
// wrapped by the owner record key.
type FileResponse struct {
	FileUID      string `json:"fileUid"`
	FileKey      []byte `json:"fileKey"`
	Data         []byte `json:"data"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// FoldersResponse is the decrypted body of a get_folders call.
type FoldersResponse struct {
	Folders []FolderResponse `json:"folders"`
}

// FolderResponse is a single encrypted folder. FolderKey is wrapped by the
// parent's folder key, or by the app key for root folders.
type FolderResponse struct {
	FolderUID string `json:"folderUid"`
	FolderKey []byte `json:"folderKey"`
	Data      []byte `json:"data"`
	Parent    string `json:"parent,omitempty"`
}

// UpdateResponse acknowledges a record change.
type UpdateResponse struct {
	Revision int64 `json:"revision"`
}

// AddFileResponse acknowledges a registered file. URL is where the new
// blob can be downloaded from.
type AddFileResponse struct {
	Revision int64  `json:"revision"`
	URL      string `json:"url"`
}

// FileUploadResponse describes where to send the encrypted blob.
// Parameters is a JSON object of form fields the storage endpoint expects.
type FileUploadResponse struct {
	URL               string `json:"url"`
	Parameters        string `json:"parameters"`
	SuccessStatusCode int    `json:"successStatusCode"`
}

// PublicKeysResponse lists the server public keys by id.
type PublicKeysResponse struct {
	Keys map[string][]byte `json:"keys"`
}

// ErrorResponse is the plaintext body of a rejected request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	KeyID   int    `json:"key_id,omitempty"`
}

package models

// Folder is a hierarchical container of records. ParentUID is empty for
// root folders. Folders decoded from the vault always form a forest.
type Folder struct {
	UID       string
	Name      string
	ParentUID string

	key []byte
}

// FolderData is the decrypted JSON body of a folder.
type FolderData struct {
	Name string `json:"name"`
}

// NewFolder builds a folder with its decrypted folder key.
func NewFolder(uid, name, parentUID string, key []byte) Folder {
	return Folder{UID: uid, Name: name, ParentUID: parentUID, key: append([]byte(nil), key...)}
}

// Key returns a copy of the folder key.
func (f Folder) Key() []byte {
	return append([]byte(nil), f.key...)
}

// IsRoot reports whether f has no parent.
func (f Folder) IsRoot() bool {
	return f.ParentUID == ""
}

package models

// SecretBundle is the result of a single secrets fetch.
type SecretBundle struct {
	// Records are the decrypted records in the order the vault returned them.
	Records []*Record
	// SharedFolderUIDs lists the shared folders records were delivered in.
	SharedFolderUIDs []string
	// Warnings are non-fatal notices from the vault or the client.
	Warnings []string
	// FromCache is set when the bundle was served from the offline cache
	// because the vault was unreachable.
	FromCache bool
}

// RecordByUID finds a record in the bundle.
func (b SecretBundle) RecordByUID(uid string) (*Record, bool) {
	for _, r := range b.Records {
		if r.UID == uid {
			return r, true
		}
	}
	return nil, false
}

// RecordsByTitle returns every record whose title equals title.
func (b SecretBundle) RecordsByTitle(title string) []*Record {
	var out []*Record
	for _, r := range b.Records {
		if r.Title() == title {
			out = append(out, r)
		}
	}
	return out
}

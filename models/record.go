// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrFieldNotFound is returned by field accessors when the record has no
	// field of the requested type (or label) or the field holds no value.
	ErrFieldNotFound = errors.New("field not found")
)

// Well-known standard field types.
const (
	FieldTypeLogin    = "login"
	FieldTypePassword = "password"
	FieldTypeURL      = "url"
	FieldTypeFileRef  = "fileRef"
	FieldTypeOTP      = "oneTimeCode"
)

// Field is a named, typed value list within a record.
type Field struct {
	Type     string       `json:"type"`
	Label    string       `json:"label,omitempty"`
	Value    []FieldValue `json:"value"`
	Required bool         `json:"required,omitempty"`
}

// NewField builds a field from plain Go values (see [ValueOf]).
func NewField(fieldType, label string, values ...any) (Field, error) {
	f := Field{Type: fieldType, Label: label, Value: make([]FieldValue, 0, len(values))}
	for _, v := range values {
		fv, err := ValueOf(v)
		if err != nil {
			return Field{}, fmt.Errorf("field %q: %w", fieldType, err)
		}
		f.Value = append(f.Value, fv)
	}
	return f, nil
}

func (f Field) clone() Field {
	f.Value = slices.Clone(f.Value)
	return f
}

// RecordData is the decrypted JSON body of a record.
type RecordData struct {
	Title  string  `json:"title"`
	Type   string  `json:"type"`
	Fields []Field `json:"fields"`
	Custom []Field `json:"custom,omitempty"`
	Notes  string  `json:"notes,omitempty"`
}

// Clone returns a deep copy of d.
func (d RecordData) Clone() RecordData {
	out := d
	out.Fields = make([]Field, len(d.Fields))
	for i, f := range d.Fields {
		out.Fields[i] = f.clone()
	}
	if d.Custom != nil {
		out.Custom = make([]Field, len(d.Custom))
		for i, f := range d.Custom {
			out.Custom[i] = f.clone()
		}
	}
	return out
}

// Record is a decrypted vault entry. Field values are plaintext; the record
// key is held privately and only handed out for re-encryption.
//
// Mutations through SetFieldValue, SetCustomFieldValue, SetTitle and SetNotes
// are staged as a pending change. Nothing is persisted until the change is
// pushed to the vault and the result applied with [Record.ApplyUpdate].
// A Record is not safe for concurrent mutation.
type Record struct {
	UID       string
	FolderUID string
	Revision  int64
	Editable  bool

	// Data is the last committed body. Edits made to it directly are not
	// tracked as pending changes.
	Data  RecordData
	Files []FileRef

	key     []byte
	pending *RecordData
}

// NewRecord builds a record around its decrypted data and record key.
func NewRecord(uid string, key []byte, data RecordData) *Record {
	return &Record{UID: uid, key: bytes.Clone(key), Data: data}
}

// Key returns a copy of the record key.
func (r *Record) Key() []byte {
	return bytes.Clone(r.key)
}

// Title returns the effective record title, including pending changes.
func (r *Record) Title() string {
	return r.Current().Title
}

// Type returns the record type.
func (r *Record) Type() string {
	return r.Data.Type
}

// Current returns a copy of the effective record data: the pending change if
// one exists, the last committed data otherwise.
func (r *Record) Current() RecordData {
	if r.pending != nil {
		return r.pending.Clone()
	}
	return r.Data.Clone()
}

// HasPendingChanges reports whether the record carries unpushed edits.
func (r *Record) HasPendingChanges() bool {
	return r.pending != nil
}

// DiscardChanges drops any pending edits.
func (r *Record) DiscardChanges() {
	r.pending = nil
}

// ApplyUpdate commits data as the record's server state at revision and
// clears pending edits. Called after the vault accepted a change.
func (r *Record) ApplyUpdate(data RecordData, revision int64) {
	r.Data = data.Clone()
	r.Revision = revision
	r.pending = nil
}

// AttachFile records a file that was registered against the record in the
// vault, together with the owner data and revision the vault accepted.
func (r *Record) AttachFile(ref FileRef, data RecordData, revision int64) {
	r.Files = append(r.Files, ref)
	r.Data = data.Clone()
	r.Revision = revision
	if r.pending != nil {
		// keep the user's staged edits but carry the new fileRef along
		p := *r.pending
		if i := indexOfType(p.Fields, FieldTypeFileRef); i >= 0 {
			if j := indexOfType(r.Data.Fields, FieldTypeFileRef); j >= 0 {
				p.Fields[i] = r.Data.Fields[j].clone()
			}
		} else if j := indexOfType(r.Data.Fields, FieldTypeFileRef); j >= 0 {
			p.Fields = append(p.Fields, r.Data.Fields[j].clone())
		}
		r.pending = &p
	}
}

// FieldValue returns the first value of the standard field of fieldType.
// It fails with [ErrFieldNotFound] when the field is absent or empty.
func (r *Record) FieldValue(fieldType string) (FieldValue, error) {
	values, err := r.FieldValues(fieldType)
	if err != nil {
		return FieldValue{}, err
	}
	return values[0], nil
}

// FieldValues returns all values of the standard field of fieldType.
func (r *Record) FieldValues(fieldType string) ([]FieldValue, error) {
	data := r.effective()
	i := indexOfType(data.Fields, fieldType)
	if i < 0 || len(data.Fields[i].Value) == 0 {
		return nil, fmt.Errorf("%w: record %s has no %q field value", ErrFieldNotFound, r.UID, fieldType)
	}
	return slices.Clone(data.Fields[i].Value), nil
}

// CustomFieldValue returns the first value of the custom field with label.
func (r *Record) CustomFieldValue(label string) (FieldValue, error) {
	data := r.effective()
	i := indexOfLabel(data.Custom, label)
	if i < 0 || len(data.Custom[i].Value) == 0 {
		return FieldValue{}, fmt.Errorf("%w: record %s has no custom field %q", ErrFieldNotFound, r.UID, label)
	}
	return data.Custom[i].Value[0], nil
}

// Password is a shortcut for the first value of the password field.
func (r *Record) Password() (string, error) {
	v, err := r.FieldValue(FieldTypePassword)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// SetFieldValue stages new values for the standard field of fieldType.
// The field must already exist on the record.
func (r *Record) SetFieldValue(fieldType string, values ...any) error {
	next := r.Current()
	i := indexOfType(next.Fields, fieldType)
	if i < 0 {
		return fmt.Errorf("%w: record %s has no %q field", ErrFieldNotFound, r.UID, fieldType)
	}
	updated, err := NewField(fieldType, next.Fields[i].Label, values...)
	if err != nil {
		return err
	}
	updated.Required = next.Fields[i].Required
	next.Fields[i] = updated
	r.pending = &next
	return nil
}

// SetCustomFieldValue stages new values for the custom field with label,
// adding a text custom field when none exists.
func (r *Record) SetCustomFieldValue(label string, values ...any) error {
	next := r.Current()
	i := indexOfLabel(next.Custom, label)
	fieldType := "text"
	if i >= 0 {
		fieldType = next.Custom[i].Type
	}
	updated, err := NewField(fieldType, label, values...)
	if err != nil {
		return err
	}
	if i >= 0 {
		next.Custom[i] = updated
	} else {
		next.Custom = append(next.Custom, updated)
	}
	r.pending = &next
	return nil
}

// SetTitle stages a new title.
func (r *Record) SetTitle(title string) {
	next := r.Current()
	next.Title = title
	r.pending = &next
}

// SetNotes stages new notes.
func (r *Record) SetNotes(notes string) {
	next := r.Current()
	next.Notes = notes
	r.pending = &next
}

// FileByName finds an attached file by name or title.
func (r *Record) FileByName(name string) (FileRef, bool) {
	for _, f := range r.Files {
		if f.Name == name || f.Title == name {
			return f, true
		}
	}
	return FileRef{}, false
}

// FileByUID finds an attached file by its uid.
func (r *Record) FileByUID(uid string) (FileRef, bool) {
	i := slices.IndexFunc(r.Files, func(f FileRef) bool { return f.UID == uid })
	if i < 0 {
		return FileRef{}, false
	}
	return r.Files[i], true
}

func (r *Record) effective() *RecordData {
	if r.pending != nil {
		return r.pending
	}
	return &r.Data
}

func indexOfType(fields []Field, fieldType string) int {
	return slices.IndexFunc(fields, func(f Field) bool { return f.Type == fieldType })
}

func indexOfLabel(fields []Field, label string) int {
	return slices.IndexFunc(fields, func(f Field) bool { return f.Label == label })
}

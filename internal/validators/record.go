package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-secrets-manager/models"
)

// Field name constants used to restrict Validate to a subset of checks.
const (
	// FieldTitle targets the record title.
	FieldTitle = "title"

	// FieldType targets the record type.
	FieldType = "type"

	// FieldFields targets the standard field list; every field needs a type.
	FieldFields = "fields"

	// FieldCustom targets the custom field list; labels must be present and
	// unique.
	FieldCustom = "custom"

	// FieldUID targets the record uid.
	FieldUID = "uid"

	// FieldKey targets the decrypted record key.
	FieldKey = "key"

	// FieldFileName targets the name of a file upload.
	FieldFileName = "file_name"

	// FieldFileData targets the content of a file upload.
	FieldFileData = "file_data"
)

// RecordValidator implements the Validator interface for record data,
// decoded records and file uploads. Both value and pointer forms are
// accepted.
type RecordValidator struct {
}

// NewRecordValidator constructs a new RecordValidator and returns it as the
// Validator interface.
func NewRecordValidator() Validator {
	return &RecordValidator{}
}

// Validate dispatches on the dynamic type of obj:
//   - models.RecordData / *models.RecordData
//   - *models.Record (its current data plus uid and key)
//   - models.FileUpload / *models.FileUpload
//
// Returns ErrUnsupportedType for anything else, including nil pointers.
func (v *RecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RecordData:
		return v.validateRecordData(ctx, value, fields...)
	case *models.RecordData:
		if value == nil {
			return ErrUnsupportedType
		}
		return v.validateRecordData(ctx, *value, fields...)

	case *models.Record:
		if value == nil {
			return ErrUnsupportedType
		}
		return v.validateRecord(ctx, value, fields...)

	case models.FileUpload:
		return v.validateFileUpload(ctx, value, fields...)
	case *models.FileUpload:
		if value == nil {
			return ErrUnsupportedType
		}
		return v.validateFileUpload(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateRecordData checks the plaintext of a record.
//
// Default validated fields: title, type, fields, custom.
func (v *RecordValidator) validateRecordData(_ context.Context, data models.RecordData, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldType, FieldFields, FieldCustom}
	}

	for _, f := range fields {
		switch f {
		case FieldTitle:
			if strings.TrimSpace(data.Title) == "" {
				return ErrEmptyTitle
			}
		case FieldType:
			if strings.TrimSpace(data.Type) == "" {
				return ErrEmptyRecordType
			}
		case FieldFields:
			for i, field := range data.Fields {
				if field.Type == "" {
					return fmt.Errorf("field at index %d: %w", i, ErrEmptyFieldType)
				}
			}
		case FieldCustom:
			seen := make(map[string]struct{}, len(data.Custom))
			for i, field := range data.Custom {
				if field.Label == "" {
					return fmt.Errorf("custom field at index %d: %w", i, ErrEmptyLabel)
				}
				if _, dup := seen[field.Label]; dup {
					return fmt.Errorf("%w: %q", ErrDuplicateLabel, field.Label)
				}
				seen[field.Label] = struct{}{}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateRecord checks a decoded record. uid and key are always checked
// unless fields restricts them; data fields are checked against the
// pending data if there is any.
func (v *RecordValidator) validateRecord(ctx context.Context, record *models.Record, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUID, FieldKey, FieldTitle, FieldType, FieldFields, FieldCustom}
	}

	var dataFields []string
	for _, f := range fields {
		switch f {
		case FieldUID:
			if record.UID == "" {
				return ErrEmptyRecordUID
			}
		case FieldKey:
			if len(record.Key()) == 0 {
				return ErrMissingKey
			}
		default:
			dataFields = append(dataFields, f)
		}
	}

	if len(dataFields) == 0 {
		return nil
	}
	return v.validateRecordData(ctx, record.Current(), dataFields...)
}

// validateFileUpload checks a file before it is encrypted.
//
// Default validated fields: file_name, file_data.
func (v *RecordValidator) validateFileUpload(_ context.Context, upload models.FileUpload, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldFileName, FieldFileData}
	}

	for _, f := range fields {
		switch f {
		case FieldFileName:
			if strings.TrimSpace(upload.Name) == "" {
				return ErrEmptyFileName
			}
			if strings.ContainsAny(upload.Name, `/\`) {
				return ErrFileNameInPath
			}
		case FieldFileData:
			if len(upload.Data) == 0 {
				return ErrEmptyFileData
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

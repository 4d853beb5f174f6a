package notation

import (
	"fmt"
	"slices"

	"github.com/MKhiriev/go-secrets-manager/models"
)

// GetValue resolves a value notation. A field without an index yields its
// first value, "[]" yields all values as a list.
func GetValue(records []*models.Record, notation string) (models.FieldValue, error) {
	n, err := Parse(notation)
	if err != nil {
		return models.FieldValue{}, err
	}
	return Resolve(records, n)
}

// GetFile resolves a file notation to the attachment it names.
func GetFile(records []*models.Record, notation string) (models.FileRef, error) {
	n, err := Parse(notation)
	if err != nil {
		return models.FileRef{}, err
	}
	if n.Selector != SelectorFile {
		return models.FileRef{}, fmt.Errorf("%w: %q does not select a file", ErrInvalidNotation, notation)
	}

	record, err := findRecord(records, n.Record)
	if err != nil {
		return models.FileRef{}, err
	}
	ref, ok := record.FileByName(n.Key)
	if !ok {
		return models.FileRef{}, fmt.Errorf("%w: record %s has no file %q", models.ErrFieldNotFound, record.UID, n.Key)
	}
	return ref, nil
}

// Resolve evaluates a parsed value notation.
func Resolve(records []*models.Record, n Notation) (models.FieldValue, error) {
	record, err := findRecord(records, n.Record)
	if err != nil {
		return models.FieldValue{}, err
	}
	data := record.Current()

	var field *models.Field
	switch n.Selector {
	case SelectorType:
		return models.StringValue(data.Type), nil
	case SelectorTitle:
		return models.StringValue(data.Title), nil
	case SelectorNotes:
		return models.StringValue(data.Notes), nil
	case SelectorField:
		field = findField(data.Fields, func(f models.Field) bool { return f.Type == n.Key })
	case SelectorCustomField:
		field = findField(data.Custom, func(f models.Field) bool { return f.Label == n.Key })
		if field == nil {
			field = findField(data.Custom, func(f models.Field) bool { return f.Type == n.Key })
		}
	default:
		return models.FieldValue{}, fmt.Errorf("%w: selector %q does not yield a value", ErrInvalidNotation, n.Selector)
	}
	if field == nil || len(field.Value) == 0 {
		return models.FieldValue{}, fmt.Errorf("%w: record %s has no %s %q", models.ErrFieldNotFound, record.UID, n.Selector, n.Key)
	}

	if n.All {
		return models.ListValue(field.Value...), nil
	}

	index := max(n.Index, 0)
	if index >= len(field.Value) {
		return models.FieldValue{}, fmt.Errorf("%w: %s %q has %d values, index %d", ErrIndexOutOfRange, n.Selector, n.Key, len(field.Value), index)
	}
	value := field.Value[index]

	if n.Property == "" {
		return value, nil
	}
	prop, ok := value.Property(n.Property)
	if !ok {
		return models.FieldValue{}, fmt.Errorf("%w: %s %q has no property %q", models.ErrFieldNotFound, n.Selector, n.Key, n.Property)
	}
	return prop, nil
}

// findRecord matches by uid first, then by title. A title shared by several
// records is ambiguous.
func findRecord(records []*models.Record, ref string) (*models.Record, error) {
	for _, r := range records {
		if r != nil && r.UID == ref {
			return r, nil
		}
	}

	var found *models.Record
	for _, r := range records {
		if r == nil || r.Title() != ref {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %q", ErrAmbiguousRecord, ref)
		}
		found = r
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %q", ErrRecordNotFound, ref)
	}
	return found, nil
}

func findField(fields []models.Field, match func(models.Field) bool) *models.Field {
	i := slices.IndexFunc(fields, match)
	if i < 0 {
		return nil
	}
	return &fields[i]
}

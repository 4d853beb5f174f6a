package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyTitle      = errors.New("record title is required")
	ErrEmptyRecordType = errors.New("record type is required")
	ErrEmptyFieldType  = errors.New("field type is required")
	ErrEmptyLabel      = errors.New("custom field label is required")
	ErrDuplicateLabel  = errors.New("duplicate custom field label")
	ErrEmptyRecordUID  = errors.New("record uid is required")
	ErrMissingKey      = errors.New("record key is missing")
	ErrEmptyFileName   = errors.New("file name is required")
	ErrFileNameInPath  = errors.New("file name must not contain a path")
	ErrEmptyFileData   = errors.New("file content is empty")
)

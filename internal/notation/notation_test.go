package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Notation
	}{
		{
			name:  "field",
			input: "rec-1/field/password",
			want:  Notation{Record: "rec-1", Selector: SelectorField, Key: "password", Index: -1},
		},
		{
			name:  "prefix",
			input: "keeper://rec-1/field/login",
			want:  Notation{Record: "rec-1", Selector: SelectorField, Key: "login", Index: -1},
		},
		{
			name:  "index and property",
			input: "rec-1/field/name[1][first]",
			want:  Notation{Record: "rec-1", Selector: SelectorField, Key: "name", Index: 1, Property: "first"},
		},
		{
			name:  "all values",
			input: "rec-1/field/url[]",
			want:  Notation{Record: "rec-1", Selector: SelectorField, Key: "url", Index: -1, All: true},
		},
		{
			name:  "custom label with escapes",
			input: `rec-1/custom_field/A\/B \[prod\]`,
			want:  Notation{Record: "rec-1", Selector: SelectorCustomField, Key: "A/B [prod]", Index: -1},
		},
		{
			name:  "escaped title",
			input: `Mail\/Work/title`,
			want:  Notation{Record: "Mail/Work", Selector: SelectorTitle, Index: -1},
		},
		{
			name:  "file",
			input: "rec-1/file/cert.pem",
			want:  Notation{Record: "rec-1", Selector: SelectorFile, Key: "cert.pem", Index: -1},
		},
		{
			name:  "type",
			input: "rec-1/type",
			want:  Notation{Record: "rec-1", Selector: SelectorType, Index: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"rec-1",
		"/field/password",
		"rec-1/secret/x",
		"rec-1/field",
		"rec-1/field/",
		"rec-1/title/extra",
		"rec-1/field/password[x]",
		"rec-1/field/password[-1]",
		"rec-1/field/password[0",
		"rec-1/field/password]",
		"rec-1/field/password[0][]",
		"rec-1/field/password[][first]",
		"rec-1/field/password[0][a][b]",
		"rec-1/field/password[0]x",
		"rec-1/file/a.txt[0]",
		`rec-1/field/pass\`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.ErrorIs(t, err, ErrInvalidNotation)
		})
	}
}

func TestNotation_StringRoundTrip(t *testing.T) {
	inputs := []string{
		"rec-1/field/password",
		"rec-1/field/name[1][first]",
		"rec-1/field/url[]",
		`rec-1/custom_field/A\/B \[prod\]`,
		`Mail\/Work/notes`,
		"rec-1/file/cert.pem",
	}

	for _, input := range inputs {
		n, err := Parse(input)
		require.NoError(t, err)
		assert.Equal(t, input, n.String())
	}
}

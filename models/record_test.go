package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_FileByUID(t *testing.T) {
	r := &Record{Files: []FileRef{
		{UID: "old", Name: "notes.txt"},
		{UID: "new", Name: "notes.txt"},
	}}

	got, ok := r.FileByUID("new")
	assert.True(t, ok)
	assert.Equal(t, "new", got.UID)

	byName, ok := r.FileByName("notes.txt")
	assert.True(t, ok)
	assert.Equal(t, "old", byName.UID)

	_, ok = r.FileByUID("missing")
	assert.False(t, ok)
}

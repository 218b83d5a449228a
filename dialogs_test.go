package main

import (
	"errors"
	"testing"

	"github.com/sqweek/dialog"
	"github.com/stretchr/testify/assert"

	"quillgo/bridge"
)

func TestDialogFiltersDropWildcardOnLinux(t *testing.T) {
	got := dialogFilters("linux", bridge.DocumentFilters)
	assert.Equal(t, []bridge.FileFilter{
		{Name: "Markdown files", Extensions: []string{"md", "markdown"}},
		{Name: "Text files", Extensions: []string{"txt"}},
	}, got)
	assert.Len(t, bridge.DocumentFilters, 3, "shared filter list is untouched")

	assert.Equal(t, bridge.DocumentFilters, dialogFilters("darwin", bridge.DocumentFilters))
	assert.Equal(t, bridge.DocumentFilters, dialogFilters("windows", bridge.DocumentFilters))
}

func TestCleanResult(t *testing.T) {
	_, err := cleanResult("", dialog.ErrCancelled)
	assert.ErrorIs(t, err, bridge.ErrDialogCancelled)

	_, err = cleanResult("", nil)
	assert.ErrorIs(t, err, bridge.ErrDialogCancelled)

	boom := errors.New("boom")
	_, err = cleanResult("", boom)
	assert.ErrorIs(t, err, boom)

	p, err := cleanResult("/docs/./a.md", nil)
	assert.NoError(t, err)
	assert.Equal(t, "/docs/a.md", p)
}

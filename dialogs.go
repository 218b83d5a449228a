package main

import (
	"errors"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/sqweek/dialog"

	"quillgo/bridge"
)

// nativeDialogs shows the OS file choosers on the main thread.
type nativeDialogs struct {
	startDir func() string
}

func newNativeDialogs(startDir func() string) *nativeDialogs {
	return &nativeDialogs{startDir: startDir}
}

func (d *nativeDialogs) OpenFile(filters []bridge.FileFilter) (path string, err error) {
	b := d.builder(filters).Title("Open")
	dispatchToMain(func() { path, err = b.Load() })
	return cleanResult(path, err)
}

func (d *nativeDialogs) SaveFile(defaultName string, filters []bridge.FileFilter) (path string, err error) {
	b := d.builder(filters).Title("Save As").SetStartFile(defaultName)
	dispatchToMain(func() { path, err = b.Save() })
	return cleanResult(path, err)
}

func (d *nativeDialogs) builder(filters []bridge.FileFilter) *dialog.FileBuilder {
	b := dialog.File()
	for _, f := range dialogFilters(runtime.GOOS, filters) {
		b = b.Filter(f.Name, f.Extensions...)
	}
	if d.startDir != nil {
		if dir := d.startDir(); dir != "" {
			b = b.SetStartDir(dir)
		}
	}
	return b
}

// dialogFilters drops wildcard filters on Linux, where the GTK backend
// turns "*" into "*.*" and would hide files without an extension.
func dialogFilters(goos string, filters []bridge.FileFilter) []bridge.FileFilter {
	if goos != "linux" {
		return filters
	}
	return slices.DeleteFunc(slices.Clone(filters), func(f bridge.FileFilter) bool {
		return slices.Contains(f.Extensions, "*")
	})
}

func cleanResult(path string, err error) (string, error) {
	if errors.Is(err, dialog.ErrCancelled) {
		return "", bridge.ErrDialogCancelled
	}
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", bridge.ErrDialogCancelled
	}
	return filepath.Clean(path), nil
}

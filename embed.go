// Package dexterm provides embedded runtime resources (the curated highlights
// table) and an overlay filesystem that checks local disk first, falling back
// to embedded.
package dexterm

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed data/highlights.yaml
var rawData embed.FS

// Data is the embedded data filesystem with the "data/" prefix stripped.
var Data = mustSub(rawData, "data")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// OverlayFS returns a filesystem that checks localDir on disk first,
// falling back to the embedded filesystem for files not found locally.
// An empty localDir means embedded only.
func OverlayFS(localDir string, embedded fs.FS) fs.FS {
	return overlayFS{localDir: localDir, embedded: embedded}
}

type overlayFS struct {
	localDir string
	embedded fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) || strings.Contains(name, `\`) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if o.localDir != "" {
		f, err := os.Open(filepath.Join(o.localDir, filepath.FromSlash(name)))
		if err == nil {
			return f, nil
		}
	}
	return o.embedded.Open(name)
}

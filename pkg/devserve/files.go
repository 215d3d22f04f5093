// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package devserve provides a development static file server, with
// content type overrides (WebAssembly in particular) and request logging.
package devserve

import (
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/cactus/mlog"
	"github.com/klauspost/compress/gzhttp"
	"github.com/spf13/afero"
)

const indexPage = "/index.html"

// Config holds configuration data used when creating a FileHandler with
// NewFileHandler.
type Config struct {
	// Root is the directory to serve. Defaults to the working directory.
	Root string
	// Types resolves content types. Defaults to NewTypeMap(nil).
	Types *TypeMap
	// Fs is the filesystem Root is resolved against. Defaults to the
	// os filesystem.
	Fs afero.Fs
	// Gzip enables response compression for clients that accept it.
	Gzip bool
}

// A FileHandler serves files below a root directory, read only.
type FileHandler struct {
	fs    afero.Fs
	types *TypeMap
	files http.Handler
	root  string
}

// NewFileHandler returns a new FileHandler. Returns an error if the root
// directory is missing or is not a directory.
func NewFileHandler(c Config) (*FileHandler, error) {
	base := c.Fs
	if base == nil {
		base = afero.NewOsFs()
	}

	root := c.Root
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("could not resolve root '%s': %w", c.Root, err)
	}

	fi, err := base.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("could not stat root: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("root '%s' is not a directory", root)
	}

	types := c.Types
	if types == nil {
		types = NewTypeMap(nil)
	}

	rootFs := afero.NewReadOnlyFs(afero.NewBasePathFs(base, root))

	var files http.Handler = http.FileServer(afero.NewHttpFs(rootFs))
	if c.Gzip {
		files = gzhttp.GzipHandler(files)
	}

	return &FileHandler{
		fs:    rootFs,
		types: types,
		files: files,
		root:  root,
	}, nil
}

// Root returns the absolute directory being served.
func (fh *FileHandler) Root() string {
	return fh.root
}

// ServeHTTP rejects paths escaping the root, sets the content type for
// regular files, and hands off to the stdlib file server for the rest
// (directory listings, index pages, ranges, conditional requests).
func (fh *FileHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if containsDotDot(req.URL.Path) {
		if mlog.HasDebug() {
			mlog.Debugm("rejected path traversal", mlog.Map{"path": req.URL.Path})
		}
		http.Error(w, "403 Forbidden", http.StatusForbidden)
		return
	}

	// the file server redirects directory and index.html requests, so
	// only plain file paths get a content type here.
	upath := path.Clean("/" + req.URL.Path)
	if !strings.HasSuffix(req.URL.Path, "/") && !strings.HasSuffix(upath, indexPage) {
		if fi, err := fh.fs.Stat(upath); err == nil && fi.Mode().IsRegular() {
			w.Header().Set("Content-Type", fh.types.TypeByExtension(path.Ext(upath)))
		}
	}

	fh.files.ServeHTTP(w, req)
}

func containsDotDot(v string) bool {
	if !strings.Contains(v, "..") {
		return false
	}
	for _, ent := range strings.FieldsFunc(v, isSlashRune) {
		if ent == ".." {
			return true
		}
	}
	return false
}

func isSlashRune(r rune) bool { return r == '/' || r == '\\' }

// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package devserve

import (
	"fmt"
	"mime"
	"strings"
)

// DefaultContentType is returned for extensions with no known mapping.
const DefaultContentType = "application/octet-stream"

// DefaultTypeOverrides are extension mappings applied on top of the
// platform mime table.
var DefaultTypeOverrides = map[string]string{
	".wasm": "application/wasm",
}

// A TypeMap resolves file extensions to content types. Overrides win over
// the platform table. A TypeMap is immutable once built.
type TypeMap struct {
	overrides map[string]string
}

// NewTypeMap returns a TypeMap seeded with DefaultTypeOverrides plus the
// supplied extra overrides. Extensions are matched case-insensitively and
// may be given with or without the leading dot.
func NewTypeMap(extra map[string]string) *TypeMap {
	tm := &TypeMap{
		overrides: make(map[string]string, len(DefaultTypeOverrides)+len(extra)),
	}
	for k, v := range DefaultTypeOverrides {
		tm.overrides[normalizeExt(k)] = v
	}
	for k, v := range extra {
		tm.overrides[normalizeExt(k)] = v
	}
	return tm
}

// TypeByExtension returns the content type for ext (".wasm", ".html", ...).
func (tm *TypeMap) TypeByExtension(ext string) string {
	if ext == "" {
		return DefaultContentType
	}
	ext = normalizeExt(ext)
	if ct, ok := tm.overrides[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return DefaultContentType
}

// Overrides returns a copy of the override table.
func (tm *TypeMap) Overrides() map[string]string {
	out := make(map[string]string, len(tm.overrides))
	for k, v := range tm.overrides {
		out[k] = v
	}
	return out
}

// ParseTypeOverride parses a ".ext=type/subtype" pair.
func ParseTypeOverride(s string) (string, string, error) {
	ext, ctype, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", fmt.Errorf("missing '=' in mime-type override '%s'", s)
	}
	ext = strings.TrimSpace(ext)
	ctype = strings.TrimSpace(ctype)
	if ext == "" || ext == "." || ctype == "" {
		return "", "", fmt.Errorf("empty extension or type in mime-type override '%s'", s)
	}
	if _, _, err := mime.ParseMediaType(ctype); err != nil {
		return "", "", fmt.Errorf("bad content type in mime-type override '%s': %w", s, err)
	}
	return normalizeExt(ext), ctype, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

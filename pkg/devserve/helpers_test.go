// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package devserve

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cactus/wasmserve/pkg/router"
	"github.com/spf13/afero"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

const testRoot = "/srv/www"

var wasmBytes = []byte("\x00asm\x01\x00\x00\x00\x01\x04\x01\x60\x00\x00")

var testFiles = map[string]string{
	testRoot + "/hello.txt":             "hello world\n",
	testRoot + "/app/module.wasm":       string(wasmBytes),
	testRoot + "/app/UPPER.WASM":        string(wasmBytes),
	testRoot + "/app/main.js":           "console.log('hi');\n",
	testRoot + "/app/style.css":         "body { margin: 0; }\n",
	testRoot + "/blob.zzzunknown":       "<html>not really html</html>",
	testRoot + "/noext":                 "plain bytes",
	testRoot + "/site/index.html":       "<!doctype html><title>site</title>\n",
	testRoot + "/docs/readme.md":        "# readme\n",
	testRoot + "/docs/guide/intro.html": "<p>intro</p>\n",
	"/srv/secret.txt":                   "outside the root\n",
	"/etc/passwd":                       "root:x:0:0:root:/root:/bin/sh\n",
}

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range testFiles {
		dir := name[:strings.LastIndex(name, "/")]
		assert.NilError(t, fs.MkdirAll(dir, 0o755))
		assert.NilError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func newTestFileHandler(t *testing.T, c Config) *FileHandler {
	t.Helper()
	if c.Fs == nil {
		c.Fs = newTestFs(t)
	}
	if c.Root == "" {
		c.Root = testRoot
	}
	fh, err := NewFileHandler(c)
	assert.NilError(t, err)
	return fh
}

// newTestRouter builds the same chain the daemon runs, minus the access log.
func newTestRouter(t *testing.T, c Config) *router.DumbRouter {
	t.Helper()
	return &router.DumbRouter{
		ServerName:  "wasmserve",
		AddHeaders:  router.DefaultHeaders,
		FileHandler: newTestFileHandler(t, c),
	}
}

func processRequest(t *testing.T, h http.Handler, method, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, "http://example.com/", nil)
	// set the path directly so traversal segments survive untouched
	req.URL.Path = path
	req.RequestURI = path
	record := httptest.NewRecorder()
	h.ServeHTTP(record, req)
	return record.Result()
}

func bodyAssert(t *testing.T, expected string, resp *http.Response) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	assert.Check(t, err)
	assert.Check(t, is.Equal(expected, string(body)), "unexpected response body")
}

func headerAssert(t *testing.T, expected, name string, resp *http.Response) {
	t.Helper()
	assert.Check(t,
		is.Equal(expected, resp.Header.Get(name)),
		"Expected response header mismatch for %s", name,
	)
}

func statusCodeAssert(t *testing.T, expected int, resp *http.Response) {
	t.Helper()
	assert.Check(t,
		is.Equal(expected, resp.StatusCode),
		"Expected %d but got '%d' instead",
		expected, resp.StatusCode,
	)
}

// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestParseHeaders(t *testing.T) {
	t.Parallel()
	headers := parseHeaders([]string{
		"X-Test: one",
		"Cache-Control: no-cache, no-store",
		"broken",
		": novalue",
		"X-Empty:   ",
		"Access-Control-Allow-Origin: http://localhost:3000",
	})
	assert.Check(t, is.DeepEqual(map[string]string{
		"X-Test":                      "one",
		"Cache-Control":               "no-cache, no-store",
		"Access-Control-Allow-Origin": "http://localhost:3000",
	}, headers))
}

func TestParseHeadersDefaults(t *testing.T) {
	t.Parallel()
	headers := parseHeaders(nil)
	assert.Check(t, is.DeepEqual(map[string]string{
		"Access-Control-Allow-Origin": "*",
	}, headers))
}

func TestParseMimeTypes(t *testing.T) {
	t.Parallel()
	overrides := parseMimeTypes([]string{
		".md=text/markdown; charset=utf-8",
		"DATA=application/x-data",
		"nonsense",
	})
	assert.Check(t, is.DeepEqual(map[string]string{
		".md":   "text/markdown; charset=utf-8",
		".data": "application/x-data",
	}, overrides))
}

func TestCLIDefaults(t *testing.T) {
	t.Parallel()
	cli := CLI{}
	parser, err := newParser(&cli)
	assert.NilError(t, err)
	_, err = parser.Parse([]string{})
	assert.NilError(t, err)

	assert.Check(t, is.Equal(":8080", cli.Listen))
	assert.Check(t, is.Equal(".", cli.Root))
	assert.Check(t, is.Equal(0, cli.MaxConns))
	assert.Check(t, !cli.Gzip && !cli.Stats && !cli.Metrics && !cli.Health && !cli.Quiet)
}

func TestCLIRepeatableFlags(t *testing.T) {
	t.Parallel()
	cli := CLI{}
	parser, err := newParser(&cli)
	assert.NilError(t, err)
	_, err = parser.Parse([]string{
		"-H", "Cache-Control: no-cache, no-store",
		"-H", "X-Test: 1",
		"-m", ".md=text/markdown",
		"--listen", "127.0.0.1:9000",
		"-d", "/tmp",
	})
	assert.NilError(t, err)

	assert.Check(t, is.DeepEqual([]string{"Cache-Control: no-cache, no-store", "X-Test: 1"}, cli.Headers))
	assert.Check(t, is.DeepEqual([]string{".md=text/markdown"}, cli.MimeTypes))
	assert.Check(t, is.Equal("127.0.0.1:9000", cli.Listen))
	assert.Check(t, is.Equal("/tmp", cli.Root))
}

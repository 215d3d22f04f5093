// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// wasmserve daemon
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cactus/wasmserve/pkg/devserve"
	"github.com/cactus/wasmserve/pkg/router"
	"github.com/cactus/wasmserve/pkg/stats"

	"github.com/alecthomas/kong"
	"github.com/cactus/mlog"
	"github.com/prometheus/client_golang/prometheus"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
	_ "go.uber.org/automaxprocs"
)

var (
	// ServerName holds the server name string
	ServerName = "wasmserve"
	// ServerVersion holds the server version string
	ServerVersion = "no-version"
)

// CLI holds the command line flags. Defaults serve the working directory
// on all interfaces, port 8080.
type CLI struct {
	Version   kong.VersionFlag `name:"version" short:"V" help:"Print version information and quit"`
	License   bool             `name:"license" help:"Print license information and quit"`
	Listen    string           `name:"listen" default:":8080" help:"Address:Port to bind to for HTTP"`
	Root      string           `name:"root" short:"d" default:"." help:"Directory to serve from"`
	Headers   []string         `name:"header" short:"H" sep:"none" help:"Extra header to return for each response. This option can be used multiple times to add multiple headers"`
	MimeTypes []string         `name:"mime-type" short:"m" sep:"none" help:"Extra .ext=type content type mapping. This option can be used multiple times"`
	Gzip      bool             `name:"gzip" help:"Compress responses for clients that accept gzip"`
	MaxConns  int              `name:"max-conns" default:"0" help:"Maximum concurrent connections (0 for no limit)"`
	Stats     bool             `name:"stats" help:"Enable stats at /_status"`
	Metrics   bool             `name:"metrics" help:"Enable Prometheus metrics at /_metrics"`
	Health    bool             `name:"health" help:"Enable health check at /_health"`
	Quiet     bool             `name:"quiet" short:"q" help:"Do not log each request"`
	NoLogTS   bool             `name:"no-log-ts" help:"Do not add a timestamp to logging"`
	Verbose   bool             `name:"verbose" short:"v" help:"Show verbose (debug) log level output"`
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name(ServerName),
		kong.Description("A static file server for local development, with WebAssembly content types and open CORS"),
		kong.UsageOnError(),
		kong.Vars{"version": version.Print(ServerName)},
	)
}

func main() {
	version.Version = ServerVersion

	cli := CLI{}
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	_, err = parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if cli.License {
		fmt.Printf("%s %s\n\n%s\n", ServerName, ServerVersion, strings.TrimSpace(licenseText))
		os.Exit(0)
	}

	// start out with a very bare logger that only prints
	// the message (no special format or log elements)
	mlog.SetFlags(0)

	addHeaders := parseHeaders(cli.Headers)
	typeOverrides := parseMimeTypes(cli.MimeTypes)

	// now configure a standard logger
	mlog.SetFlags(mlog.Lstd)
	if cli.NoLogTS {
		mlog.SetFlags(mlog.Flags() ^ mlog.Ltimestamp)
	}

	if cli.Verbose {
		mlog.SetFlags(mlog.Flags() | mlog.Ldebug)
		mlog.Debug("debug logging enabled")
	}

	fileHandler, err := devserve.NewFileHandler(devserve.Config{
		Root:  cli.Root,
		Types: devserve.NewTypeMap(typeOverrides),
		Gzip:  cli.Gzip,
	})
	if err != nil {
		mlog.Fatal("Error creating file handler: ", err)
	}

	dumbrouter := &router.DumbRouter{
		ServerName:  ServerName,
		AddHeaders:  addHeaders,
		FileHandler: fileHandler,
		HealthCheck: cli.Health,
	}

	accessLog := &devserve.AccessLog{
		Handler: dumbrouter,
		Quiet:   cli.Quiet,
	}

	if cli.Stats {
		ss := &stats.ServeStats{}
		accessLog.Collector = ss
		mlog.Printf("Enabling stats at %s", router.StatusPath)
		dumbrouter.StatsHandler = stats.Handler(ss)
	}

	if cli.Metrics {
		prometheus.MustRegister(versioncollector.NewCollector(ServerName))
		mlog.Printf("Enabling metrics at %s", router.MetricsPath)
		dumbrouter.MetricsHandler = promhttp.Handler()
	}

	server := devserve.NewServer(devserve.ServerConfig{
		Addr:     cli.Listen,
		MaxConns: cli.MaxConns,
	}, accessLog)

	ln, err := server.Listen()
	if err != nil {
		mlog.Fatal("Could not start server: ", err)
	}

	mlog.Printf("Serving files from: %s", fileHandler.Root())
	mlog.Printf("Serving at %s", devserve.ListenURL(ln))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx, ln); err != nil {
		mlog.Fatal("Server error: ", err)
	}
	mlog.Print("Server stopped")
}

// parseHeaders merges "Name: value" flag values over the default headers.
// Malformed values are logged and skipped.
func parseHeaders(values []string) map[string]string {
	headers := make(map[string]string, len(router.DefaultHeaders)+len(values))
	for k, v := range router.DefaultHeaders {
		headers[k] = v
	}

	for _, v := range values {
		s := strings.SplitN(v, ":", 2)
		if len(s) != 2 {
			mlog.Printf("ignoring bad header: '%s'", v)
			continue
		}

		s0 := strings.TrimSpace(s[0])
		s1 := strings.TrimSpace(s[1])

		if len(s0) == 0 || len(s1) == 0 {
			mlog.Printf("ignoring bad header: '%s'", v)
			continue
		}
		headers[s0] = s1
	}
	return headers
}

// parseMimeTypes turns ".ext=type" flag values into an override table.
// Malformed values are logged and skipped.
func parseMimeTypes(values []string) map[string]string {
	overrides := make(map[string]string, len(values))
	for _, v := range values {
		ext, ctype, err := devserve.ParseTypeOverride(v)
		if err != nil {
			mlog.Printf("ignoring bad mime-type: %s", err)
			continue
		}
		overrides[ext] = ctype
	}
	return overrides
}

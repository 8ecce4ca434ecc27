// Command apiprobe issues GET requests against a host through the apikit
// pipeline and reports the status or error code of each path.
//
//	apiprobe -host api.example.com -token $TOKEN /health /v1/items
//
// Configuration is read from config.yml and APIPROBE_* environment
// variables; see package config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/apikit/apiclient"
	"github.com/kbukum/apikit/component"
	"github.com/kbukum/apikit/config"
	"github.com/kbukum/apikit/corehttp"
	"github.com/kbukum/apikit/endpoint"
	apierrors "github.com/kbukum/apikit/errors"
	"github.com/kbukum/apikit/httpclient"
	"github.com/kbukum/apikit/logger"
	"github.com/kbukum/apikit/observability"
	"github.com/kbukum/apikit/validation"
	"github.com/kbukum/apikit/version"
)

const serviceName = "apiprobe"

var errProbeFailed = errors.New("one or more probes failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

type flags struct {
	configFile  string
	scheme      string
	host        string
	token       string
	concurrency int
	showVersion bool
	paths       []string
}

func parseFlags(args []string, out io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&f.configFile, "config", "", "path to config.yml (searched for when empty)")
	fs.StringVar(&f.scheme, "scheme", string(corehttp.HTTPS), "http or https")
	fs.StringVar(&f.host, "host", "", "host or host:port to probe")
	fs.StringVar(&f.token, "token", "", "bearer token sent with every probe")
	fs.IntVar(&f.concurrency, "concurrency", 4, "requests in flight at once")
	fs.BoolVar(&f.showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	f.paths = fs.Args()
	if len(f.paths) == 0 {
		f.paths = []string{"/"}
	}
	if f.showVersion {
		return f, nil
	}
	return f, f.validate()
}

func (f flags) validate() error {
	v := validation.New().
		Required("host", f.host).
		OneOf("scheme", f.scheme, []string{string(corehttp.HTTP), string(corehttp.HTTPS)}).
		Positive("concurrency", int64(f.concurrency))
	for _, p := range f.paths {
		v.Custom(strings.HasPrefix(p, "/"), "path", fmt.Sprintf("%q must start with /", p))
	}
	return v.Err()
}

func run(ctx context.Context, args []string, out io.Writer) error {
	f, err := parseFlags(args, out)
	if err != nil {
		return err
	}
	if f.showVersion {
		_, err := fmt.Fprintln(out, version.Get().String())
		return err
	}

	opts := []config.LoaderOption{config.WithEnvPrefix("APIPROBE")}
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	cfg, err := config.Load[config.ClientConfig](serviceName, opts...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)

	transport := httpclient.NewComponent(cfg.Transport, httpclient.WithLogger(log))
	registry := component.NewRegistry(log)
	for _, c := range []component.Component{observability.NewComponent(cfg.Observability), transport} {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	if err := registry.StartAll(ctx); err != nil {
		return err
	}
	defer func() {
		if err := registry.StopAll(context.WithoutCancel(ctx)); err != nil {
			log.Warn("shutdown incomplete", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	clientOpts, err := cfg.ClientOptions()
	if err != nil {
		return err
	}
	client, err := apiclient.New(transport.Transport(), append(clientOpts, apiclient.WithLogger(log))...)
	if err != nil {
		return err
	}

	base := endpoint.Endpoint{Scheme: corehttp.Scheme(f.scheme), Host: f.host}
	if f.token != "" {
		base.Authorization = corehttp.BearerAuth(f.token)
	}

	results := make([]result, len(f.paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, path := range f.paths {
		ep := base
		ep.Path = path
		g.Go(func() error {
			results[i] = probe(gctx, client, ep)
			return nil
		})
	}
	_ = g.Wait()

	return report(out, results)
}

type result struct {
	path    string
	status  int
	code    string
	message string
	elapsed time.Duration
}

func (r result) failed() bool { return r.code != "" }

// probe accepts any response body; only the status range is checked.
func probe(ctx context.Context, client *apiclient.Client, ep endpoint.Endpoint) result {
	start := time.Now()
	resp, err := client.DoRaw(ctx, ep, apiclient.WithMimeTypes())
	r := result{path: ep.Path, elapsed: time.Since(start)}
	if err != nil {
		apiErr := apierrors.Wrap(err)
		r.status = apiErr.StatusCode()
		r.code = apiErr.Code()
		r.message = apiErr.Message()
		return r
	}
	r.status = resp.StatusCode
	return r
}

func report(out io.Writer, results []result) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	failed := 0
	for _, r := range results {
		status := "-"
		if r.status > 0 {
			status = fmt.Sprintf("%d", r.status)
		}
		outcome := "ok"
		if r.failed() {
			failed++
			outcome = r.code + " " + r.message
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.path, status, r.elapsed.Round(time.Millisecond), outcome)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errProbeFailed, failed, len(results))
	}
	return nil
}

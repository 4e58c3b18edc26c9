// Command askd serves the AskQL HTTP API.
//
// Configuration is read from the environment:
//
//	LISTEN            address to listen on (:8080)
//	VALUES_FILE       YAML or JSON object of values programs can name;
//	                  reloaded on SIGHUP
//	MAX_PARSE_STEPS   parser step budget, 0 for none
//	MAX_PARSE_DEPTH   parser nesting limit
//	MAX_DEPTH         evaluation nesting limit
//	MAX_FAN_OUT       siblings evaluated at once per node
//	FAILURE_POLICY    best-effort, strict or collect
//	REQUEST_TIMEOUT   per-request deadline
//	RATE_LIMIT        requests per second per client, 0 for none
//	RATE_BURST        burst size for RATE_LIMIT
//	PARSE_CACHE_SIZE  number of parsed programs to keep
//	LOGFILE           log to this file, rotated, instead of stdout
//	LOGSIZE           rotate the log after this many bytes
//	LOGCOUNT          number of old log files to keep
package main

import (
	"context"
	"expvar"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kr/secureheader"

	"github.com/engylemure/askql/core"
	"github.com/engylemure/askql/core/parser"
	"github.com/engylemure/askql/core/vm"
	"github.com/engylemure/askql/core/vm/resources"
	"github.com/engylemure/askql/env"
	"github.com/engylemure/askql/errors"
	"github.com/engylemure/askql/log"
	"github.com/engylemure/askql/log/rotation"
	"github.com/engylemure/askql/metrics"
)

const (
	httpReadTimeout  = 30 * time.Second
	httpWriteTimeout = 2 * time.Minute
)

var (
	// config vars
	listenAddr     = env.String("LISTEN", ":8080")
	valuesFile     = env.String("VALUES_FILE", "")
	maxParseSteps  = env.Int("MAX_PARSE_STEPS", 1e6)
	maxParseDepth  = env.Int("MAX_PARSE_DEPTH", parser.DefaultMaxDepth)
	maxDepth       = env.Int("MAX_DEPTH", vm.DefaultMaxDepth)
	maxFanOut      = env.Int("MAX_FAN_OUT", vm.DefaultMaxFanOut)
	failurePolicy  = env.OneOf("FAILURE_POLICY", vm.BestEffort.String(), vm.BestEffort.String(), vm.Strict.String(), vm.Collect.String())
	requestTimeout = env.Duration("REQUEST_TIMEOUT", 10*time.Second)
	rateLimit      = env.Float64("RATE_LIMIT", 0)
	rateBurst      = env.Int("RATE_BURST", 20)
	parseCacheSize = env.Int("PARSE_CACHE_SIZE", core.DefaultCacheSize)
	logFile        = env.String("LOGFILE", "")
	logSize        = env.Int("LOGSIZE", 5e6) // 5MB
	logCount       = env.Int("LOGCOUNT", 9)

	// build vars; initialized by the linker
	buildTag    = "dev"
	buildCommit = "?"
	buildDate   = "?"
)

func init() {
	expvar.NewString("buildtag").Set(buildTag)
	expvar.NewString("builddate").Set(buildDate)
	expvar.NewString("buildcommit").Set(buildCommit)
}

func main() {
	ctx := context.Background()
	env.Parse()

	stdlog.SetPrefix("askd-" + buildTag + ": ")
	stdlog.SetFlags(stdlog.Lshortfile)
	log.SetPrefix("app", "askd", "buildtag", buildTag, "pid", os.Getpid())
	log.SetOutput(logWriter())

	policy, err := vm.ParsePolicy(*failurePolicy)
	if err != nil {
		log.Fatalkv(ctx, log.KeyError, err)
	}
	config := vm.Config{Policy: policy, MaxDepth: *maxDepth, MaxFanOut: *maxFanOut}

	m, err := loadVM(config)
	if err != nil {
		log.Fatalkv(ctx, log.KeyError, err)
	}

	h := core.NewHandler(m, core.NewParseCache(*parseCacheSize,
		parser.MaxSteps(*maxParseSteps),
		parser.MaxDepth(*maxParseDepth),
	))
	h.Timeout = *requestTimeout
	h.RateLimit = *rateLimit
	h.RateBurst = *rateBurst

	go reloadOnHangup(ctx, h, config)
	go rotateLatencies()

	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())
	mux.Handle("/", h)

	secureheader.DefaultConfig.PermitClearLoopback = true
	secureheader.DefaultConfig.HTTPSRedirect = false
	secureheader.DefaultConfig.Next = mux

	server := &http.Server{
		Addr:         *listenAddr,
		Handler:      secureheader.DefaultConfig,
		ReadTimeout:  httpReadTimeout,
		WriteTimeout: httpWriteTimeout,
	}
	log.Printkv(ctx, log.KeyMessage, "listening", "addr", *listenAddr, "policy", policy)
	err = server.ListenAndServe()
	if err != nil {
		log.Fatalkv(ctx, log.KeyError, errors.Wrap(err, "ListenAndServe"))
	}
}

// loadVM builds a VM with the built-in resources and the
// contents of VALUES_FILE, if set.
func loadVM(config vm.Config) (*vm.VM, error) {
	opts := resources.Default()
	if *valuesFile != "" {
		values, err := core.ReadValues(*valuesFile)
		if err != nil {
			return nil, err
		}
		opts.BindObject(values)
	}
	return vm.New(opts, config), nil
}

func reloadOnHangup(ctx context.Context, h *core.Handler, config vm.Config) {
	setHealth := h.HealthSetter("values")
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	for range hup {
		m, err := loadVM(config)
		setHealth(err)
		if err != nil {
			log.Error(ctx, err, "reloading values")
			continue
		}
		h.SetVM(m)
		log.Printkv(ctx, log.KeyMessage, "values reloaded", "file", *valuesFile)
	}
}

func rotateLatencies() {
	for range time.Tick(metrics.Period) {
		core.RotateLatencies()
	}
}

func logWriter() io.Writer {
	if *logFile == "" {
		return os.Stdout
	}
	return &errlog{w: rotation.Create(*logFile, *logSize, *logCount)}
}

type errlog struct {
	w io.Writer
	t time.Time // protected by the log package's mutex
}

func (w *errlog) Write(p []byte) (int, error) {
	// We don't want to ruin our performance
	// when there's a persistent error
	// writing to a log sink.
	// Print to stderr at most once per minute.
	_, err := w.w.Write(p)
	if err != nil && time.Since(w.t) > time.Minute {
		stdlog.Println("askql/log:", err)
		w.t = time.Now()
	}
	return len(p), nil
}

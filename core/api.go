// Package core implements the AskQL HTTP API.
package core

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/engylemure/askql/core/askcode"
	"github.com/engylemure/askql/core/vm"
	"github.com/engylemure/askql/errors"
	"github.com/engylemure/askql/metrics"
	"github.com/engylemure/askql/net/http/gzip"
	"github.com/engylemure/askql/net/http/httpjson"
	"github.com/engylemure/askql/net/http/limit"
	"github.com/engylemure/askql/net/http/reqid"
)

// Handler serves the AskQL HTTP API:
//
//	POST /ask    {"code": "...", "values": {...}}
//	POST /parse  {"code": "..."}
//	GET  /health
//
// /ask answers 200 with the program's value, or 400 with null if
// the program fails to parse or evaluate. /parse answers with the
// program tree or a structured error.
type Handler struct {
	Parser *ParseCache

	// Timeout bounds each request. Zero means no limit.
	Timeout time.Duration

	// RateLimit, if positive, is the per-client request rate,
	// in requests per second, with bursts of up to RateBurst.
	RateLimit float64
	RateBurst int

	current atomic.Pointer[vm.VM]

	once    sync.Once
	handler http.Handler

	healthMu     sync.Mutex
	healthErrors map[string]string
}

// NewHandler returns a Handler evaluating programs with m.
func NewHandler(m *vm.VM, p *ParseCache) *Handler {
	h := &Handler{Parser: p}
	h.current.Store(m)
	return h
}

// SetVM replaces the VM used for subsequent requests.
// It is safe to call while serving.
func (h *Handler) SetVM(m *vm.VM) {
	h.current.Store(m)
}

// VM returns the VM currently used for requests.
func (h *Handler) VM() *vm.VM {
	return h.current.Load()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.once.Do(h.init)
	h.handler.ServeHTTP(w, req)
}

func (h *Handler) init() {
	if h.Parser == nil {
		h.Parser = NewParseCache(0)
	}

	m := http.NewServeMux()
	m.Handle("/ask", methodHandler("POST", http.HandlerFunc(h.ask)))
	m.Handle("/parse", methodHandler("POST", http.HandlerFunc(h.parse)))
	m.Handle("/health", methodHandler("GET", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		httpjson.Write(req.Context(), w, http.StatusOK, h.health())
	})))
	m.Handle("/", alwaysError(errNotFound))

	var handler http.Handler = m
	handler = timeoutHandler(handler, h.Timeout)
	handler = latencyHandler(m, handler)
	if h.RateLimit > 0 {
		handler = limit.Handler(handler, alwaysError(errRateLimited), h.RateLimit, h.RateBurst, limit.RemoteHostID)
	}
	handler = gzip.Handler{Handler: handler}
	handler = metrics.Handler{Handler: handler}
	handler = reqid.Handler(handler)
	h.handler = handler
}

type askRequest struct {
	Code   string          `json:"code"`
	Values json.RawMessage `json:"values"`
}

func (h *Handler) ask(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	v, err := h.evaluate(ctx, req)
	if err != nil {
		errorFormatter.Log(ctx, err)
		httpjson.Write(ctx, w, http.StatusBadRequest, nil)
		return
	}
	httpjson.Write(ctx, w, http.StatusOK, v)
}

func (h *Handler) evaluate(ctx context.Context, req *http.Request) (askcode.Value, error) {
	var x askRequest
	if err := httpjson.Read(ctx, req.Body, &x); err != nil {
		return nil, err
	}
	if x.Code == "" {
		return nil, errMissingCode
	}
	prog, err := h.Parser.Parse(x.Code)
	if err != nil {
		return nil, err
	}
	m := h.VM()
	if len(x.Values) > 0 {
		values, err := DecodeValues(x.Values)
		if err != nil {
			return nil, err
		}
		m = m.With(vm.ObjectScope(values))
	}
	v, err := m.Run(ctx, prog, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "evaluating program")
	}
	return v, nil
}

type parseRequest struct {
	Code string `json:"code"`
}

func (h *Handler) parse(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	var x parseRequest
	err := httpjson.Read(ctx, req.Body, &x)
	if err != nil {
		errorFormatter.Write(ctx, w, err)
		return
	}
	if x.Code == "" {
		errorFormatter.Write(ctx, w, errMissingCode)
		return
	}
	prog, err := h.Parser.Parse(x.Code)
	if err != nil {
		errorFormatter.Write(ctx, w, err)
		return
	}
	b, err := askcode.EncodeNode(prog)
	if err != nil {
		errorFormatter.Write(ctx, w, err)
		return
	}
	httpjson.Write(ctx, w, http.StatusOK, json.RawMessage(b))
}

func alwaysError(err error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		errorFormatter.Write(req.Context(), w, err)
	})
}

func methodHandler(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.Header().Set("Allow", method)
			errorFormatter.Write(req.Context(), w, errMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func timeoutHandler(next http.Handler, timeout time.Duration) http.Handler {
	if timeout <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func latencyHandler(tab *http.ServeMux, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if l := latency(tab, req); l != nil {
			defer l.RecordSince(time.Now())
		}
		next.ServeHTTP(w, req)
	})
}

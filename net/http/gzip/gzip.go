// Package gzip compresses HTTP responses for clients that accept it.
package gzip

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var pool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed) // #nosec
		return w
	},
}

// Handler gzips the responses of the wrapped Handler when the
// request's Accept-Encoding allows it. Responses without a body
// (HEAD requests, 204 and 304 statuses) are passed through.
type Handler struct {
	Handler http.Handler
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Vary", "Accept-Encoding")
	if r.Method == http.MethodHead || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		h.Handler.ServeHTTP(w, r)
		return
	}
	gw := &responseWriter{ResponseWriter: w}
	defer gw.close()
	h.Handler.ServeHTTP(gw, r)
}

// responseWriter decides whether to compress on the first
// WriteHeader or Write call.
type responseWriter struct {
	http.ResponseWriter
	w           io.Writer
	gz          *gzip.Writer
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.w = w.ResponseWriter
	if code != http.StatusNoContent && code != http.StatusNotModified {
		hdr := w.Header()
		hdr.Set("Content-Encoding", "gzip")
		hdr.Del("Content-Length")
		w.gz = pool.Get().(*gzip.Writer)
		w.gz.Reset(w.ResponseWriter)
		w.w = w.gz
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(p []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	return w.w.Write(p)
}

func (w *responseWriter) close() {
	if w.gz == nil {
		return
	}
	w.gz.Close()
	pool.Put(w.gz)
	w.gz = nil
}

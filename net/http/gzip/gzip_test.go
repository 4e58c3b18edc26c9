package gzip

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func hello(w http.ResponseWriter, r *http.Request) {
	io.WriteString(w, "hello, world")
}

func TestGzip(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/foo", nil)
	r.Header.Set("accept-encoding", "gzip")
	h := Handler{http.HandlerFunc(hello)}
	h.ServeHTTP(w, r)
	if s := w.Header().Get("content-encoding"); s != "gzip" {
		t.Fatalf(`content-encoding = %s want gzip`, s)
	}

	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	b, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "hello, world" {
		t.Errorf("body = %q want %q", b, "hello, world")
	}
}

func TestNoGzip(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/foo", nil)
	h := Handler{http.HandlerFunc(hello)}
	h.ServeHTTP(w, r)
	if w.Header().Get("content-encoding") == "gzip" {
		t.Error("unexpected gzip")
	}
	if w.Body.String() != "hello, world" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)
	r.Header.Set("accept-encoding", "gzip")
	h := Handler{http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})}
	h.ServeHTTP(w, r)
	if w.Header().Get("content-encoding") == "gzip" {
		t.Error("unexpected gzip on 204")
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q want empty", w.Body.String())
	}
}

package reqid

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/engylemure/askql/log"
)

func TestNew(t *testing.T) {
	a, b := New(), New()
	if len(a) != 20 {
		t.Errorf("len(New()) = %d want 20", len(a))
	}
	if a == b {
		t.Errorf("two calls to New returned %s", a)
	}
}

func TestContext(t *testing.T) {
	ctx := NewContext(context.Background(), "abc")
	if got := FromContext(ctx); got != "abc" {
		t.Errorf("FromContext = %q want abc", got)
	}
	if got := FromContext(context.Background()); got != "" {
		t.Errorf("FromContext(empty) = %q want empty", got)
	}
}

func TestHandler(t *testing.T) {
	var seen string
	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		seen = FromContext(req.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if seen == "" {
		t.Fatal("handler saw no request id")
	}
	if got := rec.Header().Get(Header); got != seen {
		t.Errorf("header = %q want %q", got, seen)
	}
}

func TestHandlerPanic(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stdout)

	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/ask", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d want 500", rec.Code)
	}
	if !strings.Contains(buf.String(), "error=boom") {
		t.Errorf("log = %q, want error=boom", buf.String())
	}
}

package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	chainerrors "github.com/engylemure/askql/errors"
	"github.com/engylemure/askql/log"
)

func TestWriteArray(t *testing.T) {
	examples := []struct {
		in   []int
		want string
	}{
		{nil, "[]"},
		{[]int{}, "[]"},
		{make([]int, 0), "[]"},
	}

	for _, ex := range examples {
		rec := httptest.NewRecorder()
		Write(context.Background(), rec, 200, ex.in)
		got := strings.TrimSpace(rec.Body.String())
		if got != ex.want {
			t.Errorf("Write(%v) = %v want %v", ex.in, got, ex.want)
		}
	}
}

func TestWriteErr(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stdout)

	want := "test-error"

	ctx := context.Background()
	resp := &errResponse{httptest.NewRecorder(), errors.New(want)}
	Write(ctx, resp, 200, "ok")
	got := buf.String()
	if !strings.Contains(got, want) {
		t.Errorf("log = %v; should contain %q", got, want)
	}
}

func TestRead(t *testing.T) {
	cases := []struct {
		body    string
		wantErr bool
	}{
		{`{"source": "ask(1)"}`, false},
		{`{"source": 5}`, true},
		{`{"source": "ask(1)"} {}`, true},
		{`{`, true},
		{``, true},
	}

	for i, c := range cases {
		var v struct {
			Source string          `json:"source"`
			Values json.RawMessage `json:"values"`
		}
		err := Read(context.Background(), strings.NewReader(c.body), &v)
		if (err != nil) != c.wantErr {
			t.Errorf("%d: Read(%q) err = %v, want error %v", i, c.body, err, c.wantErr)
		}
		if err != nil && chainerrors.Root(err) != ErrBadRequest {
			t.Errorf("%d: Root(err) = %v want %v", i, chainerrors.Root(err), ErrBadRequest)
		}
	}
}

func TestReadNumber(t *testing.T) {
	var v map[string]interface{}
	err := Read(context.Background(), strings.NewReader(`{"n": 5.2}`), &v)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v["n"].(json.Number); !ok {
		t.Errorf("n decoded as %T, want json.Number", v["n"])
	}
}

type errResponse struct {
	*httptest.ResponseRecorder
	err error
}

func (r *errResponse) Write([]byte) (int, error) {
	return 0, r.err
}

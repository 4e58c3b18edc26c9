package core

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/engylemure/askql/core/parser"
	"github.com/engylemure/askql/core/vm"
	"github.com/engylemure/askql/errors"
)

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		json string
		code int
	}{
		{nil, `{"code":"AQ000","message":"AskQL API Error","temporary":true}`, 500},
		{errNotFound, `{"code":"AQ006","message":"Not found","temporary":false}`, 404},
		{errors.Wrap(vm.ErrUnknownIdentifier, "foo"), `{"code":"AQ200","message":"Unknown identifier","temporary":false}`, 400},
		{errors.WithDetail(parser.ErrEmptyProgram, "foo"), `{"code":"AQ100","message":"Program is empty","detail":"foo","temporary":false}`, 400},
		{errors.WithData(parser.ErrExpecting, "index", 4), `{"code":"AQ101","message":"Unexpected character in program","data":{"index":4},"temporary":false}`, 400},
		{context.DeadlineExceeded, `{"code":"AQ001","message":"Request timed out","temporary":true}`, 408},
		{errRateLimited, `{"code":"AQ007","message":"Request limit exceeded","temporary":true}`, 429},
	}

	for _, test := range cases {
		resp := httptest.NewRecorder()
		errorFormatter.Write(context.Background(), resp, test.err)
		got := strings.TrimSpace(resp.Body.String())
		if got != test.json {
			t.Errorf("errorFormatter.Write(%#v) wrote %s want %s", test.err, got, test.json)
		}
		if resp.Code != test.code {
			t.Errorf("errorFormatter.Write(%#v) wrote status %d want %d", test.err, resp.Code, test.code)
		}
	}
}

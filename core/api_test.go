package core

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/engylemure/askql/core/askcode"
	"github.com/engylemure/askql/core/vm"
	"github.com/engylemure/askql/core/vm/resources"
	"github.com/engylemure/askql/errors"
	"github.com/engylemure/askql/net/http/httperror"
	"github.com/engylemure/askql/net/http/reqid"
)

func newTestHandler(t *testing.T, values askcode.Object) *Handler {
	t.Helper()
	opts := resources.Default()
	opts.BindObject(values)
	return NewHandler(vm.New(opts, vm.Config{}), NewParseCache(10))
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestAsk(t *testing.T) {
	friends := askcode.List{
		askcode.Object{"id": askcode.Number("1"), "firstName": askcode.String("Friend 1")},
		askcode.Object{"id": askcode.Number("2"), "firstName": askcode.String("Friend 2")},
	}
	h := newTestHandler(t, askcode.Object{"friends": friends, "firstName": askcode.String("Friend 1")})

	cases := []struct {
		body string
		code int
		want string
	}{
		{`{"code": "ask(call(get('+'),2,3,4,5.2))"}`, 200, `14.2`},
		{`{"code": "ask(call(get('-'),-2,3,4,5.2))"}`, 200, `-14.2`},
		{`{"code": "ask(query(node('firstName', f(call(get('concat'), call(get('toLowerCase'), get('firstName')), ' is my name')))))"}`, 200, `{"firstName":"friend 1 is my name"}`},
		{`{"code": "node('friends', friends, node('id', id))"}`, 200, `[{"id":1},{"id":2}]`},
		{`{"code": "+(x, 1)", "values": {"x": 41}}`, 200, `42`},
		{`{"code": "firstName", "values": {"firstName": "override"}}`, 200, `"Friend 1"`},
		{`{"code": "+(x, 1)", "values": "x: 41"}`, 400, `null`},
		{`{"code": "nope"}`, 400, `null`},
		{`{"code": "ask(1"}`, 400, `null`},
		{`{"code": ""}`, 400, `null`},
		{`not json`, 400, `null`},
		{`{"code": "` + strings.Repeat("[", 1<<20) + `"}`, 400, `null`},
	}
	for i, c := range cases {
		resp := do(h, "POST", "/ask", c.body)
		if resp.Code != c.code {
			t.Errorf("%d: status %d want %d", i, resp.Code, c.code)
		}
		if got := strings.TrimSpace(resp.Body.String()); got != c.want {
			t.Errorf("%d: body %s want %s", i, got, c.want)
		}
	}
}

func TestAskTimeout(t *testing.T) {
	opts := resources.Default()
	opts.Register(vm.Resolver{ResourceName: "sleep", Fn: func(ctx context.Context, _ []askcode.Value) (askcode.Value, error) {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err())
		case <-time.After(time.Second):
			return askcode.Null{}, nil
		}
	}})
	h := NewHandler(vm.New(opts, vm.Config{}), nil)
	h.Timeout = 10 * time.Millisecond

	resp := do(h, "POST", "/ask", `{"code": "sleep()"}`)
	if resp.Code != 400 {
		t.Errorf("status %d want 400", resp.Code)
	}
}

func TestParse(t *testing.T) {
	h := newTestHandler(t, nil)

	resp := do(h, "POST", "/parse", `{"code": "ask(x, 1)"}`)
	if resp.Code != 200 {
		t.Fatalf("status %d want 200: %s", resp.Code, resp.Body)
	}
	want := `{"name":"ask","params":[{"name":"x"},{"kind":"number","value":"1"}]}`
	var got, wantv interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	json.Unmarshal([]byte(want), &wantv)
	if !jsonEqual(got, wantv) {
		t.Errorf("body %s want %s", resp.Body, want)
	}

	cases := []struct {
		body   string
		status int
		code   string
	}{
		{`{"code": "ask(1"}`, 400, "AQ101"},
		{`{"code": "  "}`, 400, "AQ100"},
		{`{"code": ""}`, 400, "AQ009"},
		{`{"code": 1}`, 400, "AQ003"},
		{`{"code": "` + strings.Repeat("[", 1<<16) + `"}`, 400, "AQ104"},
	}
	for i, c := range cases {
		resp := do(h, "POST", "/parse", c.body)
		if resp.Code != c.status {
			t.Errorf("%d: status %d want %d", i, resp.Code, c.status)
		}
		errResp, ok := httperror.Parse(resp.Body)
		if !ok {
			t.Errorf("%d: body is not an error response", i)
			continue
		}
		if errResp.Code != c.code {
			t.Errorf("%d: code %s want %s", i, errResp.Code, c.code)
		}
	}
}

func jsonEqual(a, b interface{}) bool {
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	return bytes.Equal(ab, bb)
}

func TestRouting(t *testing.T) {
	h := newTestHandler(t, nil)

	resp := do(h, "GET", "/ask", "")
	if resp.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /ask status %d want 405", resp.Code)
	}
	if resp.Header().Get("Allow") != "POST" {
		t.Errorf("Allow = %q want POST", resp.Header().Get("Allow"))
	}

	resp = do(h, "GET", "/nowhere", "")
	if resp.Code != http.StatusNotFound {
		t.Errorf("GET /nowhere status %d want 404", resp.Code)
	}

	resp = do(h, "GET", "/health", "")
	if resp.Code != 200 {
		t.Errorf("GET /health status %d want 200", resp.Code)
	}
	if got := strings.TrimSpace(resp.Body.String()); got != `{"errors":{}}` {
		t.Errorf("health = %s", got)
	}
	if resp.Header().Get(reqid.Header) == "" {
		t.Error("missing request id header")
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, nil)
	set := h.HealthSetter("values")
	set(errors.New("bad values file"))

	resp := do(h, "GET", "/health", "")
	if got := strings.TrimSpace(resp.Body.String()); got != `{"errors":{"values":"bad values file"}}` {
		t.Errorf("health = %s", got)
	}

	set(nil)
	resp = do(h, "GET", "/health", "")
	if got := strings.TrimSpace(resp.Body.String()); got != `{"errors":{}}` {
		t.Errorf("health = %s", got)
	}
}

func TestSetVM(t *testing.T) {
	h := newTestHandler(t, askcode.Object{"v": askcode.String("old")})
	if got := strings.TrimSpace(do(h, "POST", "/ask", `{"code": "v"}`).Body.String()); got != `"old"` {
		t.Errorf("v = %s want old", got)
	}

	opts := resources.Default()
	opts.Bind("v", askcode.String("new"))
	h.SetVM(vm.New(opts, vm.Config{}))
	if got := strings.TrimSpace(do(h, "POST", "/ask", `{"code": "v"}`).Body.String()); got != `"new"` {
		t.Errorf("v = %s want new", got)
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestHandler(t, nil)
	h.RateLimit = 0.001
	h.RateBurst = 1

	if resp := do(h, "POST", "/ask", `{"code": "1"}`); resp.Code != 200 {
		t.Errorf("first request status %d want 200", resp.Code)
	}
	if resp := do(h, "POST", "/ask", `{"code": "1"}`); resp.Code != http.StatusTooManyRequests {
		t.Errorf("second request status %d want 429", resp.Code)
	}
}

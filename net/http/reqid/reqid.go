// Package reqid creates request IDs and stores them in Contexts.
package reqid

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/engylemure/askql/log"
)

// Header is the response header that carries the request ID.
const Header = "Ask-Request-Id"

// key is an unexported type for keys defined in this package.
// This prevents collisions with keys defined in other packages.
type key int

// reqIDKey is the key for request IDs in Contexts. It is
// unexported; clients use NewContext and FromContext
// instead of using this key directly.
const reqIDKey key = 0

// New generates a random request ID.
func New() string {
	// 80 random bits keep the collision probability negligible
	// for any realistic request rate.
	b := make([]byte, 10)
	_, err := rand.Read(b)
	if err != nil {
		log.Printf(context.Background(), "error making reqID")
	}
	return hex.EncodeToString(b)
}

// NewContext returns a new Context that carries reqid.
// It also adds a log prefix to print the request ID using
// package log.
func NewContext(ctx context.Context, reqid string) context.Context {
	ctx = context.WithValue(ctx, reqIDKey, reqid)
	ctx = log.AddPrefixkv(ctx, "reqid", reqid)
	return ctx
}

// FromContext returns the request ID stored in ctx,
// if any.
func FromContext(ctx context.Context) string {
	reqID, _ := ctx.Value(reqIDKey).(string)
	return reqID
}

// Handler assigns a fresh request ID to every request,
// echoes it in the response header, and logs panics
// that escape handler.
func Handler(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		id := New()
		ctx = NewContext(ctx, id)

		defer func() {
			if err := recover(); err != nil {
				log.Printkv(ctx,
					log.KeyMessage, "panic",
					"remote-addr", req.RemoteAddr,
					log.KeyError, err,
				)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		w.Header().Add(Header, id)
		handler.ServeHTTP(w, req.WithContext(ctx))
	})
}

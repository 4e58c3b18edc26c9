// Package metrics provides metrics-related utilities.
// Defined metrics:
//   requests (counter)
//   respcode.200 (counter)
//   respcode.404 (counter)
//   respcode.NNN (etc)
//   latency (expvar map of RotatingLatency, see PublishLatency)
package metrics

import (
	"net/http"
	"strconv"

	"github.com/codahale/metrics"
)

// Handler counts requests and response codes in metrics.
// See the package doc for metric names.
type Handler struct {
	Handler http.Handler
}

func (h Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	metrics.Counter("requests").Add()
	h.Handler.ServeHTTP(&codeCountResponse{ResponseWriter: w}, req)
}

type codeCountResponse struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *codeCountResponse) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	metrics.Counter("respcode." + strconv.Itoa(code)).Add()
	w.ResponseWriter.WriteHeader(code)
}

func (w *codeCountResponse) Write(p []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	return w.ResponseWriter.Write(p)
}

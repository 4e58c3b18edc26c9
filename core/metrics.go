package core

import (
	"net/http"
	"sync"
	"time"

	"github.com/engylemure/askql/metrics"
)

var (
	latencyMu sync.Mutex
	latencies = map[string]*metrics.RotatingLatency{}
)

// latency returns a rotating latency histogram for the given request.
func latency(tab *http.ServeMux, req *http.Request) *metrics.RotatingLatency {
	latencyMu.Lock()
	defer latencyMu.Unlock()
	if l := latencies[req.URL.Path]; l != nil {
		return l
	}
	// Create a histogram only if the path is legit.
	if _, pat := tab.Handler(req); pat == req.URL.Path {
		l := metrics.NewRotating(5, 5*time.Second)
		latencies[req.URL.Path] = l
		metrics.PublishLatency(req.URL.Path, l)
		return l
	}
	return nil
}

// RotateLatencies starts a new bucket in every request latency
// histogram. Call it every metrics.Period.
func RotateLatencies() {
	latencyMu.Lock()
	defer latencyMu.Unlock()
	for _, l := range latencies {
		l.Rotate()
	}
}

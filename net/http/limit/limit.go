// Package limit throttles HTTP requests per client key.
package limit

import (
	"net"
	"net/http"
	"sync"

	"github.com/golang/groupcache/lru"
	"golang.org/x/time/rate"
)

// maxBuckets bounds the number of distinct keys tracked at once.
// The least recently seen key is forgotten first.
const maxBuckets = 10000

// BucketLimiter keeps one token bucket per key.
type BucketLimiter struct {
	freq  rate.Limit
	burst int

	bucketMu sync.Mutex // protects the following
	buckets  *lru.Cache
}

// NewBucketLimiter returns a limiter allowing freq events per
// second for each key, with bursts of up to burst events.
func NewBucketLimiter(freq float64, burst int) *BucketLimiter {
	return &BucketLimiter{
		freq:    rate.Limit(freq),
		burst:   burst,
		buckets: lru.New(maxBuckets),
	}
}

// Allow reports whether an event for id may happen now.
func (b *BucketLimiter) Allow(id string) bool {
	return b.bucket(id).Allow()
}

func (b *BucketLimiter) bucket(id string) *rate.Limiter {
	b.bucketMu.Lock()
	defer b.bucketMu.Unlock()
	if v, ok := b.buckets.Get(id); ok {
		return v.(*rate.Limiter)
	}
	bucket := rate.NewLimiter(b.freq, b.burst)
	b.buckets.Add(id, bucket)
	return bucket
}

type handler struct {
	next    http.Handler
	limited http.Handler
	f       func(*http.Request) string

	limiter *BucketLimiter
}

// Handler serves requests with next while the key returned by f
// stays within its budget, and with limited otherwise.
func Handler(next, limited http.Handler, freq float64, burst int, f func(*http.Request) string) http.Handler {
	return &handler{
		next:    next,
		limited: limited,
		f:       f,
		limiter: NewBucketLimiter(freq, burst),
	}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := h.f(r)
	if !h.limiter.Allow(id) {
		h.limited.ServeHTTP(w, r)
		return
	}
	h.next.ServeHTTP(w, r)
}

// RemoteHostID keys requests by the host part of the remote address,
// so that one client's connections share a bucket.
func RemoteHostID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

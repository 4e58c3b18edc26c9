package metrics

import (
	"encoding/json"
	"expvar"
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"
)

// Period is the recommended interval between calls to Rotate.
const Period = time.Minute

var latencyMap = expvar.NewMap("latency")

// PublishLatency makes r visible under the "latency" expvar map.
// It panics if key is already published.
func PublishLatency(key string, r *RotatingLatency) {
	if latencyMap.Get(key) != nil {
		panic("metrics: latency " + key + " already published")
	}
	latencyMap.Set(key, r)
}

// A RotatingLatency holds a window of latency histograms.
// Each Rotate starts a new bucket and drops the oldest one.
// Values above the configured maximum are counted as Over
// instead of being recorded.
type RotatingLatency struct {
	mu      sync.Mutex
	max     time.Duration
	buckets []bucket // oldest first; the last one is current
	numRot  int
}

type bucket struct {
	h    *hdrhistogram.Histogram
	over uint64
	time time.Time
}

// NewRotating returns a RotatingLatency with n buckets
// recording durations up to max.
func NewRotating(n int, max time.Duration) *RotatingLatency {
	if n < 1 {
		n = 1
	}
	r := &RotatingLatency{max: max}
	now := time.Now()
	for i := 0; i < n; i++ {
		r.buckets = append(r.buckets, bucket{
			h:    hdrhistogram.New(0, int64(max), 2),
			time: now,
		})
	}
	return r
}

// Record records d in the current bucket.
func (r *RotatingLatency) Record(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := &r.buckets[len(r.buckets)-1]
	if d > r.max || b.h.RecordValue(int64(d)) != nil {
		b.over++
	}
}

// RecordSince records the time elapsed since t0.
// It is meant to be deferred:
//
//	defer latency.RecordSince(time.Now())
func (r *RotatingLatency) RecordSince(t0 time.Time) {
	r.Record(time.Since(t0))
}

// Rotate discards the oldest bucket and starts a new, empty one.
func (r *RotatingLatency) Rotate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	oldest := r.buckets[0]
	copy(r.buckets, r.buckets[1:])
	oldest.h.Reset()
	oldest.over = 0
	oldest.time = time.Now()
	r.buckets[len(r.buckets)-1] = oldest
	r.numRot++
}

type latencyBucket struct {
	Over      uint64                 `json:"Over"`
	Timestamp int64                  `json:"Timestamp"`
	Histogram *hdrhistogram.Snapshot `json:"Histogram"`
}

type latencySnapshot struct {
	NumRot  int             `json:"NumRot"`
	Buckets []latencyBucket `json:"Buckets"`
}

func (r *RotatingLatency) snapshot() latencySnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := latencySnapshot{NumRot: r.numRot}
	for _, b := range r.buckets {
		s.Buckets = append(s.Buckets, latencyBucket{
			Over:      b.over,
			Timestamp: b.time.Unix(),
			Histogram: b.h.Export(),
		})
	}
	return s
}

// String returns r as a JSON text, satisfying expvar.Var.
func (r *RotatingLatency) String() string {
	b, err := json.Marshal(r.snapshot())
	if err != nil {
		return "{}"
	}
	return string(b)
}

package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/AIDetect/internal/client"
	"github.com/yildizm/AIDetect/internal/detect"
)

// Submitter sends one request to the analysis service
type Submitter interface {
	Submit(ctx context.Context, req detect.Request) (*client.Response, error)
}

// Stats counts submissions and how they ended. Request counters are
// updated from task goroutines, outcome counters from the event loop.
type Stats struct {
	submitted       *Counter
	responses       *Counter
	transportErrors *Counter
	succeeded       *Counter
	failed          *Counter
	latency         map[detect.SubmissionKind]*Timer
	now             func() time.Time
}

// NewStats creates empty statistics
func NewStats() *Stats {
	return &Stats{
		submitted:       NewCounter("submitted"),
		responses:       NewCounter("responses"),
		transportErrors: NewCounter("transport_errors"),
		succeeded:       NewCounter("succeeded"),
		failed:          NewCounter("failed"),
		latency: map[detect.SubmissionKind]*Timer{
			detect.KindFile: NewTimer("file_latency"),
			detect.KindText: NewTimer("text_latency"),
		},
		now: time.Now,
	}
}

// Track wraps s so every request it sends is counted and timed
func (st *Stats) Track(s Submitter) Submitter {
	return &trackedSubmitter{inner: s, stats: st}
}

// Observe records the outcome of a state transition; only settled states count
func (st *Stats) Observe(state detect.State) {
	switch state.Phase {
	case detect.PhaseSuccess:
		st.succeeded.Inc()
	case detect.PhaseFailure:
		st.failed.Inc()
	}
}

func (st *Stats) recordRequest(kind detect.SubmissionKind, elapsed time.Duration, err error) {
	if err != nil {
		st.transportErrors.Inc()
	} else {
		st.responses.Inc()
	}
	if t, ok := st.latency[kind]; ok {
		t.Record(elapsed)
	}
}

// LatencySummary describes request durations for one submission kind
type LatencySummary struct {
	Count int64         `json:"count"`
	Avg   time.Duration `json:"avg_ns"`
	Min   time.Duration `json:"min_ns"`
	Max   time.Duration `json:"max_ns"`
}

// Snapshot is a point-in-time copy of the statistics
type Snapshot struct {
	Submitted       int64                     `json:"submitted"`
	Responses       int64                     `json:"responses"`
	TransportErrors int64                     `json:"transport_errors"`
	Succeeded       int64                     `json:"succeeded"`
	Failed          int64                     `json:"failed"`
	Latency         map[string]LatencySummary `json:"latency"`
}

// Snapshot returns the current counts
func (st *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Submitted:       st.submitted.Get(),
		Responses:       st.responses.Get(),
		TransportErrors: st.transportErrors.Get(),
		Succeeded:       st.succeeded.Get(),
		Failed:          st.failed.Get(),
		Latency:         make(map[string]LatencySummary, len(st.latency)),
	}
	for kind, t := range st.latency {
		if t.Count() == 0 {
			continue
		}
		snap.Latency[kind.String()] = LatencySummary{
			Count: t.Count(),
			Avg:   t.AvgTime(),
			Min:   t.MinTime(),
			Max:   t.MaxTime(),
		}
	}
	return snap
}

// Summary renders the snapshot as one line per concern
func (s Snapshot) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d submitted: %d succeeded, %d failed", s.Submitted, s.Succeeded, s.Failed)
	if s.TransportErrors > 0 {
		fmt.Fprintf(&b, " (%d without a response)", s.TransportErrors)
	}
	b.WriteString("\n")

	for _, kind := range []string{detect.KindFile.String(), detect.KindText.String()} {
		l, ok := s.Latency[kind]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s latency: avg %s, min %s, max %s over %d requests\n",
			kind, round(l.Avg), round(l.Min), round(l.Max), l.Count)
	}
	return b.String()
}

func round(d time.Duration) time.Duration {
	if d >= time.Second {
		return d.Round(10 * time.Millisecond)
	}
	return d.Round(time.Millisecond)
}

type trackedSubmitter struct {
	inner Submitter
	stats *Stats
}

func (t *trackedSubmitter) Submit(ctx context.Context, req detect.Request) (*client.Response, error) {
	t.stats.submitted.Inc()
	start := t.stats.now()

	resp, err := t.inner.Submit(ctx, req)

	elapsed := t.stats.now().Sub(start)
	if resp != nil && resp.Elapsed > 0 {
		elapsed = resp.Elapsed
	}
	t.stats.recordRequest(req.Kind(), elapsed, err)
	return resp, err
}

// Package events provides observers for store operations: structured
// logging, expvar and Prometheus counters, an in-memory recorder and a
// fan-out.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ajitpratap0/hospital-links/internal/links"
	"github.com/ajitpratap0/hospital-links/internal/metrics"
)

// LogObserver writes every event to a slog logger. Successful operations are
// logged at debug level and refusals at info level.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// Observe implements links.Observer.
func (o *LogObserver) Observe(ev links.Event) {
	attrs := []slog.Attr{slog.String("op", string(ev.Op))}
	if ev.Kind != "" {
		attrs = append(attrs, slog.String("kind", string(ev.Kind)))
	}
	if ev.Subject != "" {
		attrs = append(attrs, slog.String("subject", ev.Subject))
	}
	if ev.Peer != "" {
		attrs = append(attrs, slog.String("peer", ev.Peer))
	}
	if ev.OK() {
		o.logger.LogAttrs(context.Background(), slog.LevelDebug, "operation applied", attrs...)
		return
	}
	attrs = append(attrs, slog.String("reason", string(ev.Reason)))
	if ev.Err != nil {
		attrs = append(attrs, slog.String("error", ev.Err.Error()))
	}
	o.logger.LogAttrs(context.Background(), slog.LevelInfo, "operation refused", attrs...)
}

// MetricsObserver feeds the expvar counters in package metrics.
type MetricsObserver struct{}

// Observe implements links.Observer.
func (MetricsObserver) Observe(ev links.Event) {
	if !ev.OK() {
		reason := string(ev.Reason)
		if reason == "" {
			reason = "error"
		}
		metrics.Reject(reason)
		return
	}
	switch ev.Op {
	case links.OpEstablish:
		metrics.Inc(metrics.LinksEstablished)
	case links.OpSever, links.OpLeave:
		metrics.Inc(metrics.LinksSevered)
	case links.OpRename:
		metrics.Inc(metrics.EntitiesRenamed)
	case links.OpDelete:
		metrics.Inc(metrics.EntitiesDestroyed)
	}
}

// PromObserver counts operations in a Prometheus counter vector labelled by
// op, kind and result. The result is "ok" or the refusal reason.
type PromObserver struct {
	ops *prometheus.CounterVec
}

// NewPromObserver creates a PromObserver and registers its collector.
func NewPromObserver(reg prometheus.Registerer) (*PromObserver, error) {
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hospital_links_operations_total",
		Help: "Store operations by op, relationship kind and result.",
	}, []string{"op", "kind", "result"})
	if err := reg.Register(ops); err != nil {
		return nil, fmt.Errorf("registering operations counter: %w", err)
	}
	return &PromObserver{ops: ops}, nil
}

// Observe implements links.Observer.
func (o *PromObserver) Observe(ev links.Event) {
	o.ops.WithLabelValues(string(ev.Op), string(ev.Kind), Result(ev)).Inc()
}

// Counter returns the counter for one label combination.
func (o *PromObserver) Counter(op links.Op, kind links.Kind, result string) prometheus.Counter {
	return o.ops.WithLabelValues(string(op), string(kind), result)
}

// Result labels the outcome of ev.
func Result(ev links.Event) string {
	switch {
	case ev.OK():
		return "ok"
	case ev.Reason != "":
		return string(ev.Reason)
	default:
		return "error"
	}
}

// Recorder keeps every event in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []links.Event
}

// Observe implements links.Observer.
func (r *Recorder) Observe(ev links.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []links.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]links.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Rejected returns only the refused operations.
func (r *Recorder) Rejected() []links.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []links.Event
	for _, ev := range r.events {
		if !ev.OK() {
			out = append(out, ev)
		}
	}
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset drops every recorded event.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Multi fans every event out to each observer in order. Nil observers are
// skipped.
func Multi(observers ...links.Observer) links.Observer {
	var list []links.Observer
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return links.ObserverFunc(func(ev links.Event) {
		for _, o := range list {
			o.Observe(ev)
		}
	})
}

// Package progress delivers job snapshots to observers.
//
// The orchestrator hands each Sink the full state of the running batch after
// submission and after every terminal transition. Sinks must not retain the
// payload byte slices beyond the call.
package progress

import (
	"context"

	"silhouette/internal/jobs"
)

// Sink receives batch snapshots. Implementations must not block indefinitely
// and must tolerate cancellation of ctx.
type Sink interface {
	Publish(ctx context.Context, snapshot []jobs.Job)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, snapshot []jobs.Job)

// Publish calls f.
func (f SinkFunc) Publish(ctx context.Context, snapshot []jobs.Job) {
	if f != nil {
		f(ctx, snapshot)
	}
}

// Emit publishes to sink when it is non-nil.
func Emit(ctx context.Context, sink Sink, snapshot []jobs.Job) {
	if sink == nil {
		return
	}
	sink.Publish(ctx, snapshot)
}

type multiSink []Sink

// Multi fans snapshots out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	filtered := make(multiSink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			filtered = append(filtered, sink)
		}
	}
	return filtered
}

func (m multiSink) Publish(ctx context.Context, snapshot []jobs.Job) {
	for _, sink := range m {
		sink.Publish(ctx, snapshot)
	}
}

// ChannelSink forwards snapshots to a channel. Each snapshot is copied so the
// receiver can keep it.
type ChannelSink struct {
	ch chan []jobs.Job
}

// NewChannelSink returns a sink backed by a channel with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 0 {
		buffer = 0
	}
	return &ChannelSink{ch: make(chan []jobs.Job, buffer)}
}

// C exposes the receive side.
func (s *ChannelSink) C() <-chan []jobs.Job { return s.ch }

// Close closes the channel. Publish must not be called afterwards.
func (s *ChannelSink) Close() { close(s.ch) }

// Publish blocks until the snapshot is delivered or ctx ends.
func (s *ChannelSink) Publish(ctx context.Context, snapshot []jobs.Job) {
	cp := make([]jobs.Job, len(snapshot))
	copy(cp, snapshot)
	select {
	case s.ch <- cp:
	case <-ctx.Done():
	}
}

package cache

import (
	"github.com/krisalay/lrucache/clock"
	"github.com/krisalay/lrucache/types"
)

// Option configures a Cache (and every shard of a ShardedCache).
type Option interface {
	apply(*options)
}

type options struct {
	clock   clock.Clock
	metrics types.Metrics
}

// helper Option implementation to quickly define new options
type optionFunc func(*options)

func (f optionFunc) apply(o *options) {
	f(o)
}

func newOptions(opts []Option) options {
	o := options{
		clock:   clock.System(),
		metrics: types.NoopMetrics{},
	}
	for _, opt := range opts {
		opt.apply(&o)
	}
	return o
}

// WithClock sets the time source used for TTL decisions. A nil clock keeps the system clock.
func WithClock(c clock.Clock) Option {
	return optionFunc(func(o *options) {
		if c != nil {
			o.clock = c
		}
	})
}

// WithMetrics sets where hit/miss/eviction/expiration events are reported.
// A nil Metrics keeps the no-op default.
func WithMetrics(m types.Metrics) Option {
	return optionFunc(func(o *options) {
		if m != nil {
			o.metrics = m
		}
	})
}

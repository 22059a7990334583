// Package metrics provides lock-free in-process counters for engine
// operations. Counters are cache-line padded so high-contention paths do
// not false-share.
package metrics

import "sync/atomic"

// MetricID addresses one counter. The set is fixed at compile time.
type MetricID uint8

const (
	// MetricResolveSuccess counts successful identity resolutions.
	MetricResolveSuccess MetricID = iota
	// MetricResolveNotFound counts resolutions that missed the directory.
	MetricResolveNotFound
	// MetricResolveUnsupported counts resolutions rejected for an unknown
	// strategy.
	MetricResolveUnsupported
	// MetricChallengeStored counts challenge records written.
	MetricChallengeStored
	// MetricChallengeHit counts challenge reads that found a record.
	MetricChallengeHit
	// MetricChallengeMiss counts challenge reads for absent or expired ids.
	MetricChallengeMiss
	// MetricChallengeFailure counts challenge store backend failures.
	MetricChallengeFailure
	// MetricNotifySuccess counts notifications observed as succeeded.
	MetricNotifySuccess
	// MetricNotifyUnauthorized counts notify attempts against unregistered
	// identities.
	MetricNotifyUnauthorized
	// MetricNotifyDeliveryFailure counts suppressed outbound channel
	// failures.
	MetricNotifyDeliveryFailure
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Config controls counter behavior at construction time.
type Config struct {
	Enabled bool
}

// Metrics holds one padded counter per MetricID. A disabled instance
// ignores Inc and reports empty snapshots.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Counters map[MetricID]uint64
}

func New(cfg Config) *Metrics {
	return &Metrics{
		enabled: cfg.Enabled,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

func (m *Metrics) Snapshot() Snapshot {
	if m == nil || !m.enabled {
		return Snapshot{Counters: map[MetricID]uint64{}}
	}

	s := Snapshot{
		Counters: make(map[MetricID]uint64, int(metricIDCount)),
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	return s
}

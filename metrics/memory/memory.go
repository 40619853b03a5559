// Package memory implements metrics.Metrics with plain counters for
// tests and single-process tooling.
package memory

import (
	"sync"
	"time"

	"github.com/warp/fare-engine/metrics"
)

type Metrics struct {
	mu sync.Mutex

	ChargesAccepted map[string]int // keyed by variant
	Transfers       int
	ChargesRejected map[string]int // keyed by variant+"/"+reason
	TopUpsAccepted  int
	TopUpsRejected  int
	Durations       []time.Duration
	Accounts        int
}

var _ metrics.Metrics = (*Metrics)(nil)

func New() *Metrics {
	return &Metrics{
		ChargesAccepted: make(map[string]int),
		ChargesRejected: make(map[string]int),
	}
}

func (m *Metrics) ChargeAccepted(variant string, transfer bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChargesAccepted[variant]++
	if transfer {
		m.Transfers++
	}
}

func (m *Metrics) ChargeRejected(variant, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChargesRejected[variant+"/"+reason]++
}

func (m *Metrics) TopUpAccepted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TopUpsAccepted++
}

func (m *Metrics) TopUpRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TopUpsRejected++
}

func (m *Metrics) ObserveChargeDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Durations = append(m.Durations, d)
}

func (m *Metrics) SetAccounts(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accounts = n
}

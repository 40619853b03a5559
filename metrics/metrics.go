// Package metrics defines the observability interface for the fare
// server, with Prometheus and in-memory implementations in
// subpackages. The engine itself stays metrics-free; the API layer
// records outcomes here.
package metrics

import "time"

// Metrics records charge and top-up outcomes.
type Metrics interface {
	// ChargeAccepted counts a successful charge for a variant;
	// transfer marks free-transfer trips.
	ChargeAccepted(variant string, transfer bool)

	// ChargeRejected counts a rejection by machine-readable reason.
	ChargeRejected(variant, reason string)

	// TopUpAccepted / TopUpRejected count reload outcomes.
	TopUpAccepted()
	TopUpRejected()

	// ObserveChargeDuration records end-to-end charge latency.
	ObserveChargeDuration(d time.Duration)

	// SetAccounts tracks the number of registered accounts.
	SetAccounts(n int)
}

// NoOp discards everything.
type NoOp struct{}

func (NoOp) ChargeAccepted(string, bool)         {}
func (NoOp) ChargeRejected(string, string)       {}
func (NoOp) TopUpAccepted()                      {}
func (NoOp) TopUpRejected()                      {}
func (NoOp) ObserveChargeDuration(time.Duration) {}
func (NoOp) SetAccounts(int)                     {}

var _ Metrics = NoOp{}

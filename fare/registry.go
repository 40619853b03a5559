/*
registry.go - In-memory account registry

PURPOSE:
  Holds every live Account aggregate keyed by id. Charges on different
  accounts proceed in parallel; serialization per account happens inside
  the Account itself (its mutex), so the registry only guards the map.

REHYDRATION:
  At startup a persistence collaborator loads stored accounts and Adds
  them here; from then on the registry is the single source of live
  aggregates.
*/
package fare

import (
	"sort"
	"sync"
)

// =============================================================================
// REGISTRY
// =============================================================================

type Registry struct {
	mu       sync.RWMutex
	accounts map[AccountID]*Account
}

func NewRegistry() *Registry {
	return &Registry{accounts: make(map[AccountID]*Account)}
}

// Add registers an aggregate. Fails if the id is already present.
func (r *Registry) Add(acct *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[acct.ID()]; ok {
		return ErrDuplicateAccount
	}
	r.accounts[acct.ID()] = acct
	return nil
}

// Get returns the account for id, or ErrInvalidAccount.
func (r *Registry) Get(id AccountID) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acct, ok := r.accounts[id]
	if !ok {
		return nil, ErrInvalidAccount
	}
	return acct, nil
}

// List returns all accounts ordered by id.
func (r *Registry) List() []*Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Account, 0, len(r.accounts))
	for _, acct := range r.accounts {
		out = append(out, acct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len returns the number of registered accounts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

// internal/application/usecase/locks.go
package usecase

import "sync"

// CustomerLocks serializes all mutating cart/address/order operations for a
// given customer inside this process. The store itself has no row locking,
// so two concurrent read-modify-write cycles against the same cart document
// would lose an increment without this scope.
//
// Entries are refcounted and freed on last unlock, so the map stays bounded
// by the number of in-flight customers.
type CustomerLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewCustomerLocks() *CustomerLocks {
	return &CustomerLocks{entries: map[string]*lockEntry{}}
}

// Lock acquires the per-customer mutex, blocking until available.
func (l *CustomerLocks) Lock(customerID string) {
	l.mu.Lock()
	e, ok := l.entries[customerID]
	if !ok {
		e = &lockEntry{}
		l.entries[customerID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the per-customer mutex acquired by Lock.
func (l *CustomerLocks) Unlock(customerID string) {
	l.mu.Lock()
	e, ok := l.entries[customerID]
	if ok {
		e.refs--
		if e.refs <= 0 {
			delete(l.entries, customerID)
		}
	}
	l.mu.Unlock()

	if ok {
		e.mu.Unlock()
	}
}

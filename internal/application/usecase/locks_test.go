// internal/application/usecase/locks_test.go
package usecase

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCustomerLocksSerializePerCustomer(t *testing.T) {
	locks := NewCustomerLocks()

	const goroutines = 32
	const increments = 100

	counter := 0
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				locks.Lock("cust-1")
				counter++
				locks.Unlock("cust-1")
			}
		}()
	}
	wg.Wait()

	require.Equal(t, goroutines*increments, counter)
}

func TestCustomerLocksEntriesAreFreed(t *testing.T) {
	locks := NewCustomerLocks()

	locks.Lock("cust-1")
	locks.Unlock("cust-1")

	locks.mu.Lock()
	defer locks.mu.Unlock()
	require.Empty(t, locks.entries)
}

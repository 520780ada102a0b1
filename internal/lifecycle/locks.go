package lifecycle

import (
	"sync"

	"github.com/google/uuid"
)

// keyedMutex hands out one mutex per key so transitions on different jobs
// (or different workers' ledgers) never contend with each other. Entries
// are small and jobs are short-lived, so nothing is evicted.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// lock acquires the mutex for the key and returns its unlock function.
func (k *keyedMutex) lock(key uuid.UUID) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserLocksSerialize(t *testing.T) {
	locks := newUserLocks()

	// The counter is only safe because every increment runs under the
	// same user's lock.
	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("user-1")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 32, counter)
}

func TestUserLocksReleaseEntries(t *testing.T) {
	locks := newUserLocks()

	unlock1 := locks.lock("user-1")
	unlock2 := locks.lock("user-2")

	locks.mu.Lock()
	assert.Len(t, locks.locks, 2)
	locks.mu.Unlock()

	unlock1()
	unlock2()

	locks.mu.Lock()
	assert.Empty(t, locks.locks)
	locks.mu.Unlock()
}

func TestUserLocksIndependentUsers(t *testing.T) {
	locks := newUserLocks()

	unlock := locks.lock("user-1")
	defer unlock()

	// A different user's lock is not blocked by user-1's.
	done := make(chan struct{})
	go func() {
		other := locks.lock("user-2")
		other()
		close(done)
	}()
	<-done
}

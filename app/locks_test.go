package app

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortedUnique(t *testing.T) {
	keys := [][]byte{[]byte("c"), []byte("a"), []byte("b"), []byte("a")}
	got := sortedUnique(keys)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, got)
	// The input is not modified.
	assert.Equal(t, []byte("c"), keys[0])
}

func TestKeyLocksExclusive(t *testing.T) {
	locks := newKeyLocks()
	unlock := locks.Lock([][]byte{[]byte("a"), []byte("b")})

	acquired := make(chan struct{})
	go func() {
		// Overlaps on b only, declared in the reverse order.
		u := locks.Lock([][]byte{[]byte("c"), []byte("b")})
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("overlapping scope acquired while locked")
	case <-time.After(50 * time.Millisecond):
	}

	// A disjoint scope is not blocked.
	locks.Lock([][]byte{[]byte("d")})()

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock not released")
	}
}

func TestKeyLocksAreDropped(t *testing.T) {
	locks := newKeyLocks()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keys := [][]byte{[]byte("shared"), {byte(i)}}
			if i%2 == 0 {
				keys = [][]byte{{byte(i)}, []byte("shared")}
			}
			locks.Lock(keys)()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, locks.size())
}

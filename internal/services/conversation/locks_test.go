package conversation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLocks_Serialize(t *testing.T) {
	locks := newSessionLocks()

	unlock, err := locks.Lock(context.Background(), "a")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		unlockB, err := locks.Lock(context.Background(), "a")
		assert.NoError(t, err)
		close(acquired)
		unlockB()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a busy lock")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	<-acquired

	assert.Eventually(t, func() bool { return locks.size() == 0 }, time.Second, 5*time.Millisecond)
}

func TestSessionLocks_IndependentIDs(t *testing.T) {
	locks := newSessionLocks()

	unlockA, err := locks.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	unlockB, err := locks.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()

	assert.Equal(t, 1, locks.size())
}

func TestSessionLocks_ContextCancel(t *testing.T) {
	locks := newSessionLocks()

	unlock, err := locks.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = locks.Lock(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.Equal(t, 0, locks.size())
}

func TestSessionLocks_ManyWaiters(t *testing.T) {
	locks := newSessionLocks()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locks.Lock(context.Background(), "a")
			if !assert.NoError(t, err) {
				return
			}
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, locks.size())
}

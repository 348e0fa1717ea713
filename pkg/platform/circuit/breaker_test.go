package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreakerStartsClosed(t *testing.T) {
	b := New("audit")
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
	assert.Equal(t, "audit", b.Name())
}

func TestOpensAfterFailureThreshold(t *testing.T) {
	b := New("audit", WithFailureThreshold(3))

	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	useFallback, _ = b.RecordFailure()
	assert.False(t, useFallback)

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
}

func TestFailuresWhileOpenDoNotReopen(t *testing.T) {
	b := New("audit", WithFailureThreshold(1))
	_, change := b.RecordFailure()
	assert.True(t, change.Opened)

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened, "already-open breaker reports no transition")
}

func TestSuccessResetsFailureStreak(t *testing.T) {
	b := New("audit", WithFailureThreshold(2))

	b.RecordFailure()
	b.RecordSuccess()
	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback, "streak restarted after the intervening success")
	assert.False(t, change.Opened)
}

func TestClosesAfterSuccessThreshold(t *testing.T) {
	b := New("audit", WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.Equal(t, StateClosed, b.State())
}

func TestFailureResetsSuccessStreak(t *testing.T) {
	b := New("audit", WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()

	b.RecordSuccess()
	b.RecordFailure()
	usePrimary, _ := b.RecordSuccess()
	assert.False(t, usePrimary, "recovery streak restarted after the failure")
}

func TestReset(t *testing.T) {
	b := New("audit", WithFailureThreshold(1))
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())

	// A single failure after reset must not trip a threshold-2 streak.
	b2 := New("audit", WithFailureThreshold(2))
	b2.RecordFailure()
	b2.Reset()
	useFallback, _ := b2.RecordFailure()
	assert.False(t, useFallback)
}

func TestConcurrentRecording(t *testing.T) {
	b := New("audit", WithFailureThreshold(50))

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.RecordFailure()
		}()
	}
	wg.Wait()

	assert.True(t, b.IsOpen(), "100 consecutive failures exceed any threshold of 50")
}

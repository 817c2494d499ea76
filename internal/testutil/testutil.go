package testutil

import (
  "context"
  "sync/atomic"
  "testing"
  "time"

  "github.com/stretchr/testify/require"
)

// TestTimeout is the default timeout for tests
const TestTimeout = 5 * time.Second

// WithTimeout creates a context with the default test timeout
func WithTimeout(t *testing.T) (context.Context, context.CancelFunc) {
  t.Helper()
  return context.WithTimeout(context.Background(), TestTimeout)
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
  t.Helper()
  require.NoError(t, err)
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
  t.Helper()
  require.Error(t, err)
}

// AssertErrorIs fails the test if err does not wrap target
func AssertErrorIs(t *testing.T, err, target error) {
  t.Helper()
  require.ErrorIs(t, err, target)
}

// AssertEqual fails the test if got != want
func AssertEqual[T comparable](t *testing.T, got, want T) {
  t.Helper()
  require.Equal(t, want, got)
}

// AssertNotEqual fails the test if got == want
func AssertNotEqual[T comparable](t *testing.T, got, want T) {
  t.Helper()
  require.NotEqual(t, want, got)
}

// AssertTrue fails the test if cond is false
func AssertTrue(t *testing.T, cond bool) {
  t.Helper()
  require.True(t, cond)
}

// AssertDurationAtLeast fails the test if elapsed is shorter than min
func AssertDurationAtLeast(t *testing.T, elapsed, min time.Duration) {
  t.Helper()
  require.GreaterOrEqualf(t, elapsed, min, "elapsed %v, want at least %v", elapsed, min)
}

// Eventually polls condition every tick until it returns true or waitFor elapses.
func Eventually(t *testing.T, condition func() bool, waitFor, tick time.Duration) {
  t.Helper()
  require.Eventually(t, condition, waitFor, tick)
}

// AssertEventually is Eventually with a one second budget and 5ms ticks.
func AssertEventually(t *testing.T, condition func() bool) {
  t.Helper()
  Eventually(t, condition, time.Second, 5*time.Millisecond)
}

// WaitForInt32 waits until *addr == want.
func WaitForInt32(t *testing.T, addr *int32, want int32, waitFor time.Duration) {
  t.Helper()
  Eventually(t, func() bool { return atomic.LoadInt32(addr) == want }, waitFor, time.Millisecond)
}

// WaitForInt64 waits until *addr == want.
func WaitForInt64(t *testing.T, addr *int64, want int64, waitFor time.Duration) {
  t.Helper()
  Eventually(t, func() bool { return atomic.LoadInt64(addr) == want }, waitFor, time.Millisecond)
}

// Recv waits for a value on ch or fails the test after TestTimeout.
func Recv[T any](t *testing.T, ch <-chan T) T {
  t.Helper()
  select {
  case v := <-ch:
    return v
  case <-time.After(TestTimeout):
    t.Fatal("timed out waiting for value")
  }
  var zero T
  return zero
}

// AssertBlocked fails the test if ch delivers anything within d.
func AssertBlocked[T any](t *testing.T, ch <-chan T, d time.Duration) {
  t.Helper()
  select {
  case v := <-ch:
    t.Fatalf("expected no value, got %v", v)
  case <-time.After(d):
  }
}

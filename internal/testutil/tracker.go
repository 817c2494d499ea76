package testutil

import (
  "sync"
  "testing"

  "github.com/stretchr/testify/require"
)

// CallbackTracker records invocations of a callback such as OnClosing or OnDrop.
type CallbackTracker struct {
  mu     sync.Mutex
  count  int
  values []interface{}
}

// NewCallbackTracker creates an empty tracker.
func NewCallbackTracker() *CallbackTracker {
  return &CallbackTracker{}
}

// Mark records one call, optionally with the value the callback received.
func (c *CallbackTracker) Mark(value ...interface{}) {
  c.mu.Lock()
  defer c.mu.Unlock()
  c.count++
  if len(value) > 0 {
    c.values = append(c.values, value[0])
  }
}

// Called reports whether Mark was called at least once.
func (c *CallbackTracker) Called() bool {
  return c.CallCount() > 0
}

// CallCount returns the number of calls.
func (c *CallbackTracker) CallCount() int {
  c.mu.Lock()
  defer c.mu.Unlock()
  return c.count
}

// Value returns the most recent recorded value, or nil.
func (c *CallbackTracker) Value() interface{} {
  c.mu.Lock()
  defer c.mu.Unlock()
  if len(c.values) == 0 {
    return nil
  }
  return c.values[len(c.values)-1]
}

// Values returns every recorded value in call order.
func (c *CallbackTracker) Values() []interface{} {
  c.mu.Lock()
  defer c.mu.Unlock()
  return append([]interface{}(nil), c.values...)
}

// Reset clears the tracker.
func (c *CallbackTracker) Reset() {
  c.mu.Lock()
  defer c.mu.Unlock()
  c.count = 0
  c.values = nil
}

// AssertCalled fails the test if the callback was never called.
func (c *CallbackTracker) AssertCalled(t *testing.T) {
  t.Helper()
  require.True(t, c.Called(), "callback was not called")
}

// AssertNotCalled fails the test if the callback was called.
func (c *CallbackTracker) AssertNotCalled(t *testing.T) {
  t.Helper()
  require.False(t, c.Called(), "callback was called %d times", c.CallCount())
}

// AssertCallCount fails the test unless the callback was called exactly want times.
func (c *CallbackTracker) AssertCallCount(t *testing.T, want int) {
  t.Helper()
  require.Equal(t, want, c.CallCount())
}

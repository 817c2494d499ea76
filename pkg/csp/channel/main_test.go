package channel

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// Every blocked put or take started by a test must be resolved before it ends.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

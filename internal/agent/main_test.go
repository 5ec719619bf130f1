// internal/agent/main_test.go
package agent

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies no goroutines leak from the orchestrator tests.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

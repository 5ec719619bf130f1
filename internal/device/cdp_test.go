// internal/device/cdp_test.go
package device

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSleepHonorsContext(t *testing.T) {
	s := &CDPSurface{}

	require.NoError(t, s.Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Sleep(ctx, time.Hour), context.Canceled)
}

func TestCaptureHonorsContext(t *testing.T) {
	s := &CDPSurface{cfg: Config{Width: 100, Height: 100}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := s.Capture(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

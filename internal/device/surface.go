// File: internal/device/surface.go
package device

import (
	"context"
	"time"
)

// MouseButton identifies the button used for a click. The values align with
// the CDP input domain.
type MouseButton string

const (
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "middle"
)

// ScrollDirection identifies which way a scroll action moves the viewport.
type ScrollDirection string

const (
	ScrollUp    ScrollDirection = "up"
	ScrollDown  ScrollDirection = "down"
	ScrollLeft  ScrollDirection = "left"
	ScrollRight ScrollDirection = "right"
)

// Config holds every tunable of a device surface as explicit fields.
// There is deliberately no package-level mutable state; a surface gets its
// pause and capture behavior at construction time.
type Config struct {
	// Width and Height define the coordinate space. All coordinates handed
	// to a Surface have already been validated against these bounds by the
	// dispatcher; implementations are not required to re-validate.
	Width  int
	Height int

	// ActionPause is inserted after each input event so the page under
	// control can react before the next event arrives.
	ActionPause time.Duration

	// CaptureTimeout bounds a single screenshot operation.
	CaptureTimeout time.Duration

	// CaptureQuality is the JPEG quality for screenshots (1-99); 100
	// switches the capture to lossless PNG.
	CaptureQuality int

	// StartURL is the page loaded when the surface starts.
	StartURL string

	// Headless controls whether the browser window is shown.
	Headless bool

	// MacKeymap rewrites "ctrl" in key combos to the command key, matching
	// surfaces that use a mac-style keymap.
	MacKeymap bool
}

// Surface exposes the device's action primitives over a fixed coordinate
// space. A single Surface represents one physical input/output resource;
// callers must not drive the same Surface from more than one orchestrator.
type Surface interface {
	// Capture takes a screenshot and returns the encoded image along with
	// its media type.
	Capture(ctx context.Context) (data []byte, mediaType string, err error)

	// Click presses and releases the given button at (x, y). clickCount
	// above one produces double/triple clicks.
	Click(ctx context.Context, button MouseButton, clickCount int, x, y int) error

	// Move places the pointer at (x, y) without pressing anything.
	Move(ctx context.Context, x, y int) error

	// Drag presses the left button at (x1, y1), moves to (x2, y2) over the
	// given duration, and releases.
	Drag(ctx context.Context, x1, y1, x2, y2 int, duration time.Duration) error

	// Type inserts the given text at the current focus.
	Type(ctx context.Context, text string) error

	// Press dispatches a key or key combination such as "enter" or
	// "cmd+shift+t".
	Press(ctx context.Context, combo string) error

	// Scroll scrolls at (x, y) in the given direction by the given number
	// of ticks.
	Scroll(ctx context.Context, x, y int, direction ScrollDirection, amount int) error

	// Sleep pauses for the given duration, respecting context cancellation.
	Sleep(ctx context.Context, d time.Duration) error
}

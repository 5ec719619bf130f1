// File: internal/computer/describe.go
package computer

import (
	"encoding/json"
	"fmt"
	"time"
)

// dragDuration is how long a drag gesture takes end to end.
const dragDuration = 500 * time.Millisecond

// Describe produces a deterministic one-line summary of a tool invocation
// for confirmation prompts and logging. It never touches the device surface
// and never fails: malformed parameters degrade to a description built from
// whatever decoded, ultimately falling back to the bare action name.
func (d *Dispatcher) Describe(raw json.RawMessage) string {
	var in toolInput
	if err := json.Unmarshal(raw, &in); err != nil || in.Action == "" {
		return "Unrecognized action"
	}

	coord := func(c *[2]int) (int, int) {
		if c == nil {
			return 0, 0
		}
		return c[0], c[1]
	}

	switch Kind(in.Action) {
	case KindScreenshot:
		return "Take a screenshot"
	case KindLeftClick:
		x, y := coord(in.Coordinate)
		return fmt.Sprintf("Left click at (%d, %d)", x, y)
	case KindRightClick:
		x, y := coord(in.Coordinate)
		return fmt.Sprintf("Right click at (%d, %d)", x, y)
	case KindMiddleClick:
		x, y := coord(in.Coordinate)
		return fmt.Sprintf("Middle click at (%d, %d)", x, y)
	case KindDoubleClick:
		x, y := coord(in.Coordinate)
		return fmt.Sprintf("Double click at (%d, %d)", x, y)
	case KindTripleClick:
		x, y := coord(in.Coordinate)
		return fmt.Sprintf("Triple click at (%d, %d)", x, y)
	case KindLeftClickDrag:
		sx, sy := coord(in.StartCoordinate)
		ex, ey := coord(in.Coordinate)
		return fmt.Sprintf("Drag from (%d, %d) to (%d, %d)", sx, sy, ex, ey)
	case KindMouseMove:
		x, y := coord(in.Coordinate)
		return fmt.Sprintf("Move mouse to (%d, %d)", x, y)
	case KindType:
		text := ""
		if in.Text != nil {
			text = *in.Text
		}
		return fmt.Sprintf("Type: '%s'", truncate(text, 30))
	case KindKey:
		key := ""
		if in.Key != nil {
			key = *in.Key
		}
		return fmt.Sprintf("Press key: %s", key)
	case KindScroll:
		direction := in.ScrollDirection
		if direction == "" {
			direction = "down"
		}
		amount := defaultScrollAmount
		if in.ScrollAmount != nil {
			amount = *in.ScrollAmount
		}
		return fmt.Sprintf("Scroll %s by %d", direction, amount)
	case KindWait:
		seconds := defaultWaitSeconds
		if in.Duration != nil {
			seconds = *in.Duration
		}
		return fmt.Sprintf("Wait %g seconds", seconds)
	default:
		return in.Action
	}
}

// clickVerb maps a click kind to the verb used in its result text.
func clickVerb(k Kind) string {
	switch k {
	case KindRightClick:
		return "Right"
	case KindMiddleClick:
		return "Middle"
	case KindDoubleClick:
		return "Double"
	case KindTripleClick:
		return "Triple"
	default:
		return "Left"
	}
}

// truncate shortens s to at most n runes, appending an ellipsis when it was
// cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

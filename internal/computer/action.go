// File: internal/computer/action.go
package computer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Singularity-tian/computer-use-experiment/internal/device"
)

// Kind is the closed set of action names the computer tool accepts.
type Kind string

const (
	KindScreenshot    Kind = "screenshot"
	KindLeftClick     Kind = "left_click"
	KindRightClick    Kind = "right_click"
	KindMiddleClick   Kind = "middle_click"
	KindDoubleClick   Kind = "double_click"
	KindTripleClick   Kind = "triple_click"
	KindLeftClickDrag Kind = "left_click_drag"
	KindMouseMove     Kind = "mouse_move"
	KindType          Kind = "type"
	KindKey           Kind = "key"
	KindScroll        Kind = "scroll"
	KindWait          Kind = "wait"
)

// defaultScrollAmount is the number of scroll ticks used when the model
// omits scroll_amount.
const defaultScrollAmount = 3

// defaultWaitSeconds is the wait duration used when the model omits one.
const defaultWaitSeconds = 1.0

// Point is a coordinate pair in the display's pixel space.
type Point struct {
	X int
	Y int
}

// Action is a fully decoded, structurally valid tool invocation. Each
// variant carries only the fields relevant to its kind, so a missing
// required parameter is caught at decode time rather than deep inside
// execution.
type Action interface {
	Kind() Kind
}

// Screenshot captures the current display state. It is the only passive
// action and never requires confirmation.
type Screenshot struct{}

func (Screenshot) Kind() Kind { return KindScreenshot }

// Click presses a mouse button at a coordinate. The five click action names
// (left/right/middle/double/triple) all decode into this variant with the
// button and click count resolved.
type Click struct {
	kind   Kind
	Button device.MouseButton
	Count  int
	At     Point
}

func (c Click) Kind() Kind { return c.kind }

// Drag holds the left button from one coordinate to another.
type Drag struct {
	From Point
	To   Point
}

func (Drag) Kind() Kind { return KindLeftClickDrag }

// MouseMove places the pointer without clicking.
type MouseMove struct {
	At Point
}

func (MouseMove) Kind() Kind { return KindMouseMove }

// TypeText inserts text at the current focus.
type TypeText struct {
	Text string
}

func (TypeText) Kind() Kind { return KindType }

// KeyPress dispatches a key or key combination such as "cmd+c".
type KeyPress struct {
	Combo string
}

func (KeyPress) Kind() Kind { return KindKey }

// Scroll scrolls at a coordinate in one of four directions.
type Scroll struct {
	At        Point
	Direction device.ScrollDirection
	Amount    int
}

func (Scroll) Kind() Kind { return KindScroll }

// Wait pauses for a duration.
type Wait struct {
	Duration time.Duration
}

func (Wait) Kind() Kind { return KindWait }

// toolInput mirrors the wire shape of the computer tool's input payload.
// Pointer fields distinguish "absent" from zero values.
type toolInput struct {
	Action          string   `json:"action"`
	Coordinate      *[2]int  `json:"coordinate,omitempty"`
	StartCoordinate *[2]int  `json:"start_coordinate,omitempty"`
	Text            *string  `json:"text,omitempty"`
	Key             *string  `json:"key,omitempty"`
	ScrollDirection string   `json:"scroll_direction,omitempty"`
	ScrollAmount    *int     `json:"scroll_amount,omitempty"`
	Duration        *float64 `json:"duration,omitempty"`
}

// Decode parses a raw tool input payload into a typed Action. All errors
// returned here are validation errors: the device surface has not been
// touched and the message is safe to hand back to the model verbatim.
func Decode(raw json.RawMessage) (Action, error) {
	var in toolInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("malformed tool input: %v", err)
	}

	point := func(c *[2]int) Point { return Point{X: c[0], Y: c[1]} }

	switch Kind(in.Action) {
	case KindScreenshot:
		return Screenshot{}, nil

	case KindLeftClick, KindRightClick, KindMiddleClick, KindDoubleClick, KindTripleClick:
		if in.Coordinate == nil {
			return nil, fmt.Errorf("coordinate is required for %s", in.Action)
		}
		click := Click{kind: Kind(in.Action), At: point(in.Coordinate), Count: 1, Button: device.ButtonLeft}
		switch Kind(in.Action) {
		case KindRightClick:
			click.Button = device.ButtonRight
		case KindMiddleClick:
			click.Button = device.ButtonMiddle
		case KindDoubleClick:
			click.Count = 2
		case KindTripleClick:
			click.Count = 3
		}
		return click, nil

	case KindLeftClickDrag:
		if in.StartCoordinate == nil || in.Coordinate == nil {
			return nil, fmt.Errorf("start_coordinate and coordinate are required for left_click_drag")
		}
		return Drag{From: point(in.StartCoordinate), To: point(in.Coordinate)}, nil

	case KindMouseMove:
		if in.Coordinate == nil {
			return nil, fmt.Errorf("coordinate is required for mouse_move")
		}
		return MouseMove{At: point(in.Coordinate)}, nil

	case KindType:
		if in.Text == nil {
			return nil, fmt.Errorf("text is required for type")
		}
		return TypeText{Text: *in.Text}, nil

	case KindKey:
		if in.Key == nil {
			return nil, fmt.Errorf("key is required for key action")
		}
		return KeyPress{Combo: *in.Key}, nil

	case KindScroll:
		if in.Coordinate == nil {
			return nil, fmt.Errorf("coordinate is required for scroll")
		}
		if in.ScrollDirection == "" {
			return nil, fmt.Errorf("scroll_direction is required for scroll")
		}
		dir := device.ScrollDirection(in.ScrollDirection)
		switch dir {
		case device.ScrollUp, device.ScrollDown, device.ScrollLeft, device.ScrollRight:
		default:
			return nil, fmt.Errorf("Invalid scroll direction: %s", in.ScrollDirection)
		}
		amount := defaultScrollAmount
		if in.ScrollAmount != nil {
			amount = *in.ScrollAmount
		}
		return Scroll{At: point(in.Coordinate), Direction: dir, Amount: amount}, nil

	case KindWait:
		seconds := defaultWaitSeconds
		if in.Duration != nil {
			seconds = *in.Duration
		}
		return Wait{Duration: time.Duration(seconds * float64(time.Second))}, nil

	default:
		return nil, fmt.Errorf("Unknown action: %s", in.Action)
	}
}

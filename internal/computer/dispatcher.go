// File: internal/computer/dispatcher.go
// Description: Maps decoded actions onto the device surface. Validates
// parameters and coordinate bounds before any device call and normalizes
// every outcome, including device faults, into an Outcome value.

package computer

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Singularity-tian/computer-use-experiment/internal/device"
)

// Dispatcher validates and executes computer tool invocations against a
// device surface.
type Dispatcher struct {
	surface device.Surface
	width   int
	height  int
	logger  *zap.Logger
}

// NewDispatcher creates a Dispatcher bound to one device surface and its
// display bounds.
func NewDispatcher(surface device.Surface, width, height int, logger *zap.Logger) (*Dispatcher, error) {
	if surface == nil {
		return nil, fmt.Errorf("cannot initialize dispatcher with nil surface")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid display bounds %dx%d", width, height)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		surface: surface,
		width:   width,
		height:  height,
		logger:  logger.Named("dispatcher"),
	}, nil
}

// Passive reports whether the invocation is the passive state capture that
// bypasses the confirmation gate. Malformed input is not passive.
func (d *Dispatcher) Passive(raw json.RawMessage) bool {
	var in struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return false
	}
	return Kind(in.Action) == KindScreenshot
}

// Execute runs one tool invocation and reports its outcome. It never panics
// and never returns an error: validation failures, device faults, and even
// panics from the device layer are all folded into an error Outcome so the
// model sees them as ordinary data.
func (d *Dispatcher) Execute(ctx context.Context, raw json.RawMessage) (out Outcome) {
	action, err := Decode(raw)
	if err != nil {
		return ErrorOutcome(err.Error())
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Device surface panicked during action",
				zap.String("action", string(action.Kind())),
				zap.Any("panic", r),
			)
			out = ErrorOutcome(fmt.Sprintf("Action '%s' failed: %v", action.Kind(), r))
		}
	}()

	if err := d.validateBounds(action); err != nil {
		return ErrorOutcome(err.Error())
	}

	result, err := d.perform(ctx, action)
	if err != nil {
		return ErrorOutcome(fmt.Sprintf("Action '%s' failed: %s", action.Kind(), err.Error()))
	}
	return result
}

// validateBounds checks every coordinate an action carries against the
// display bounds. Runs before any device call.
func (d *Dispatcher) validateBounds(action Action) error {
	switch a := action.(type) {
	case Click:
		return d.checkPoint(a.At, "")
	case MouseMove:
		return d.checkPoint(a.At, "")
	case Scroll:
		return d.checkPoint(a.At, "")
	case Drag:
		if err := d.checkPoint(a.From, "Start "); err != nil {
			return err
		}
		return d.checkPoint(a.To, "End ")
	default:
		return nil
	}
}

func (d *Dispatcher) checkPoint(p Point, prefix string) error {
	if p.X < 0 || p.X >= d.width {
		return fmt.Errorf("%sX coordinate %d is outside display bounds (0-%d)", prefix, p.X, d.width-1)
	}
	if p.Y < 0 || p.Y >= d.height {
		return fmt.Errorf("%sY coordinate %d is outside display bounds (0-%d)", prefix, p.Y, d.height-1)
	}
	return nil
}

// perform invokes the device surface for a validated action. The switch is
// exhaustive over the Action variants.
func (d *Dispatcher) perform(ctx context.Context, action Action) (Outcome, error) {
	switch a := action.(type) {
	case Screenshot:
		data, mediaType, err := d.surface.Capture(ctx)
		if err != nil {
			return Outcome{}, err
		}
		return ImageOutcome(mediaType, data), nil

	case Click:
		if err := d.surface.Click(ctx, a.Button, a.Count, a.At.X, a.At.Y); err != nil {
			return Outcome{}, err
		}
		return TextOutcome(fmt.Sprintf("%s clicked at (%d, %d)", clickVerb(a.kind), a.At.X, a.At.Y)), nil

	case Drag:
		if err := d.surface.Drag(ctx, a.From.X, a.From.Y, a.To.X, a.To.Y, dragDuration); err != nil {
			return Outcome{}, err
		}
		return TextOutcome(fmt.Sprintf("Dragged from (%d, %d) to (%d, %d)", a.From.X, a.From.Y, a.To.X, a.To.Y)), nil

	case MouseMove:
		if err := d.surface.Move(ctx, a.At.X, a.At.Y); err != nil {
			return Outcome{}, err
		}
		return TextOutcome(fmt.Sprintf("Moved mouse to (%d, %d)", a.At.X, a.At.Y)), nil

	case TypeText:
		if err := d.surface.Type(ctx, a.Text); err != nil {
			return Outcome{}, err
		}
		return TextOutcome(fmt.Sprintf("Typed: %s", truncate(a.Text, 50))), nil

	case KeyPress:
		if err := d.surface.Press(ctx, a.Combo); err != nil {
			return Outcome{}, err
		}
		return TextOutcome(fmt.Sprintf("Pressed key: %s", a.Combo)), nil

	case Scroll:
		if err := d.surface.Scroll(ctx, a.At.X, a.At.Y, a.Direction, a.Amount); err != nil {
			return Outcome{}, err
		}
		return TextOutcome(fmt.Sprintf("Scrolled %s by %d at (%d, %d)", a.Direction, a.Amount, a.At.X, a.At.Y)), nil

	case Wait:
		if err := d.surface.Sleep(ctx, a.Duration); err != nil {
			return Outcome{}, err
		}
		return TextOutcome(fmt.Sprintf("Waited %g seconds", a.Duration.Seconds())), nil

	default:
		// Unreachable: Decode only produces the variants above.
		return Outcome{}, fmt.Errorf("unhandled action kind %q", action.Kind())
	}
}

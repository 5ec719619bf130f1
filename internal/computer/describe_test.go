// internal/computer/describe_test.go
package computer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	d, surface := newTestDispatcher(t)

	cases := []struct {
		name  string
		input map[string]any
		want  string
	}{
		{
			name:  "screenshot",
			input: map[string]any{"action": "screenshot"},
			want:  "Take a screenshot",
		},
		{
			name:  "left click",
			input: map[string]any{"action": "left_click", "coordinate": []int{100, 200}},
			want:  "Left click at (100, 200)",
		},
		{
			name:  "triple click",
			input: map[string]any{"action": "triple_click", "coordinate": []int{3, 4}},
			want:  "Triple click at (3, 4)",
		},
		{
			name:  "drag",
			input: map[string]any{"action": "left_click_drag", "start_coordinate": []int{1, 2}, "coordinate": []int{3, 4}},
			want:  "Drag from (1, 2) to (3, 4)",
		},
		{
			name:  "mouse move",
			input: map[string]any{"action": "mouse_move", "coordinate": []int{7, 8}},
			want:  "Move mouse to (7, 8)",
		},
		{
			name:  "type short",
			input: map[string]any{"action": "type", "text": "hello"},
			want:  "Type: 'hello'",
		},
		{
			name:  "type truncated to 30 runes",
			input: map[string]any{"action": "type", "text": strings.Repeat("x", 40)},
			want:  "Type: '" + strings.Repeat("x", 30) + "...'",
		},
		{
			name:  "key",
			input: map[string]any{"action": "key", "key": "ctrl+s"},
			want:  "Press key: ctrl+s",
		},
		{
			name:  "scroll with defaults",
			input: map[string]any{"action": "scroll", "coordinate": []int{1, 1}},
			want:  "Scroll down by 3",
		},
		{
			name:  "scroll explicit",
			input: map[string]any{"action": "scroll", "coordinate": []int{1, 1}, "scroll_direction": "up", "scroll_amount": 5},
			want:  "Scroll up by 5",
		},
		{
			name:  "wait default",
			input: map[string]any{"action": "wait"},
			want:  "Wait 1 seconds",
		},
		{
			name:  "wait explicit",
			input: map[string]any{"action": "wait", "duration": 2.5},
			want:  "Wait 2.5 seconds",
		},
		{
			name: "unknown action falls back to its name",
			// Describe must not fail even for actions Execute would reject.
			input: map[string]any{"action": "frobnicate"},
			want:  "frobnicate",
		},
		{
			name:  "click with missing coordinate still describes",
			input: map[string]any{"action": "left_click"},
			want:  "Left click at (0, 0)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := rawInput(t, tc.input)
			got := d.Describe(raw)
			assert.Equal(t, tc.want, got)
			// Deterministic: a second call yields the same description.
			assert.Equal(t, got, d.Describe(raw))
		})
	}

	assert.Empty(t, surface.calls, "Describe must never touch the device")
}

func TestDescribeMalformedInput(t *testing.T) {
	d, surface := newTestDispatcher(t)

	assert.Equal(t, "Unrecognized action", d.Describe(json.RawMessage(`{{`)))
	assert.Equal(t, "Unrecognized action", d.Describe(json.RawMessage(`{}`)))
	assert.Empty(t, surface.calls)
}

// File: internal/device/keymap.go
package device

import (
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp/kb"
)

// namedKeys maps friendly key names to the raw key strings the CDP key
// event layer understands. Single printable characters pass through as-is.
var namedKeys = map[string]string{
	"enter":     kb.Enter,
	"return":    kb.Enter,
	"tab":       kb.Tab,
	"escape":    kb.Escape,
	"esc":       kb.Escape,
	"backspace": kb.Backspace,
	"delete":    kb.Delete,
	"del":       kb.Delete,
	"space":     " ",
	"up":        kb.ArrowUp,
	"down":      kb.ArrowDown,
	"left":      kb.ArrowLeft,
	"right":     kb.ArrowRight,
	"home":      kb.Home,
	"end":       kb.End,
	"pageup":    kb.PageUp,
	"pagedown":  kb.PageDown,
}

// modifierKeys maps modifier names to the CDP modifier bitmask.
var modifierKeys = map[string]input.Modifier{
	"ctrl":    input.ModifierCtrl,
	"control": input.ModifierCtrl,
	"alt":     input.ModifierAlt,
	"option":  input.ModifierAlt,
	"opt":     input.ModifierAlt,
	"shift":   input.ModifierShift,
	"cmd":     input.ModifierMeta,
	"command": input.ModifierMeta,
	"meta":    input.ModifierMeta,
	"super":   input.ModifierMeta,
	"win":     input.ModifierMeta,
}

// parseCombo splits a "cmd+shift+t" style combo into a modifier bitmask and
// the final key to press. A combo consisting only of modifier names is
// rejected. When macKeymap is set, "ctrl" is treated as the command key.
func parseCombo(combo string, macKeymap bool) (input.Modifier, string, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(combo)), "+")

	var mods input.Modifier
	key := ""
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if macKeymap && (part == "ctrl" || part == "control") {
			part = "cmd"
		}
		if m, ok := modifierKeys[part]; ok {
			mods |= m
			continue
		}
		if key != "" {
			return 0, "", fmt.Errorf("key combo %q has more than one non-modifier key", combo)
		}
		if named, ok := namedKeys[part]; ok {
			key = named
		} else if len([]rune(part)) == 1 {
			key = part
		} else {
			return 0, "", fmt.Errorf("unknown key %q in combo %q", part, combo)
		}
	}
	if key == "" {
		return 0, "", fmt.Errorf("key combo %q has no key to press", combo)
	}
	return mods, key, nil
}

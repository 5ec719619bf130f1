// internal/device/keymap_test.go
package device

import (
	"testing"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp/kb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCombo(t *testing.T) {
	cases := []struct {
		name      string
		combo     string
		macKeymap bool
		wantMods  input.Modifier
		wantKey   string
	}{
		{name: "single letter", combo: "a", wantKey: "a"},
		{name: "named key", combo: "enter", wantKey: kb.Enter},
		{name: "named key alias", combo: "return", wantKey: kb.Enter},
		{name: "space", combo: "space", wantKey: " "},
		{name: "case insensitive", combo: "Enter", wantKey: kb.Enter},
		{name: "ctrl combo", combo: "ctrl+s", wantMods: input.ModifierCtrl, wantKey: "s"},
		{name: "multiple modifiers", combo: "ctrl+shift+t", wantMods: input.ModifierCtrl | input.ModifierShift, wantKey: "t"},
		{name: "cmd alias", combo: "command+c", wantMods: input.ModifierMeta, wantKey: "c"},
		{name: "padded parts", combo: " ctrl + s ", wantMods: input.ModifierCtrl, wantKey: "s"},
		{name: "mac keymap rewrites ctrl", combo: "ctrl+c", macKeymap: true, wantMods: input.ModifierMeta, wantKey: "c"},
		{name: "mac keymap rewrites control", combo: "control+a", macKeymap: true, wantMods: input.ModifierMeta, wantKey: "a"},
		{name: "mac keymap leaves others", combo: "alt+tab", macKeymap: true, wantMods: input.ModifierAlt, wantKey: kb.Tab},
		{name: "arrow key", combo: "down", wantKey: kb.ArrowDown},
		{name: "page key with modifier", combo: "shift+pagedown", wantMods: input.ModifierShift, wantKey: kb.PageDown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mods, key, err := parseCombo(tc.combo, tc.macKeymap)
			require.NoError(t, err)
			assert.Equal(t, tc.wantMods, mods)
			assert.Equal(t, tc.wantKey, key)
		})
	}
}

func TestParseComboErrors(t *testing.T) {
	cases := []struct {
		name  string
		combo string
	}{
		{"empty", ""},
		{"modifiers only", "ctrl+shift"},
		{"two keys", "a+b"},
		{"unknown key name", "ctrl+frobnicate"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := parseCombo(tc.combo, false)
			assert.Error(t, err)
		})
	}
}

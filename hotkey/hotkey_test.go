package hotkey

import "testing"

func TestParseHotkey(t *testing.T) {
	c, ok := parseHotkey("Ctrl+Alt+Q")
	if !ok {
		t.Fatal("Expected Ctrl+Alt+Q to parse")
	}
	if len(c.modifiers) != 2 {
		t.Errorf("Expected 2 modifier groups, got %d", len(c.modifiers))
	}
	if c.key != 'Q' {
		t.Errorf("Expected terminal key 'Q' (%d), got %d", 'Q', c.key)
	}
}

func TestParseHotkeyDigit(t *testing.T) {
	c, ok := parseHotkey("ctrl+shift+1")
	if !ok {
		t.Fatal("Expected ctrl+shift+1 to parse")
	}
	if c.key != '1' {
		t.Errorf("Expected terminal key '1', got %d", c.key)
	}
}

func TestParseHotkeyRejectsBadConfigs(t *testing.T) {
	for _, cfg := range []string{"", "Ctrl+Alt", "Ctrl+Q+W", "Ctrl+F13", "Ctrl+-"} {
		if _, ok := parseHotkey(cfg); ok {
			t.Errorf("Expected %q to be rejected", cfg)
		}
	}
}

func TestComboPressed(t *testing.T) {
	c, _ := parseHotkey("Ctrl+Alt+Q")

	down := map[uint16]bool{162: true, 164: true, 'Q': true}
	if !c.pressed(down) {
		t.Error("Expected combo to match with left modifiers held")
	}

	// Right-side modifiers count too.
	down = map[uint16]bool{163: true, 165: true, 'Q': true}
	if !c.pressed(down) {
		t.Error("Expected combo to match with right modifiers held")
	}

	down = map[uint16]bool{162: true, 'Q': true}
	if c.pressed(down) {
		t.Error("Combo must not match with a modifier missing")
	}

	down = map[uint16]bool{162: true, 164: true}
	if c.pressed(down) {
		t.Error("Combo must not match without the terminal key")
	}
}

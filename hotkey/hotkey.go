// Package hotkey registers a global key combination that triggers a
// capture run while the GUI shell is resident.
package hotkey

import (
	"strings"

	gohook "github.com/robotn/gohook"
	"github.com/rs/zerolog"
)

// Virtual-key rawcodes for modifier keys (left/right variants).
var modifierCodes = map[string][]uint16{
	"ctrl":  {162, 163},
	"alt":   {164, 165},
	"shift": {160, 161},
}

type combo struct {
	modifiers [][]uint16
	key       uint16
}

// Listen watches for the configured combination (e.g. "Ctrl+Alt+Q") and
// invokes fire on each press. It runs its own event-loop goroutine; fire
// must post into the caller's loop rather than do heavy work inline.
func Listen(hotkeyConfig string, logger zerolog.Logger, fire func()) {
	c, ok := parseHotkey(hotkeyConfig)
	if !ok {
		logger.Warn().Str("hotkey", hotkeyConfig).Msg("unusable hotkey configuration, global hotkey disabled")
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Interface("panic", r).Msg("hotkey listener crashed")
			}
		}()

		evChan := gohook.Start()
		if evChan == nil {
			logger.Error().Msg("could not start global key hook")
			return
		}
		defer gohook.End()

		down := map[uint16]bool{}
		for ev := range evChan {
			if ev.Kind != gohook.KeyDown && ev.Kind != gohook.KeyUp {
				continue
			}
			down[ev.Rawcode] = ev.Kind == gohook.KeyDown

			if ev.Kind == gohook.KeyDown && c.pressed(down) {
				logger.Debug().Str("hotkey", hotkeyConfig).Msg("hotkey activated")
				fire()
				// Require a full release before the next trigger.
				for code := range down {
					down[code] = false
				}
			}
		}
	}()
}

func (c combo) pressed(down map[uint16]bool) bool {
	for _, variants := range c.modifiers {
		any := false
		for _, code := range variants {
			if down[code] {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	return down[c.key]
}

// parseHotkey converts "Ctrl+Alt+Q" into modifier rawcode sets plus one
// terminal key. Exactly one non-modifier key is required.
func parseHotkey(hotkeyConfig string) (combo, bool) {
	var c combo
	haveKey := false

	for _, part := range strings.Split(strings.ToLower(hotkeyConfig), "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if codes, isMod := modifierCodes[part]; isMod {
			c.modifiers = append(c.modifiers, codes)
			continue
		}
		if len(part) != 1 || haveKey {
			return combo{}, false
		}
		ch := part[0]
		switch {
		case ch >= 'a' && ch <= 'z':
			c.key = uint16(ch - 'a' + 'A')
		case ch >= '0' && ch <= '9':
			c.key = uint16(ch)
		default:
			return combo{}, false
		}
		haveKey = true
	}

	return c, haveKey
}

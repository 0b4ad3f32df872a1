package main

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/viamrobotics/autodrive/input"
	"github.com/viamrobotics/autodrive/logging"
)

var keyControls = []input.Control{
	input.KeyUp, input.KeyDown, input.KeyLeft, input.KeyRight, input.KeyA, input.KeyM,
}

// keyFor maps a typed character to a key. Arrow keys arrive as ESC [ A..D.
func keyFor(r rune, escaped bool) (input.Control, bool) {
	if escaped {
		switch r {
		case 'A':
			return input.KeyUp, true
		case 'B':
			return input.KeyDown, true
		case 'C':
			return input.KeyRight, true
		case 'D':
			return input.KeyLeft, true
		}
		return "", false
	}
	switch r {
	case 'w', 'W':
		return input.KeyUp, true
	case 's', 'S':
		return input.KeyDown, true
	case 'j', 'J':
		return input.KeyLeft, true
	case 'l', 'L':
		return input.KeyRight, true
	case 'a', 'A':
		return input.KeyA, true
	case 'm', 'M':
		return input.KeyM, true
	}
	return "", false
}

// readKeys presses a key on controller for every recognized character read from r.
func readKeys(ctx context.Context, r io.Reader, controller input.Triggerable, logger logging.Logger) {
	reader := bufio.NewReader(r)
	var prev [2]rune
	for ctx.Err() == nil {
		ch, _, err := reader.ReadRune()
		if err != nil {
			if err != io.EOF {
				logger.Warnw("stopped reading keys", "error", err)
			}
			return
		}
		escaped := prev[0] == '\x1b' && prev[1] == '['
		prev[0], prev[1] = prev[1], ch
		if ch == '\x1b' || (ch == '[' && prev[0] == '\x1b') {
			continue
		}
		key, ok := keyFor(ch, escaped)
		if !ok {
			continue
		}
		if err := controller.TriggerEvent(ctx, input.Event{
			Time:    time.Now(),
			Event:   input.ButtonPress,
			Control: key,
			Value:   1,
		}); err != nil {
			logger.Warnw("cannot press key", "key", key, "error", err)
		}
	}
}

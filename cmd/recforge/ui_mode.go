package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode selects the progress view: always, never, or only when stderr is
// a terminal.
type uiMode uint8

const (
	uiModeOff uiMode = iota
	uiModeAuto
	uiModeOn
)

func (m uiMode) String() string {
	switch m {
	case uiModeAuto:
		return "auto"
	case uiModeOn:
		return "on"
	default:
		return "off"
	}
}

func readUIMode(value string) (uiMode, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, m := range []uiMode{uiModeOff, uiModeAuto, uiModeOn} {
		if v == m.String() {
			return m, nil
		}
	}
	if v == "" {
		return uiModeOff, nil
	}
	return uiModeOff, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI decides whether to draw the progress view. It draws on
// stderr so that fragments on stdout stay pipeable.
func shouldUseTUI(mode uiMode) bool {
	return mode == uiModeOn || (mode == uiModeAuto && isTerminal(os.Stderr))
}

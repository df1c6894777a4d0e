package qrgen

import (
	"fmt"
	"io"
	"strings"

	"github.com/mdp/qrterminal/v3"
	"rsc.io/qr"
)

// WriteTerminal prints payload as a half-block text-art QR symbol to w, for
// scanning straight off a terminal.
func WriteTerminal(w io.Writer, payload string, level Level) error {
	if strings.TrimSpace(payload) == "" {
		return fmt.Errorf("%w: payload is empty", ErrInvalidInput)
	}
	qrterminal.GenerateHalfBlock(payload, terminalLevel(level), w)
	return nil
}

// terminalLevel maps our Level onto the three levels qrterminal exposes;
// Q rounds up to H.
func terminalLevel(level Level) qr.Level {
	switch level {
	case LevelL:
		return qrterminal.L
	case LevelQ, LevelH:
		return qrterminal.H
	default:
		return qrterminal.M
	}
}

// Package ui holds the terminal styling helpers behind the CLI help
// colorizer.
package ui

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI 256-color codes for the three help-text styles.
const (
	accentColor  = 74  // section headers
	commandColor = 250 // command names
	mutedColor   = 245 // flag types and default values
)

// ShouldUseColor reports whether stdout should carry ANSI colors. It
// honors NO_COLOR, CLICOLOR_FORCE, and CLICOLOR before falling back to
// TTY detection.
func ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func render(color int, s string) string {
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, s)
}

// RenderAccent styles a help section header.
func RenderAccent(s string) string { return render(accentColor, s) }

// RenderCommand styles a command name.
func RenderCommand(s string) string { return render(commandColor, s) }

// RenderMuted styles secondary text such as flag type annotations.
func RenderMuted(s string) string { return render(mutedColor, s) }

package ui

import (
	"strings"
	"testing"
)

func TestShouldUseColor_EnvOverrides(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("CLICOLOR_FORCE", "1")
	if ShouldUseColor() {
		t.Error("NO_COLOR should win over CLICOLOR_FORCE")
	}

	t.Setenv("NO_COLOR", "")
	if !ShouldUseColor() {
		t.Error("CLICOLOR_FORCE=1 should enable color without a TTY")
	}

	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("CLICOLOR", "0")
	if ShouldUseColor() {
		t.Error("CLICOLOR=0 should disable color")
	}
}

func TestRenderWrapsAndResets(t *testing.T) {
	for name, fn := range map[string]func(string) string{
		"accent":  RenderAccent,
		"command": RenderCommand,
		"muted":   RenderMuted,
	} {
		got := fn("Flags:")
		if !strings.Contains(got, "Flags:") {
			t.Errorf("%s: output %q lost the input text", name, got)
		}
		if !strings.HasPrefix(got, "\x1b[38;5;") || !strings.HasSuffix(got, "\x1b[0m") {
			t.Errorf("%s: output %q is not a reset-terminated ANSI sequence", name, got)
		}
	}
}

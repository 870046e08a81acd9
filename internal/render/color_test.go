package render

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParseThemeAndColorMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Theme{"": ThemeAuto, "Light": ThemeLight, "dark": ThemeDark} {
		got, err := ParseTheme(in)
		if err != nil || got != want {
			t.Fatalf("ParseTheme(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseTheme("solarized"); err == nil {
		t.Fatal("ParseTheme(solarized) succeeded")
	}
	for in, want := range map[string]ColorMode{"": ColorAuto, "always": ColorAlways, "NEVER": ColorNever} {
		got, err := ParseColorMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseColorMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseColorMode("sometimes"); err == nil {
		t.Fatal("ParseColorMode(sometimes) succeeded")
	}
}

func TestThemeStyle(t *testing.T) {
	orig := detectDarkMode
	t.Cleanup(func() { detectDarkMode = orig })

	if got := ThemeLight.Style().Name; got != "github" {
		t.Fatalf("ThemeLight.Style() = %q", got)
	}
	if got := ThemeDark.Style().Name; got != "github-dark" {
		t.Fatalf("ThemeDark.Style() = %q", got)
	}

	detectDarkMode = func() (bool, error) { return true, nil }
	if got := ThemeAuto.Style().Name; got != "github-dark" {
		t.Fatalf("ThemeAuto.Style() in dark mode = %q", got)
	}
	detectDarkMode = func() (bool, error) { return false, errors.New("no desktop") }
	if got := ThemeAuto.Style().Name; got != "github" {
		t.Fatalf("ThemeAuto.Style() without detection = %q", got)
	}
}

func TestColorModeEnabled(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })
	t.Setenv("NO_COLOR", "")

	isTerminal = func(io.Writer) bool { return true }
	if !ColorAuto.Enabled(io.Discard) || !ColorAlways.Enabled(io.Discard) || ColorNever.Enabled(io.Discard) {
		t.Fatal("unexpected result on a terminal")
	}
	isTerminal = func(io.Writer) bool { return false }
	if ColorAuto.Enabled(io.Discard) || !ColorAlways.Enabled(io.Discard) {
		t.Fatal("unexpected result off a terminal")
	}

	isTerminal = func(io.Writer) bool { return true }
	t.Setenv("NO_COLOR", "1")
	if ColorAuto.Enabled(io.Discard) {
		t.Fatal("NO_COLOR ignored")
	}
}

func TestHighlighter(t *testing.T) {
	diff := "--- a/refs\n+++ b/refs\n@@ -1 +1 @@\n-old\n+new\n"
	var buf bytes.Buffer
	if err := NewHighlighter(ThemeDark).Write(&buf, diff); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("Write() produced no escape sequences: %q", got)
	}
	if !strings.Contains(got, "new") || !strings.Contains(got, "old") {
		t.Fatalf("Write() lost content: %q", got)
	}
}

package render

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	darkmode "github.com/thiagokokada/dark-mode-go"
	"golang.org/x/term"
)

type Theme int

const (
	ThemeAuto Theme = iota
	ThemeLight
	ThemeDark
)

func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "auto"
	}
}

func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ThemeAuto, nil
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	}
	return ThemeAuto, fmt.Errorf("unknown theme %q", s)
}

func (t Theme) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Theme) UnmarshalText(b []byte) error {
	parsed, err := ParseTheme(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode %q", s)
}

func (m ColorMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *ColorMode) UnmarshalText(b []byte) error {
	parsed, err := ParseColorMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

var (
	detectDarkMode = darkmode.IsDarkMode
	isTerminal     = func(w io.Writer) bool {
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
)

// Enabled reports whether output to w should be colored.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}

// Style returns the chroma style for t, asking the desktop for its
// preference when t is ThemeAuto.
func (t Theme) Style() *chroma.Style {
	name := "github"
	switch t {
	case ThemeDark:
		name = "github-dark"
	case ThemeAuto:
		if detectDarkMode != nil {
			dark, err := detectDarkMode()
			if err != nil {
				slog.Debug("detect dark-mode", slog.Any("error", err))
			} else if dark {
				name = "github-dark"
			}
		}
	}
	if st := styles.Get(name); st != nil {
		return st
	}
	return styles.Fallback
}

// Highlighter writes unified diffs with terminal colors.
type Highlighter struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
}

func NewHighlighter(theme Theme) *Highlighter {
	lexer := lexers.Get("diff")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return &Highlighter{
		lexer:     chroma.Coalesce(lexer),
		style:     theme.Style(),
		formatter: formatters.TTY256,
	}
}

func (h *Highlighter) Write(w io.Writer, diff string) error {
	iterator, err := h.lexer.Tokenise(nil, diff)
	if err != nil {
		return fmt.Errorf("tokenise diff: %w", err)
	}
	return h.formatter.Format(w, h.style, iterator)
}

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Color modes accepted by NewOutput.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ParseColor validates a color mode.
func ParseColor(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ColorAuto, "":
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// NewOutput wraps w in a termenv output. Auto detects the terminal and honors
// NO_COLOR; never produces plain text.
func NewOutput(w io.Writer, mode string) *termenv.Output {
	switch mode {
	case ColorNever:
		return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	case ColorAlways:
		return termenv.NewOutput(w, termenv.WithProfile(termenv.ANSI256))
	default:
		out := termenv.NewOutput(w)
		if out.EnvNoColor() {
			return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
		}
		return out
	}
}

type palette struct {
	out *termenv.Output
}

func (p palette) section(s string) string {
	return p.out.String(s).Bold().Foreground(p.out.Color("6")).String()
}

func (p palette) layer(s string) string {
	return p.out.String(s).Bold().Foreground(p.out.Color("3")).String()
}

func (p palette) device(s string) string {
	return p.out.String(s).Bold().String()
}

func (p palette) failure(s string) string {
	return p.out.String(s).Bold().Foreground(p.out.Color("1")).String()
}

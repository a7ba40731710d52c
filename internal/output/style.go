package output

import "fmt"

// Color represents ANSI color codes
type Color int

const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

// Style represents text styling options
type Style struct {
	FgColor   Color
	BgColor   Color
	Bold      bool
	Italic    bool
	Underline bool
}

// Styler applies ANSI styling to Console's status symbols and headers,
// or passes text through unchanged when color is disabled.
type Styler struct {
	enabled bool
}

// NewStyler creates a styler; enabled should come from Console's color
// detection, not be hardcoded true.
func NewStyler(enabled bool) *Styler {
	return &Styler{
		enabled: enabled,
	}
}

// Apply applies style to text
func (s *Styler) Apply(text string, style Style) string {
	if !s.enabled {
		return text
	}

	var codes []string

	// Foreground color
	if style.FgColor != ColorDefault {
		codes = append(codes, fmt.Sprintf("3%d", style.FgColor-1))
	}

	// Background color
	if style.BgColor != ColorDefault {
		codes = append(codes, fmt.Sprintf("4%d", style.BgColor-1))
	}

	// Text attributes
	if style.Bold {
		codes = append(codes, "1")
	}
	if style.Italic {
		codes = append(codes, "3")
	}
	if style.Underline {
		codes = append(codes, "4")
	}

	if len(codes) == 0 {
		return text
	}

	// Build ANSI escape sequence
	var codeStr string
	for i, code := range codes {
		if i > 0 {
			codeStr += ";"
		}
		codeStr += code
	}

	return fmt.Sprintf("\x1b[%sm%s\x1b[0m", codeStr, text)
}

// Red marks a failed copy or an unresolvable category.
func (s *Styler) Red(text string) string {
	return s.Apply(text, Style{FgColor: ColorRed})
}

// Green marks a completed VIN folder.
func (s *Styler) Green(text string) string {
	return s.Apply(text, Style{FgColor: ColorGreen})
}

// Yellow marks a folder rescued into _NO_VIN or a gap-fill notice.
func (s *Styler) Yellow(text string) string {
	return s.Apply(text, Style{FgColor: ColorYellow})
}

// Blue is available for future use; no current Console call site uses it.
func (s *Styler) Blue(text string) string {
	return s.Apply(text, Style{FgColor: ColorBlue})
}

// Bold highlights box and table titles/headers.
func (s *Styler) Bold(text string) string {
	return s.Apply(text, Style{Bold: true})
}

// Dim de-emphasizes secondary detail lines.
func (s *Styler) Dim(text string) string {
	if !s.enabled {
		return text
	}
	return fmt.Sprintf("\x1b[2m%s\x1b[0m", text)
}

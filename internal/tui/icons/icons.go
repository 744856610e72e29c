// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// detectNerdFonts checks if Nerd Fonts should be used
func detectNerdFonts() bool {
	// Explicit override via environment variable
	if env := os.Getenv("PAINEL_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	// Terminals that usually ship with a patched font
	nerdFontTerminals := []string{
		"iTerm.app",
		"alacritty",
		"WezTerm",
		"kitty",
		"ghostty",
	}

	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	if os.Getenv("NERD_FONTS") == "1" {
		return true
	}

	return false
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Icon definitions - Nerd Font codepoints with Unicode fallbacks
var (
	// Application
	App = Icon{"\U000F023B", "◈"} // nf-md-flag_checkered

	// People and teams
	User   = Icon{"\uF007", "●"}     // nf-fa-user
	Lock   = Icon{"\uF023", "⚿"}     // nf-fa-lock
	Logout = Icon{"\U000F0343", "⇥"} // nf-md-logout

	// Data
	Table  = Icon{"\U000F04EB", "▦"} // nf-md-table
	Report = Icon{"\U000F0219", "▤"} // nf-md-file_chart
	Search = Icon{"\uF002", "⌕"}     // nf-fa-search
	Insert = Icon{"\U000F0415", "+"} // nf-md-plus
	Upload = Icon{"\U000F0552", "↑"} // nf-md-upload

	// Status indicators
	CheckOK  = Icon{"\uF058", "✓"} // nf-fa-check_circle
	Warning  = Icon{"\uF071", "⚠"} // nf-fa-warning
	Critical = Icon{"\uF057", "✗"} // nf-fa-times_circle
	Info     = Icon{"\uF05A", "ℹ"} // nf-fa-info_circle

	// Actions
	Refresh = Icon{"\U000F0450", "↻"} // nf-md-refresh
)

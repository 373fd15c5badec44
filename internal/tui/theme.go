package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	darkmode "github.com/thiagokokada/dark-mode-go"
)

type ThemePreference int

const (
	ThemeAuto ThemePreference = iota
	ThemeLight
	ThemeDark
)

func (p ThemePreference) String() string {
	switch p {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "auto"
	}
}

func ThemePreferenceFromString(raw string) ThemePreference {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ThemeDark.String():
		return ThemeDark
	case ThemeLight.String():
		return ThemeLight
	default:
		return ThemeAuto
	}
}

type colorPalette struct {
	dark bool

	Background tcell.Color
	Foreground tcell.Color
	Border     tcell.Color
	Title      tcell.Color
	Dim        tcell.Color

	DiffAdd     tcell.Color
	DiffDel     tcell.Color
	DiffHeader  tcell.Color
	TreeMarker  tcell.Color
	HeaderText  tcell.Color
	StatusText  tcell.Color
	MenuCursor  tcell.Color
	ChromaStyle string
}

func (p colorPalette) isDark() bool { return p.dark }

var (
	lightPalette = colorPalette{
		dark:        false,
		Background:  tcell.ColorWhite,
		Foreground:  tcell.ColorBlack,
		Border:      tcell.ColorGray,
		Title:       tcell.ColorDarkCyan,
		Dim:         tcell.ColorDarkGray,
		DiffAdd:     tcell.ColorDarkGreen,
		DiffDel:     tcell.ColorDarkRed,
		DiffHeader:  tcell.ColorDarkMagenta,
		TreeMarker:  tcell.ColorDarkCyan,
		HeaderText:  tcell.ColorDarkBlue,
		StatusText:  tcell.ColorBlack,
		MenuCursor:  tcell.ColorDarkCyan,
		ChromaStyle: "github",
	}
	darkPalette = colorPalette{
		dark:        true,
		Background:  tcell.ColorBlack,
		Foreground:  tcell.ColorWhite,
		Border:      tcell.ColorGray,
		Title:       tcell.ColorAqua,
		Dim:         tcell.ColorDarkGray,
		DiffAdd:     tcell.ColorGreen,
		DiffDel:     tcell.ColorRed,
		DiffHeader:  tcell.ColorFuchsia,
		TreeMarker:  tcell.ColorAqua,
		HeaderText:  tcell.ColorYellow,
		StatusText:  tcell.ColorWhite,
		MenuCursor:  tcell.ColorAqua,
		ChromaStyle: "github-dark",
	}
	detectDarkMode = darkmode.IsDarkMode
)

func paletteForPreference(pref ThemePreference) colorPalette {
	switch pref {
	case ThemeLight:
		return lightPalette
	case ThemeDark:
		return darkPalette
	default:
		dark, err := detectDarkMode()
		if err != nil || dark {
			// Terminals default dark; prefer it when detection fails.
			return darkPalette
		}
		return lightPalette
	}
}

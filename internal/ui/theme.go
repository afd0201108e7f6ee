package ui

import "github.com/gdamore/tcell/v2"

// Theme defines the color tokens used across widgets and text markup.
type Theme struct {
	Bg          tcell.Color
	Border      tcell.Color
	FocusBorder tcell.Color
	TextPrimary tcell.Color
	TextMuted   tcell.Color
	Accent      tcell.Color
	Error       tcell.Color

	TableHeader   tcell.Color
	TableHeaderBg tcell.Color
	FlaggedBg     tcell.Color
	FlaggedFg     tcell.Color

	// Text tag colors for tview dynamic color markup
	TagMuted   string
	TagAccent  string
	TagSuccess string
	TagWarning string
	TagError   string
}

func hex(s string) tcell.Color { return tcell.GetColor(s) }

func themeDark() Theme {
	return Theme{
		Bg:          hex("#0e1116"),
		Border:      hex("#2b3240"),
		FocusBorder: hex("#4aa8ff"),
		TextPrimary: hex("#e6edf3"),
		TextMuted:   hex("#8a939f"),
		Accent:      hex("#2dd4bf"),
		Error:       hex("#ef4444"),

		TableHeader:   hex("#eab308"),
		TableHeaderBg: hex("#1a2332"),
		FlaggedBg:     hex("#3a3200"),
		FlaggedFg:     hex("#ffd75f"),

		TagMuted:   "#8a939f",
		TagAccent:  "#2dd4bf",
		TagSuccess: "#22c55e",
		TagWarning: "#f59e0b",
		TagError:   "#ef4444",
	}
}

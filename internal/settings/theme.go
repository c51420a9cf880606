package settings

// Palette colors applied when the dark mode switch flips.
const (
	DarkBackground  = "hsl(222 47% 11%)"
	DarkText        = "hsl(210 40% 98%)"
	LightBackground = "hsl(0 0% 100%)"
	LightText       = "hsl(224 71% 4%)"
)

// ApplyThemeMode sets isDarkMode and resets background and text color to the matching palette.
func ApplyThemeMode(theme Values, dark bool) {
	theme["isDarkMode"] = Bool(dark)

	if dark {
		theme["backgroundColor"] = Color(DarkBackground)
		theme["textColor"] = Color(DarkText)

		return
	}

	theme["backgroundColor"] = Color(LightBackground)
	theme["textColor"] = Color(LightText)
}

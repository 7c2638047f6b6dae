package mood

// Theme is the visual styling derived from a mood. The palette is inverse: a
// distressed mood gets a calming, contrasting gradient.
type Theme struct {
	Mood       Tag    `json:"mood"`
	Background string `json:"background"`
	TextColor  string `json:"textColor"`
	Tint       string `json:"tint"`
}

// neutralChrome is the accent used for sidebar chrome while the theme is neutral.
const neutralChrome = "#D8CCF1"

var themes = map[Tag]Theme{
	Sad: {
		Background: "linear-gradient(to bottom, #A5D6A7, #E8F5E9)",
		TextColor:  "#1B5E20",
		Tint:       "#A2C8A3",
	},
	Angry: {
		Background: "linear-gradient(to bottom, #64B5F6, #E3F2FD)",
		TextColor:  "#0D47A1",
		Tint:       "#90B2E3",
	},
	Anxious: {
		Background: "linear-gradient(to bottom, #FFF176, #FFFDE7)",
		TextColor:  "#F57F17",
		Tint:       "#FBBF80",
	},
	Stressed: {
		Background: "linear-gradient(to bottom, #CE93D8, #F3E5F5)",
		TextColor:  "#4A148C",
		Tint:       "#B280CC",
	},
	Depressed: {
		Background: "linear-gradient(to bottom, #B0BEC5, #FFFFFF)",
		TextColor:  "#37474F",
		Tint:       "#90A4AE",
	},
	Neutral: {
		Background: "linear-gradient(to bottom, #FFFFFF, #FFFFFF)",
		TextColor:  "#000000",
		Tint:       "#FFFFFF",
	},
	Happy: {
		Background: "linear-gradient(to bottom, #4DD0E1, #E0F7FA)",
		TextColor:  "#006064",
		Tint:       "#4DB6AC",
	},
	Relieved: {
		Background: "linear-gradient(to bottom, #AED581, #F1F8E9)",
		TextColor:  "#33691E",
		Tint:       "#A5D6A7",
	},
	Tired: {
		Background: "linear-gradient(to bottom, #FFB74D, #FFF3E0)",
		TextColor:  "#E65100",
		Tint:       "#FFB380",
	},
	Lonely: {
		Background: "linear-gradient(to bottom, #4FC3F7, #E1F5FE)",
		TextColor:  "#01579B",
		Tint:       "#64B5F6",
	},
}

// ResolveTheme returns the theme of t, falling back to the neutral theme.
func ResolveTheme(t Tag) Theme {
	theme, ok := themes[t]
	if !ok {
		t = Neutral
		theme = themes[Neutral]
	}
	theme.Mood = t
	return theme
}

// Themes returns the whole table in canonical tag order.
func Themes() []Theme {
	out := make([]Theme, 0, len(allTags))
	for _, t := range allTags {
		out = append(out, ResolveTheme(t))
	}
	return out
}

// IsNeutral reports whether the theme is the neutral one.
func (t Theme) IsNeutral() bool {
	return t.TextColor == themes[Neutral].TextColor
}

// Accent is the color used for sidebar and input chrome.
func (t Theme) Accent() string {
	if t.IsNeutral() {
		return neutralChrome
	}
	return t.Tint
}

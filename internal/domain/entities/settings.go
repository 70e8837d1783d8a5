package entities

const (
	DefaultReciterID = "ar.alafasy"
	DefaultFontSize  = 28
	MinFontSize      = 20
	MaxFontSize      = 48
	FontSizeStep     = 2
)

// Settings stores the reader preferences of a user.
type Settings struct {
	ReciterID          string `json:"reciterId"`          // audio edition identifier, e.g. "ar.alafasy"
	FontSize           int    `json:"fontSize"`           // verse font size in px, [20, 48]
	IsDarkMode         bool   `json:"isDarkMode"`         // dark theme flag
	HasSeenPrayerModal bool   `json:"hasSeenPrayerModal"` // onboarding message was shown
}

// DefaultSettings returns settings with default values.
func DefaultSettings() Settings {
	return Settings{
		ReciterID: DefaultReciterID,
		FontSize:  DefaultFontSize,
	}
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	ReciterID          *string
	FontSize           *int
	IsDarkMode         *bool
	HasSeenPrayerModal *bool
}

// Apply returns a copy of s with the patch applied and normalized.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.ReciterID != nil {
		s.ReciterID = *p.ReciterID
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.IsDarkMode != nil {
		s.IsDarkMode = *p.IsDarkMode
	}
	if p.HasSeenPrayerModal != nil {
		s.HasSeenPrayerModal = *p.HasSeenPrayerModal
	}
	return s.Normalize()
}

// Normalize clamps the font size and fills an empty reciter with the default one.
func (s Settings) Normalize() Settings {
	s.FontSize = ClampFontSize(s.FontSize)
	if s.ReciterID == "" {
		s.ReciterID = DefaultReciterID
	}
	return s
}

// ClampFontSize restricts size to [MinFontSize, MaxFontSize].
func ClampFontSize(size int) int {
	return min(max(size, MinFontSize), MaxFontSize)
}

package preference

// Theme values understood by the dashboard.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Preferences is a free-form settings document for one actor
type Preferences map[string]any

// Default returns the preferences used when an actor has none stored.
func Default() Preferences {
	return Preferences{"theme": ThemeSystem}
}

// Theme returns the theme setting, or ThemeSystem when unset.
func (p Preferences) Theme() string {
	if theme, ok := p["theme"].(string); ok && theme != "" {
		return theme
	}
	return ThemeSystem
}

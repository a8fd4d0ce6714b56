package model

// Profile is the single user profile row (fixed id = 1).
type Profile struct {
	Name   string
	Email  string
	Avatar string
	Bio    string
}

// Setting is one key/value configuration entry with upsert semantics.
type Setting struct {
	Key         string
	Value       string
	Description string
}

// Well-known setting keys.
const (
	SettingTheme       = "theme"
	SettingColorScheme = "colorScheme"
	SettingCurrency    = "currency"
	SettingDateFormat  = "date_format"
	SettingFirstRun    = "first_run"
)

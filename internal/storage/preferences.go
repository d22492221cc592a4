package storage

// Preferences is the flat settings record of the preferences bucket.
type Preferences struct {
	DarkMode             bool   `json:"dark_mode"`
	SortBy               string `json:"sort_by"`
	FilterCategory       string `json:"filter_category"`
	DefaultCurrency      string `json:"default_currency"`
	NotificationsEnabled *bool  `json:"notifications_enabled,omitempty"`
}

func DefaultPreferences() Preferences {
	on := true
	return Preferences{
		SortBy:               "price-low",
		FilterCategory:       "all",
		DefaultCurrency:      "EUR",
		NotificationsEnabled: &on,
	}
}

// Notifications reports the effective notification setting.
func (p Preferences) Notifications() bool {
	return p.NotificationsEnabled == nil || *p.NotificationsEnabled
}

func (p Preferences) withDefaults() Preferences {
	d := DefaultPreferences()
	if p.SortBy == "" {
		p.SortBy = d.SortBy
	}
	if p.FilterCategory == "" {
		p.FilterCategory = d.FilterCategory
	}
	if p.DefaultCurrency == "" {
		p.DefaultCurrency = d.DefaultCurrency
	}
	if p.NotificationsEnabled == nil {
		p.NotificationsEnabled = d.NotificationsEnabled
	}
	return p
}

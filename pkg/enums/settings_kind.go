package enums

import "fmt"

// SettingsKind names one of the singleton settings rows.
type SettingsKind string

const (
	SettingsKindSite    SettingsKind = "site"
	SettingsKindAbout   SettingsKind = "about"
	SettingsKindContact SettingsKind = "contact"
	SettingsKindFooter  SettingsKind = "footer"
	SettingsKindCTA     SettingsKind = "cta"
)

var validSettingsKinds = []SettingsKind{
	SettingsKindSite,
	SettingsKindAbout,
	SettingsKindContact,
	SettingsKindFooter,
	SettingsKindCTA,
}

func (k SettingsKind) String() string {
	return string(k)
}

func (k SettingsKind) IsValid() bool {
	for _, candidate := range validSettingsKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseSettingsKind converts raw input into a SettingsKind.
func ParseSettingsKind(value string) (SettingsKind, error) {
	for _, candidate := range validSettingsKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid settings kind %q", value)
}
